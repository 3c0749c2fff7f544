// Package mapping turns a free-text medical question into ranked
// controlled-vocabulary concept matches.
//
// A Mapper runs four stages in a fixed order: the optional external concept
// matcher, the synonym table scan, the lay-term table scan, and — only when
// fewer than three candidates accumulated — the external terminology lookup.
// The raw candidate pool is then deduplicated, filtered by a confidence
// floor, and ranked. Residual tokens the stages did not capture are surfaced
// for diagnostics.
//
// The mapper is total: upstream service failures are logged and treated as
// empty contributions, never surfaced to the caller.
package mapping
