// Package lexicon holds the static controlled-vocabulary tables used by the
// term matcher: an exact-synonym table mapping abbreviations and common
// shorthand to a single canonical MeSH concept, a lay-term table mapping
// colloquial patient phrases to ordered candidate concept lists, and the
// stop-word set used by the residual extractor.
//
// All tables are embedded in the binary, parsed once at first use, and
// immutable afterwards, so they are safe to share across concurrent mapping
// calls without synchronization.
package lexicon
