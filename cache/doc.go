// Package cache provides a BadgerDB-backed TTL cache that decorates a
// mapping.TermLookup. The terminology lookup is the one network hop on the
// mapping path that answers identical queries identically, so results are
// keyed by a content hash of the normalized query and served locally until
// they expire.
//
// Cache failures never fail a mapping call: a read error is a miss and a
// write error is logged and dropped.
package cache
