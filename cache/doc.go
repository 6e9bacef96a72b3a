// Package cache stores encoded track payload bodies per time range.
//
// Entries are keyed at minute granularity by Key and hold only the encoded
// body; the time-range prefix is attached per request. FileStore keeps one
// file per range, so cached periods survive restarts and can be listed.
// BadgerStore keeps entries in an embedded key/value store. LRU puts a
// bounded in-memory front before either.
package cache
