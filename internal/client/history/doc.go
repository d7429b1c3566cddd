// Package history keeps the user's gift exchange lists.
//
// # Overview
//
// The whole history is one JSON document stored under a single key of a
// metadata.Repository (by default "matchesHistory"). It maps list id to
// list; ids never change, so renaming a list is a plain update of its title.
// Titles are unique across the history, except that a list may always keep
// its own title.
//
// # Failure semantics
//
// Reading never fails: a missing, unreadable or malformed document is logged
// and treated as an empty history. Writes that fail are returned wrapped in
// common.ErrStorageUnavailable so the caller can warn that changes were not
// saved and carry on with the in-memory list.
//
// # Legacy documents
//
// Older documents keyed lists by title, or stored a plain array. Both are
// accepted on read; lists without an id get one, and the next write stores
// the id-keyed form.
//
// Every read-modify-write goes through Repository.Update, so it is a single
// transaction on the backing store.
package history
