// Package store implements the local entry store.
//
// All entries live as one JSON array under a single key of a [kv.Store]. Every
// mutation rewrites the whole array inside one kv update, so two mutations in
// the same process never interleave. Writers in different processes are not
// coordinated; the last write wins.
//
// Reads never fail: absent or unreadable data yields an empty list and the
// problem is logged as a [model.PersistenceReadError].
package store
