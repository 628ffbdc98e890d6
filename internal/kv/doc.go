// Package kv provides the persistent key-value layer under the local entry store.
//
// The [Store] interface is deliberately small: the local store keeps its whole
// entry list under a single key and rewrites it on every mutation, so all it
// needs is Get and an atomic read-modify-write ([Store.Update]).
//
// Backends:
//   - [Bolt]: go.etcd.io/bbolt, the default, one file under the app directory
//   - [SQL] with SQLite: modernc.org/sqlite, pure Go
//   - [SQL] with PostgreSQL: github.com/lib/pq, for a shared server deployment
//   - [Memory]: process-local, used in tests
//
// Use [Open] to select a backend from configuration.
package kv
