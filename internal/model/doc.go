// Package model defines the data structures used throughout journal.
//
// # Entry
//
// An [Entry] is one reflection. Entries come from exactly one [Source]:
//
//   - [SourceLocal]: created through this app, id is the creation time in
//     Unix milliseconds, deletable.
//   - [SourceRemote]: read from a remote endpoint, id is [RemoteIDOffset]
//     plus the record's position, read-only.
//
// Remote records arrive as [RemoteRecord] and become entries only through
// [RemoteRecord.ToEntry], which applies all defaults.
//
// # Errors
//
// [TransportError], [ValidationError], [PersistenceReadError] and
// [ErrNotificationUnavailable] form the error taxonomy shared by the store,
// remote source, form controller and notifier.
package model
