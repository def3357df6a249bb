// Package models defines the domain entities and the storage port for the personal list service.
//
// A [ListEntry] is one piece of content saved by one user. Entries are identified by their
// natural key, an [EntryKey] of (user, content, content type), and also carry a surrogate
// ID and an insertion sequence assigned by the store. The key is not unique: saving the
// same content twice produces two entries.
//
// [ListStore] is the persistence interface every backend implements. It mirrors the three
// operations the HTTP surface needs:
//   - Insert one entry and return the inserted rows
//   - Select one page of a user's entries together with the total count
//   - Delete every entry matching a key and return the deleted rows
//
// Implementations live in internal/repositories.
package models
