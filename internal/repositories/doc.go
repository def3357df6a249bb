// Package repositories implements persistence for user list entries.
//
// Three backends implement [models.ListStore] and are selected by the database.driver setting through [Open]:
//   - [UserListRepository] : SQLite user_lists table, schema managed by embedded migrations
//   - [BoltListRepository] : bbolt file with one nested bucket per user
//   - [MemoryListRepository] : in-process slice, used by tests and throwaway runs
//
// Every backend returns entries in insertion order. SQLite orders by a sequence column fed by [NextSequence],
// bbolt orders by big-endian bucket sequence keys and the memory store by slice position.
//
// Uniqueness of (user_id, content_id, content_type) is not enforced; Delete removes every matching row.
package repositories
