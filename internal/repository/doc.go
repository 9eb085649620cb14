// Package repository defines the data access interface for flowdesk.
//
// Every document exported from an editor page is kept as a snapshot so it
// can be listed, downloaded in another format, or used as the starting
// document of a new page. The implementation lives in the sqlite
// subpackage.
//
// # SQLite Implementation
//
// The sqlite repository uses the pure Go modernc.org/sqlite driver in WAL
// mode. Documents are stored as JSON next to indexed columns for listing
// (creation time, node count, session). The schema is created on startup.
//
// # Testing
//
// The sqlite repository is tested against in-memory databases.
package repository
