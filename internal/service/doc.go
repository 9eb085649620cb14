// Package service implements business logic for flowdesk.
//
// This package coordinates between the editor sessions, the HTTP handlers
// and the snapshot repository.
//
// # Services
//
// DocumentService owns the document a new editor page starts with. It reads
// the configured initial document file (JSON or YAML), rereads it when the
// file watcher reports a change, and optionally prefers the latest stored
// snapshot.
//
// SnapshotService stores every document exported from an editor page,
// prunes old snapshots, and serves them to the snapshot API.
//
// # Event System
//
// Panels and services publish events via EventBus. The snapshot service,
// the metrics collector and the activity logger subscribe to it. Slow
// subscribers miss events rather than block publishers.
package service
