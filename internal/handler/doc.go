// Package handler implements the HTTP surface of flowdesk.
//
// The router serves the editor page, the websocket each page talks over,
// and a small JSON API for saved snapshots.
//
// # Routes
//
//	GET    /                       editor page (70/30 split with the control panel)
//	GET    /ws, /ws/{session}      websocket for one page session
//	GET    /api/templates          node template catalog
//	GET    /api/snapshots          snapshot summaries, newest first
//	GET    /api/snapshots/{id}     one snapshot; ?format=json|yaml|dot|svg
//	DELETE /api/snapshots/{id}     remove a snapshot
//	GET    /metrics                Prometheus metrics
//	GET    /health                 liveness
//	GET    /drawflow_src/*         widget bundles from the assets directory
//	GET    /static/*               embedded page scripts and styles
//
// # Response Format
//
// Error responses return JSON with {error, details} structure.
//
// # Page Events
//
// Events turns UI events arriving on a session into panel actions against
// that session's editor. The page sends "ready" once the widget is mounted,
// which loads the initial document. Reloader pushes a changed initial
// document file to every open page.
package handler
