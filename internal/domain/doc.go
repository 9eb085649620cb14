// Package domain defines the graph document exchanged with the embedded flow editor.
//
// The document mirrors the Drawflow export format: a root keyed by module name, each
// module holding a map of node key to node. The host never edits a document in place;
// it only reads documents out of the editor, validates documents before they are sent
// in, and names the node templates the editor knows how to instantiate.
//
// # Core Types
//
// Document is the root container. A "Home" module is always required.
//
// Node carries an id, a display name, template-owned custom data, a CSS class, the
// render kind and the input/output ports with their connections.
//
// Connection is directed: output port to input port.
//
// # Templates
//
// Template is a closed catalog of node presets. Display names map to template ids
// through a fixed bidirectional table, never through free-form lookups.
//
// # Validation
//
// Document.Validate and NodeParams.Validate return errors wrapping ErrMalformedDocument
// and ErrInvalidParams respectively.
package domain
