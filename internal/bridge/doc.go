// Package bridge is the only channel between host logic and the flow editor
// widget running in the browser.
//
// Widget implements Editor on top of a Transport that invokes widget methods
// by name with positional arguments. Reads (exportData, autoLayoutNodes,
// importData) are request/response and wait for the widget; pure commands
// (addTemplateNode, zoom, clearEditor) are one-way messages with no
// acknowledgement.
//
// Request/response calls are bounded by Options.CallTimeout. A call that times
// out fails with ErrRendering, except exportData which reports
// ErrEmptyOrUnavailable like every other export failure.
package bridge
