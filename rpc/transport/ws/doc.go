// Package ws implements the asynchronous event surface of a dTable server on
// top of gorilla/websocket.
//
// Clients connect to GET /events on the events endpoint and send frames of the
// form {"action": ..., "data": {...}}. The accepted actions are createTable,
// createColumn, createRow and getTable. Frames of one connection are handled
// one after another in arrival order.
//
// Mutating actions are fire-and-forget: they run against the engine and their
// outcome is only logged, nothing is written back. getTable writes the
// response envelope back on the connection. Malformed frames and unknown
// actions are logged and dropped, the connection stays open.
package ws
