// Package transport defines the interfaces and abstractions for RPC communication
// with a dTable server. It provides a common contract that all transport
// implementations must fulfill, enabling protocol-agnostic communication.
//
// Every transport moves the same two things: an action with its request
// parameters (common.Request) towards the server and a response envelope
// (common.Response) back.
//
// Key Components:
//
//   - IRPCClientTransport: Interface for client-side transport implementations that
//     handles connection management and request sending.
//
//   - IRPCServerTransport: Interface for server-side transport implementations that
//     receives requests and passes them to the registered handler.
//
//   - ServerHandleFunc: Function type for request handling callbacks.
//
// Implementations: http (the REST surface), ws (the event surface, server only)
// and the framed socket transports tcp and unix built on base.
package transport
