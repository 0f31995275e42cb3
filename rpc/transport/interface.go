package transport

import (
	"errors"

	"github.com/ValentinKolb/dTable/rpc/common"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests
// This function is called by a server transport layer when a request is received
// It takes the action and its parameters and returns the response envelope.
// req is never nil.
type ServerHandleFunc func(action common.Action, req *common.Request) *common.Response

// IRPCServerTransport is the interface for the RPC transport layer
// It must accept a ServerConfig as a parameter
type IRPCServerTransport interface {
	// RegisterHandler registers a handler for the transport layer
	// This handler should be called when a request is received
	RegisterHandler(handler ServerHandleFunc)
	// Listen starts the transport layer and listens for incoming requests.
	// It blocks until the listener fails or is closed.
	Listen(config common.ServerConfig) error
	// Close stops the listener
	Close() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the RPC client transport
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send sends a request to the server and returns the response envelope.
	// Error envelopes are returned as responses, err is only set when the
	// server could not be reached or answered garbage. Failed attempts are
	// repeated only as far as CanRetry allows.
	Send(action common.Action, req *common.Request) (resp *common.Response, err error)
	// Close closes the transport connection
	Close() error
}

// ErrNotSent marks a failure that happened before the request left the client
// (dial failure, no usable connection). The server cannot have seen it.
var ErrNotSent = errors.New("request not sent")

// CanRetry reports whether a failed attempt may be sent again. Reads are
// always repeated, mutations only when they never reached a server.
func CanRetry(action common.Action, err error) bool {
	return !action.IsMutation() || errors.Is(err, ErrNotSent)
}
