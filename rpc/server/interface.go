package server

import (
	"github.com/ValentinKolb/dTable/lib/engine"
	"github.com/ValentinKolb/dTable/rpc/common"
)

// IRPCServerAdapter is the interface for all RPC server adapters
// It is responsible for handling requests and responses
type IRPCServerAdapter interface {
	// Handle handles a request and returns a response
	// It takes the action, its parameters and the engine as parameters.
	// Failures are reported in the response envelope, never as a Go error.
	Handle(action common.Action, req *common.Request, engine engine.ITableEngine) (resp *common.Response)
}
