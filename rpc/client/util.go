package client

import (
	"fmt"

	"github.com/ValentinKolb/dTable/rpc/common"
	"github.com/ValentinKolb/dTable/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("client")
)

// rpcClientAdapter stores all data needed by the RPC clients
type rpcClientAdapter struct {
	config    common.ClientConfig
	transport transport.IRPCClientTransport
}

// invokeRPCRequest is a helper function used for all RPC Clients to send requests.
// It sends the action over the transport and decodes the data of the response
// into out (if out is not nil). Error envelopes are returned as *table.Error
// with the code the server reported.
func invokeRPCRequest(t transport.IRPCClientTransport, action common.Action, req *common.Request, out any) error {
	resp, err := t.Send(action, req)
	if err != nil {
		return fmt.Errorf("rpc %s failed: %w", action, err)
	}
	if err := resp.Err(); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := resp.Decode(out); err != nil {
		return fmt.Errorf("rpc %s: invalid response data: %w", action, err)
	}
	return nil
}
