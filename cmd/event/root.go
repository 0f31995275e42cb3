package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ValentinKolb/dTable/cmd/util"
	"github.com/ValentinKolb/dTable/rpc/client"
	"github.com/ValentinKolb/dTable/rpc/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EventCmd publishes a single event on the event surface of a server
var EventCmd = &cobra.Command{
	Use:   "event [createTable|createColumn|createRow|getTable] [json]",
	Short: "Publish an event to the websocket event surface",
	Long: `Publish an event to the websocket event surface.

Mutating events are fire-and-forget, the server does not answer them.
getTable waits for the reconstructed table and prints it.

Example:
  dtable event createColumn '{"tableId": 1, "columnName": "name"}'`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, _ []string) error { return util.BindCommandFlags(cmd) },
	RunE:    run,
}

func init() {
	cobra.OnInitialize(util.InitConfig)

	key := "events-endpoint"
	EventCmd.Flags().String(key, "localhost:8081", util.WrapString("The address of the event endpoint (host:port or ws:// URL)"))
	key = "timeout"
	EventCmd.Flags().Int(key, 10, util.WrapString("The timeout in seconds of the connection"))
}

func run(_ *cobra.Command, args []string) error {
	action := common.Action(args[0])
	if !action.IsEventAction() {
		return fmt.Errorf("unknown event %s (supported: createTable, createColumn, createRow, getTable)", action)
	}

	req := common.NewRequest()
	if len(args) == 2 {
		if err := json.Unmarshal([]byte(args[1]), req); err != nil {
			return fmt.Errorf("event data must be a JSON object: %v", err)
		}
	}

	publisher, err := client.NewEventPublisher(
		viper.GetString("events-endpoint"),
		time.Duration(viper.GetInt("timeout"))*time.Second,
	)
	if err != nil {
		return err
	}
	defer publisher.Close()

	if action == common.ActionGetTable {
		if req.TableID == nil {
			return fmt.Errorf("getTable requires a tableId")
		}
		view, err := publisher.GetTable(*req.TableID)
		if err != nil {
			return err
		}
		return util.PrintJSON(view)
	}

	if err := publisher.Publish(action, req); err != nil {
		return err
	}
	fmt.Printf("Published %s\n", action)
	return nil
}
