package tables

import (
	"github.com/ValentinKolb/dTable/cmd/util"
	"github.com/ValentinKolb/dTable/lib/engine"
	"github.com/ValentinKolb/dTable/rpc/client"
	"github.com/spf13/cobra"
)

var (
	rpcEngine engine.ITableEngine

	// TableCommands represents the table command group
	TableCommands = &cobra.Command{
		Use:               "table",
		Short:             "Create and read tables",
		PersistentPreRunE: setupClient,
	}

	// ColumnCommands represents the column command group
	ColumnCommands = &cobra.Command{
		Use:               "column",
		Short:             "Add, rename and delete columns",
		PersistentPreRunE: setupClient,
	}

	// RowCommands represents the row command group
	RowCommands = &cobra.Command{
		Use:               "row",
		Short:             "Add, update and delete rows and single values",
		PersistentPreRunE: setupClient,
	}

	// PerfCmd runs a load test against a server
	PerfCmd = &cobra.Command{
		Use:               "perf",
		Short:             "Performance testing tool for dTable servers",
		PersistentPreRunE: setupPerf,
		RunE:              runPerf,
	}
)

func init() {
	cobra.OnInitialize(util.InitConfig)

	for _, c := range []*cobra.Command{TableCommands, ColumnCommands, RowCommands, PerfCmd} {
		util.SetupRPCClientFlags(c)
	}

	TableCommands.AddCommand(createTableCmd, getTableCmd)
	ColumnCommands.AddCommand(addColumnCmd, renameColumnCmd, deleteColumnCmd)
	RowCommands.AddCommand(addRowCmd, updateRowCmd, deleteRowCmd, deleteValueCmd)
}

// setupClient initializes the RPC engine client
func setupClient(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	t, err := util.GetTransport()
	if err != nil {
		return err
	}

	rpcEngine, err = client.NewRPCTableEngine(*util.GetClientConfig(), t)
	return err
}
