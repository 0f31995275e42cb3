package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/dTable/cmd/event"
	"github.com/ValentinKolb/dTable/cmd/serve"
	"github.com/ValentinKolb/dTable/cmd/tables"
	"github.com/ValentinKolb/dTable/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dtable",
		Short: "schema-less dynamic table store",
		Long: fmt.Sprintf(`dTable (v%s)

A schema-less table store written in Go. Tables hold user defined
columns and sparse row fragments that are reassembled into logical
rows on read. Tables can be kept in memory, in leveldb or replicated
with RAFT.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dTable",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dTable v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(tables.TableCommands)
	RootCmd.AddCommand(tables.ColumnCommands)
	RootCmd.AddCommand(tables.RowCommands)
	RootCmd.AddCommand(tables.PerfCmd)
	RootCmd.AddCommand(event.EventCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "transport"
	RootCmd.PersistentFlags().String(key, "http", util.WrapString("transport the client commands use (http, tcp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
