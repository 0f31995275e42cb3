package tables

import (
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/dTable/cmd/util"
	"github.com/ValentinKolb/dTable/lib/table"
	"github.com/spf13/cobra"
)

// parseRow parses the JSON object of a row argument
func parseRow(s string) (table.RowFragment, error) {
	var values table.RowFragment
	if err := json.Unmarshal([]byte(s), &values); err != nil || values == nil {
		return nil, fmt.Errorf("row data must be a JSON object, e.g. '{\"1\": \"John\"}'")
	}
	return values, nil
}

var (
	createTableCmd = &cobra.Command{
		Use:   "create",
		Short: "Creates an empty table and prints it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := rpcEngine.CreateTable()
			if err != nil {
				return err
			}
			return util.PrintJSON(t)
		},
	}
	getTableCmd = &cobra.Command{
		Use:   "get [tableId]",
		Short: "Prints the columns and the reconstructed rows of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.ParseID("table id", args[0])
			if err != nil {
				return err
			}
			view, err := rpcEngine.GetTable(id)
			if err != nil {
				return err
			}
			return util.PrintJSON(view)
		},
	}

	addColumnCmd = &cobra.Command{
		Use:   "add [tableId] [name]",
		Short: "Adds a column and prints all columns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.ParseID("table id", args[0])
			if err != nil {
				return err
			}
			cols, err := rpcEngine.AddColumn(id, args[1])
			if err != nil {
				return err
			}
			return util.PrintJSON(cols)
		},
	}
	renameColumnCmd = &cobra.Command{
		Use:   "rename [tableId] [columnId] [name]",
		Short: "Renames a column",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.ParseID("table id", args[0])
			if err != nil {
				return err
			}
			columnID, err := util.ParseID("column id", args[1])
			if err != nil {
				return err
			}
			cols, err := rpcEngine.UpdateColumn(id, columnID, args[2])
			if err != nil {
				return err
			}
			return util.PrintJSON(cols)
		},
	}
	deleteColumnCmd = &cobra.Command{
		Use:   "delete [tableId] [columnId]",
		Short: "Deletes a column and its values",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.ParseID("table id", args[0])
			if err != nil {
				return err
			}
			columnID, err := util.ParseID("column id", args[1])
			if err != nil {
				return err
			}
			res, err := rpcEngine.DeleteColumn(id, columnID)
			if err != nil {
				return err
			}
			return util.PrintJSON(res)
		},
	}

	addRowCmd = &cobra.Command{
		Use:   "add [tableId] [json]",
		Short: "Appends a row fragment, e.g. add 1 '{\"1\": \"John\"}'",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.ParseID("table id", args[0])
			if err != nil {
				return err
			}
			values, err := parseRow(args[1])
			if err != nil {
				return err
			}
			rows, err := rpcEngine.AddRow(id, values)
			if err != nil {
				return err
			}
			return util.PrintJSON(rows)
		},
	}
	updateRowCmd = &cobra.Command{
		Use:   "update [tableId] [rowIndex] [json]",
		Short: "Merges values into the row fragment at the index",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.ParseID("table id", args[0])
			if err != nil {
				return err
			}
			index, err := util.ParseIndex(args[1])
			if err != nil {
				return err
			}
			values, err := parseRow(args[2])
			if err != nil {
				return err
			}
			rows, err := rpcEngine.UpdateRow(id, index, values)
			if err != nil {
				return err
			}
			return util.PrintJSON(rows)
		},
	}
	deleteRowCmd = &cobra.Command{
		Use:   "delete [tableId] [rowIndex]",
		Short: "Deletes the logical row at the index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.ParseID("table id", args[0])
			if err != nil {
				return err
			}
			index, err := util.ParseIndex(args[1])
			if err != nil {
				return err
			}
			t, err := rpcEngine.DeleteRow(id, index)
			if err != nil {
				return err
			}
			return util.PrintJSON(t)
		},
	}
	deleteValueCmd = &cobra.Command{
		Use:   "delete-value [tableId] [columnId] [rowIndex]",
		Short: "Deletes a single value, empty row fragments are removed",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.ParseID("table id", args[0])
			if err != nil {
				return err
			}
			columnID, err := util.ParseID("column id", args[1])
			if err != nil {
				return err
			}
			index, err := util.ParseIndex(args[2])
			if err != nil {
				return err
			}
			rows, err := rpcEngine.DeleteSingleValue(id, columnID, index)
			if err != nil {
				return err
			}
			return util.PrintJSON(rows)
		},
	}
)
