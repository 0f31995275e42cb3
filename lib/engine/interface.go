package engine

import "github.com/ValentinKolb/dTable/lib/table"

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// ITableEngine is the public operation set of the table store.
// Every method returns a *table.Error on failure; a failed operation never
// changes the stored table.
type ITableEngine interface {
	// CreateTable creates a new, empty table.
	CreateTable() (table.Table, error)
	// AddColumn appends a column with a fresh id and returns all columns.
	AddColumn(tableID uint64, name string) ([]table.ColumnDef, error)
	// UpdateColumn renames a column and returns all columns.
	UpdateColumn(tableID, columnID uint64, name string) ([]table.ColumnDef, error)
	// DeleteColumn removes a column together with all of its values.
	DeleteColumn(tableID, columnID uint64) (ColumnsAndRows, error)
	// AddRow appends a row fragment and returns all fragments.
	AddRow(tableID uint64, values table.RowFragment) ([]table.RowFragment, error)
	// UpdateRow merges values into the fragment at index and returns all fragments.
	UpdateRow(tableID uint64, index int, values table.RowFragment) ([]table.RowFragment, error)
	// DeleteRow removes the value at index from every per-column value list and
	// returns the rewritten table.
	DeleteRow(tableID uint64, index int) (table.Table, error)
	// DeleteSingleValue removes one value from the fragment at index and returns all fragments.
	DeleteSingleValue(tableID, columnID uint64, index int) ([]table.RowFragment, error)
	// GetTable returns the table with its rows reconstructed. Row order is not guaranteed.
	GetTable(tableID uint64) (table.View, error)
}

// ColumnsAndRows is the result of DeleteColumn
type ColumnsAndRows struct {
	Columns []table.ColumnDef   `json:"columns"`
	Rows    []table.RowFragment `json:"rows"`
}
