package client

import (
	"github.com/ValentinKolb/dTable/lib/engine"
	"github.com/ValentinKolb/dTable/lib/table"
	"github.com/ValentinKolb/dTable/rpc/common"
	"github.com/ValentinKolb/dTable/rpc/transport"
)

// NewRPCTableEngine creates a table engine that forwards every operation to a
// dTable server. The transport is connected with the given config.
func NewRPCTableEngine(config common.ClientConfig, transport transport.IRPCClientTransport) (engine.ITableEngine, error) {
	if err := transport.Connect(config); err != nil {
		return nil, err
	}

	return &rpcEngine{
		rpcClientAdapter{
			config:    config,
			transport: transport,
		},
	}, nil
}

type rpcEngine struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see engine.ITableEngine)
// --------------------------------------------------------------------------

func (e *rpcEngine) CreateTable() (t table.Table, err error) {
	err = invokeRPCRequest(e.transport, common.ActionCreateTable, common.NewRequest(), &t)
	return t, err
}

func (e *rpcEngine) AddColumn(tableID uint64, name string) (cols []table.ColumnDef, err error) {
	req := common.NewRequest().WithTable(tableID).WithColumnName(name)
	err = invokeRPCRequest(e.transport, common.ActionCreateColumn, req, &cols)
	return cols, err
}

func (e *rpcEngine) UpdateColumn(tableID, columnID uint64, name string) (cols []table.ColumnDef, err error) {
	req := common.NewRequest().WithTable(tableID).WithColumn(columnID).WithColumnName(name)
	err = invokeRPCRequest(e.transport, common.ActionUpdateColumn, req, &cols)
	return cols, err
}

func (e *rpcEngine) DeleteColumn(tableID, columnID uint64) (res engine.ColumnsAndRows, err error) {
	req := common.NewRequest().WithTable(tableID).WithColumn(columnID)
	err = invokeRPCRequest(e.transport, common.ActionDeleteColumn, req, &res)
	return res, err
}

func (e *rpcEngine) AddRow(tableID uint64, values table.RowFragment) (rows []table.RowFragment, err error) {
	req := common.NewRequest().WithTable(tableID).WithRowData(values)
	err = invokeRPCRequest(e.transport, common.ActionCreateRow, req, &rows)
	return rows, err
}

func (e *rpcEngine) UpdateRow(tableID uint64, index int, values table.RowFragment) (rows []table.RowFragment, err error) {
	req := common.NewRequest().WithTable(tableID).WithRowIndex(index).WithRowData(values)
	err = invokeRPCRequest(e.transport, common.ActionUpdateRow, req, &rows)
	return rows, err
}

func (e *rpcEngine) DeleteRow(tableID uint64, index int) (t table.Table, err error) {
	req := common.NewRequest().WithTable(tableID).WithRowIndex(index)
	err = invokeRPCRequest(e.transport, common.ActionDeleteRow, req, &t)
	return t, err
}

func (e *rpcEngine) DeleteSingleValue(tableID, columnID uint64, index int) (rows []table.RowFragment, err error) {
	req := common.NewRequest().WithTable(tableID).WithColumn(columnID).WithRowIndex(index)
	err = invokeRPCRequest(e.transport, common.ActionDeleteValue, req, &rows)
	return rows, err
}

func (e *rpcEngine) GetTable(tableID uint64) (v table.View, err error) {
	req := common.NewRequest().WithTable(tableID)
	err = invokeRPCRequest(e.transport, common.ActionGetTable, req, &v)
	return v, err
}
