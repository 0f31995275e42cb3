package server

import (
	"fmt"

	"github.com/ValentinKolb/dTable/lib/engine"
	"github.com/ValentinKolb/dTable/lib/table"
	"github.com/ValentinKolb/dTable/rpc/common"
)

func NewEngineServerAdapter() IRPCServerAdapter {
	return &engineServerAdapterImpl{}
}

type engineServerAdapterImpl struct{}

func (adapter *engineServerAdapterImpl) Handle(action common.Action, req *common.Request, e engine.ITableEngine) *common.Response {
	if e == nil {
		return common.NewErrorResponse(table.NewError(table.ErrCInternal, "handler: engine is nil"))
	}
	if req == nil {
		req = common.NewRequest()
	}
	if err := req.Validate(action); err != nil {
		return common.NewErrorResponse(err)
	}

	// respond builds the envelope of an engine result
	respond := func(message string, data any, err error) *common.Response {
		if err != nil {
			return common.NewErrorResponse(err)
		}
		return common.NewDataResponse(message, data)
	}

	switch action {
	case common.ActionCreateTable:
		t, err := e.CreateTable()
		return respond("Table created", t, err)

	case common.ActionCreateColumn:
		columns, err := e.AddColumn(*req.TableID, *req.ColumnName)
		return respond("Column added", columns, err)

	case common.ActionCreateRow:
		values, err := req.Values()
		if err != nil {
			return common.NewErrorResponse(err)
		}
		rows, err := e.AddRow(*req.TableID, values)
		return respond("Row added", rows, err)

	case common.ActionGetTable:
		view, err := e.GetTable(*req.TableID)
		return respond("Table fetched", view, err)

	case common.ActionUpdateColumn:
		columns, err := e.UpdateColumn(*req.TableID, *req.ColumnID, *req.ColumnName)
		return respond("Column updated", columns, err)

	case common.ActionUpdateRow:
		values, err := req.Values()
		if err != nil {
			return common.NewErrorResponse(err)
		}
		rows, err := e.UpdateRow(*req.TableID, *req.RowIndex, values)
		return respond("Row updated", rows, err)

	case common.ActionDeleteColumn:
		result, err := e.DeleteColumn(*req.TableID, *req.ColumnID)
		return respond(fmt.Sprintf("Column ID: %d and its associated values have been deleted", *req.ColumnID), result, err)

	case common.ActionDeleteRow:
		t, err := e.DeleteRow(*req.TableID, *req.RowIndex)
		return respond("Row deleted", t, err)

	case common.ActionDeleteValue:
		rows, err := e.DeleteSingleValue(*req.TableID, *req.ColumnID, *req.RowIndex)
		return respond(fmt.Sprintf("Value deleted from column ID: %d in row index: %d", *req.ColumnID, *req.RowIndex), rows, err)

	default:
		return common.NewErrorResponse(table.NewError(table.ErrCBadRequest, "Unsupported action: %s", action))
	}
}
