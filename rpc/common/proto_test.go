package common

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ValentinKolb/dTable/lib/table"
	"gotest.tools/assert"
)

func decodeRequest(t *testing.T, body string) *Request {
	t.Helper()
	var r Request
	assert.NilError(t, json.Unmarshal([]byte(body), &r))
	return &r
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		body   string
		msg    string // empty means valid
	}{
		{"create table needs nothing", ActionCreateTable, `{}`, ""},
		{"missing table id", ActionGetTable, `{}`, "Table ID is required"},
		{"table id zero is present", ActionGetTable, `{"tableId":0}`, ""},
		{"missing column name", ActionCreateColumn, `{"tableId":1}`, "Column name is required"},
		{"empty column name", ActionCreateColumn, `{"tableId":1,"columnName":""}`, "Column name is required"},
		{"add column", ActionCreateColumn, `{"tableId":1,"columnName":"a"}`, ""},
		{"missing row data", ActionCreateRow, `{"tableId":1}`, "Row data must be a valid object"},
		{"row data is an array", ActionCreateRow, `{"tableId":1,"rowData":[1,2]}`, "Row data must be a valid object"},
		{"row data is null", ActionCreateRow, `{"tableId":1,"rowData":null}`, "Row data must be a valid object"},
		{"add row", ActionCreateRow, `{"tableId":1,"rowData":{"1":"x"}}`, ""},
		{"update row without index", ActionUpdateRow, `{"tableId":1,"rowData":{}}`, "Row index is required"},
		{"delete row index zero", ActionDeleteRow, `{"tableId":1,"rowIndex":0}`, ""},
		{"negative index is left to the engine", ActionDeleteRow, `{"tableId":1,"rowIndex":-1}`, ""},
		{"delete value without column", ActionDeleteValue, `{"tableId":1,"rowIndex":0}`, "Column ID is required"},
		{"delete value without index", ActionDeleteValue, `{"tableId":1,"columnId":2}`, "Row index is required"},
		{"update column without id", ActionUpdateColumn, `{"tableId":1,"columnName":"x"}`, "Column ID is required"},
		{"delete column", ActionDeleteColumn, `{"tableId":1,"columnId":3}`, ""},
		{"unknown action", Action("dropTable"), `{"tableId":1}`, "Unknown action: dropTable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := decodeRequest(t, tt.body).Validate(tt.action)
			if tt.msg == "" {
				assert.NilError(t, err)
				return
			}
			assert.Assert(t, table.IsCode(err, table.ErrCBadRequest), err)
			assert.Equal(t, err.(*table.Error).Msg, tt.msg)
		})
	}
}

func TestRequestBuilder(t *testing.T) {
	r := NewRequest().WithTable(4).WithColumn(2).WithRowIndex(0).WithRowData(table.RowFragment{"2": "v"})

	raw, err := json.Marshal(r)
	assert.NilError(t, err)
	assert.Equal(t, string(raw), `{"tableId":4,"columnId":2,"rowIndex":0,"rowData":{"2":"v"}}`)

	values, err := r.Values()
	assert.NilError(t, err)
	assert.DeepEqual(t, values, table.RowFragment{"2": "v"})
}

func TestErrorResponseRoundTrip(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{table.NewError(table.ErrCNotFound, "Table not found"), http.StatusNotFound},
		{table.NewError(table.ErrCValueNotFound, "Value not found in column with ID: 3"), http.StatusNotFound},
		{table.NewInvalidColumnError([]string{"7", "x"}), http.StatusBadRequest},
		{table.NewError(table.ErrCIndexOutOfRange, "out"), http.StatusBadRequest},
		{table.NewError(table.ErrCColumnNotFound, "Column not found"), http.StatusBadRequest},
		{table.NewError(table.ErrCConflict, "conflict"), http.StatusConflict},
		{table.NewError(table.ErrCInternal, "boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		resp := NewErrorResponse(tt.err)
		assert.Equal(t, resp.Status, tt.status)

		raw, err := json.Marshal(resp)
		assert.NilError(t, err)
		var decoded Response
		assert.NilError(t, json.Unmarshal(raw, &decoded))

		assert.DeepEqual(t, decoded.Err(), tt.err)
	}
}

func TestDataResponse(t *testing.T) {
	resp := NewDataResponse("Column added", []table.ColumnDef{{ID: 1, Name: "a"}})
	assert.Equal(t, resp.Status, http.StatusOK)
	assert.NilError(t, resp.Err())

	var cols []table.ColumnDef
	assert.NilError(t, resp.Decode(&cols))
	assert.DeepEqual(t, cols, []table.ColumnDef{{ID: 1, Name: "a"}})
}
