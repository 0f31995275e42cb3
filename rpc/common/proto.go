package common

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ValentinKolb/dTable/lib/table"
)

// --------------------------------------------------------------------------
// Actions
// --------------------------------------------------------------------------

// Action names an engine operation on the wire.
// The first four are also the actions of the event surface.
type Action string

const (
	ActionCreateTable  Action = "createTable"
	ActionCreateColumn Action = "createColumn"
	ActionCreateRow    Action = "createRow"
	ActionGetTable     Action = "getTable"
	ActionUpdateColumn Action = "updateColumn"
	ActionUpdateRow    Action = "updateRow"
	ActionDeleteColumn Action = "deleteColumn"
	ActionDeleteRow    Action = "deleteRow"
	ActionDeleteValue  Action = "deleteValue"
)

// IsEventAction reports whether the action is accepted by the event surface
func (a Action) IsEventAction() bool {
	switch a {
	case ActionCreateTable, ActionCreateColumn, ActionCreateRow, ActionGetTable:
		return true
	default:
		return false
	}
}

// IsMutation reports whether the action changes state
func (a Action) IsMutation() bool {
	return a != ActionGetTable
}

// --------------------------------------------------------------------------
// Request
// --------------------------------------------------------------------------

// Request carries the parameters of every action. Which fields are required
// depends on the action (see Validate). Pointers distinguish "missing" from
// zero values.
type Request struct {
	TableID    *uint64         `json:"tableId,omitempty"`
	ColumnID   *uint64         `json:"columnId,omitempty"`
	ColumnName *string         `json:"columnName,omitempty"`
	RowIndex   *int            `json:"rowIndex,omitempty"`
	RowData    json.RawMessage `json:"rowData,omitempty"`
}

// NewRequest is a small builder used by the clients
func NewRequest() *Request {
	return &Request{}
}

func (r *Request) WithTable(id uint64) *Request {
	r.TableID = &id
	return r
}

func (r *Request) WithColumn(id uint64) *Request {
	r.ColumnID = &id
	return r
}

func (r *Request) WithColumnName(name string) *Request {
	r.ColumnName = &name
	return r
}

func (r *Request) WithRowIndex(index int) *Request {
	r.RowIndex = &index
	return r
}

// WithRowData encodes values as the row data of the request
func (r *Request) WithRowData(values table.RowFragment) *Request {
	if values == nil {
		values = table.RowFragment{}
	}
	// a map[string]any built from JSON-compatible values always marshals
	r.RowData, _ = json.Marshal(values)
	return r
}

// Validate checks that every field required by the action is present and
// well-formed. It returns an ErrCBadRequest error otherwise.
func (r *Request) Validate(action Action) error {
	badRequest := func(msg string) error {
		return table.NewError(table.ErrCBadRequest, "%s", msg)
	}

	if action == ActionCreateTable {
		return nil
	}
	if r.TableID == nil {
		return badRequest("Table ID is required")
	}

	switch action {
	case ActionCreateColumn:
		if r.ColumnName == nil || *r.ColumnName == "" {
			return badRequest("Column name is required")
		}
	case ActionUpdateColumn:
		if r.ColumnID == nil {
			return badRequest("Column ID is required")
		}
		if r.ColumnName == nil || *r.ColumnName == "" {
			return badRequest("Column name is required")
		}
	case ActionDeleteColumn:
		if r.ColumnID == nil {
			return badRequest("Column ID is required")
		}
	case ActionCreateRow:
		if _, err := r.Values(); err != nil {
			return err
		}
	case ActionUpdateRow:
		if r.RowIndex == nil {
			return badRequest("Row index is required")
		}
		if _, err := r.Values(); err != nil {
			return err
		}
	case ActionDeleteRow:
		if r.RowIndex == nil {
			return badRequest("Row index is required")
		}
	case ActionDeleteValue:
		if r.ColumnID == nil {
			return badRequest("Column ID is required")
		}
		if r.RowIndex == nil {
			return badRequest("Row index is required")
		}
	case ActionGetTable:
	default:
		return badRequest(fmt.Sprintf("Unknown action: %s", action))
	}

	// bounds, negative indices included, are checked by the engine
	return nil
}

// Values decodes the row data. Anything but a JSON object is rejected.
func (r *Request) Values() (table.RowFragment, error) {
	var values table.RowFragment
	if len(r.RowData) == 0 || json.Unmarshal(r.RowData, &values) != nil || values == nil {
		return nil, table.NewError(table.ErrCBadRequest, "Row data must be a valid object")
	}
	return values, nil
}

// Envelope is a message of the event surface and the payload of a socket frame
type Envelope struct {
	Action Action   `json:"action"`
	Data   *Request `json:"data"`
}

// --------------------------------------------------------------------------
// Response
// --------------------------------------------------------------------------

// Response is the envelope of every answer of the HTTP and event surfaces.
type Response struct {
	Status     int             `json:"status"`
	Message    string          `json:"message,omitempty"`
	Code       string          `json:"code,omitempty"`
	InvalidIDs []string        `json:"invalidIds,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// NewDataResponse creates a successful response carrying data
func NewDataResponse(message string, data any) *Response {
	raw, err := json.Marshal(data)
	if err != nil {
		return NewErrorResponse(table.NewError(table.ErrCInternal, "failed to encode response: %v", err))
	}
	return &Response{
		Status:  http.StatusOK,
		Message: message,
		Data:    raw,
	}
}

// NewErrorResponse creates the response for a failed operation
func NewErrorResponse(err error) *Response {
	code := table.CodeOf(err)
	resp := &Response{
		Status:  StatusOf(code),
		Message: err.Error(),
		Code:    code.String(),
	}
	if tErr, ok := err.(*table.Error); ok {
		resp.Message = tErr.Msg
		resp.InvalidIDs = tErr.InvalidIDs
	}
	return resp
}

// Err converts an error response back into a *table.Error, nil for success
func (r *Response) Err() error {
	if r.Status < http.StatusBadRequest {
		return nil
	}
	return &table.Error{
		Code:       table.ParseErrCode(r.Code),
		Msg:        r.Message,
		InvalidIDs: r.InvalidIDs,
	}
}

// Decode unmarshals the data of a successful response into v
func (r *Response) Decode(v any) error {
	if err := r.Err(); err != nil {
		return err
	}
	if len(r.Data) == 0 {
		return table.NewError(table.ErrCInternal, "response carries no data")
	}
	return json.Unmarshal(r.Data, v)
}

// StatusOf maps an error code to its HTTP status
func StatusOf(code table.ErrCode) int {
	switch code {
	case table.ErrCNotFound, table.ErrCValueNotFound:
		return http.StatusNotFound
	case table.ErrCInvalidColumn, table.ErrCIndexOutOfRange, table.ErrCColumnNotFound, table.ErrCBadRequest:
		return http.StatusBadRequest
	case table.ErrCConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
