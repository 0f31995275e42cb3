package http

import (
	"net/http"

	"github.com/ValentinKolb/dTable/rpc/common"
)

// route binds an action to its method and path
type route struct {
	method string
	path   string
}

// routes of the REST surface, shared by server and client
var routes = map[common.Action]route{
	common.ActionCreateTable:  {http.MethodPost, "/dynamic-table/create-table"},
	common.ActionCreateColumn: {http.MethodPost, "/dynamic-table/add-column"},
	common.ActionCreateRow:    {http.MethodPost, "/dynamic-table/add-row"},
	common.ActionGetTable:     {http.MethodGet, "/dynamic-table"},
	common.ActionDeleteValue:  {http.MethodDelete, "/dynamic-table/delete-single-value"},
	common.ActionDeleteColumn: {http.MethodDelete, "/dynamic-table/delete-column"},
	common.ActionDeleteRow:    {http.MethodDelete, "/dynamic-table/delete-row"},
	common.ActionUpdateColumn: {http.MethodPut, "/dynamic-table/update-column"},
	common.ActionUpdateRow:    {http.MethodPut, "/dynamic-table/update-row"},
}

const requestIDHeader = "X-Request-Id"
