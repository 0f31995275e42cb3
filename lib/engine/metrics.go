package engine

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/dTable/lib/table"
	"github.com/VictoriaMetrics/metrics"
)

// operation names used as metric labels
const (
	opCreateTable       = "createTable"
	opAddColumn         = "addColumn"
	opUpdateColumn      = "updateColumn"
	opDeleteColumn      = "deleteColumn"
	opAddRow            = "addRow"
	opUpdateRow         = "updateRow"
	opDeleteRow         = "deleteRow"
	opDeleteSingleValue = "deleteSingleValue"
	opGetTable          = "getTable"
)

// observe records the outcome of an operation. It is meant to be deferred
// with a pointer to the named error result.
func observe(op string, start time.Time, err *error) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`dtable_engine_ops_total{op=%q}`, op)).Inc()
	metrics.GetOrCreateHistogram(fmt.Sprintf(`dtable_engine_op_duration_seconds{op=%q}`, op)).UpdateDuration(start)
	if *err != nil {
		code := table.CodeOf(*err)
		metrics.GetOrCreateCounter(fmt.Sprintf(`dtable_engine_errors_total{op=%q,code=%q}`, op, code)).Inc()
		log.Debugf("%s failed: %v", op, *err)
	}
}
