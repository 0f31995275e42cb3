// Package engine composes the column registry, the row fragment store and the
// row reconstructor of the table package into the public operation set of
// dTable and runs every operation against an injected tablestore.ITableStore.
//
// Operation Flow:
//
//	lock(tableID) -> load -> validate -> mutate a private copy -> save -> unlock
//
//	Reads (GetTable) load and reconstruct under the same lock. Nothing is saved
//	when validation fails, so a failed operation leaves the table unchanged.
//
// Concurrency:
//
//	Operations on the same table id are serialized with one of a fixed set of
//	256 mutexes, picked by table id modulo 256. This removes the lost-update
//	race within one process. The stores additionally check the table version
//	on Save, which turns a race between several processes (e.g. several nodes
//	in front of the raft store) into a Conflict error instead of a silently
//	lost write. The engine does not retry on conflicts.
//
// Errors:
//
//	All failures are *table.Error values. Store failures are mapped to
//	ErrCConflict (version mismatch), ErrCNotFound (table vanished) or
//	ErrCInternal.
//
// Metrics:
//
//	Every operation updates the following VictoriaMetrics series:
//
//	  dtable_engine_ops_total{op}
//	  dtable_engine_errors_total{op,code}
//	  dtable_engine_op_duration_seconds{op}
//
// Usage:
//
//	e := engine.NewTableEngine(mstore.NewMemoryStore())
//	t, _ := e.CreateTable()
//	cols, _ := e.AddColumn(t.ID, "name")
//	_, _ = e.AddRow(t.ID, table.RowFragment{table.ColumnKey(cols[0].ID): "John"})
//	view, _ := e.GetTable(t.ID)
package engine
