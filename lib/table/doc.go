// Package table implements the data model of a schema-less table together with
// the in-memory algorithms that mutate and read it. It performs no I/O; loading
// and saving is the job of the tablestore package and the orchestration of a
// full operation is the job of the engine package.
//
// Data Model:
//
//   - Table: an id, an ordered list of ColumnDef and a list of RowFragment.
//     Two bookkeeping fields are persisted with it: NextColumnID (the column id
//     source, so ids are never reused) and Version (the optimistic concurrency
//     counter maintained by the stores).
//
//   - ColumnDef: an (id, name) pair. Names are not required to be unique.
//
//   - RowFragment: a sparse mapping from a column id, written as a decimal
//     string, to any JSON-compatible value. Fragments carry one or several
//     values depending on the path that wrote them.
//
// Key Components:
//
//   - Column Registry (columns.go): AddColumn, RenameColumn, RemoveColumn.
//     Removing a column strips its values from every fragment but never removes
//     a fragment.
//
//   - Row Fragment Store (fragments.go): AppendFragment, PatchFragment,
//     DeleteValue, DeleteAt, StripColumn and SpliceByColumn. DeleteValue removes
//     a fragment once it is empty (index collapse), StripColumn does not.
//
//   - Row Reconstructor (reconstruct.go): Reconstruct turns fragments back into
//     logical rows keyed by column name, filling absent values with NoValue.
//     The first pair of a fragment decides which row it joins, its other pairs
//     only fill columns of that row that are still unset.
//
// Fragment Key Order:
//
//	Several algorithms only look at the "first" pair of a fragment. The first
//	pair is the one whose key sorts first when numeric keys are ordered by value
//	and placed before any non-numeric key. RowFragment.First and RowFragment.Keys
//	implement this order.
//
// Errors:
//
//	All failures are returned as *Error with an ErrCode (NotFound, InvalidColumn,
//	IndexOutOfRange, ColumnNotFound, ValueNotFound, BadRequest, Conflict,
//	Internal). An operation that fails leaves the table unchanged.
//
// Thread Safety:
//
//	Table values are not safe for concurrent mutation. The engine serializes
//	all operations on one table id.
package table
