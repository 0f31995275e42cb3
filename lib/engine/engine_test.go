package engine

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
	"testing"

	"github.com/ValentinKolb/dTable/lib/table"
	"github.com/ValentinKolb/dTable/lib/tablestore"
	"github.com/ValentinKolb/dTable/lib/tablestore/mstore"
)

func newEngine(t *testing.T) ITableEngine {
	s := mstore.NewMemoryStore()
	t.Cleanup(func() { _ = s.Close() })
	return NewTableEngine(s)
}

// setup creates a table with the given columns and returns its id and the column keys
func setup(t *testing.T, e ITableEngine, names ...string) (uint64, []string) {
	t.Helper()
	tbl, err := e.CreateTable()
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	var keys []string
	for _, name := range names {
		cols, err := e.AddColumn(tbl.ID, name)
		if err != nil {
			t.Fatalf("AddColumn failed: %v", err)
		}
		keys = append(keys, table.ColumnKey(cols[len(cols)-1].ID))
	}
	return tbl.ID, keys
}

func requireCode(t *testing.T, err error, code table.ErrCode) {
	t.Helper()
	if !table.IsCode(err, code) {
		t.Fatalf("Expected %s error, got %v", code, err)
	}
}

// rawRows returns the stored fragments of a table
func rawRows(t *testing.T, e ITableEngine, id uint64) []table.RowFragment {
	t.Helper()
	tbl, err := e.(*engineImpl).load(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return tbl.Rows
}

func names(rows []table.LogicalRow, column string) []string {
	var out []string
	for _, r := range rows {
		out = append(out, fmt.Sprint(r[column]))
	}
	sort.Strings(out)
	return out
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestCreateThenGetIsEmpty(t *testing.T) {
	e := newEngine(t)
	tbl, err := e.CreateTable()
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}

	view, err := e.GetTable(tbl.ID)
	if err != nil {
		t.Fatalf("GetTable failed: %v", err)
	}
	if view.ID != tbl.ID || len(view.Columns) != 0 || len(view.Rows) != 0 {
		t.Errorf("Expected empty table, got %+v", view)
	}
}

func TestMissingTable(t *testing.T) {
	e := newEngine(t)

	_, err := e.GetTable(99)
	requireCode(t, err, table.ErrCNotFound)
	_, err = e.AddColumn(99, "a")
	requireCode(t, err, table.ErrCNotFound)
	_, err = e.AddRow(99, nil)
	requireCode(t, err, table.ErrCNotFound)
	_, err = e.DeleteRow(99, 0)
	requireCode(t, err, table.ErrCNotFound)
	_, err = e.DeleteSingleValue(99, 1, 0)
	requireCode(t, err, table.ErrCNotFound)
}

func TestAddColumnIDsAreUnique(t *testing.T) {
	e := newEngine(t)
	id, keys := setup(t, e, "a", "b", "c", "a")

	seen := map[string]bool{}
	for _, k := range keys {
		if seen[k] {
			t.Errorf("Column id %s handed out twice", k)
		}
		seen[k] = true
	}

	view, _ := e.GetTable(id)
	if len(view.Columns) != 4 {
		t.Errorf("Expected duplicate names to be allowed, got %v", view.Columns)
	}
}

func TestUpdateColumn(t *testing.T) {
	e := newEngine(t)
	id, _ := setup(t, e, "a")

	cols, err := e.UpdateColumn(id, 1, "renamed")
	if err != nil {
		t.Fatalf("UpdateColumn failed: %v", err)
	}
	if cols[0].Name != "renamed" {
		t.Errorf("Expected renamed column, got %v", cols)
	}

	_, err = e.UpdateColumn(id, 42, "x")
	requireCode(t, err, table.ErrCNotFound)
	_, err = e.UpdateColumn(id, 1, "")
	requireCode(t, err, table.ErrCBadRequest)
}

func TestRoundTrip(t *testing.T) {
	e := newEngine(t)
	id, keys := setup(t, e, "A", "B")

	if _, err := e.AddRow(id, table.RowFragment{keys[0]: 1.0, keys[1]: 2.0}); err != nil {
		t.Fatalf("AddRow failed: %v", err)
	}

	view, err := e.GetTable(id)
	if err != nil {
		t.Fatalf("GetTable failed: %v", err)
	}
	if len(view.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %v", view.Rows)
	}
	if view.Rows[0]["A"] != 1.0 || view.Rows[0]["B"] != 2.0 {
		t.Errorf("Expected A=1 and B=2, got %v", view.Rows[0])
	}
}

func TestRoundTripSingleValueFragments(t *testing.T) {
	e := newEngine(t)
	id, keys := setup(t, e, "A", "B")

	_, _ = e.AddRow(id, table.RowFragment{keys[0]: 1.0})
	_, _ = e.AddRow(id, table.RowFragment{keys[1]: 2.0})

	view, _ := e.GetTable(id)
	want := []table.LogicalRow{{"A": 1.0, "B": 2.0}}
	if !reflect.DeepEqual(view.Rows, want) {
		t.Errorf("Expected %v, got %v", want, view.Rows)
	}
}

func TestJohnAndJane(t *testing.T) {
	e := newEngine(t)
	id, keys := setup(t, e, "name")

	_, _ = e.AddRow(id, table.RowFragment{keys[0]: "John"})
	view, _ := e.GetTable(id)
	if got := names(view.Rows, "name"); !reflect.DeepEqual(got, []string{"John"}) {
		t.Errorf("Expected [John], got %v", got)
	}

	_, _ = e.AddRow(id, table.RowFragment{keys[0]: "Jane"})
	view, _ = e.GetTable(id)
	if got := names(view.Rows, "name"); !reflect.DeepEqual(got, []string{"Jane", "John"}) {
		t.Errorf("Expected {Jane, John}, got %v", got)
	}
	for _, r := range view.Rows {
		if len(r) != 1 {
			t.Errorf("Expected a single name value per row, got %v", r)
		}
	}
}

func TestAddRowInvalidColumns(t *testing.T) {
	e := newEngine(t)
	id, keys := setup(t, e, "a")

	_, err := e.AddRow(id, table.RowFragment{keys[0]: 1.0, "5": 1.0, "abc": 2.0})
	requireCode(t, err, table.ErrCInvalidColumn)
	tErr := err.(*table.Error)
	if !reflect.DeepEqual(tErr.InvalidIDs, []string{"5", "abc"}) {
		t.Errorf("Expected invalid ids [5 abc], got %v", tErr.InvalidIDs)
	}
	if tErr.Msg != "Invalid column IDs: 5, abc" {
		t.Errorf("Unexpected message %q", tErr.Msg)
	}

	if rows := rawRows(t, e, id); len(rows) != 0 {
		t.Errorf("Expected no rows after failed add, got %v", rows)
	}
}

func TestDeleteColumn(t *testing.T) {
	e := newEngine(t)
	id, keys := setup(t, e, "a", "b")
	_, _ = e.AddRow(id, table.RowFragment{keys[0]: "x"})
	_, _ = e.AddRow(id, table.RowFragment{keys[1]: "y", keys[0]: "z"})

	res, err := e.DeleteColumn(id, 1)
	if err != nil {
		t.Fatalf("DeleteColumn failed: %v", err)
	}
	for _, c := range res.Columns {
		if c.ID == 1 {
			t.Errorf("Expected column 1 to be gone, got %v", res.Columns)
		}
	}
	// fragments are stripped, not removed
	if len(res.Rows) != 2 {
		t.Errorf("Expected 2 fragments, got %v", res.Rows)
	}
	for _, r := range res.Rows {
		if _, ok := r[keys[0]]; ok {
			t.Errorf("Expected no value keyed by the removed column, got %v", r)
		}
	}

	view, _ := e.GetTable(id)
	for _, r := range view.Rows {
		if _, ok := r["a"]; ok {
			t.Errorf("Expected removed column not to appear in rows, got %v", r)
		}
	}

	_, err = e.DeleteColumn(id, 1)
	requireCode(t, err, table.ErrCNotFound)
}

func TestDeleteSingleValue(t *testing.T) {
	e := newEngine(t)
	id, keys := setup(t, e, "a", "b")
	_, _ = e.AddRow(id, table.RowFragment{keys[0]: "only"})
	_, _ = e.AddRow(id, table.RowFragment{keys[0]: "x", keys[1]: "y"})

	rows, err := e.DeleteSingleValue(id, 1, 0)
	if err != nil {
		t.Fatalf("DeleteSingleValue failed: %v", err)
	}
	if len(rows) != 1 || rows[0][keys[0]] != "x" {
		t.Errorf("Expected index collapse, got %v", rows)
	}

	tests := []struct {
		name     string
		columnID uint64
		index    int
		code     table.ErrCode
	}{
		{"unknown column", 9, 0, table.ErrCColumnNotFound},
		{"unknown column wins over index", 9, 7, table.ErrCColumnNotFound},
		{"negative index", 1, -1, table.ErrCIndexOutOfRange},
		{"index too large", 1, 1, table.ErrCIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.DeleteSingleValue(id, tt.columnID, tt.index)
			requireCode(t, err, tt.code)
		})
	}

	if _, err := e.DeleteSingleValue(id, 2, 0); err != nil {
		t.Fatalf("DeleteSingleValue failed: %v", err)
	}
	_, err = e.DeleteSingleValue(id, 2, 0)
	requireCode(t, err, table.ErrCValueNotFound)
}

func TestOutOfRangeLeavesStateUnchanged(t *testing.T) {
	e := newEngine(t)
	id, keys := setup(t, e, "a")
	_, _ = e.AddRow(id, table.RowFragment{keys[0]: 1.0})
	_, _ = e.AddRow(id, table.RowFragment{keys[0]: 2.0})
	before := rawRows(t, e, id)

	for _, idx := range []int{-1, 2, 100} {
		_, err := e.UpdateRow(id, idx, table.RowFragment{keys[0]: 9.0})
		requireCode(t, err, table.ErrCIndexOutOfRange)
		_, err = e.DeleteSingleValue(id, 1, idx)
		requireCode(t, err, table.ErrCIndexOutOfRange)
		_, err = e.DeleteRow(id, idx)
		requireCode(t, err, table.ErrCIndexOutOfRange)
	}

	if after := rawRows(t, e, id); !reflect.DeepEqual(before, after) {
		t.Errorf("Expected unchanged rows, before %v after %v", before, after)
	}
}

func TestUpdateRow(t *testing.T) {
	e := newEngine(t)
	id, keys := setup(t, e, "a", "b")
	_, _ = e.AddRow(id, table.RowFragment{keys[0]: "old"})

	rows, err := e.UpdateRow(id, 0, table.RowFragment{keys[0]: "new", keys[1]: "b"})
	if err != nil {
		t.Fatalf("UpdateRow failed: %v", err)
	}
	want := table.RowFragment{keys[0]: "new", keys[1]: "b"}
	if !reflect.DeepEqual(rows[0], want) {
		t.Errorf("Expected %v, got %v", want, rows[0])
	}

	_, err = e.UpdateRow(id, 0, table.RowFragment{"77": 1.0})
	requireCode(t, err, table.ErrCInvalidColumn)
}

func TestDeleteRow(t *testing.T) {
	e := newEngine(t)
	id, keys := setup(t, e, "name", "age")
	for _, f := range []table.RowFragment{
		{keys[0]: "John"}, {keys[1]: 30.0},
		{keys[0]: "Jane"}, {keys[1]: 25.0},
	} {
		_, _ = e.AddRow(id, f)
	}

	tbl, err := e.DeleteRow(id, 0)
	if err != nil {
		t.Fatalf("DeleteRow failed: %v", err)
	}
	want := []table.RowFragment{{keys[0]: "Jane"}, {keys[1]: 25.0}}
	if !reflect.DeepEqual(tbl.Rows, want) {
		t.Errorf("Expected %v, got %v", want, tbl.Rows)
	}

	view, _ := e.GetTable(id)
	wantView := []table.LogicalRow{{"name": "Jane", "age": 25.0}}
	if !reflect.DeepEqual(view.Rows, wantView) {
		t.Errorf("Expected %v, got %v", wantView, view.Rows)
	}
}

func TestConcurrentAddColumn(t *testing.T) {
	e := newEngine(t)
	id, _ := setup(t, e)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := e.AddColumn(id, fmt.Sprintf("col-%d", i)); err != nil {
				t.Errorf("AddColumn failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	view, _ := e.GetTable(id)
	if len(view.Columns) != n {
		t.Fatalf("Expected %d columns, got %d", n, len(view.Columns))
	}
	seen := map[uint64]bool{}
	for _, c := range view.Columns {
		if seen[c.ID] {
			t.Errorf("Column id %d handed out twice", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestConcurrentAddRowOnSeveralTables(t *testing.T) {
	e := newEngine(t)
	ids := make([]uint64, 4)
	for i := range ids {
		ids[i], _ = setup(t, e, "v")
	}

	const perTable = 25
	var wg sync.WaitGroup
	for _, id := range ids {
		for i := 0; i < perTable; i++ {
			wg.Add(1)
			go func(id uint64, i int) {
				defer wg.Done()
				if _, err := e.AddRow(id, table.RowFragment{"1": float64(i)}); err != nil {
					t.Errorf("AddRow failed: %v", err)
				}
			}(id, i)
		}
	}
	wg.Wait()

	for _, id := range ids {
		if rows := rawRows(t, e, id); len(rows) != perTable {
			t.Errorf("Table %d: expected %d rows, got %d", id, perTable, len(rows))
		}
	}
}

func TestTablesSharingALockShard(t *testing.T) {
	e := newEngine(t)
	first, _ := setup(t, e, "v")
	second := first
	for second%lockShards != first%lockShards || second == first {
		second, _ = setup(t, e, "v")
	}

	impl := e.(*engineImpl)
	if impl.shard(first) != impl.shard(second) {
		t.Fatalf("Expected tables %d and %d to share a lock", first, second)
	}
	if impl.shard(first) == impl.shard(first+1) {
		t.Fatalf("Expected neighbouring tables to use different locks")
	}

	const perTable = 20
	var wg sync.WaitGroup
	for _, id := range []uint64{first, second} {
		for i := 0; i < perTable; i++ {
			wg.Add(1)
			go func(id uint64, i int) {
				defer wg.Done()
				if _, err := e.AddRow(id, table.RowFragment{"1": float64(i)}); err != nil {
					t.Errorf("AddRow failed: %v", err)
				}
				if _, err := e.GetTable(id); err != nil {
					t.Errorf("GetTable failed: %v", err)
				}
			}(id, i)
		}
	}
	wg.Wait()

	for _, id := range []uint64{first, second} {
		if rows := rawRows(t, e, id); len(rows) != perTable {
			t.Errorf("Table %d: expected %d rows, got %d", id, perTable, len(rows))
		}
	}
}

// conflictStore always reports a version conflict on save
type conflictStore struct {
	tablestore.ITableStore
}

func (conflictStore) Save(table.Table) (table.Table, error) {
	return table.Table{}, tablestore.NewConflictError(1, 1, 2)
}

func TestStoreErrorsAreMapped(t *testing.T) {
	s := conflictStore{mstore.NewMemoryStore()}
	e := NewTableEngine(s)
	tbl, _ := e.CreateTable()

	_, err := e.AddColumn(tbl.ID, "a")
	requireCode(t, err, table.ErrCConflict)

	_ = s.Close()
	_, err = e.GetTable(tbl.ID)
	requireCode(t, err, table.ErrCInternal)
}
