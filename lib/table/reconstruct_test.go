package table

import (
	"fmt"
	"sort"
	"testing"
)

// rowSet renders rows as a sorted list of strings so they can be compared
// without depending on the row order.
func rowSet(rows []LogicalRow, columns []ColumnDef) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		s := ""
		for _, c := range columns {
			s += fmt.Sprintf("%s=%v;", c.Name, row[c.Name])
		}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func sameRows(t *testing.T, got, want []LogicalRow, columns []ColumnDef) {
	t.Helper()
	g, w := rowSet(got, columns), rowSet(want, columns)
	if len(g) != len(w) {
		t.Fatalf("Expected %d rows, got %d: %v", len(w), len(g), g)
	}
	for i := range g {
		if g[i] != w[i] {
			t.Errorf("Row sets differ:\n got  %v\n want %v", g, w)
			return
		}
	}
}

func TestReconstructSingleFragment(t *testing.T) {
	tbl := newTestTable("A", "B")
	_ = tbl.AppendFragment(RowFragment{"1": 1.0})
	_ = tbl.PatchFragment(0, RowFragment{"2": 2.0})

	sameRows(t, tbl.View().Rows, []LogicalRow{{"A": 1.0, "B": 2.0}}, tbl.Columns)
}

func TestReconstructMultiKeyFragmentPlacement(t *testing.T) {
	tbl := newTestTable("A", "B")
	tbl.Rows = []RowFragment{
		{"2": "b0"},
		// placed by its first key (A) into the combination opened above,
		// where B is already taken
		{"1": "a1", "2": "b1"},
		{"1": "a2", "2": "b2"},
	}

	want := []LogicalRow{
		{"A": "a1", "B": "b0"},
		{"A": "a2", "B": "b2"},
	}
	sameRows(t, tbl.View().Rows, want, tbl.Columns)
}

func TestReconstructCoalescesSingleValueFragments(t *testing.T) {
	tbl := newTestTable("name", "age")
	tbl.Rows = []RowFragment{
		{"1": "John"},
		{"2": 30.0},
		{"1": "Jane"},
		{"2": 25.0},
	}

	want := []LogicalRow{
		{"name": "John", "age": 30.0},
		{"name": "Jane", "age": 25.0},
	}
	sameRows(t, tbl.View().Rows, want, tbl.Columns)
}

func TestReconstructFillsMissingColumns(t *testing.T) {
	tbl := newTestTable("a", "b", "c")
	tbl.Rows = []RowFragment{{"1": "x"}, {"1": "y"}, {"3": "z"}}

	rows := tbl.View().Rows
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if len(row) != 3 {
			t.Errorf("Expected every column to be present, got %v", row)
		}
		if !IsNoValue(row["b"]) {
			t.Errorf("Expected b to hold no value, got %v", row["b"])
		}
	}
}

func TestReconstructSkipsEmptyAndOrphanFragments(t *testing.T) {
	tbl := newTestTable("a", "b")
	tbl.Rows = []RowFragment{{}, {"1": "x"}, {}}
	if err := tbl.RemoveColumn(2); err != nil {
		t.Fatal(err)
	}
	tbl.Rows = append(tbl.Rows, RowFragment{"2": "orphan"})

	sameRows(t, tbl.View().Rows, []LogicalRow{{"a": "x"}}, tbl.Columns)
}

func TestReconstructDropsRowsWithoutValues(t *testing.T) {
	tbl := newTestTable("a")
	tbl.Rows = []RowFragment{{"1": nil}}

	if rows := tbl.View().Rows; len(rows) != 0 {
		t.Errorf("Expected all-empty rows to be dropped, got %v", rows)
	}
}

func TestReconstructEmptyTable(t *testing.T) {
	tbl := New(5)
	view := tbl.View()
	if view.ID != 5 || len(view.Columns) != 0 || len(view.Rows) != 0 {
		t.Errorf("Unexpected view of empty table: %+v", view)
	}
}

func TestReconstructIsDeterministic(t *testing.T) {
	tbl := newTestTable("a", "b")
	tbl.Rows = []RowFragment{{"1": 1.0}, {"1": 2.0}, {"2": 3.0}, {"2": 4.0}, {"1": 5.0}}

	first := rowSet(tbl.View().Rows, tbl.Columns)
	for i := 0; i < 20; i++ {
		next := rowSet(tbl.View().Rows, tbl.Columns)
		if fmt.Sprint(first) != fmt.Sprint(next) {
			t.Fatalf("Reconstruction changed between calls: %v vs %v", first, next)
		}
	}
}

func TestViewDoesNotShareColumns(t *testing.T) {
	tbl := newTestTable("a")
	view := tbl.View()
	view.Columns[0].Name = "changed"
	if tbl.Columns[0].Name != "a" {
		t.Errorf("Expected view columns to be a copy")
	}
}
