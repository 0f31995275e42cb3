package table

import (
	"encoding/json"
	"reflect"
	"testing"
)

// newTestTable creates a table with the given column names (ids 1..n)
func newTestTable(names ...string) Table {
	tbl := New(1)
	for _, name := range names {
		if _, err := tbl.AddColumn(name); err != nil {
			panic(err)
		}
	}
	return tbl
}

func TestAddColumn(t *testing.T) {
	tbl := New(1)

	a, err := tbl.AddColumn("a")
	if err != nil {
		t.Fatalf("AddColumn failed: %v", err)
	}
	b, err := tbl.AddColumn("b")
	if err != nil {
		t.Fatalf("AddColumn failed: %v", err)
	}

	if a.ID == b.ID {
		t.Errorf("Expected unique column ids, got %d twice", a.ID)
	}
	if len(tbl.Columns) != 2 {
		t.Errorf("Expected 2 columns, got %d", len(tbl.Columns))
	}

	if _, err := tbl.AddColumn(""); !IsCode(err, ErrCBadRequest) {
		t.Errorf("Expected BadRequest for empty name, got %v", err)
	}
}

func TestColumnIDsAreNeverReused(t *testing.T) {
	tbl := newTestTable("a", "b")
	last := tbl.Columns[1].ID

	if err := tbl.RemoveColumn(last); err != nil {
		t.Fatalf("RemoveColumn failed: %v", err)
	}
	c, _ := tbl.AddColumn("c")
	if c.ID <= last {
		t.Errorf("Expected id greater than %d after removal, got %d", last, c.ID)
	}
}

func TestNormalizeAdvancesColumnIDSource(t *testing.T) {
	tbl := Table{ID: 3, Columns: []ColumnDef{{ID: 41, Name: "x"}}}
	tbl.Normalize()

	if tbl.NextColumnID != 42 {
		t.Errorf("Expected NextColumnID 42, got %d", tbl.NextColumnID)
	}
	if tbl.Rows == nil {
		t.Errorf("Expected rows to be initialized")
	}
}

func TestRenameColumn(t *testing.T) {
	tbl := newTestTable("a")

	if err := tbl.RenameColumn(1, "renamed"); err != nil {
		t.Fatalf("RenameColumn failed: %v", err)
	}
	if tbl.Columns[0].Name != "renamed" {
		t.Errorf("Expected name renamed, got %s", tbl.Columns[0].Name)
	}
	if err := tbl.RenameColumn(99, "x"); !IsCode(err, ErrCNotFound) {
		t.Errorf("Expected NotFound, got %v", err)
	}
}

func TestRemoveColumnStripsWithoutCollapsing(t *testing.T) {
	tbl := newTestTable("a", "b")
	tbl.Rows = []RowFragment{{"1": "x"}, {"1": "y", "2": "z"}}

	if err := tbl.RemoveColumn(1); err != nil {
		t.Fatalf("RemoveColumn failed: %v", err)
	}

	want := []RowFragment{{}, {"2": "z"}}
	if !reflect.DeepEqual(tbl.Rows, want) {
		t.Errorf("Expected rows %v, got %v", want, tbl.Rows)
	}
	if tbl.HasColumn(1) {
		t.Errorf("Expected column 1 to be removed")
	}
	if err := tbl.RemoveColumn(1); !IsCode(err, ErrCNotFound) {
		t.Errorf("Expected NotFound on second removal, got %v", err)
	}
}

func TestAppendFragment(t *testing.T) {
	tbl := newTestTable("a", "b")

	if err := tbl.AppendFragment(RowFragment{"1": 1.0, "2": 2.0}); err != nil {
		t.Fatalf("AppendFragment failed: %v", err)
	}

	err := tbl.AppendFragment(RowFragment{"1": 1.0, "7": 1.0, "x": 1.0, "3": 1.0})
	if !IsCode(err, ErrCInvalidColumn) {
		t.Fatalf("Expected InvalidColumn, got %v", err)
	}
	if got := err.(*Error).InvalidIDs; !reflect.DeepEqual(got, []string{"3", "7", "x"}) {
		t.Errorf("Expected invalid ids [3 7 x], got %v", got)
	}
	if len(tbl.Rows) != 1 {
		t.Errorf("Expected failed append to leave 1 row, got %d", len(tbl.Rows))
	}
}

func TestAppendFragmentCopiesInput(t *testing.T) {
	tbl := newTestTable("a")
	values := RowFragment{"1": map[string]any{"nested": 1.0}}

	_ = tbl.AppendFragment(values)
	values["1"].(map[string]any)["nested"] = 2.0

	if got := tbl.Rows[0]["1"].(map[string]any)["nested"]; got != 1.0 {
		t.Errorf("Expected stored value to be isolated from input, got %v", got)
	}
}

func TestPatchFragment(t *testing.T) {
	tbl := newTestTable("a", "b")
	tbl.Rows = []RowFragment{{"1": "old"}}

	if err := tbl.PatchFragment(0, RowFragment{"1": "new", "2": "added"}); err != nil {
		t.Fatalf("PatchFragment failed: %v", err)
	}
	want := RowFragment{"1": "new", "2": "added"}
	if !reflect.DeepEqual(tbl.Rows[0], want) {
		t.Errorf("Expected %v, got %v", want, tbl.Rows[0])
	}

	for _, idx := range []int{-1, 1, 5} {
		if err := tbl.PatchFragment(idx, RowFragment{"1": "x"}); !IsCode(err, ErrCIndexOutOfRange) {
			t.Errorf("Expected IndexOutOfRange for index %d, got %v", idx, err)
		}
	}
	if err := tbl.PatchFragment(0, RowFragment{"9": "x"}); !IsCode(err, ErrCInvalidColumn) {
		t.Errorf("Expected InvalidColumn, got %v", err)
	}
	if !reflect.DeepEqual(tbl.Rows[0], want) {
		t.Errorf("Expected failed patches to leave %v, got %v", want, tbl.Rows[0])
	}
}

func TestDeleteValueCollapsesEmptyFragment(t *testing.T) {
	tbl := newTestTable("a", "b")
	tbl.Rows = []RowFragment{{"1": "x"}, {"1": "y", "2": "z"}, {"2": "w"}}

	if err := tbl.DeleteValue(0, 1); err != nil {
		t.Fatalf("DeleteValue failed: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("Expected the emptied fragment to be removed, got %v", tbl.Rows)
	}
	if !reflect.DeepEqual(tbl.Rows[0], RowFragment{"1": "y", "2": "z"}) {
		t.Errorf("Expected indices to shift down, got %v", tbl.Rows[0])
	}

	if err := tbl.DeleteValue(0, 2); err != nil {
		t.Fatalf("DeleteValue failed: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Errorf("Expected non-empty fragment to stay, got %v", tbl.Rows)
	}

	if err := tbl.DeleteValue(0, 2); !IsCode(err, ErrCValueNotFound) {
		t.Errorf("Expected ValueNotFound, got %v", err)
	}
	if err := tbl.DeleteValue(2, 1); !IsCode(err, ErrCIndexOutOfRange) {
		t.Errorf("Expected IndexOutOfRange, got %v", err)
	}
}

func TestDeleteAt(t *testing.T) {
	tbl := newTestTable("a")
	tbl.Rows = []RowFragment{{"1": "x"}, {"1": "y"}}

	if err := tbl.DeleteAt(0); err != nil {
		t.Fatalf("DeleteAt failed: %v", err)
	}
	if !reflect.DeepEqual(tbl.Rows, []RowFragment{{"1": "y"}}) {
		t.Errorf("Unexpected rows %v", tbl.Rows)
	}
	for _, idx := range []int{-1, 1} {
		if err := tbl.DeleteAt(idx); !IsCode(err, ErrCIndexOutOfRange) {
			t.Errorf("Expected IndexOutOfRange for %d, got %v", idx, err)
		}
	}
}

func TestSpliceByColumn(t *testing.T) {
	tests := []struct {
		name  string
		rows  []RowFragment
		index int
		want  []RowFragment
	}{
		{
			name:  "single column",
			rows:  []RowFragment{{"1": "a"}, {"1": "b"}, {"1": "c"}},
			index: 1,
			want:  []RowFragment{{"1": "a"}, {"1": "c"}},
		},
		{
			name:  "columns are spliced independently and regrouped by key",
			rows:  []RowFragment{{"2": "x"}, {"1": "a"}, {"2": "y"}, {"1": "b"}},
			index: 0,
			want:  []RowFragment{{"1": "b"}, {"2": "y"}},
		},
		{
			name:  "short lists are left alone",
			rows:  []RowFragment{{"1": "a"}, {"1": "b"}, {"2": "x"}},
			index: 1,
			want:  []RowFragment{{"1": "a"}, {"2": "x"}},
		},
		{
			name:  "multi key fragments keep only their first pair",
			rows:  []RowFragment{{"1": "a", "2": "x"}, {"1": "b", "2": "y"}, {}},
			index: 2,
			want:  []RowFragment{{"1": "a"}, {"1": "b"}},
		},
		{
			name:  "numeric key order is used for regrouping",
			rows:  []RowFragment{{"10": "ten"}, {"9": "nine"}},
			index: 1,
			want:  []RowFragment{{"9": "nine"}, {"10": "ten"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := newTestTable("a", "b")
			tbl.Rows = tt.rows
			if err := tbl.SpliceByColumn(tt.index); err != nil {
				t.Fatalf("SpliceByColumn failed: %v", err)
			}
			if !reflect.DeepEqual(tbl.Rows, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, tbl.Rows)
			}
		})
	}

	tbl := newTestTable("a")
	tbl.Rows = []RowFragment{{"1": "a"}}
	if err := tbl.SpliceByColumn(1); !IsCode(err, ErrCIndexOutOfRange) {
		t.Errorf("Expected IndexOutOfRange, got %v", err)
	}
}

func TestFragmentFirst(t *testing.T) {
	tests := []struct {
		fragment RowFragment
		key      string
		ok       bool
	}{
		{RowFragment{}, "", false},
		{RowFragment{"5": 1}, "5", true},
		{RowFragment{"10": 1, "9": 2}, "9", true},
		{RowFragment{"b": 1, "a": 2, "100": 3}, "100", true},
	}
	for _, tt := range tests {
		key, _, ok := tt.fragment.First()
		if key != tt.key || ok != tt.ok {
			t.Errorf("First(%v) = (%q, %v), want (%q, %v)", tt.fragment, key, ok, tt.key, tt.ok)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	tbl := newTestTable("a")
	tbl.Rows = []RowFragment{{"1": []any{1.0, 2.0}}}

	c := tbl.Clone()
	c.Rows[0]["1"].([]any)[0] = 9.0
	c.Columns[0].Name = "changed"

	if tbl.Rows[0]["1"].([]any)[0] != 1.0 || tbl.Columns[0].Name != "a" {
		t.Errorf("Expected clone to be independent of the original")
	}
}

func TestErrCodeRoundTrip(t *testing.T) {
	for c := ErrCInternal; c <= ErrCConflict; c++ {
		if got := ParseErrCode(c.String()); got != c {
			t.Errorf("ParseErrCode(%s) = %v", c, got)
		}
	}
	if ParseErrCode("nonsense") != ErrCInternal {
		t.Errorf("Expected unknown codes to map to Internal")
	}
}

func TestLogicalRowJSON(t *testing.T) {
	row := LogicalRow{"a": 1.0, "b": NoValue}

	b, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != `{"a":1,"b":null}` {
		t.Errorf("Unexpected encoding %s", b)
	}

	var decoded LogicalRow
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(decoded, row) {
		t.Errorf("Expected %v, got %v", row, decoded)
	}
}
