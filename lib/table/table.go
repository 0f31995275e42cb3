package table

import (
	"encoding/json"
	"sort"
	"strconv"
)

// --------------------------------------------------------------------------
// Model
// --------------------------------------------------------------------------

// ColumnDef describes an addressable attribute of a table.
type ColumnDef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// RowFragment is a sparse mapping from column id (decimal string) to a value,
// exactly as it is stored.
type RowFragment map[string]any

// Table is the persisted entity. It holds the column registry and the raw
// fragment collection.
type Table struct {
	ID      uint64        `json:"id"`
	Columns []ColumnDef   `json:"columns"`
	Rows    []RowFragment `json:"rows"`

	// NextColumnID is the id handed out to the next added column.
	// It only ever grows, so ids are never reused.
	NextColumnID uint64 `json:"nextColumnId"`
	// Version is incremented by the store on every successful save.
	Version uint64 `json:"version"`
}

// New returns an empty table with the given id.
func New(id uint64) Table {
	return Table{
		ID:           id,
		Columns:      []ColumnDef{},
		Rows:         []RowFragment{},
		NextColumnID: 1,
	}
}

// Normalize replaces nil slices with empty ones and makes sure the column id
// source is ahead of every existing column.
func (t *Table) Normalize() {
	if t.Columns == nil {
		t.Columns = []ColumnDef{}
	}
	if t.Rows == nil {
		t.Rows = []RowFragment{}
	}
	for i := range t.Rows {
		if t.Rows[i] == nil {
			t.Rows[i] = RowFragment{}
		}
	}
	for _, c := range t.Columns {
		if c.ID >= t.NextColumnID {
			t.NextColumnID = c.ID + 1
		}
	}
	if t.NextColumnID == 0 {
		t.NextColumnID = 1
	}
}

// Clone returns a deep copy of the table. Values nested inside fragments are
// copied as long as they are JSON-compatible (maps, slices, scalars).
func (t Table) Clone() Table {
	c := t
	c.Columns = append([]ColumnDef{}, t.Columns...)
	c.Rows = make([]RowFragment, len(t.Rows))
	for i, row := range t.Rows {
		c.Rows[i] = row.Clone()
	}
	return c
}

// --------------------------------------------------------------------------
// Fragment helpers
// --------------------------------------------------------------------------

// Clone returns a deep copy of the fragment.
func (f RowFragment) Clone() RowFragment {
	if f == nil {
		return nil
	}
	c := make(RowFragment, len(f))
	for k, v := range f {
		c[k] = cloneValue(v)
	}
	return c
}

// Keys returns the fragment keys in fragment key order: numeric keys ascending
// by value first, then all other keys lexicographically.
func (f RowFragment) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

// First returns the first key/value pair in fragment key order.
// ok is false for an empty fragment.
func (f RowFragment) First() (key string, value any, ok bool) {
	for k := range f {
		if !ok || keyLess(k, key) {
			key, ok = k, true
		}
	}
	if ok {
		value = f[key]
	}
	return key, value, ok
}

func sortKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
}

// keyLess orders numeric keys before non-numeric ones.
func keyLess(a, b string) bool {
	na, errA := strconv.ParseUint(a, 10, 64)
	nb, errB := strconv.ParseUint(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		if na != nb {
			return na < nb
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

// ColumnKey is the fragment key of a column id.
func ColumnKey(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		c := make(map[string]any, len(val))
		for k, inner := range val {
			c[k] = cloneValue(inner)
		}
		return c
	case []any:
		c := make([]any, len(val))
		for i, inner := range val {
			c[i] = cloneValue(inner)
		}
		return c
	default:
		return v
	}
}

// --------------------------------------------------------------------------
// Read side
// --------------------------------------------------------------------------

type noValue struct{}

// MarshalJSON encodes the marker as null.
func (noValue) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

func (noValue) String() string {
	return "<no value>"
}

// NoValue marks a column that has no value in a logical row.
var NoValue any = noValue{}

// IsNoValue reports whether v is the no-value marker. A stored nil counts as
// no value as well.
func IsNoValue(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(noValue)
	return ok
}

// LogicalRow is a reconstructed row keyed by column name. Every defined column
// is present, absent values hold NoValue.
type LogicalRow map[string]any

// UnmarshalJSON turns null into NoValue so decoded rows compare equal to
// reconstructed ones.
func (r *LogicalRow) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	row := make(LogicalRow, len(raw))
	for k, v := range raw {
		if v == nil {
			v = NoValue
		}
		row[k] = v
	}
	*r = row
	return nil
}

// View is the read model returned by GetTable. Row order is not guaranteed.
type View struct {
	ID      uint64       `json:"id"`
	Columns []ColumnDef  `json:"columns"`
	Rows    []LogicalRow `json:"rows"`
}
