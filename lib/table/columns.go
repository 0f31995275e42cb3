package table

// --------------------------------------------------------------------------
// Column Registry
// --------------------------------------------------------------------------

// AddColumn appends a new column with a fresh id and returns it.
func (t *Table) AddColumn(name string) (ColumnDef, error) {
	if name == "" {
		return ColumnDef{}, NewError(ErrCBadRequest, "Column name is required")
	}
	t.Normalize()

	col := ColumnDef{ID: t.NextColumnID, Name: name}
	t.NextColumnID++
	t.Columns = append(t.Columns, col)
	return col, nil
}

// RenameColumn changes the name of an existing column.
func (t *Table) RenameColumn(columnID uint64, name string) error {
	if name == "" {
		return NewError(ErrCBadRequest, "Column name is required")
	}
	idx := t.columnIndex(columnID)
	if idx < 0 {
		return NewError(ErrCNotFound, "Column not found")
	}
	t.Columns[idx].Name = name
	return nil
}

// RemoveColumn deletes a column and strips its values from every fragment.
// Fragments left empty stay in place.
func (t *Table) RemoveColumn(columnID uint64) error {
	idx := t.columnIndex(columnID)
	if idx < 0 {
		return NewError(ErrCNotFound, "Column not found")
	}
	t.Columns = append(t.Columns[:idx], t.Columns[idx+1:]...)
	t.StripColumn(columnID)
	return nil
}

// HasColumn reports whether a column with the id exists.
func (t *Table) HasColumn(columnID uint64) bool {
	return t.columnIndex(columnID) >= 0
}

func (t *Table) columnIndex(columnID uint64) int {
	for i, c := range t.Columns {
		if c.ID == columnID {
			return i
		}
	}
	return -1
}

// columnKeys returns the set of valid fragment keys.
func (t *Table) columnKeys() map[string]struct{} {
	keys := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		keys[ColumnKey(c.ID)] = struct{}{}
	}
	return keys
}
