package table

// --------------------------------------------------------------------------
// Row Fragment Store
// --------------------------------------------------------------------------

// ValidateKeys returns an ErrCInvalidColumn error listing every key of values
// that is not the id of a current column.
func (t *Table) ValidateKeys(values RowFragment) error {
	known := t.columnKeys()
	var invalid []string
	for _, k := range values.Keys() {
		if _, ok := known[k]; !ok {
			invalid = append(invalid, k)
		}
	}
	if len(invalid) > 0 {
		return NewInvalidColumnError(invalid)
	}
	return nil
}

// AppendFragment validates and appends a copy of values as a new fragment.
// This is the only path that stores fragments with more than one key.
func (t *Table) AppendFragment(values RowFragment) error {
	if err := t.ValidateKeys(values); err != nil {
		return err
	}
	if values == nil {
		values = RowFragment{}
	}
	t.Rows = append(t.Rows, values.Clone())
	return nil
}

// PatchFragment merges values into the fragment at index, overwriting
// overlapping keys.
func (t *Table) PatchFragment(index int, values RowFragment) error {
	if err := t.checkIndex(index); err != nil {
		return err
	}
	if err := t.ValidateKeys(values); err != nil {
		return err
	}
	row := t.Rows[index]
	if row == nil {
		row = RowFragment{}
		t.Rows[index] = row
	}
	for k, v := range values {
		row[k] = cloneValue(v)
	}
	return nil
}

// DeleteValue removes a single value. A fragment that becomes empty is removed
// and every later index shifts down by one.
func (t *Table) DeleteValue(index int, columnID uint64) error {
	if err := t.checkIndex(index); err != nil {
		return err
	}
	key := ColumnKey(columnID)
	row := t.Rows[index]
	if _, ok := row[key]; !ok {
		return NewError(ErrCValueNotFound, "Value not found in column with ID: %d", columnID)
	}
	delete(row, key)
	if len(row) == 0 {
		t.Rows = append(t.Rows[:index], t.Rows[index+1:]...)
	}
	return nil
}

// DeleteAt removes the fragment at index.
func (t *Table) DeleteAt(index int) error {
	if err := t.checkIndex(index); err != nil {
		return err
	}
	t.Rows = append(t.Rows[:index], t.Rows[index+1:]...)
	return nil
}

// StripColumn removes the column key from every fragment without removing the
// fragments themselves.
func (t *Table) StripColumn(columnID uint64) {
	key := ColumnKey(columnID)
	for _, row := range t.Rows {
		delete(row, key)
	}
}

// SpliceByColumn is the delete-row rewrite: the first pair of every fragment
// is collected into one value list per column key, the value at index is cut
// out of each list independently, and the lists are flattened back into
// single-key fragments in column key order. Additional pairs of multi-key
// fragments and empty fragments do not survive.
func (t *Table) SpliceByColumn(index int) error {
	if err := t.checkIndex(index); err != nil {
		return err
	}

	lists := make(map[string][]any)
	var order []string
	for _, row := range t.Rows {
		key, value, ok := row.First()
		if !ok {
			continue
		}
		if _, seen := lists[key]; !seen {
			order = append(order, key)
		}
		lists[key] = append(lists[key], value)
	}
	sortKeys(order)

	rows := make([]RowFragment, 0, len(t.Rows))
	for _, key := range order {
		values := lists[key]
		if index < len(values) {
			values = append(values[:index], values[index+1:]...)
		}
		for _, v := range values {
			rows = append(rows, RowFragment{key: v})
		}
	}
	t.Rows = rows
	return nil
}

func (t *Table) checkIndex(index int) error {
	if index < 0 || index >= len(t.Rows) {
		return NewError(ErrCIndexOutOfRange, "Row index %d is out of bounds [0, %d)", index, len(t.Rows))
	}
	return nil
}
