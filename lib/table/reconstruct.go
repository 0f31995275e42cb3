package table

// --------------------------------------------------------------------------
// Row Reconstructor
// --------------------------------------------------------------------------

// Reconstruct coalesces fragments into logical rows keyed by column name.
//
// The first pair of each fragment decides where it goes: the fragment joins the
// first open combination that has no value for that column yet, otherwise a
// new combination is opened. The remaining pairs of a multi-key fragment fill
// the same combination where its columns are still unset. Every combination is
// then expanded over all columns (missing ones hold NoValue) and combinations
// without any value are dropped. Unlike a first-key-only reconstruction, the
// further pairs of a fragment are kept, so a row written with several values
// reads back whole.
//
// Callers must not rely on the order of the returned rows.
func Reconstruct(columns []ColumnDef, fragments []RowFragment) []LogicalRow {
	names := make(map[string]string, len(columns))
	for _, c := range columns {
		names[ColumnKey(c.ID)] = c.Name
	}

	// open combinations, in the order they were created
	var arena []map[string]any
	for _, fragment := range fragments {
		key, value, ok := fragment.First()
		if !ok {
			continue
		}
		name, ok := names[key]
		if !ok {
			continue
		}

		var target map[string]any
		for _, combination := range arena {
			if _, set := combination[name]; !set {
				target = combination
				break
			}
		}
		if target == nil {
			target = make(map[string]any, len(columns))
			arena = append(arena, target)
		}
		target[name] = value

		if len(fragment) > 1 {
			for _, k := range fragment.Keys()[1:] {
				other, ok := names[k]
				if !ok {
					continue
				}
				if _, set := target[other]; !set {
					target[other] = fragment[k]
				}
			}
		}
	}

	rows := make([]LogicalRow, 0, len(arena))
	for _, combination := range arena {
		row := make(LogicalRow, len(columns))
		empty := true
		for _, c := range columns {
			v, ok := combination[c.Name]
			if !ok || IsNoValue(v) {
				row[c.Name] = NoValue
				continue
			}
			row[c.Name] = v
			empty = false
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows
}

// View reconstructs the table into its read model.
func (t *Table) View() View {
	cols := append([]ColumnDef{}, t.Columns...)
	return View{
		ID:      t.ID,
		Columns: cols,
		Rows:    Reconstruct(cols, t.Rows),
	}
}
