package testing

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ValentinKolb/dTable/lib/table"
	"github.com/ValentinKolb/dTable/lib/tablestore"
)

// StoreFactory is a function that creates a new, empty ITableStore
type StoreFactory func() tablestore.ITableStore

// RunTableStoreTests runs the shared test suite for an ITableStore implementation.
func RunTableStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Create", func(t *testing.T) {
			testCreate(t, open(t, factory))
		})

		t.Run("LoadMissing", func(t *testing.T) {
			testLoadMissing(t, open(t, factory))
		})

		t.Run("SaveLoad", func(t *testing.T) {
			testSaveLoad(t, open(t, factory))
		})

		t.Run("VersionConflict", func(t *testing.T) {
			testVersionConflict(t, open(t, factory))
		})

		t.Run("SaveMissing", func(t *testing.T) {
			testSaveMissing(t, open(t, factory))
		})

		t.Run("Isolation", func(t *testing.T) {
			testIsolation(t, open(t, factory))
		})

		t.Run("ConcurrentCreate", func(t *testing.T) {
			testConcurrentCreate(t, open(t, factory))
		})

		t.Run("ConcurrentSave", func(t *testing.T) {
			testConcurrentSave(t, open(t, factory))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// open creates a store and closes it when the test ends
func open(t *testing.T, factory StoreFactory) tablestore.ITableStore {
	s := factory()
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

// requireCode fails the test if err is not a *tablestore.Error with the given code
func requireCode(t *testing.T, err error, code tablestore.RetCode) {
	t.Helper()
	storeErr, ok := err.(*tablestore.Error)
	if !ok {
		t.Fatalf("Expected *tablestore.Error with code %s, got %v", code, err)
	}
	if storeErr.Code != code {
		t.Fatalf("Expected code %s, got %s (%s)", code, storeErr.Code, storeErr.Msg)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testCreate(t *testing.T, s tablestore.ITableStore) {
	a, err := s.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	b, err := s.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if a.ID == b.ID {
		t.Errorf("Expected unique table ids, got %d twice", a.ID)
	}
	if len(a.Columns) != 0 || len(a.Rows) != 0 {
		t.Errorf("Expected empty table, got %+v", a)
	}

	loaded, ok, err := s.Load(a.ID)
	if err != nil || !ok {
		t.Fatalf("Expected created table to be loadable, got ok=%v err=%v", ok, err)
	}
	if loaded.Version != a.Version {
		t.Errorf("Expected version %d, got %d", a.Version, loaded.Version)
	}
}

func testLoadMissing(t *testing.T, s tablestore.ITableStore) {
	_, ok, err := s.Load(424242)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ok {
		t.Errorf("Expected missing table not to be found")
	}
}

func testSaveLoad(t *testing.T, s tablestore.ITableStore) {
	tbl, err := s.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := tbl.AddColumn("name"); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AppendFragment(table.RowFragment{"1": "John"}); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AppendFragment(table.RowFragment{"1": map[string]any{"nested": []any{1.0, "two"}}}); err != nil {
		t.Fatal(err)
	}

	saved, err := s.Save(tbl)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.Version != tbl.Version+1 {
		t.Errorf("Expected version %d after save, got %d", tbl.Version+1, saved.Version)
	}

	loaded, ok, err := s.Load(tbl.ID)
	if err != nil || !ok {
		t.Fatalf("Load failed: ok=%v err=%v", ok, err)
	}
	if loaded.Version != saved.Version {
		t.Errorf("Expected loaded version %d, got %d", saved.Version, loaded.Version)
	}
	if len(loaded.Columns) != 1 || loaded.Columns[0].Name != "name" {
		t.Errorf("Unexpected columns %v", loaded.Columns)
	}
	if len(loaded.Rows) != 2 || loaded.Rows[0]["1"] != "John" {
		t.Errorf("Unexpected rows %v", loaded.Rows)
	}
	if loaded.NextColumnID != 2 {
		t.Errorf("Expected column id source to be persisted, got %d", loaded.NextColumnID)
	}
}

func testVersionConflict(t *testing.T, s tablestore.ITableStore) {
	tbl, err := s.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	first := tbl.Clone()
	second := tbl.Clone()
	_, _ = first.AddColumn("first")
	_, _ = second.AddColumn("second")

	if _, err := s.Save(first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	_, err = s.Save(second)
	requireCode(t, err, tablestore.RetCConflict)

	loaded, _, _ := s.Load(tbl.ID)
	if len(loaded.Columns) != 1 || loaded.Columns[0].Name != "first" {
		t.Errorf("Expected the rejected save to leave the table unchanged, got %v", loaded.Columns)
	}
}

func testSaveMissing(t *testing.T, s tablestore.ITableStore) {
	_, err := s.Save(table.New(777))
	requireCode(t, err, tablestore.RetCNotFound)

	if _, ok, _ := s.Load(777); ok {
		t.Errorf("Expected failed save not to create the table")
	}
}

func testIsolation(t *testing.T, s tablestore.ITableStore) {
	tbl, err := s.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, _ = tbl.AddColumn("a")
	_ = tbl.AppendFragment(table.RowFragment{"1": "stored"})
	if tbl, err = s.Save(tbl); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// mutating returned values must not leak into the store
	tbl.Rows[0]["1"] = "changed"
	loaded, _, _ := s.Load(tbl.ID)
	loaded.Columns[0].Name = "changed"

	again, _, _ := s.Load(tbl.ID)
	if again.Rows[0]["1"] != "stored" || again.Columns[0].Name != "a" {
		t.Errorf("Expected stored table to be isolated from returned values, got %+v", again)
	}
}

func testConcurrentCreate(t *testing.T, s tablestore.ITableStore) {
	const n = 32
	var wg sync.WaitGroup
	ids := make(chan uint64, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tbl, err := s.Create()
			if err != nil {
				t.Errorf("Create failed: %v", err)
				return
			}
			ids <- tbl.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint64]bool)
	for id := range ids {
		if seen[id] {
			t.Errorf("Table id %d was handed out twice", id)
		}
		seen[id] = true
	}
}

func testConcurrentSave(t *testing.T, s tablestore.ITableStore) {
	tbl, err := s.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	const n = 16
	var wg sync.WaitGroup
	var succeeded atomic.Int32

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := tbl.Clone()
			_, _ = c.AddColumn("col")
			if _, err := s.Save(c); err == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	if succeeded.Load() != 1 {
		t.Errorf("Expected exactly one save of the same version to succeed, got %d", succeeded.Load())
	}
	loaded, _, _ := s.Load(tbl.ID)
	if len(loaded.Columns) != 1 {
		t.Errorf("Expected exactly one column, got %d", len(loaded.Columns))
	}
}
