package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/ValentinKolb/dTable/lib/table"
	"github.com/ValentinKolb/dTable/lib/tablestore"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("engine")

// lockShards is the number of table locks. Tables share a lock when their ids
// are equal modulo lockShards, so memory stays fixed however many tables exist.
const lockShards = 256

type engineImpl struct {
	store tablestore.ITableStore
	locks [lockShards]sync.Mutex
}

// NewTableEngine creates a new engine working on the given store.
// Operations on the same table id are serialized, operations on tables in
// different lock shards run in parallel.
func NewTableEngine(store tablestore.ITableStore) ITableEngine {
	return &engineImpl{
		store: store,
	}
}

// --------------------------------------------------------------------------
// Internal helpers (used by interface methods)
// --------------------------------------------------------------------------

// shard returns the lock guarding tableID
func (e *engineImpl) shard(tableID uint64) *sync.Mutex {
	return &e.locks[tableID%lockShards]
}

func (e *engineImpl) lock(tableID uint64) func() {
	mu := e.shard(tableID)
	mu.Lock()
	return mu.Unlock
}

// load returns the table or a NotFound error
func (e *engineImpl) load(tableID uint64) (table.Table, error) {
	t, ok, err := e.store.Load(tableID)
	if err != nil {
		return table.Table{}, storeError(err)
	}
	if !ok {
		return table.Table{}, table.NewError(table.ErrCNotFound, "Table not found")
	}
	t.Normalize()
	return t, nil
}

// mutate runs the load-mutate-save cycle for one table under its lock.
// fn works on a private copy, nothing is saved if it fails.
func (e *engineImpl) mutate(tableID uint64, fn func(t *table.Table) error) (table.Table, error) {
	defer e.lock(tableID)()

	t, err := e.load(tableID)
	if err != nil {
		return table.Table{}, err
	}
	if err := fn(&t); err != nil {
		return table.Table{}, err
	}
	saved, err := e.store.Save(t)
	if err != nil {
		return table.Table{}, storeError(err)
	}
	return saved, nil
}

// storeError converts a store failure into a table error
func storeError(err error) error {
	var storeErr *tablestore.Error
	if errors.As(err, &storeErr) {
		switch storeErr.Code {
		case tablestore.RetCConflict:
			return table.NewError(table.ErrCConflict, "%s", storeErr.Msg)
		case tablestore.RetCNotFound:
			return table.NewError(table.ErrCNotFound, "Table not found")
		}
	}
	log.Errorf("table store failure: %v", err)
	return table.NewError(table.ErrCInternal, "table store failure: %v", err)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see engine.ITableEngine)
// --------------------------------------------------------------------------

func (e *engineImpl) CreateTable() (t table.Table, err error) {
	defer observe(opCreateTable, time.Now(), &err)

	t, err = e.store.Create()
	if err != nil {
		return table.Table{}, storeError(err)
	}
	t.Normalize()
	log.Debugf("created table %d", t.ID)
	return t, nil
}

func (e *engineImpl) AddColumn(tableID uint64, name string) (cols []table.ColumnDef, err error) {
	defer observe(opAddColumn, time.Now(), &err)

	var added table.ColumnDef
	t, err := e.mutate(tableID, func(t *table.Table) error {
		var err error
		added, err = t.AddColumn(name)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Debugf("added column %d (%q) to table %d", added.ID, added.Name, tableID)
	return t.Columns, nil
}

func (e *engineImpl) UpdateColumn(tableID, columnID uint64, name string) (cols []table.ColumnDef, err error) {
	defer observe(opUpdateColumn, time.Now(), &err)

	t, err := e.mutate(tableID, func(t *table.Table) error {
		return t.RenameColumn(columnID, name)
	})
	if err != nil {
		return nil, err
	}
	return t.Columns, nil
}

func (e *engineImpl) DeleteColumn(tableID, columnID uint64) (res ColumnsAndRows, err error) {
	defer observe(opDeleteColumn, time.Now(), &err)

	t, err := e.mutate(tableID, func(t *table.Table) error {
		return t.RemoveColumn(columnID)
	})
	if err != nil {
		return ColumnsAndRows{}, err
	}
	return ColumnsAndRows{Columns: t.Columns, Rows: t.Rows}, nil
}

func (e *engineImpl) AddRow(tableID uint64, values table.RowFragment) (rows []table.RowFragment, err error) {
	defer observe(opAddRow, time.Now(), &err)

	t, err := e.mutate(tableID, func(t *table.Table) error {
		return t.AppendFragment(values)
	})
	if err != nil {
		return nil, err
	}
	return t.Rows, nil
}

func (e *engineImpl) UpdateRow(tableID uint64, index int, values table.RowFragment) (rows []table.RowFragment, err error) {
	defer observe(opUpdateRow, time.Now(), &err)

	t, err := e.mutate(tableID, func(t *table.Table) error {
		return t.PatchFragment(index, values)
	})
	if err != nil {
		return nil, err
	}
	return t.Rows, nil
}

func (e *engineImpl) DeleteRow(tableID uint64, index int) (t table.Table, err error) {
	defer observe(opDeleteRow, time.Now(), &err)

	return e.mutate(tableID, func(t *table.Table) error {
		return t.SpliceByColumn(index)
	})
}

func (e *engineImpl) DeleteSingleValue(tableID, columnID uint64, index int) (rows []table.RowFragment, err error) {
	defer observe(opDeleteSingleValue, time.Now(), &err)

	t, err := e.mutate(tableID, func(t *table.Table) error {
		if !t.HasColumn(columnID) {
			return table.NewError(table.ErrCColumnNotFound, "Column not found")
		}
		return t.DeleteValue(index, columnID)
	})
	if err != nil {
		return nil, err
	}
	return t.Rows, nil
}

func (e *engineImpl) GetTable(tableID uint64) (v table.View, err error) {
	defer observe(opGetTable, time.Now(), &err)

	defer e.lock(tableID)()
	t, err := e.load(tableID)
	if err != nil {
		return table.View{}, err
	}
	return t.View(), nil
}
