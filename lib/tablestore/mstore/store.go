package mstore

import (
	"sync/atomic"

	"github.com/ValentinKolb/dTable/lib/table"
	"github.com/ValentinKolb/dTable/lib/tablestore"
	"github.com/puzpuzpuz/xsync/v3"
)

type storeImpl struct {
	tables *xsync.MapOf[uint64, table.Table]
	nextID atomic.Uint64
	closed atomic.Bool
}

// NewMemoryStore creates a new in-memory table store.
// This store is not persistent and only works on a single node.
func NewMemoryStore() tablestore.ITableStore {
	return &storeImpl{
		tables: xsync.NewMapOf[uint64, table.Table](),
	}
}

// incAndGetID increments the id counter and returns the new value.
//
// Thread-safety: This method is thread-safe since it uses atomic operations.
func (s *storeImpl) incAndGetID() uint64 {
	return s.nextID.Add(1)
}

func (s *storeImpl) checkOpen() error {
	if s.closed.Load() {
		return tablestore.NewError(tablestore.RetCInvalidOperation, "store is closed")
	}
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see tablestore/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Create() (table.Table, error) {
	if err := s.checkOpen(); err != nil {
		return table.Table{}, err
	}
	t := table.New(s.incAndGetID())
	t.Version = 1
	s.tables.Store(t.ID, t.Clone())
	return t, nil
}

func (s *storeImpl) Load(id uint64) (table.Table, bool, error) {
	if err := s.checkOpen(); err != nil {
		return table.Table{}, false, err
	}
	t, ok := s.tables.Load(id)
	if !ok {
		return table.Table{}, false, nil
	}
	return t.Clone(), true, nil
}

func (s *storeImpl) Save(t table.Table) (table.Table, error) {
	if err := s.checkOpen(); err != nil {
		return table.Table{}, err
	}

	next := t.Clone()
	next.Normalize()
	next.Version = t.Version + 1

	var saveErr error
	s.tables.Compute(t.ID, func(old table.Table, loaded bool) (table.Table, bool) {
		if !loaded {
			saveErr = tablestore.NewNotFoundError(t.ID)
			return old, true
		}
		if old.Version != t.Version {
			saveErr = tablestore.NewConflictError(t.ID, t.Version, old.Version)
			return old, false
		}
		return next, false
	})
	if saveErr != nil {
		return table.Table{}, saveErr
	}
	return next.Clone(), nil
}

func (s *storeImpl) Close() error {
	s.closed.Store(true)
	return nil
}
