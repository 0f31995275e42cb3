package lvstore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/ValentinKolb/dTable/lib/codec"
	"github.com/ValentinKolb/dTable/lib/table"
	"github.com/ValentinKolb/dTable/lib/tablestore"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

var (
	log = logger.GetLogger("store")

	// keyNextID holds the last table id handed out
	keyNextID = []byte("meta/next-table-id")
)

// tableKey returns the database key of a table
func tableKey(id uint64) []byte {
	return []byte(fmt.Sprintf("table/%d", id))
}

type storeImpl struct {
	db    *leveldb.DB
	codec codec.ITableCodec
	wo    *opt.WriteOptions
	// mu serializes Create and Save so the version check and the write are atomic
	mu sync.Mutex
}

// Config contains the settings of a LevelDB table store
type Config struct {
	// Path is the database directory. An empty path opens an in-memory database.
	Path string
	// Codec encodes the tables at rest
	Codec codec.ITableCodec
	// Sync forces an fsync after every write
	Sync bool
}

// NewLevelDBStore opens (or creates) a LevelDB backed table store.
// This store is persistent but not distributed.
func NewLevelDBStore(config Config) (tablestore.ITableStore, error) {
	if config.Codec == nil {
		config.Codec = codec.NewJSONCodec()
	}

	var db *leveldb.DB
	var err error
	if config.Path == "" {
		db, err = leveldb.Open(storage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(config.Path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb at %q: %w", config.Path, err)
	}

	log.Infof("opened leveldb table store (path=%q, codec=%s)", config.Path, config.Codec.Name())
	return &storeImpl{
		db:    db,
		codec: config.Codec,
		wo:    &opt.WriteOptions{Sync: config.Sync},
	}, nil
}

// get loads and decodes a table, ok is false if the key does not exist
func (s *storeImpl) get(id uint64) (table.Table, bool, error) {
	data, err := s.db.Get(tableKey(id), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return table.Table{}, false, nil
	}
	if err != nil {
		return table.Table{}, false, tablestore.NewError(tablestore.RetCInternalError, err.Error())
	}
	t, err := s.codec.Decode(data)
	if err != nil {
		return table.Table{}, false, tablestore.NewError(tablestore.RetCInternalError,
			fmt.Sprintf("failed to decode table %d: %v", id, err))
	}
	return t, true, nil
}

func (s *storeImpl) lastID() (uint64, error) {
	data, err := s.db.Get(keyNextID, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("corrupt table id counter (%d bytes)", len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see tablestore/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Create() (table.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, err := s.lastID()
	if err != nil {
		return table.Table{}, tablestore.NewError(tablestore.RetCInternalError, err.Error())
	}

	t := table.New(last + 1)
	t.Version = 1
	data, err := s.codec.Encode(t)
	if err != nil {
		return table.Table{}, tablestore.NewError(tablestore.RetCInternalError, err.Error())
	}

	counter := make([]byte, 8)
	binary.BigEndian.PutUint64(counter, t.ID)

	batch := new(leveldb.Batch)
	batch.Put(keyNextID, counter)
	batch.Put(tableKey(t.ID), data)
	if err := s.db.Write(batch, s.wo); err != nil {
		return table.Table{}, tablestore.NewError(tablestore.RetCInternalError, err.Error())
	}
	return t, nil
}

func (s *storeImpl) Load(id uint64) (table.Table, bool, error) {
	return s.get(id)
}

func (s *storeImpl) Save(t table.Table) (table.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok, err := s.get(t.ID)
	if err != nil {
		return table.Table{}, err
	}
	if !ok {
		return table.Table{}, tablestore.NewNotFoundError(t.ID)
	}
	if stored.Version != t.Version {
		return table.Table{}, tablestore.NewConflictError(t.ID, t.Version, stored.Version)
	}

	next := t.Clone()
	next.Normalize()
	next.Version = t.Version + 1
	data, err := s.codec.Encode(next)
	if err != nil {
		return table.Table{}, tablestore.NewError(tablestore.RetCInternalError, err.Error())
	}
	if err := s.db.Put(tableKey(t.ID), data, s.wo); err != nil {
		return table.Table{}, tablestore.NewError(tablestore.RetCInternalError, err.Error())
	}
	return next, nil
}

func (s *storeImpl) Close() error {
	return s.db.Close()
}
