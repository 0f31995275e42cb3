package dstore

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/dTable/lib/codec"
	"github.com/ValentinKolb/dTable/lib/table"
	"github.com/ValentinKolb/dTable/lib/tablestore"
	"github.com/ValentinKolb/dTable/lib/tablestore/dstore/internal"
	sm "github.com/lni/dragonboat/v4/statemachine"
	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// State Machine Implementation
// --------------------------------------------------------------------------

// entry is a stored table: its current version and its encoded form
type entry struct {
	version uint64
	data    []byte
}

// snapshot is the state captured by PrepareSnapshot
type snapshot struct {
	lastID  uint64
	ids     []uint64
	entries []entry
}

// TableStateMachine is a state machine implementation for Dragonboat RAFT.
// It holds every table of the shard in encoded form.
type TableStateMachine struct {
	replicaID uint64
	shardID   uint64
	codec     codec.ITableCodec
	tables    *xsync.MapOf[uint64, entry]
	lastID    atomic.Uint64
}

// CreateStateMachineFactory returns a function that can be used by dragonboat to create a new state machine for a node host.
// All replicas of a shard must use the same codec.
func CreateStateMachineFactory(c codec.ITableCodec) func(shardID uint64, replicaID uint64) sm.IConcurrentStateMachine {
	return func(shardID uint64, replicaID uint64) sm.IConcurrentStateMachine {
		return newStateMachine(shardID, replicaID, c)
	}
}

func newStateMachine(shardID, replicaID uint64, c codec.ITableCodec) *TableStateMachine {
	return &TableStateMachine{
		replicaID: replicaID,
		shardID:   shardID,
		codec:     c,
		tables:    xsync.NewMapOf[uint64, entry](),
	}
}

// Lookup handles read-only queries.
func (fsm *TableStateMachine) Lookup(itf interface{}) (interface{}, error) {
	q, ok := itf.(internal.Query)
	if !ok {
		return nil, tablestore.NewError(tablestore.RetCInternalError, fmt.Sprintf("invalid Query type: %T", itf))
	}

	switch q.Type {
	case internal.QueryTLoad:
		e, ok := fsm.tables.Load(q.TableID)
		return internal.QueryResult{
			Ok:    ok,
			Value: e.data,
		}, nil
	default:
		return nil, tablestore.NewError(tablestore.RetCInvalidOperation, fmt.Sprintf("unknown Query operation: %d", q.Type))
	}
}

// Update applies Create and Save commands.
// The result value of every entry is a tablestore.RetCode, the data is either
// the encoded table (Create) or an error message.
func (fsm *TableStateMachine) Update(entries []sm.Entry) ([]sm.Entry, error) {
	if len(entries) == 0 {
		return entries, nil
	}

	start := time.Now()

	for idx, e := range entries {
		if len(e.Cmd) == 0 {
			entries[idx].Result = sm.Result{Value: uint64(tablestore.RetCInvalidOperation), Data: []byte("empty command ignored")}
			continue
		}
		cmd := internal.Command{}
		if err := cmd.Deserialize(e.Cmd); err != nil {
			entries[idx].Result = sm.Result{Value: uint64(tablestore.RetCInternalError), Data: []byte(fmt.Sprintf("failed to deserialize command: %v", err))}
			continue
		}

		switch cmd.Type {
		case internal.CommandTCreate:
			entries[idx].Result = fsm.create()
		case internal.CommandTSave:
			entries[idx].Result = fsm.save(cmd)
		default:
			entries[idx].Result = sm.Result{
				Value: uint64(tablestore.RetCInvalidOperation),
				Data:  []byte(fmt.Sprintf("unknown Command operation: %s", cmd.Type)),
			}
		}
	}

	if elapsed := time.Since(start); elapsed > time.Millisecond {
		log.Infof("State machine took long to update. Batch updated %d entries, took %.2fms", len(entries), float64(elapsed)/float64(time.Millisecond))
	}
	return entries, nil
}

func (fsm *TableStateMachine) create() sm.Result {
	t := table.New(fsm.lastID.Load() + 1)
	t.Version = 1
	data, err := fsm.codec.Encode(t)
	if err != nil {
		return sm.Result{Value: uint64(tablestore.RetCInternalError), Data: []byte(err.Error())}
	}
	fsm.lastID.Store(t.ID)
	fsm.tables.Store(t.ID, entry{version: t.Version, data: data})
	return sm.Result{Value: uint64(tablestore.RetCSuccess), Data: data}
}

func (fsm *TableStateMachine) save(cmd internal.Command) sm.Result {
	stored, ok := fsm.tables.Load(cmd.TableID)
	if !ok {
		return sm.Result{Value: uint64(tablestore.RetCNotFound), Data: []byte(tablestore.NewNotFoundError(cmd.TableID).Msg)}
	}
	if stored.version != cmd.Version {
		return sm.Result{
			Value: uint64(tablestore.RetCConflict),
			Data:  []byte(tablestore.NewConflictError(cmd.TableID, cmd.Version, stored.version).Msg),
		}
	}
	fsm.tables.Store(cmd.TableID, entry{version: cmd.Version + 1, data: cmd.Value})
	return sm.Result{Value: uint64(tablestore.RetCSuccess)}
}

// PrepareSnapshot captures the current tables. Stored byte slices are never
// modified in place, so copying the references is enough.
func (fsm *TableStateMachine) PrepareSnapshot() (interface{}, error) {
	snap := &snapshot{lastID: fsm.lastID.Load()}
	fsm.tables.Range(func(id uint64, e entry) bool {
		snap.ids = append(snap.ids, id)
		snap.entries = append(snap.entries, e)
		return true
	})
	return snap, nil
}

// SaveSnapshot writes the state captured by PrepareSnapshot with the format:
// lastID, table count, then per table id, version, data length and data
// (all integers uint64 big endian).
func (fsm *TableStateMachine) SaveSnapshot(ctx interface{}, writer io.Writer, _ sm.ISnapshotFileCollection, done <-chan struct{}) error {
	snap, ok := ctx.(*snapshot)
	if !ok {
		return fmt.Errorf("invalid snapshot context: %T", ctx)
	}

	w := bufio.NewWriter(writer)
	if err := writeUint64s(w, snap.lastID, uint64(len(snap.ids))); err != nil {
		return err
	}
	for i, id := range snap.ids {
		select {
		case <-done:
			return sm.ErrSnapshotStopped
		default:
		}
		e := snap.entries[i]
		if err := writeUint64s(w, id, e.version, uint64(len(e.data))); err != nil {
			return err
		}
		if _, err := w.Write(e.data); err != nil {
			return err
		}
	}
	return w.Flush()
}

// RecoverFromSnapshot replaces the state with the one read from r.
func (fsm *TableStateMachine) RecoverFromSnapshot(r io.Reader, _ []sm.SnapshotFile, done <-chan struct{}) error {
	br := bufio.NewReader(r)
	header, err := readUint64s(br, 2)
	if err != nil {
		return fmt.Errorf("failed to read snapshot header: %w", err)
	}

	tables := xsync.NewMapOf[uint64, entry]()
	for i := uint64(0); i < header[1]; i++ {
		select {
		case <-done:
			return sm.ErrSnapshotStopped
		default:
		}
		fields, err := readUint64s(br, 3)
		if err != nil {
			return fmt.Errorf("failed to read table header %d: %w", i, err)
		}
		data := make([]byte, fields[2])
		if _, err := io.ReadFull(br, data); err != nil {
			return fmt.Errorf("failed to read table %d: %w", fields[0], err)
		}
		tables.Store(fields[0], entry{version: fields[1], data: data})
	}

	fsm.tables = tables
	fsm.lastID.Store(header[0])
	log.Infof("recovered %d tables from snapshot (shard %d, replica %d)", header[1], fsm.shardID, fsm.replicaID)
	return nil
}

// Close performs any necessary cleanup.
func (fsm *TableStateMachine) Close() error {
	fsm.tables.Clear()
	return nil
}

func writeUint64s(w io.Writer, values ...uint64) error {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.BigEndian.PutUint64(buf[i*8:], v)
	}
	_, err := w.Write(buf)
	return err
}

func readUint64s(r io.Reader, n int) ([]uint64, error) {
	buf := make([]byte, 8*n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	values := make([]uint64, n)
	for i := range values {
		values[i] = binary.BigEndian.Uint64(buf[i*8:])
	}
	return values, nil
}
