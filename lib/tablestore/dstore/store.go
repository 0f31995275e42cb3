package dstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ValentinKolb/dTable/lib/codec"
	"github.com/ValentinKolb/dTable/lib/table"
	"github.com/ValentinKolb/dTable/lib/tablestore"
	"github.com/ValentinKolb/dTable/lib/tablestore/dstore/internal"
	"github.com/lni/dragonboat/v4"
	"github.com/lni/dragonboat/v4/client"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	retries = 5
	log     = logger.GetLogger("store")
)

// storeImpl is the concrete implementation of the distributed table store.
// It encapsulates a Dragonboat NodeHost which is used to communicate with the state machine.
type storeImpl struct {
	nh      *dragonboat.NodeHost
	shardID uint64
	cs      *client.Session
	codec   codec.ITableCodec
	timeout time.Duration
}

// NewDistributedStore creates a new distributed table store which uses raft consensus to ensure strict linearizability
// across multiple nodes. The codec must be the one the state machines of the shard were created with.
func NewDistributedStore(nh *dragonboat.NodeHost, shardID uint64, c codec.ITableCodec, timeout time.Duration) tablestore.ITableStore {
	return &storeImpl{
		nh:      nh,
		shardID: shardID,
		cs:      nh.GetNoOPSession(shardID),
		codec:   c,
		timeout: timeout,
	}
}

// --------------------------------------------------------------------------
// Internal write and read operations (used by interface methods)
// --------------------------------------------------------------------------

// write sends a serialized Command via SyncPropose and returns the result data.
func (s *storeImpl) write(cmd internal.Command) ([]byte, error) {
	for i := 0; i < retries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		res, err := s.nh.SyncPropose(ctx, s.cs, cmd.Serialize())
		cancel()

		if errors.Is(err, dragonboat.ErrSystemBusy) {
			log.Infof("SyncPropose: System busy, retrying (%d/%d)...", i+1, retries)
			time.Sleep(s.timeout / 10)
			continue
		}

		if err != nil {
			return nil, tablestore.NewError(tablestore.RetCInternalError, err.Error())
		}
		if res.Value != uint64(tablestore.RetCSuccess) {
			return nil, tablestore.NewError(tablestore.RetCode(res.Value), string(res.Data))
		}
		return res.Data, nil
	}
	return nil, tablestore.NewError(tablestore.RetCInternalError, "timeout")
}

// read is a generic helper function that queries the state machine
// and attempts to convert the response into the expected type R.
//
// SyncRead is used by default; stale switches to the faster StaleRead.
// System busy errors are retried up to 5 times.
func read[R any](r *storeImpl, q internal.Query, stale bool) (R, error) {
	var zero R
	for i := 0; i < retries; i++ {
		var res interface{}
		var err error

		if stale {
			res, err = r.nh.StaleRead(r.shardID, q)
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
			res, err = r.nh.SyncRead(ctx, r.shardID, q)
			cancel()
		}

		if errors.Is(err, dragonboat.ErrSystemBusy) {
			log.Infof("SyncRead: System busy, retrying (%d/%d)...", i+1, retries)
			time.Sleep(r.timeout / 10)
			continue
		}

		if err != nil {
			var storeErr *tablestore.Error
			if errors.As(err, &storeErr) {
				return zero, storeErr
			}
			return zero, tablestore.NewError(tablestore.RetCInternalError, err.Error())
		}

		casted, ok := res.(R)
		if !ok {
			return zero, tablestore.NewError(tablestore.RetCInternalError,
				fmt.Sprintf("unexpected type: received %T, expected %T", res, zero))
		}
		return casted, nil
	}
	return zero, tablestore.NewError(tablestore.RetCInternalError, "timeout")
}

func (s *storeImpl) decode(data []byte) (table.Table, error) {
	t, err := s.codec.Decode(data)
	if err != nil {
		return table.Table{}, tablestore.NewError(tablestore.RetCInternalError, fmt.Sprintf("failed to decode table: %v", err))
	}
	return t, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docs see tablestore/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Create() (table.Table, error) {
	data, err := s.write(internal.Command{Type: internal.CommandTCreate})
	if err != nil {
		return table.Table{}, err
	}
	return s.decode(data)
}

func (s *storeImpl) Load(id uint64) (table.Table, bool, error) {
	res, err := read[internal.QueryResult](s, internal.Query{
		Type:    internal.QueryTLoad,
		TableID: id,
	}, false)
	if err != nil || !res.Ok {
		return table.Table{}, false, err
	}
	t, err := s.decode(res.Value)
	if err != nil {
		return table.Table{}, false, err
	}
	return t, true, nil
}

func (s *storeImpl) Save(t table.Table) (table.Table, error) {
	next := t.Clone()
	next.Normalize()
	next.Version = t.Version + 1

	data, err := s.codec.Encode(next)
	if err != nil {
		return table.Table{}, tablestore.NewError(tablestore.RetCInternalError, err.Error())
	}
	if _, err := s.write(internal.Command{
		Type:    internal.CommandTSave,
		TableID: t.ID,
		Version: t.Version,
		Value:   data,
	}); err != nil {
		return table.Table{}, err
	}
	return next, nil
}

// Close is a no-op, the NodeHost is owned (and closed) by the caller.
func (s *storeImpl) Close() error {
	return nil
}
