package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ValentinKolb/dTable/lib/codec"
	"github.com/ValentinKolb/dTable/lib/engine"
	"github.com/ValentinKolb/dTable/lib/tablestore"
	"github.com/ValentinKolb/dTable/lib/tablestore/dstore"
	"github.com/ValentinKolb/dTable/lib/tablestore/lvstore"
	"github.com/ValentinKolb/dTable/lib/tablestore/mstore"
	"github.com/ValentinKolb/dTable/rpc/common"
	"github.com/ValentinKolb/dTable/rpc/transport"
	"github.com/lni/dragonboat/v4"
	"github.com/lni/dragonboat/v4/logger"
	"golang.org/x/sync/errgroup"
)

var Logger = logger.GetLogger("rpc")

// NewRPCServer creates a new RPC server
// It takes a config and the transports to serve as parameters. All transports
// share one engine.
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		http.NewHttpServerTransport(),
//		ws.NewWsServerTransport(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(config common.ServerConfig, transports ...transport.IRPCServerTransport) *RPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	Logger.Infof("Created RPC Server")
	Logger.Infof(config.String())

	return &RPCServer{
		config:     config,
		transports: transports,
		adapter:    NewEngineServerAdapter(),
	}
}

type RPCServer struct {
	config     common.ServerConfig
	transports []transport.IRPCServerTransport
	adapter    IRPCServerAdapter

	nodeHost *dragonboat.NodeHost
	store    tablestore.ITableStore
	engine   engine.ITableEngine
}

// Handle runs a single request against the engine of the server
func (s *RPCServer) Handle(action common.Action, req *common.Request) *common.Response {
	return s.adapter.Handle(action, req, s.engine)
}

// init creates the table store and the engine and registers the handler
// on all transports
func (s *RPCServer) init() error {
	store, err := s.createStore()
	if err != nil {
		return err
	}
	s.store = store
	s.engine = engine.NewTableEngine(store)

	for _, t := range s.transports {
		t.RegisterHandler(s.Handle)
	}

	Logger.Infof("dTable setup completed successfully")
	return nil
}

// createStore creates the table store selected by the config
func (s *RPCServer) createStore() (tablestore.ITableStore, error) {
	c, err := codec.New(s.config.Codec)
	if err != nil {
		return nil, err
	}

	switch s.config.StoreType {
	case common.StoreTypeMemory, "":
		Logger.Infof("using in-memory table store")
		return mstore.NewMemoryStore(), nil

	case common.StoreTypeLevelDB:
		Logger.Infof("using leveldb table store in %s (codec %s)", s.config.DataDir, c.Name())
		return lvstore.NewLevelDBStore(lvstore.Config{
			Path:  s.config.DataDir,
			Codec: c,
			Sync:  s.config.SyncWrites,
		})

	case common.StoreTypeRaft:
		nodeHost, err := dragonboat.NewNodeHost(s.config.ToNodeHostConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create node host: %w", err)
		}
		s.nodeHost = nodeHost

		if err := nodeHost.StartConcurrentReplica(
			s.config.ClusterMembers,
			false,
			dstore.CreateStateMachineFactory(c),
			s.config.ToDragonboatConfig(),
		); err != nil {
			return nil, fmt.Errorf("failed to start shard %d: %w", s.config.ShardID, err)
		}

		Logger.Infof("using raft table store on shard %d (codec %s)", s.config.ShardID, c.Name())
		timeout := time.Duration(s.config.TimeoutSecond) * time.Second
		return dstore.NewDistributedStore(nodeHost, s.config.ShardID, c, timeout), nil

	default:
		return nil, fmt.Errorf("invalid store type: %s", s.config.StoreType)
	}
}

// Serve starts the RPC server
// This function will also initialize the store and the engine and start all
// transports. It blocks until a transport fails or the process receives
// SIGINT/SIGTERM.
func (s *RPCServer) Serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.ServeContext(ctx)
}

// ServeContext is Serve with a caller controlled lifetime
func (s *RPCServer) ServeContext(ctx context.Context) error {
	if err := s.init(); err != nil {
		return err
	}
	defer s.shutdown()

	g, ctx := errgroup.WithContext(ctx)
	for _, t := range s.transports {
		t := t
		g.Go(func() error {
			return t.Listen(s.config)
		})
	}

	// stop all transports as soon as one failed or the context is done
	g.Go(func() error {
		<-ctx.Done()
		for _, t := range s.transports {
			if err := t.Close(); err != nil {
				Logger.Warningf("failed to close transport: %v", err)
			}
		}
		return nil
	})

	return g.Wait()
}

// shutdown closes the store and the node host
func (s *RPCServer) shutdown() {
	if err := s.store.Close(); err != nil {
		Logger.Errorf("failed to close store: %v", err)
	}
	if s.nodeHost != nil {
		s.nodeHost.Close()
	}
	Logger.Infof("dTable server stopped")
}
