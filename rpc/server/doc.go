// Package server implements the dTable server. It wires a table store, the
// table engine and any number of server transports together.
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for server adapters,
//     with the Handle method that runs one action against an engine.ITableEngine.
//
//   - NewEngineServerAdapter: The adapter for table operations. It validates the
//     request (missing or malformed fields are answered with BadRequest), calls
//     the engine and builds the response envelope with the operation's message
//     ("Column added", "Row updated", ...).
//
//   - NewRPCServer: Creates a server for a config and a list of transports.
//     Serve creates the store selected by the config (memory, leveldb or raft),
//     starts all transports in an errgroup and stops them together when one
//     fails or the process receives SIGINT/SIGTERM.
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  StoreType:      common.StoreTypeLevelDB,
//	  Codec:          "json",
//	  DataDir:        "/var/lib/dtable",
//	  Endpoint:       ":8080",
//	  EventsEndpoint: ":8081",
//	}
//
//	s := server.NewRPCServer(config,
//	  http.NewHttpServerTransport(),
//	  ws.NewWsServerTransport(),
//	)
//	if err := s.Serve(); err != nil {
//	  log.Fatal(err)
//	}
//
// With the raft store the server also starts a Dragonboat NodeHost and joins
// the shard given by ShardID with the initial ClusterMembers. Every replica
// serves the full API, writes are proposed through Raft.
package server
