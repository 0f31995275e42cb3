// Package dstore implements a distributed, fault-tolerant table store using
// the Dragonboat RAFT consensus library. It provides a strongly consistent
// implementation of the tablestore.ITableStore interface that can operate
// across multiple nodes.
//
// Architecture:
//
//   - Store Client (store.go): implements tablestore.ITableStore. Create and
//     Save are proposed as commands, Load is a linearizable read.
//
//   - State Machine (statemachine.go): a Dragonboat IConcurrentStateMachine
//     holding every table of the shard in encoded form together with its
//     version and the last handed out table id.
//
//   - Communication Protocol: Command and Query in the internal package.
//
// Write Operations:
//
//	1. Create: the state machine allocates the next table id, encodes an empty
//	   table at version 1 and returns the encoded table as result data.
//
//	2. Save: the client encodes the table with its version already advanced
//	   and proposes it together with the version it originally loaded. The
//	   state machine only applies the command if that version is still the
//	   stored one, otherwise the result carries RetCConflict. Because the check
//	   runs on the replicated log, two nodes can never both win a save of the
//	   same version.
//
// Read Operations:
//
//	Load uses SyncRead, so it observes every committed save regardless of the
//	node serving it.
//
// Error Handling and Retries:
//
//	- System Busy: ErrSystemBusy is retried after timeout/10, up to 5 times.
//
//	- Timeouts: every proposal and read is bounded by the configured timeout.
//
// Snapshotting and Recovery:
//
//	PrepareSnapshot captures references to the stored entries (entries are
//	replaced, never modified), SaveSnapshot streams them in a simple binary
//	layout and RecoverFromSnapshot replaces the whole state.
//
// Usage:
//
//	nh, err := dragonboat.NewNodeHost(nodeHostConfig)
//	c := codec.NewJSONCodec()
//	err = nh.StartConcurrentReplica(members, false, dstore.CreateStateMachineFactory(c), shardConfig)
//	s := dstore.NewDistributedStore(nh, shardID, c, 5*time.Second)
//
// All replicas of a shard must be started with the same codec.
package dstore
