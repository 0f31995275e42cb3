// Package tablestore defines the persistence boundary of the table engine.
// A store keeps whole tables (column registry and raw fragments) keyed by
// their numeric id and knows nothing about the operations performed on them.
//
// Key Components:
//
//   - ITableStore Interface: Create, Load, Save and Close. Save is a whole
//     entity overwrite guarded by an optimistic version check: the caller
//     passes back the table it loaded, the store compares its Version with the
//     stored one and rejects the write with RetCConflict if they differ. On
//     success the stored version is incremented.
//
//   - Error System: Error carries a RetCode (Success, InternalError,
//     InvalidOperation, NotFound, Conflict) and a message. The engine maps
//     RetCConflict to a conflict error and every other code to an internal one.
//
// Implementations:
//
//	- Memory Store (mstore): tables held in an xsync.MapOf, table ids from an
//	  atomic counter. The default for single node setups and tests.
//
//	- LevelDB Store (lvstore): tables encoded with a codec and stored in a
//	  goleveldb database under "table/<id>". The id counter is written in the
//	  same batch as the created table.
//
//	- Distributed Store (dstore): a Dragonboat RAFT state machine holding the
//	  encoded tables. Version checks and id allocation happen inside the state
//	  machine, so they are linearizable across all replicas.
//
// Every implementation is verified with the shared suite in the
// "github.com/ValentinKolb/dTable/lib/tablestore/testing" package.
package tablestore
