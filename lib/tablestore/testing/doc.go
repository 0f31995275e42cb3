// Package testing provides the shared test suite for implementations of the
// tablestore.ITableStore interface.
//
// The suite checks the contract every store has to fulfil: unique table ids,
// missing tables reported as not loaded, full round trips of columns and
// fragments (including nested values), the optimistic version check on Save
// and isolation between stored state and returned values.
//
// Example usage:
//
//	factory := func() tablestore.ITableStore {
//		return mstore.NewMemoryStore()
//	}
//	storetesting.RunTableStoreTests(t, "mstore", factory)
package testing
