// Package mstore implements tablestore.ITableStore in memory.
//
// Tables are kept as deep copies in an xsync.MapOf. Save performs the version
// check and the overwrite inside a single Compute call, so concurrent saves of
// the same table can not both succeed. Table ids come from an atomic counter
// starting at 1.
//
// Usage:
//
//	s := mstore.NewMemoryStore()
//	t, err := s.Create()
package mstore
