// Package lvstore implements tablestore.ITableStore on top of goleveldb.
//
// Layout:
//
//	table/<id>          the encoded table (codec.ITableCodec, json by default)
//	meta/next-table-id  the last table id handed out, 8 bytes big endian
//
// Create writes the new table and the advanced counter in one batch, so an id
// is never handed out twice, even after a crash. Save decodes the stored table,
// compares versions and overwrites it. Both run under a store wide mutex; Load
// reads without locking.
//
// An empty Config.Path opens a purely in-memory LevelDB, which is what the
// tests use.
package lvstore
