// Package codec provides the at-rest encodings of a table. Every table store
// keeps whole tables as opaque byte values and uses an ITableCodec to turn them
// back into table.Table values.
//
// Key Components:
//
//   - ITableCodec: Encode, Decode and Name.
//
//   - jsonCodecImpl: JSON encoding, human-readable, the default.
//
//   - gobCodecImpl: Go's gob encoding. Composite values stored inside fragments
//     (objects and arrays) are registered with gob on package init.
//
// Both codecs normalize decoded tables, so a table that was saved with empty
// slices is never handed back with nil ones.
//
// Thread Safety:
//
//	Codecs are stateless and safe for concurrent use.
//
// Usage:
//
//	c, err := codec.New("gob")
//	data, err := c.Encode(t)
//	t, err = c.Decode(data)
package codec
