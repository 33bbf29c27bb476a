// Package container implements the SQC binary container: a flat key/value
// file holding converted source-model fields under hierarchical keys
// (record id, then field name, joined by "/").
//
// File layout:
//
//	[8-byte magic] [field frames...] [JSON index] [8-byte index offset] [8-byte magic]
//
// Each field frame is the value payload in little-endian encoding; array
// frames are wrapped in a zstd frame when the compression flag is set.
// The index maps keys to frame locations and value metadata. Writing a key
// twice replaces its index entry, so only the last value is readable; the
// stale frame bytes are left in place.
//
// When implementing changes, keep the split: value.go (tagged value
// variants), writer.go, reader.go.
package container
