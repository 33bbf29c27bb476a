package container

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/klauspost/compress/zstd"
)

// Reader reads values back from a finalized container file.
type Reader struct {
	f     *os.File
	dec   *zstd.Decoder
	index map[string]indexEntry
}

// Open opens the container at path and loads its index.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("container: open %s: %w", path, err)
	}
	r := &Reader{f: f}
	if err := r.loadIndex(); err != nil {
		f.Close()
		return nil, fmt.Errorf("container: open %s: %w", path, err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("container: zstd decoder: %w", err)
	}
	r.dec = dec
	return r, nil
}

func (r *Reader) loadIndex() error {
	fi, err := r.f.Stat()
	if err != nil {
		return err
	}
	size := fi.Size()
	if size < int64(len(magic))+16 {
		return fmt.Errorf("file too small (%d bytes)", size)
	}

	var head [8]byte
	if _, err := r.f.ReadAt(head[:], 0); err != nil {
		return err
	}
	if !bytes.Equal(head[:], magic[:]) {
		return fmt.Errorf("bad header magic")
	}

	var footer [16]byte
	if _, err := r.f.ReadAt(footer[:], size-16); err != nil {
		return err
	}
	if !bytes.Equal(footer[8:], magic[:]) {
		return fmt.Errorf("bad trailer magic (truncated or unfinalized container)")
	}
	idxOffset := int64(binary.LittleEndian.Uint64(footer[:8]))
	idxLen := size - 16 - idxOffset
	if idxOffset < int64(len(magic)) || idxLen < 0 {
		return fmt.Errorf("corrupt index location (offset %d, length %d)", idxOffset, idxLen)
	}

	raw := make([]byte, idxLen)
	if _, err := r.f.ReadAt(raw, idxOffset); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, &r.index); err != nil {
		return fmt.Errorf("decode index: %w", err)
	}
	return nil
}

// Keys returns all stored keys, sorted.
func (r *Reader) Keys() []string {
	keys := make([]string, 0, len(r.index))
	for k := range r.index {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of stored keys.
func (r *Reader) Len() int { return len(r.index) }

// Get reads the value stored under key. Only the last value written for a
// key is readable.
func (r *Reader) Get(key string) (Value, error) {
	entry, ok := r.index[key]
	if !ok {
		return nil, fmt.Errorf("container: key %q not found", key)
	}

	payload := make([]byte, entry.Length)
	if _, err := r.f.ReadAt(payload, entry.Offset); err != nil {
		return nil, fmt.Errorf("container: read %q: %w", key, err)
	}
	if entry.Compressed {
		var err error
		payload, err = r.dec.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("container: decompress %q: %w", key, err)
		}
	}

	v, err := decodeValue(payload, entry.Kind, entry.Count, entry.Array)
	if err != nil {
		return nil, fmt.Errorf("container: decode %q: %w", key, err)
	}
	return v, nil
}

// Close releases the underlying file and decoder.
func (r *Reader) Close() error {
	if r.dec != nil {
		r.dec.Close()
		r.dec = nil
	}
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}
