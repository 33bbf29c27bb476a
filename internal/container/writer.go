package container

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Ext is the canonical container file extension, with leading dot.
const Ext = ".sqc"

// magic identifies an SQC container; written as header and trailer.
var magic = [8]byte{'S', 'Q', 'C', '1', 0, 0, 0, 1}

// indexEntry locates one field frame and describes its value.
type indexEntry struct {
	Offset     int64 `json:"off"`
	Length     int64 `json:"len"`
	Kind       Kind  `json:"kind"`
	Count      int   `json:"n"`
	Array      bool  `json:"arr,omitempty"`
	Compressed bool  `json:"zstd,omitempty"`
}

// Writer appends field frames to a container file and writes the index on
// Close. It is exclusively owned by one conversion job and is not safe for
// concurrent use.
type Writer struct {
	f      *os.File
	enc    *zstd.Encoder
	index  map[string]indexEntry
	offset int64
	closed bool
	failed bool
}

// Create creates (or truncates) the container at path. level selects the
// zstd encoder level for array frames; the batch default is
// zstd.SpeedBestCompression, the maximum practical ratio.
func Create(path string, level zstd.EncoderLevel) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("container: create %s: %w", path, err)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("container: zstd encoder: %w", err)
	}
	w := &Writer{f: f, enc: enc, index: make(map[string]indexEntry)}
	if err := w.writeAll(magic[:]); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// Put stores v under key, replacing any value previously written there.
// Keys are "/"-joined hierarchical segments (record id, then field name).
// The compression filter is applied exactly when the value reports itself
// compressible (numeric arrays); scalars are stored directly.
func (w *Writer) Put(key string, v Value) error {
	if w.closed {
		return fmt.Errorf("container: put %q: writer is closed", key)
	}
	if key == "" {
		return fmt.Errorf("container: put: empty key")
	}

	payload := v.encode()
	compressed := false
	if v.Compressible() {
		payload = w.enc.EncodeAll(payload, make([]byte, 0, len(payload)))
		compressed = true
	}

	entry := indexEntry{
		Offset:     w.offset,
		Length:     int64(len(payload)),
		Kind:       v.Kind(),
		Count:      v.Len(),
		Compressed: compressed,
	}
	_, entry.Array = v.(ArrayValue)

	if err := w.writeAll(payload); err != nil {
		return fmt.Errorf("container: put %q: %w", key, err)
	}
	w.index[key] = entry
	return nil
}

// Len reports the number of distinct keys written so far.
func (w *Writer) Len() int { return len(w.index) }

// Close writes the index and trailer and closes the file. It is idempotent;
// the file is closed even when finalizing the index fails.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	defer w.enc.Close()

	idxErr := w.writeIndex()
	closeErr := w.f.Close()
	if idxErr != nil {
		return idxErr
	}
	if closeErr != nil {
		return fmt.Errorf("container: close %s: %w", w.f.Name(), closeErr)
	}
	return nil
}

func (w *Writer) writeIndex() error {
	if w.failed {
		// An earlier short write left the offset bookkeeping unusable;
		// don't produce a trailer pointing at garbage.
		return fmt.Errorf("container: %s: not finalized after write failure", w.f.Name())
	}

	idx, err := json.Marshal(w.index)
	if err != nil {
		return fmt.Errorf("container: encode index: %w", err)
	}
	idxOffset := w.offset

	var footer [16]byte
	binary.LittleEndian.PutUint64(footer[:8], uint64(idxOffset))
	copy(footer[8:], magic[:])

	if err := w.writeAll(idx); err != nil {
		return fmt.Errorf("container: write index: %w", err)
	}
	if err := w.writeAll(footer[:]); err != nil {
		return fmt.Errorf("container: write trailer: %w", err)
	}
	return nil
}

func (w *Writer) writeAll(b []byte) error {
	n, err := w.f.Write(b)
	w.offset += int64(n)
	if err != nil {
		w.failed = true
	}
	return err
}
