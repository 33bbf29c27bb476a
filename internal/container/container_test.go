package container

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestRoundTrip_Scalars(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  Value
	}{
		{"int", "src1/count", Int(3)},
		{"negative int", "src1/offset", Int(-42)},
		{"float", "src1/rake", Float(90.5)},
		{"string", "src1/magScaleRel", String("WC1994")},
		{"empty string", "src1/note", String("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := create(t, func(w *Writer) {
				if err := w.Put(tt.key, tt.val); err != nil {
					t.Fatalf("Put: %v", err)
				}
			})
			r := open(t, path)
			got, err := r.Get(tt.key)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if !reflect.DeepEqual(got.Native(), tt.val.Native()) {
				t.Errorf("got %v, want %v", got.Native(), tt.val.Native())
			}
			if got.Compressible() {
				t.Errorf("scalar read back as compressible")
			}
		})
	}
}

func TestRoundTrip_Arrays(t *testing.T) {
	tests := []struct {
		name string
		val  Value
	}{
		{"floats", Floats([]float64{1.0, 2.0, 3.0})},
		{"floats with extremes", Floats([]float64{0, -0.0, 1e-300, 1e300, 3.141592653589793})},
		{"ints", Ints([]int64{5, -7, 1 << 40})},
		{"empty floats", Floats(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := create(t, func(w *Writer) {
				if err := w.Put("src1/field", tt.val); err != nil {
					t.Fatalf("Put: %v", err)
				}
			})
			r := open(t, path)
			got, err := r.Get("src1/field")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			want := tt.val.Native()
			if tt.val.Len() == 0 {
				// Empty slices come back empty, not nil.
				if got.Len() != 0 {
					t.Fatalf("got %d elements, want 0", got.Len())
				}
				return
			}
			if !reflect.DeepEqual(got.Native(), want) {
				t.Errorf("got %v, want %v", got.Native(), want)
			}
		})
	}
}

func TestPut_OverwriteLeavesSecondValue(t *testing.T) {
	path := create(t, func(w *Writer) {
		if err := w.Put("src1/lon", Floats([]float64{1, 2, 3})); err != nil {
			t.Fatal(err)
		}
		if err := w.Put("src1/lon", Floats([]float64{9, 8})); err != nil {
			t.Fatal(err)
		}
	})
	r := open(t, path)
	if r.Len() != 1 {
		t.Fatalf("got %d keys, want 1", r.Len())
	}
	got, err := r.Get("src1/lon")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Native(), []float64{9, 8}) {
		t.Errorf("got %v, want [9 8]", got.Native())
	}
}

func TestEmptyContainer(t *testing.T) {
	path := create(t, func(w *Writer) {})
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() == 0 {
		t.Error("empty container has zero size, want header+index overhead")
	}
	r := open(t, path)
	if len(r.Keys()) != 0 {
		t.Errorf("got keys %v, want none", r.Keys())
	}
}

func TestKeys_Sorted(t *testing.T) {
	path := create(t, func(w *Writer) {
		for _, k := range []string{"b/y", "a/z", "b/x"} {
			if err := w.Put(k, Int(1)); err != nil {
				t.Fatal(err)
			}
		}
	})
	r := open(t, path)
	want := []string{"a/z", "b/x", "b/y"}
	if got := r.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestCompression_ShrinksRepetitiveArrays(t *testing.T) {
	big := make([]float64, 4096)
	for i := range big {
		big[i] = float64(i % 8)
	}

	path := create(t, func(w *Writer) {
		if err := w.Put("src1/rates", Floats(big)); err != nil {
			t.Fatal(err)
		}
	})
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	raw := int64(8 * len(big))
	if fi.Size() >= raw {
		t.Errorf("container is %d bytes, want < %d (raw array size)", fi.Size(), raw)
	}

	r := open(t, path)
	got, err := r.Get("src1/rates")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Native(), big) {
		t.Error("compressed array did not round-trip bit-for-bit")
	}
}

func TestWriter_CloseIdempotent(t *testing.T) {
	dir := t.TempDir()
	w, err := Create(filepath.Join(dir, "out"+Ext), zstd.SpeedBestCompression)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := w.Put("k", Int(1)); err == nil {
		t.Error("Put after Close succeeded, want error")
	}
}

func TestOpen_RejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "junk"+Ext)
	if err := os.WriteFile(path, []byte("definitely not a container, but long enough"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("Open succeeded on garbage, want error")
	}
}

// --- helpers ---

func create(t *testing.T, fill func(*Writer)) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out"+Ext)
	w, err := Create(path, zstd.SpeedBestCompression)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	fill(w)
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func open(t *testing.T, path string) *Reader {
	t.Helper()
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}
