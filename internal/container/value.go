package container

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Kind is the element type of a stored value.
type Kind uint8

const (
	KindInt    Kind = 1 // 64-bit signed integer
	KindFloat  Kind = 2 // IEEE-754 float64
	KindString Kind = 3 // UTF-8 string (scalar only)
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is a tagged variant stored under one container key. Each variant
// carries its own encoding strategy; the writer asks the value whether the
// compression filter applies instead of inspecting its shape.
type Value interface {
	// Kind reports the element type.
	Kind() Kind
	// Len reports the element count (1 for scalars).
	Len() int
	// Compressible reports whether the lossless compression filter applies.
	// True exactly for numeric arrays; scalars are stored directly.
	Compressible() bool
	// Native returns the plain Go value (int64, float64, string,
	// []int64 or []float64).
	Native() any

	encode() []byte
}

// ScalarValue holds a single int64, float64, or string.
type ScalarValue struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Int wraps an int64 scalar.
func Int(v int64) ScalarValue { return ScalarValue{kind: KindInt, i: v} }

// Float wraps a float64 scalar.
func Float(v float64) ScalarValue { return ScalarValue{kind: KindFloat, f: v} }

// String wraps a string scalar.
func String(v string) ScalarValue { return ScalarValue{kind: KindString, s: v} }

func (v ScalarValue) Kind() Kind         { return v.kind }
func (v ScalarValue) Len() int           { return 1 }
func (v ScalarValue) Compressible() bool { return false }

func (v ScalarValue) Native() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	default:
		return v.s
	}
}

func (v ScalarValue) encode() []byte {
	switch v.kind {
	case KindInt:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(v.i))
		return buf[:]
	case KindFloat:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v.f))
		return buf[:]
	default:
		return []byte(v.s)
	}
}

// ArrayValue holds a homogeneous numeric array ([]int64 or []float64).
// Arrays round-trip bit-for-bit; the writer applies the compression filter
// to them when requested.
type ArrayValue struct {
	kind   Kind
	ints   []int64
	floats []float64
}

// Ints wraps an int64 array.
func Ints(v []int64) ArrayValue { return ArrayValue{kind: KindInt, ints: v} }

// Floats wraps a float64 array.
func Floats(v []float64) ArrayValue { return ArrayValue{kind: KindFloat, floats: v} }

func (v ArrayValue) Kind() Kind         { return v.kind }
func (v ArrayValue) Compressible() bool { return true }

func (v ArrayValue) Len() int {
	if v.kind == KindInt {
		return len(v.ints)
	}
	return len(v.floats)
}

func (v ArrayValue) Native() any {
	if v.kind == KindInt {
		return v.ints
	}
	return v.floats
}

func (v ArrayValue) encode() []byte {
	buf := make([]byte, 8*v.Len())
	if v.kind == KindInt {
		for i, e := range v.ints {
			binary.LittleEndian.PutUint64(buf[8*i:], uint64(e))
		}
		return buf
	}
	for i, e := range v.floats {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(e))
	}
	return buf
}

// decodeValue reconstructs a Value from its payload bytes and index metadata.
func decodeValue(payload []byte, kind Kind, count int, array bool) (Value, error) {
	if !array {
		switch kind {
		case KindInt:
			if len(payload) != 8 {
				return nil, fmt.Errorf("int scalar payload is %d bytes, want 8", len(payload))
			}
			return Int(int64(binary.LittleEndian.Uint64(payload))), nil
		case KindFloat:
			if len(payload) != 8 {
				return nil, fmt.Errorf("float scalar payload is %d bytes, want 8", len(payload))
			}
			return Float(math.Float64frombits(binary.LittleEndian.Uint64(payload))), nil
		case KindString:
			return String(string(payload)), nil
		}
		return nil, fmt.Errorf("unknown scalar kind %d", kind)
	}

	if len(payload) != 8*count {
		return nil, fmt.Errorf("array payload is %d bytes, want %d (%d elements)",
			len(payload), 8*count, count)
	}
	switch kind {
	case KindInt:
		out := make([]int64, count)
		for i := range out {
			out[i] = int64(binary.LittleEndian.Uint64(payload[8*i:]))
		}
		return Ints(out), nil
	case KindFloat:
		out := make([]float64, count)
		for i := range out {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(payload[8*i:]))
		}
		return Floats(out), nil
	}
	return nil, fmt.Errorf("unknown array kind %d", kind)
}
