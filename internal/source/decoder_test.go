package source

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/quakelab/sourcepack/internal/container"
)

const sampleModel = `<?xml version="1.0" encoding="utf-8"?>
<sourceModel name="demo model">
  <sourceGroup name="shallow" tectonicRegion="Active Shallow Crust">
    <source id="src1" name="point A">
      <field name="lon">1.0 2.0 3.0</field>
      <field name="count">3</field>
      <field name="magScaleRel">WC1994</field>
    </source>
    <source id="src2">
      <field name="occurRates">0.005 0.0005 0.00005</field>
    </source>
  </sourceGroup>
  <sourceGroup name="stable" tectonicRegion="Stable Continental">
    <source id="src3" name="fault B">
      <field name="upperSeismoDepth">0</field>
      <field name="lowerSeismoDepth">15.5</field>
    </source>
  </sourceGroup>
</sourceModel>`

func TestDecode_Structure(t *testing.T) {
	m := decode(t, sampleModel)

	if m.Name != "demo model" {
		t.Errorf("model name = %q, want %q", m.Name, "demo model")
	}
	if len(m.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(m.Groups))
	}
	if m.Groups[0].TRT != "Active Shallow Crust" {
		t.Errorf("group TRT = %q", m.Groups[0].TRT)
	}
	if got := m.NumRecords(); got != 3 {
		t.Errorf("NumRecords() = %d, want 3", got)
	}
	ids := []string{m.Groups[0].Records[0].ID, m.Groups[0].Records[1].ID, m.Groups[1].Records[0].ID}
	if !reflect.DeepEqual(ids, []string{"src1", "src2", "src3"}) {
		t.Errorf("record ids = %v", ids)
	}
}

func TestFields_ValueShapes(t *testing.T) {
	m := decode(t, sampleModel)
	fields, err := m.Groups[0].Records[0].Fields()
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}

	tests := []struct {
		field        string
		want         any
		compressible bool
	}{
		{"lon", []float64{1.0, 2.0, 3.0}, true},
		{"count", int64(3), false},
		{"magScaleRel", "WC1994", false},
		{"name", "point A", false},
		{"tectonicRegion", "Active Shallow Crust", false},
	}
	for _, tt := range tests {
		v, ok := fields[tt.field]
		if !ok {
			t.Errorf("field %q missing", tt.field)
			continue
		}
		if !reflect.DeepEqual(v.Native(), tt.want) {
			t.Errorf("field %q = %v, want %v", tt.field, v.Native(), tt.want)
		}
		if v.Compressible() != tt.compressible {
			t.Errorf("field %q compressible = %v, want %v", tt.field, v.Compressible(), tt.compressible)
		}
	}
}

func TestFields_IntArrayStaysInt(t *testing.T) {
	m := decode(t, `<sourceModel><sourceGroup tectonicRegion="x">
		<source id="s"><field name="bins">1 2 3 4</field></source>
	</sourceGroup></sourceModel>`)

	fields, err := m.Groups[0].Records[0].Fields()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(fields["bins"].Native(), []int64{1, 2, 3, 4}) {
		t.Errorf("bins = %v, want int64 array", fields["bins"].Native())
	}
}

func TestFields_MixedNumericPromotesToFloat(t *testing.T) {
	m := decode(t, `<sourceModel><sourceGroup tectonicRegion="x">
		<source id="s"><field name="v">1 2.5 3</field></source>
	</sourceGroup></sourceModel>`)

	fields, err := m.Groups[0].Records[0].Fields()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(fields["v"].Native(), []float64{1, 2.5, 3}) {
		t.Errorf("v = %v, want float64 array", fields["v"].Native())
	}
}

func TestFields_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			"heterogeneous array",
			`<sourceModel><sourceGroup tectonicRegion="x">
				<source id="bad"><field name="v">1.0 oops 3.0</field></source>
			</sourceGroup></sourceModel>`,
		},
		{
			"duplicate field",
			`<sourceModel><sourceGroup tectonicRegion="x">
				<source id="bad"><field name="v">1</field><field name="v">2</field></source>
			</sourceGroup></sourceModel>`,
		},
		{
			"unnamed field",
			`<sourceModel><sourceGroup tectonicRegion="x">
				<source id="bad"><field>1</field></source>
			</sourceGroup></sourceModel>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := decode(t, tt.doc)
			_, err := m.Groups[0].Records[0].Fields()
			var recErr *RecordError
			if !errors.As(err, &recErr) {
				t.Fatalf("Fields() error = %v, want *RecordError", err)
			}
			if recErr.Record != "bad" {
				t.Errorf("RecordError.Record = %q, want %q", recErr.Record, "bad")
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed xml", `<sourceModel><sourceGroup>`},
		{"source without id", `<sourceModel><sourceGroup tectonicRegion="x"><source/></sourceGroup></sourceModel>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := write(t, tt.doc)
			_, err := Decode(path)
			var decErr *DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("Decode() error = %v, want *DecodeError", err)
			}
		})
	}
}

func TestDecode_MissingFile(t *testing.T) {
	_, err := Decode(filepath.Join(t.TempDir(), "nope.xml"))
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("Decode() error = %v, want *DecodeError", err)
	}
}

func TestDecode_EmptyModel(t *testing.T) {
	m := decode(t, `<sourceModel name="empty"/>`)
	if len(m.Groups) != 0 {
		t.Errorf("got %d groups, want 0", len(m.Groups))
	}
	if m.NumRecords() != 0 {
		t.Errorf("NumRecords() = %d, want 0", m.NumRecords())
	}
}

// Keep decoded values compatible with the container round-trip.
func TestFields_ValuesAreContainerValues(t *testing.T) {
	m := decode(t, sampleModel)
	fields, err := m.Groups[0].Records[1].Fields()
	if err != nil {
		t.Fatal(err)
	}
	var _ container.Value = fields["occurRates"]
	if fields["occurRates"].Kind() != container.KindFloat {
		t.Errorf("occurRates kind = %v, want float", fields["occurRates"].Kind())
	}
}

// --- helpers ---

func write(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.xml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func decode(t *testing.T, doc string) *Model {
	t.Helper()
	m, err := Decode(write(t, doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return m
}
