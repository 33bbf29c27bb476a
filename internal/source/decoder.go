package source

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/quakelab/sourcepack/internal/container"
)

// Model is one decoded source-description file.
type Model struct {
	Name   string
	Groups []Group
}

// Group is a set of related source records sharing a tectonic region.
type Group struct {
	Name    string
	TRT     string
	Records []Record
}

// Record is one source definition: an identifier plus named fields whose
// values are parsed lazily by Fields.
type Record struct {
	ID     string
	fields []rawField
}

type rawField struct {
	name string
	text string
}

// --- XML shapes ---

type xmlModel struct {
	XMLName xml.Name   `xml:"sourceModel"`
	Name    string     `xml:"name,attr"`
	Groups  []xmlGroup `xml:"sourceGroup"`
}

type xmlGroup struct {
	Name    string      `xml:"name,attr"`
	TRT     string      `xml:"tectonicRegion,attr"`
	Sources []xmlSource `xml:"source"`
}

type xmlSource struct {
	ID     string     `xml:"id,attr"`
	Name   string     `xml:"name,attr"`
	TRT    string     `xml:"tectonicRegion,attr"`
	Fields []xmlField `xml:"field"`
}

type xmlField struct {
	Name string `xml:"name,attr"`
	Text string `xml:",chardata"`
}

// Decode parses the source-description file at path. Structural problems
// (unreadable file, malformed XML, a source without an id) fail with a
// *DecodeError; per-record field value problems are deferred to
// Record.Fields.
func Decode(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	var doc xmlModel
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	m := &Model{Name: doc.Name, Groups: make([]Group, 0, len(doc.Groups))}
	for _, g := range doc.Groups {
		grp := Group{Name: g.Name, TRT: g.TRT, Records: make([]Record, 0, len(g.Sources))}
		for _, s := range g.Sources {
			if s.ID == "" {
				return nil, &DecodeError{
					Path: path,
					Err:  fmt.Errorf("source without id in group %q", g.Name),
				}
			}
			rec := Record{ID: s.ID}
			// Identity attributes travel as string fields alongside the
			// element fields.
			if s.Name != "" {
				rec.fields = append(rec.fields, rawField{"name", s.Name})
			}
			trt := s.TRT
			if trt == "" {
				trt = g.TRT
			}
			if trt != "" {
				rec.fields = append(rec.fields, rawField{"tectonicRegion", trt})
			}
			for _, f := range s.Fields {
				rec.fields = append(rec.fields, rawField{f.Name, strings.TrimSpace(f.Text)})
			}
			grp.Records = append(grp.Records, rec)
		}
		m.Groups = append(m.Groups, grp)
	}
	return m, nil
}

// NumRecords counts the records across all groups.
func (m *Model) NumRecords() int {
	n := 0
	for _, g := range m.Groups {
		n += len(g.Records)
	}
	return n
}

// Fields materializes the record's field mapping. It fails with a
// *RecordError on an unnamed field, a duplicate field name, or a field whose
// multi-token value is not a homogeneous numeric list.
func (r *Record) Fields() (map[string]container.Value, error) {
	out := make(map[string]container.Value, len(r.fields))
	for _, f := range r.fields {
		if f.name == "" {
			return nil, &RecordError{Record: r.ID, Field: "(unnamed)",
				Err: errors.New("field without name")}
		}
		if _, dup := out[f.name]; dup {
			return nil, &RecordError{Record: r.ID, Field: f.name,
				Err: errors.New("duplicate field")}
		}
		v, err := parseValue(f.text)
		if err != nil {
			return nil, &RecordError{Record: r.ID, Field: f.name, Err: err}
		}
		out[f.name] = v
	}
	return out, nil
}

// parseValue interprets field text. Single tokens become scalars (int, then
// float, then string). Multiple tokens must form a homogeneous numeric list:
// all-int lists become int arrays, anything else numeric becomes a float
// array, and any non-numeric token is an error.
func parseValue(text string) (container.Value, error) {
	tokens := strings.Fields(text)
	switch len(tokens) {
	case 0:
		return container.String(""), nil
	case 1:
		tok := tokens[0]
		if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
			return container.Int(i), nil
		}
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			return container.Float(f), nil
		}
		return container.String(tok), nil
	}

	ints := make([]int64, 0, len(tokens))
	allInts := true
	for _, tok := range tokens {
		i, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			allInts = false
			break
		}
		ints = append(ints, i)
	}
	if allInts {
		return container.Ints(ints), nil
	}

	floats := make([]float64, 0, len(tokens))
	for _, tok := range tokens {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("array value %q is not homogeneous numeric", tok)
		}
		floats = append(floats, f)
	}
	return container.Floats(floats), nil
}
