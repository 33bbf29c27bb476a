package source

import "fmt"

// DecodeError reports a source file that cannot be parsed into record groups.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// RecordError reports a single record whose field mapping cannot be produced.
// Whether it aborts the whole file or only skips the record is the caller's
// policy decision.
type RecordError struct {
	Record string
	Field  string
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %s: field %s: %v", e.Record, e.Field, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
