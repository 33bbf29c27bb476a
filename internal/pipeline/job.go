package pipeline

import (
	"fmt"

	"github.com/google/uuid"
)

// ConversionJob is one per-file unit of work. It is created once per input
// file and owned solely by the worker that processes it.
type ConversionJob struct {
	ID    uuid.UUID
	Input string
}

// NewJob builds a job for the given input file.
func NewJob(input string) ConversionJob {
	return ConversionJob{ID: uuid.New(), Input: input}
}

// FileResult is the size accounting for one completed job.
type FileResult struct {
	Job         ConversionJob
	Records     int   // records written (or counted, in dry-run)
	Skipped     int   // records skipped under the skip policy
	BytesBefore int64 // input file size
	BytesAfter  int64 // output container size
}

// BatchResult is the element-wise sum of all FileResults across the batch.
type BatchResult struct {
	Files            int
	Records          int
	SkippedRecords   int
	TotalBytesBefore int64
	TotalBytesAfter  int64
}

// add folds one file result into the batch totals. Summation is commutative,
// so completion order does not matter.
func (b *BatchResult) add(r FileResult) {
	b.Files++
	b.Records += r.Records
	b.SkippedRecords += r.Skipped
	b.TotalBytesBefore += r.BytesBefore
	b.TotalBytesAfter += r.BytesAfter
}

// ConversionError wraps the underlying cause of a failed job.
type ConversionError struct {
	Job ConversionJob
	Err error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s (job %s): %v", e.Job.Input, e.Job.ID, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }
