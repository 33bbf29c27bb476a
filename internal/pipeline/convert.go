package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quakelab/sourcepack/internal/config"
	"github.com/quakelab/sourcepack/internal/container"
	"github.com/quakelab/sourcepack/internal/logging"
	"github.com/quakelab/sourcepack/internal/source"
)

// OutputPath derives the container path for an input file: same directory,
// same base name, canonical container extension.
func OutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + container.Ext
}

// convertFile converts one source-model file into a container and returns
// its size accounting. The container handle is closed on every exit path
// before the result is returned.
func convertFile(job ConversionJob, cfg *config.Config, log *logging.Logger) (FileResult, error) {
	res := FileResult{Job: job}

	fi, err := os.Stat(job.Input)
	if err != nil {
		return res, &ConversionError{Job: job, Err: err}
	}
	res.BytesBefore = fi.Size()

	model, err := source.Decode(job.Input)
	if err != nil {
		return res, &ConversionError{Job: job, Err: err}
	}

	if cfg.DryRun {
		res.Records = model.NumRecords()
		log.Debug("[DRY] %s: %d records in %d groups", filepath.Base(job.Input),
			res.Records, len(model.Groups))
		return res, nil
	}

	outPath := OutputPath(job.Input)
	w, err := container.Create(outPath, cfg.Compression.ZstdLevel())
	if err != nil {
		return res, &ConversionError{Job: job, Err: err}
	}

	written, skipped, convErr := writeModel(w, model, cfg.OnRecordError, log)
	closeErr := w.Close()

	if convErr != nil {
		return res, &ConversionError{Job: job, Err: convErr}
	}
	if closeErr != nil {
		return res, &ConversionError{Job: job, Err: closeErr}
	}

	out, err := os.Stat(outPath)
	if err != nil {
		return res, &ConversionError{Job: job, Err: err}
	}
	res.Records = written
	res.Skipped = skipped
	res.BytesAfter = out.Size()

	log.Info("Saved %d records into %s (%d fields)", written, filepath.Base(outPath), w.Len())
	return res, nil
}

// writeModel serializes every record's fields under <record_id>/<field_name>.
// A record whose field mapping cannot be produced is handled per policy:
// stop aborts the file, skip logs and moves on.
func writeModel(w *container.Writer, m *source.Model, policy config.RecordErrorPolicy,
	log *logging.Logger) (written, skipped int, err error) {
	for _, grp := range m.Groups {
		for i := range grp.Records {
			rec := &grp.Records[i]
			fields, err := rec.Fields()
			if err != nil {
				var recErr *source.RecordError
				if policy == config.RecordErrorSkip && errors.As(err, &recErr) {
					log.Warn("Skipping record %s: %v", rec.ID, err)
					skipped++
					continue
				}
				return written, skipped, err
			}
			for name, value := range fields {
				key := rec.ID + "/" + name
				if err := w.Put(key, value); err != nil {
					return written, skipped, fmt.Errorf("write %s: %w", key, err)
				}
			}
			written++
		}
	}
	return written, skipped, nil
}
