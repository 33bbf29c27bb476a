package pipeline

import (
	"context"

	"github.com/quakelab/sourcepack/internal/config"
	"github.com/quakelab/sourcepack/internal/logging"
)

// Run is the batch entry point. It builds one ConversionJob per path,
// fans them out over the worker pool, and reduces the per-file results into
// one BatchResult by element-wise summation.
//
// An error from Run is either a pool-start failure or the first job failure;
// job errors are not retried and there is no partial-batch success: when any
// job fails the batch fails, after every in-flight job has finished. The
// pool is torn down on every exit path.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, paths []string) (BatchResult, error) {
	var batch BatchResult
	if len(paths) == 0 {
		return batch, nil
	}

	jobs := make([]ConversionJob, len(paths))
	for i, p := range paths {
		jobs[i] = NewJob(p)
	}

	pool := NewPool(cfg.Workers, len(jobs), func(ctx context.Context, job ConversionJob) (FileResult, error) {
		log.Debug("Job %s: %s", job.ID, job.Input)
		return convertFile(job, cfg, log)
	})
	if err := pool.Start(ctx); err != nil {
		return batch, err
	}
	defer pool.Shutdown()

	for _, job := range jobs {
		if err := pool.Submit(job); err != nil {
			return batch, err
		}
	}

	// Completion order is unspecified; the reduction is order-independent.
	var firstErr error
	for range jobs {
		out := <-pool.Results()
		if out.Err != nil {
			log.Error("%v", out.Err)
			if firstErr == nil {
				firstErr = out.Err
			}
			continue
		}
		batch.add(out.Result)
	}
	if firstErr != nil {
		return batch, firstErr
	}
	return batch, nil
}
