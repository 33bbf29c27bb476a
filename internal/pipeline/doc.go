// Package pipeline orchestrates the parallel batch conversion: it expands
// input arguments into conversion jobs, fans them out over an explicitly
// owned worker pool, converts each source-model file into a container, and
// reduces the per-file size metrics into one batch result.
//
// The split: job.go (job and result types), pool.go (worker pool with
// Start/Submit/Shutdown), convert.go (per-file conversion), discover.go
// (input expansion), runner.go (batch entry point and reduction).
package pipeline
