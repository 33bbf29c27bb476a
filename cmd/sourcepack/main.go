// Command sourcepack is the CLI entrypoint for the seismic source-model
// compactor.
//
// It parses flags, validates configuration, expands the input arguments into
// a batch of source-model files, converts them in parallel into compressed
// containers, and prints the aggregate size-reduction summary.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/quakelab/sourcepack/internal/config"
	"github.com/quakelab/sourcepack/internal/display"
	"github.com/quakelab/sourcepack/internal/logging"
	"github.com/quakelab/sourcepack/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build" these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args[1:], version); err != nil {
		fmt.Fprintf(os.Stderr, "sourcepack: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "sourcepack: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sourcepack: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available — all output goes through log from here on.
	display.PrintBanner()

	files, err := pipeline.ExpandInputs(cfg.Inputs)
	if err != nil {
		log.Error("%v", err)
		return 1
	}

	log.Info("=== sourcepack v%s (%s) ===", version, commit)
	log.Info("Files: %d, workers: %d, compression: %s, on record error: %s",
		len(files), cfg.Workers, cfg.Compression, cfg.OnRecordError)
	if cfg.DryRun {
		log.Warn("DRY RUN — no containers will be written")
	}

	// Phase 3: Signal handling — cancel context on SIGINT/SIGTERM so
	// queued files are skipped; in-flight conversions finish on their own.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing in-flight files…")
		cancel()
	}()

	// Phase 4: Run the batch and report.
	batch, err := pipeline.Run(ctx, &cfg, log, files)
	if err != nil {
		log.Error("Batch failed: %v", err)
		return 1
	}

	if cfg.DryRun {
		log.Success("[DRY] %d files, %d records, %s total input",
			batch.Files, batch.Records, display.FormatBytes(batch.TotalBytesBefore))
		return 0
	}

	if batch.SkippedRecords > 0 {
		log.Warn("Skipped %d bad records across the batch", batch.SkippedRecords)
	}
	fmt.Println(display.FormatReduction(batch.TotalBytesBefore, batch.TotalBytesAfter))
	return 0
}
