// Package config holds runtime configuration: defaults, optional YAML config
// file, CLI flag parsing, and validation.
package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/klauspost/compress/zstd"
)

// --- Enum types for validated string fields ---

// RecordErrorPolicy selects what happens when one record's field mapping
// cannot be produced.
type RecordErrorPolicy string

const (
	// RecordErrorStop aborts the whole file on the first bad record
	// (default; matches the historical behavior of the converter).
	RecordErrorStop RecordErrorPolicy = "stop"
	// RecordErrorSkip logs the bad record and converts the rest of the file.
	RecordErrorSkip RecordErrorPolicy = "skip"
)

// Compression selects the zstd encoder level for array fields.
type Compression string

const (
	CompressionFastest Compression = "fastest"
	CompressionDefault Compression = "default"
	CompressionBetter  Compression = "better"
	CompressionBest    Compression = "best" // Default: maximum practical ratio.
)

// ZstdLevel maps the compression name to the encoder level.
func (c Compression) ZstdLevel() zstd.EncoderLevel {
	switch c {
	case CompressionFastest:
		return zstd.SpeedFastest
	case CompressionDefault:
		return zstd.SpeedDefault
	case CompressionBetter:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedBestCompression
	}
}

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally layered with a YAML config file, and then mutated by
// [ParseFlags] before being passed (by pointer) to packages that need it.
type Config struct {
	// Inputs (set from positional args): source-model files, or directories
	// to scan for them.
	Inputs []string

	// Conversion settings.
	Workers       int               // Default: runtime.NumCPU().
	OnRecordError RecordErrorPolicy // Default: "stop".
	Compression   Compression       // Default: "best".

	// Behavior flags.
	DryRun bool // Decode and count records; write nothing.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.

	// ConfigFile is the YAML file applied between defaults and flags.
	ConfigFile string
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [ApplyFile] and [ParseFlags] apply overrides.
func DefaultConfig() Config {
	return Config{
		Workers:       runtime.NumCPU(),
		OnRecordError: RecordErrorStop,
		Compression:   CompressionBest,
		ColorMode:     ColorAuto,
	}
}

// Validate checks that enum fields hold valid values, the worker count is
// positive, and at least one input path was given.
func (c *Config) Validate() error {
	switch c.OnRecordError {
	case RecordErrorStop, RecordErrorSkip:
		// valid
	default:
		return errors.New("invalid record-error policy (use 'stop' or 'skip')")
	}

	switch c.Compression {
	case CompressionFastest, CompressionDefault, CompressionBetter, CompressionBest:
		// valid
	default:
		return errors.New("invalid compression (use 'fastest', 'default', 'better' or 'best')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.Workers < 1 {
		return fmt.Errorf("invalid worker count %d (must be >= 1)", c.Workers)
	}
	if len(c.Inputs) == 0 {
		return errors.New("need at least one input file or directory")
	}
	return nil
}
