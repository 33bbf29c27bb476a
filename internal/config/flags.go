package config

// This file implements CLI flag parsing and help text.
// A --config YAML file is applied before flag parsing so explicit flags win.

import (
	"flag"
	"fmt"
	"os"
)

// ParseFlags parses args (os.Args[1:]) into cfg. On --help or --version it
// prints and exits. On error it returns non-nil (unknown flag, bad enum
// value, unreadable config file).
func ParseFlags(cfg *Config, args []string, version string) error {
	// The config file must be loaded before flags are registered, so flag
	// defaults reflect the file and explicit flags override it.
	if path := peekConfigArg(args); path != "" {
		if err := ApplyFile(cfg, path); err != nil {
			return err
		}
	}

	fs := flag.NewFlagSet("sourcepack", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	var showHelp, showVersion bool

	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "YAML config file (flags override it)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Parallel conversion workers")
	fs.IntVar(&cfg.Workers, "w", cfg.Workers, "Same as --workers")
	fs.Var(&policyValue{&cfg.OnRecordError}, "on-record-error", "Bad-record policy: stop | skip")
	fs.Var(&compressionValue{&cfg.Compression}, "compression", "Array compression: fastest | default | better | best")
	fs.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "Decode and count records; write nothing")
	fs.BoolVar(&cfg.DryRun, "d", cfg.DryRun, "Same as --dry-run")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Same as --verbose")
	fs.Var(&colorModeValue{&cfg.ColorMode}, "color", "Colored logs: auto | always | never")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log")
	fs.BoolVar(&showHelp, "help", false, "Show help and exit")
	fs.BoolVar(&showHelp, "h", false, "Same as --help")
	fs.BoolVar(&showVersion, "version", false, "Show version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(fs)
		os.Exit(0)
	}
	if showVersion {
		fmt.Fprintln(os.Stdout, "sourcepack v"+version)
		os.Exit(0)
	}

	cfg.Inputs = fs.Args()
	return nil
}

// peekConfigArg scans args for --config/-config before the FlagSet exists.
// Both "--config path" and "--config=path" spellings are accepted.
func peekConfigArg(args []string) string {
	for i, a := range args {
		switch {
		case a == "--config" || a == "-config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case len(a) > 9 && a[:9] == "--config=":
			return a[9:]
		case len(a) > 8 && a[:8] == "-config=":
			return a[8:]
		}
	}
	return ""
}

// --- Enum flag.Value adapters ---

type policyValue struct{ p *RecordErrorPolicy }

func (v *policyValue) String() string {
	if v.p == nil {
		return ""
	}
	return string(*v.p)
}

func (v *policyValue) Set(s string) error {
	switch RecordErrorPolicy(s) {
	case RecordErrorStop, RecordErrorSkip:
		*v.p = RecordErrorPolicy(s)
		return nil
	}
	return fmt.Errorf("invalid record-error policy %q (use 'stop' or 'skip')", s)
}

type compressionValue struct{ c *Compression }

func (v *compressionValue) String() string {
	if v.c == nil {
		return ""
	}
	return string(*v.c)
}

func (v *compressionValue) Set(s string) error {
	switch Compression(s) {
	case CompressionFastest, CompressionDefault, CompressionBetter, CompressionBest:
		*v.c = Compression(s)
		return nil
	}
	return fmt.Errorf("invalid compression %q (use 'fastest', 'default', 'better' or 'best')", s)
}

type colorModeValue struct{ m *ColorMode }

func (v *colorModeValue) String() string {
	if v.m == nil {
		return ""
	}
	return string(*v.m)
}

func (v *colorModeValue) Set(s string) error {
	switch ColorMode(s) {
	case ColorAuto, ColorAlways, ColorNever:
		*v.m = ColorMode(s)
		return nil
	}
	return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
}

func printUsage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintln(out, "Usage: sourcepack [options] <model.xml | dir>...")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Converts seismic source-model XML files into compact .sqc containers")
	fmt.Fprintln(out, "in parallel and reports the aggregate size reduction.")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	fmt.Fprintln(out, "  -w, --workers N            Parallel conversion workers (default: CPU count)")
	fmt.Fprintln(out, "      --on-record-error P    Bad-record policy: stop | skip (default: stop)")
	fmt.Fprintln(out, "      --compression L        Array compression: fastest | default | better | best")
	fmt.Fprintln(out, "      --config FILE          YAML config file (flags override it)")
	fmt.Fprintln(out, "  -d, --dry-run              Decode and count records; write nothing")
	fmt.Fprintln(out, "  -v, --verbose              Verbose output")
	fmt.Fprintln(out, "      --color MODE           Colored logs: auto | always | never")
	fmt.Fprintln(out, "  -l, --log FILE             Append logs to file")
	fmt.Fprintln(out, "      --version              Show version and exit")
	fmt.Fprintln(out, "  -h, --help                 Show this help")
}
