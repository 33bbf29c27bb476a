package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML config file. Pointer fields distinguish
// "absent" from zero values so the file only overrides what it names.
type fileConfig struct {
	Workers       *int    `yaml:"workers"`
	OnRecordError *string `yaml:"on_record_error"`
	Compression   *string `yaml:"compression"`
	Verbose       *bool   `yaml:"verbose"`
	Color         *string `yaml:"color"`
	Log           *string `yaml:"log"`
}

// ApplyFile layers the YAML file at path onto cfg. Called between
// [DefaultConfig] and [ParseFlags], so CLI flags still win.
func ApplyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}

	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	if fc.OnRecordError != nil {
		cfg.OnRecordError = RecordErrorPolicy(*fc.OnRecordError)
	}
	if fc.Compression != nil {
		cfg.Compression = Compression(*fc.Compression)
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	if fc.Color != nil {
		cfg.ColorMode = ColorMode(*fc.Color)
	}
	if fc.Log != nil {
		cfg.LogFile = *fc.Log
	}
	cfg.ConfigFile = path
	return nil
}
