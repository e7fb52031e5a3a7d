// Package config loads jvmsym settings from defaults, an optional
// .jvmsym.yaml file and JVMSYM_* environment variables.
package config

import (
	"runtime"

	"github.com/dhamidi/jvmsym/raw"
	"github.com/dhamidi/jvmsym/scanner"
)

type Config struct {
	Scan ScanConfig `mapstructure:"scan"`
	Log  LogConfig  `mapstructure:"log"`
}

type ScanConfig struct {
	// Include and Exclude are glob patterns over internal class names.
	Include       []string `mapstructure:"include"`
	Exclude       []string `mapstructure:"exclude"`
	Workers       int      `mapstructure:"workers"`
	SkipSynthetic bool     `mapstructure:"skip_synthetic"`
}

type LogConfig struct {
	// Verbosity is handed to commonlog.Configure; higher logs more.
	Verbosity int `mapstructure:"verbosity"`
	// File is the log destination; empty means stderr.
	File string `mapstructure:"file"`
}

func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Include:       []string{},
			Exclude:       []string{},
			Workers:       runtime.NumCPU(),
			SkipSynthetic: true,
		},
	}
}

// ScannerOptions converts the scan settings, compiling the filter patterns.
func (c *ScanConfig) ScannerOptions() (scanner.Options, error) {
	filter, err := scanner.NewFilter(c.Include, c.Exclude)
	if err != nil {
		return scanner.Options{}, err
	}
	return scanner.Options{
		Workers: c.Workers,
		Filter:  filter,
		Raw:     raw.Options{SkipSynthetic: c.SkipSynthetic},
	}, nil
}
