package config

import (
	"errors"
	"fmt"

	"github.com/dhamidi/jvmsym/scanner"
)

var (
	ErrInvalidWorkers   = errors.New("invalid worker count")
	ErrInvalidPattern   = errors.New("invalid class pattern")
	ErrInvalidVerbosity = errors.New("invalid log verbosity")
)

// Validate reports every invalid setting at once.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Scan.Workers < 1 {
		errs = append(errs, fmt.Errorf("%w: scan.workers must be at least 1, got %d", ErrInvalidWorkers, cfg.Scan.Workers))
	}
	if _, err := scanner.NewFilter(cfg.Scan.Include, cfg.Scan.Exclude); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidPattern, err))
	}
	if cfg.Log.Verbosity < -4 || cfg.Log.Verbosity > 4 {
		errs = append(errs, fmt.Errorf("%w: log.verbosity must be between -4 and 4, got %d", ErrInvalidVerbosity, cfg.Log.Verbosity))
	}
	return errors.Join(errs...)
}
