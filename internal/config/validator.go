package config

import (
	"runtime"

	cieerrors "github.com/codegraph/cie/internal/errors"
)

// Validator validates configuration and fills in smart defaults,
// mirroring the teacher's validate-then-default pattern
// (internal/config/validator.go).
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates cfg and applies smart defaults,
// returning a *errors.ValidationError on the first problem found.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if cfg.Project.Root == "" {
		return cieerrors.NewValidationError("project.root", "must not be empty", cfg.Project.Root)
	}
	if cfg.Index.MaxFileSize <= 0 {
		return cieerrors.NewValidationError("index.max_file_size", "must be positive", cfg.Index.MaxFileSize)
	}
	if cfg.Index.MaxTotalSizeMB <= 0 {
		return cieerrors.NewValidationError("index.max_total_size_mb", "must be positive", cfg.Index.MaxTotalSizeMB)
	}
	if cfg.Index.MaxFileCount <= 0 {
		return cieerrors.NewValidationError("index.max_file_count", "must be positive", cfg.Index.MaxFileCount)
	}
	if cfg.Performance.ParallelFileWorkers < 0 {
		return cieerrors.NewValidationError("performance.parallel_file_workers", "must not be negative", cfg.Performance.ParallelFileWorkers)
	}
	if cfg.Performance.ParseTimeoutSec < 0 {
		return cieerrors.NewValidationError("performance.parse_timeout_sec", "must not be negative", cfg.Performance.ParseTimeoutSec)
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Performance.ParallelFileWorkers == 0 {
		cfg.Performance.ParallelFileWorkers = max(1, runtime.NumCPU()-1)
	}
	if cfg.Performance.ParseTimeoutSec == 0 {
		cfg.Performance.ParseTimeoutSec = 10
	}
	if cfg.Index.WatchDebounceMs == 0 {
		cfg.Index.WatchDebounceMs = 50
	}
	if cfg.Content.MaxSearchResult == 0 {
		cfg.Content.MaxSearchResult = 100
	}
}

// ValidateConfig is a convenience wrapper around Validator.
func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
