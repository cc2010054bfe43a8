package main

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ValidationLevel names a decoder strictness setting. It is stored in
// EngineConfig and can be set from the YAML file or WithValidation;
// the page and record decoders do not read it and run the same bounds
// checks at every level.
type ValidationLevel int

const (
	ValidationNone ValidationLevel = iota
	ValidationBasic
	ValidationStrict
)

// EngineConfig holds the tunables that govern how a query is
// evaluated. It is populated from DefaultEngineConfig, then optionally
// overridden by a YAML file, then by functional options supplied at
// call time — in that order of increasing precedence.
type EngineConfig struct {
	MaxConcurrency int             `yaml:"max_concurrency"`
	Validation     ValidationLevel `yaml:"-"`
	ValidationName string          `yaml:"validation"`
}

// EngineOption is a functional option for EngineConfig, following the
// same pattern the teacher codebase uses for DatabaseOption.
type EngineOption func(*EngineConfig)

// WithMaxConcurrency caps the number of worker goroutines used when
// fetching rowid-filtered rows in parallel (see §5 of SPEC_FULL.md).
func WithMaxConcurrency(n int) EngineOption {
	return func(c *EngineConfig) {
		if n > 0 {
			c.MaxConcurrency = n
		}
	}
}

// WithValidation sets the Validation level (see ValidationLevel).
func WithValidation(level ValidationLevel) EngineOption {
	return func(c *EngineConfig) {
		c.Validation = level
	}
}

// DefaultEngineConfig returns the baseline configuration before any
// YAML override or functional option is applied.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		MaxConcurrency: 8,
		Validation:     ValidationBasic,
	}
}

// LoadEngineConfigFile reads an optional YAML override file. A
// missing file is not an error — callers proceed with whatever
// defaults and options they already have.
func LoadEngineConfigFile(path string, cfg *EngineConfig) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return ioErr("load_config_file", err, map[string]interface{}{"path": path})
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return ioErr("read_config_file", err, map[string]interface{}{"path": path})
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return malformedErr("parse_config_file", err, map[string]interface{}{"path": path})
	}

	switch cfg.ValidationName {
	case "strict":
		cfg.Validation = ValidationStrict
	case "none":
		cfg.Validation = ValidationNone
	case "", "basic":
		cfg.Validation = ValidationBasic
	}

	return nil
}

// ResourceManager guarantees LIFO cleanup of every resource it is
// handed, regardless of which exit path (success or error) triggered
// the cleanup. The query engine registers its file handle here so
// Close is always reached exactly once.
type ResourceManager struct {
	closers []io.Closer
}

// NewResourceManager creates an empty resource manager.
func NewResourceManager() *ResourceManager {
	return &ResourceManager{}
}

// Add registers a resource for later cleanup.
func (rm *ResourceManager) Add(c io.Closer) {
	rm.closers = append(rm.closers, c)
}

// Close releases every registered resource in reverse registration
// order, returning the first error encountered (if any) after
// attempting to close everything else.
func (rm *ResourceManager) Close() error {
	var first error
	for i := len(rm.closers) - 1; i >= 0; i-- {
		if err := rm.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
