package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/leapstack-labs/refdash/internal/export"
	"github.com/leapstack-labs/refdash/internal/reference"
	"github.com/leapstack-labs/refdash/pkg/adapter"
)

// ValidOutputs lists the accepted --output values.
var ValidOutputs = []string{"auto", "text", "markdown", "json"}

// Validate checks the target configuration.
func (t *TargetConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}
	if !adapter.IsRegistered(t.Type) {
		return &adapter.UnknownAdapterError{Type: t.Type, Available: adapter.ListAdapters()}
	}
	if t.Table == "" {
		return fmt.Errorf("target table is required")
	}
	if t.Type == "bigquery" && t.Project == "" {
		return fmt.Errorf("target project is required for bigquery")
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Target == nil {
		return fmt.Errorf("target is required")
	}
	if err := c.Target.Validate(); err != nil {
		return fmt.Errorf("invalid target configuration: %w", err)
	}

	for _, q := range c.Cache.Queries {
		if !slices.Contains(reference.QueryKinds, reference.QueryKind(q)) {
			return fmt.Errorf("unknown cache query %q (valid: status, systems, measurements)", q)
		}
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}

	if !export.DuplicatePolicy(c.Export.Duplicates).Valid() {
		return fmt.Errorf("unknown export duplicates policy %q (valid: mean, reject)", c.Export.Duplicates)
	}

	if !slices.Contains(ValidOutputs, c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (valid: %s)", c.OutputFormat, strings.Join(ValidOutputs, ", "))
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}

	if c.UI.Port < 0 || c.UI.Port > 65535 {
		return fmt.Errorf("ui port %d out of range", c.UI.Port)
	}
	return nil
}

// ParseLogLevel maps a level name to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q (valid: debug, info, warn, error)", s)
	}
	return level, nil
}

// CachedQueries returns the configured cache routing.
func (c *Config) CachedQueries() []reference.QueryKind {
	kinds := make([]reference.QueryKind, 0, len(c.Cache.Queries))
	for _, q := range c.Cache.Queries {
		kinds = append(kinds, reference.QueryKind(q))
	}
	return kinds
}
