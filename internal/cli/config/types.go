// Package config provides configuration management for the refdash CLI.
//
// Configuration is layered with koanf: defaults, then refdash.yaml, then
// REFDASH_* environment variables, then explicitly set flags.
package config

import (
	"strings"
	"time"

	"github.com/leapstack-labs/refdash/pkg/core"
)

// TargetConfig describes the database holding the reference measurements.
type TargetConfig struct {
	Type            string            `koanf:"type"`
	Database        string            `koanf:"database"`
	Host            string            `koanf:"host"`
	Port            int               `koanf:"port"`
	User            string            `koanf:"user"`
	Password        string            `koanf:"password"`
	Schema          string            `koanf:"schema"`
	Project         string            `koanf:"project"`
	Dataset         string            `koanf:"dataset"`
	Table           string            `koanf:"table"`
	CredentialsFile string            `koanf:"credentials_file"`
	CredentialsJSON string            `koanf:"credentials_json"`
	Options         map[string]string `koanf:"options"`
	Params          map[string]any    `koanf:"params"`
}

// AdapterConfig converts the target into the adapter connection settings.
func (t *TargetConfig) AdapterConfig() core.AdapterConfig {
	return core.AdapterConfig{
		Type:            t.Type,
		Path:            t.Database,
		Host:            t.Host,
		Port:            t.Port,
		Database:        t.Database,
		Username:        t.User,
		Password:        t.Password,
		Schema:          t.Schema,
		Project:         t.Project,
		CredentialsFile: t.CredentialsFile,
		CredentialsJSON: t.CredentialsJSON,
		Options:         t.Options,
		Params:          t.Params,
	}
}

// TableRef returns the qualified table name to query.
// A table already containing dots is used as is.
func (t *TargetConfig) TableRef() string {
	if strings.Contains(t.Table, ".") {
		return t.Table
	}
	switch {
	case t.Type == "bigquery" && t.Dataset != "":
		if t.Project != "" {
			return t.Project + "." + t.Dataset + "." + t.Table
		}
		return t.Dataset + "." + t.Table
	case t.Schema != "" && t.Type == "postgres":
		return t.Schema + "." + t.Table
	default:
		return t.Table
	}
}

// CacheConfig controls query memoization.
type CacheConfig struct {
	TTL     time.Duration `koanf:"ttl"`
	Queries []string      `koanf:"queries"`
}

// UIConfig holds configuration for the dashboard server.
type UIConfig struct {
	Port          int           `koanf:"port"`
	SessionSecret string        `koanf:"session_secret"`
	StatusRefresh time.Duration `koanf:"status_refresh"`
	QueryTimeout  time.Duration `koanf:"query_timeout"`
	ChartWidth    int           `koanf:"chart_width"`
	ChartHeight   int           `koanf:"chart_height"`
	Watch         bool          `koanf:"watch"`
}

// ExportConfig controls the CSV export.
type ExportConfig struct {
	Duplicates string `koanf:"duplicates"`
}

// Config holds all CLI configuration options.
type Config struct {
	SeedsDir     string               `koanf:"seeds_dir"`
	Verbose      bool                 `koanf:"verbose"`
	OutputFormat string               `koanf:"output"`
	LogLevel     string               `koanf:"log_level"`
	Target       *TargetConfig        `koanf:"target"`
	Cache        CacheConfig          `koanf:"cache"`
	UI           UIConfig             `koanf:"ui"`
	Export       ExportConfig         `koanf:"export"`
	Environments map[string]EnvConfig `koanf:"environments"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// EnvConfig holds environment-specific target overrides, selected with --target.
type EnvConfig struct {
	Target *TargetConfig `koanf:"target"`
}

// Default configuration values.
const (
	ConfigFileName    = "refdash.yaml"
	ConfigFileNameAlt = "refdash.yml"

	DefaultSeedsDir      = "seeds"
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel      = "warn"
	DefaultTargetType    = "duckdb"
	DefaultDatabase      = "refdash.duckdb"
	DefaultTable         = "system_references"
	DefaultPort          = 8765
	DefaultCacheTTL      = 600 * time.Second
	DefaultStatusRefresh = time.Minute
	DefaultQueryTimeout  = 30 * time.Second
	DefaultDuplicates    = "mean"
	DefaultSessionSecret = "refdash-dev-secret-change-me"
)

// DefaultSchemaForType returns the default schema for a database type.
func DefaultSchemaForType(dbType string) string {
	switch dbType {
	case "postgres":
		return "public"
	case "bigquery":
		return ""
	default:
		return "main"
	}
}
