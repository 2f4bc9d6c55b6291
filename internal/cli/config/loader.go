package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// configKey is used to store config in context.
type configKey struct{}

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: REFDASH_TARGET__TYPE sets target.type.
const EnvPrefix = "REFDASH_"

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// flagKeys maps flag names whose config key differs from the snake_case name.
var flagKeys = map[string]string{
	"port":       "ui.port",
	"watch":      "ui.watch",
	"table":      "target.table",
	"database":   "target.database",
	"type":       "target.type",
	"duplicates": "export.duplicates",
	"cache-ttl":  "cache.ttl",
}

// ignoredFlags select the config rather than set a value in it.
var ignoredFlags = map[string]bool{
	"config": true,
	"target": true,
}

var (
	configFileUsed string
	envVarPattern  = regexp.MustCompile(`\$\{([^}]+)\}`)
)

func defaults() map[string]any {
	return map[string]any{
		"seeds_dir":         DefaultSeedsDir,
		"verbose":           false,
		"output":            DefaultOutput,
		"log_level":         DefaultLogLevel,
		"target.type":       DefaultTargetType,
		"target.table":      DefaultTable,
		"cache.ttl":         DefaultCacheTTL.String(),
		"cache.queries":     []string{"status"},
		"ui.port":           DefaultPort,
		"ui.session_secret": DefaultSessionSecret,
		"ui.status_refresh": DefaultStatusRefresh.String(),
		"ui.query_timeout":  DefaultQueryTimeout.String(),
		"export.duplicates": DefaultDuplicates,
	}
}

// configExistsIn returns the config file in dir, or "".
func configExistsIn(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// findProjectRootUpward searches upward from startDir for a refdash config file.
func findProjectRootUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if configExistsIn(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	return LoadConfigWithTarget(cfgFile, "", flags)
}

// LoadConfigWithTarget loads configuration and merges the target of the
// named environment over the base target.
func LoadConfigWithTarget(cfgFile string, targetOverride string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	projectRoot := cwd

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file: explicit path, else searched upward from the working directory
	configFileUsed = ""
	if cfgFile != "" {
		configFileUsed = cfgFile
		if abs, err := filepath.Abs(cfgFile); err == nil {
			projectRoot = filepath.Dir(abs)
		}
	} else if root := findProjectRootUpward(cwd); root != "" {
		projectRoot = root
		configFileUsed = configExistsIn(root)
	}
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || ignoredFlags[f.Name] {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ProjectRoot = projectRoot

	if targetOverride != "" {
		envCfg, ok := cfg.Environments[targetOverride]
		if !ok {
			return nil, fmt.Errorf("unknown target environment %q", targetOverride)
		}
		cfg.Target = MergeTargetConfig(cfg.Target, envCfg.Target)
	}

	if cfg.Target == nil {
		cfg.Target = &TargetConfig{Type: DefaultTargetType, Table: DefaultTable}
	}
	ApplyTargetDefaults(cfg.Target)
	expandTargetEnvVars(cfg.Target)
	cfg.UI.SessionSecret = expandEnvVars(cfg.UI.SessionSecret)

	cfg.SeedsDir = resolvePathRelativeTo(cfg.SeedsDir, projectRoot)
	if cfg.Target.Type == "duckdb" || cfg.Target.Type == "sqlite" {
		cfg.Target.Database = resolvePathRelativeTo(cfg.Target.Database, projectRoot)
	}
	if cfg.Target.CredentialsFile != "" {
		cfg.Target.CredentialsFile = resolvePathRelativeTo(cfg.Target.CredentialsFile, projectRoot)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyTargetDefaults fills type-specific defaults.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}
	t.Type = strings.ToLower(t.Type)
	if t.Table == "" {
		t.Table = DefaultTable
	}
	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}
	switch t.Type {
	case "postgres":
		if t.Port == 0 {
			t.Port = 5432
		}
	case "duckdb":
		if t.Database == "" {
			t.Database = DefaultDatabase
		}
	}
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithConfig stores cfg in ctx.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the config stored by WithConfig, or nil.
func FromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	return nil
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})
}

// expandTargetEnvVars expands environment variables in sensitive target fields.
func expandTargetEnvVars(t *TargetConfig) {
	if t == nil {
		return
	}
	t.Password = expandEnvVars(t.Password)
	t.User = expandEnvVars(t.User)
	t.Host = expandEnvVars(t.Host)
	t.Database = expandEnvVars(t.Database)
	t.Project = expandEnvVars(t.Project)
	t.CredentialsFile = expandEnvVars(t.CredentialsFile)
	t.CredentialsJSON = expandEnvVars(t.CredentialsJSON)
}

// MergeTargetConfig merges two target configs, with override taking precedence.
func MergeTargetConfig(base, override *TargetConfig) *TargetConfig {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base
	merged.Options = make(map[string]string, len(base.Options)+len(override.Options))
	merged.Params = make(map[string]any, len(base.Params)+len(override.Params))
	for k, v := range base.Options {
		merged.Options[k] = v
	}
	for k, v := range base.Params {
		merged.Params[k] = v
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&merged.Type, override.Type)
	set(&merged.Database, override.Database)
	set(&merged.Host, override.Host)
	set(&merged.User, override.User)
	set(&merged.Password, override.Password)
	set(&merged.Schema, override.Schema)
	set(&merged.Project, override.Project)
	set(&merged.Dataset, override.Dataset)
	set(&merged.Table, override.Table)
	set(&merged.CredentialsFile, override.CredentialsFile)
	set(&merged.CredentialsJSON, override.CredentialsJSON)
	if override.Port != 0 {
		merged.Port = override.Port
	}
	for k, v := range override.Options {
		merged.Options[k] = v
	}
	for k, v := range override.Params {
		merged.Params[k] = v
	}
	return &merged
}
