package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// configNames are tried in order inside a config directory.
var configNames = []string{"config.yaml", "config.yml", "config.json"}

// Config holds application configuration.
type Config struct {
	// Store selects the meeting store backend: memory, sqlite or postgres.
	Store string `json:"store,omitempty" yaml:"store,omitempty"`

	// PostgresDSN is required when Store is postgres.
	PostgresDSN string `json:"postgres_dsn,omitempty" yaml:"postgres_dsn,omitempty"`

	// Port is the HTTP port used by `callsnap serve`.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// AllowedOrigins is the CORS allow-list. Empty means any origin.
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`

	// DefaultSummaryStyle and DefaultLanguage apply when neither the request
	// nor the meeting's sticky settings name one.
	DefaultSummaryStyle string `json:"default_summary_style,omitempty" yaml:"default_summary_style,omitempty"`
	DefaultLanguage     string `json:"default_language,omitempty" yaml:"default_language,omitempty"`

	// LogLevel is a logrus level name. LogFile enables the rotating JSON log.
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogFile  string `json:"log_file,omitempty" yaml:"log_file,omitempty"`

	// AllowedPaths is an allowlist of directories for export files.
	// Paths outside ~/.callsnap/exports require either being in this list or AllowUnsafePaths=true.
	// Paths should be absolute (relative paths are ignored).
	AllowedPaths []string `json:"allowed_paths,omitempty" yaml:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for export files.
	// Symlink and extension checks still apply.
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty" yaml:"allow_unsafe_paths,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use the driver default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty" yaml:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections (sqlite only).
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty" yaml:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty" yaml:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Store:               StoreSQLite,
		Port:                4000,
		DefaultSummaryStyle: "bullets",
		DefaultLanguage:     "pt-BR",
		LogLevel:            "info",
	}
}

// Load loads configuration from baseDir (config.yaml, config.yml or config.json).
// Returns default config if no file exists.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.callsnap.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(findConfigFile(baseDir))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// LoadWithRepo loads configuration from both global (~/.callsnap) and repo (.callsnap) directories.
// Repo config is found by walking upward from startDir to find the nearest .callsnap directory with a config file.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(findConfigFile(globalDir))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	// Apply defaults, then global, then repo
	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .callsnap config file.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		if path := findConfigFile(filepath.Join(dir, ".callsnap")); path != "" {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func findConfigFile(dir string) string {
	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the path is empty or the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	return cfg, nil
}

// ApplyEnv overrides config values from environment variables:
// PORT, ALLOWED_ORIGINS (comma separated), CALLSNAP_STORE,
// CALLSNAP_POSTGRES_DSN and CALLSNAP_LOG_LEVEL.
// getenv is usually os.Getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = mergeStringSlice(nil, strings.Split(v, ","))
	}
	if v := strings.TrimSpace(getenv("CALLSNAP_STORE")); v != "" {
		cfg.Store = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv("CALLSNAP_POSTGRES_DSN")); v != "" {
		cfg.PostgresDSN = v
	}
	if v := strings.TrimSpace(getenv("CALLSNAP_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

// Validate checks the combination of settings.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("store %q requires postgres_dsn", StorePostgres)
		}
	default:
		return fmt.Errorf("unknown store %q (want memory, sqlite or postgres)", c.Store)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	return nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{
		Store:               pick(overlay.Store, base.Store),
		PostgresDSN:         pick(overlay.PostgresDSN, base.PostgresDSN),
		Port:                pick(overlay.Port, base.Port),
		DefaultSummaryStyle: pick(overlay.DefaultSummaryStyle, base.DefaultSummaryStyle),
		DefaultLanguage:     pick(overlay.DefaultLanguage, base.DefaultLanguage),
		LogLevel:            pick(overlay.LogLevel, base.LogLevel),
		LogFile:             pick(overlay.LogFile, base.LogFile),
		DBMaxOpenConns:      pick(overlay.DBMaxOpenConns, base.DBMaxOpenConns),
		DBMaxIdleConns:      pick(overlay.DBMaxIdleConns, base.DBMaxIdleConns),
	}

	// Booleans: overlay wins if true, else base
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	// Arrays: merge and deduplicate
	result.AllowedOrigins = mergeStringSlice(base.AllowedOrigins, overlay.AllowedOrigins)
	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// pick returns overlay unless it is the zero value.
func pick[T comparable](overlay, base T) T {
	var zero T
	if overlay != zero {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
