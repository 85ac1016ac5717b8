// Package config loads the command line configuration from JSONC files,
// layered under command line overrides.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Supported storage backends.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendS3       = "s3"
	BackendMinio    = "minio"
	BackendDynamoDB = "dynamodb"
)

// Supported log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// FileName is the project config file looked up in the working directory.
const FileName = ".docstore.json"

var (
	ErrFileNotFound   = errors.New("config file not found")
	ErrFileRead       = errors.New("cannot read config file")
	ErrInvalid        = errors.New("invalid config file")
	ErrUnknownBackend = errors.New("unknown backend")
	ErrMissingSetting = errors.New("missing setting")
	ErrLogLevel       = errors.New("invalid log level")
	ErrLogFormat      = errors.New("invalid log format")
)

// Config holds every setting of the command line front end.
type Config struct {
	Backend string `json:"backend"`
	// Dir is the directory holding collection files for the file backend.
	Dir string `json:"dir,omitempty"`
	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string `json:"sqlite_path,omitempty"`

	// Bucket and Prefix locate the collection objects for s3 and minio.
	Bucket string `json:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	// Table is the DynamoDB table, keyed by the "name" attribute.
	Table string `json:"table,omitempty"`

	// Region and Profile are passed to the AWS SDK. Endpoint overrides the
	// service endpoint for s3 and dynamodb and is required for minio.
	Region   string `json:"region,omitempty"`
	Profile  string `json:"profile,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`

	AccessKey string `json:"access_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty"`
	Insecure  bool   `json:"insecure,omitempty"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`

	// Sources tracks which config files were loaded.
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string
	Project string
}

// DefaultConfig returns the default configuration: JSON files in the working
// directory and warnings-only text logs.
func DefaultConfig() Config {
	return Config{
		Backend:   BackendFile,
		Dir:       ".",
		LogLevel:  "warn",
		LogFormat: FormatText,
	}
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDir    string            // directory searched for the project file
	ConfigPath string            // explicit config file; must exist when set
	Overrides  Config            // non-zero fields win over every file
	Env        map[string]string // environment variables
}

// GlobalPath returns $XDG_CONFIG_HOME/docstore/config.json, falling back to
// ~/.config. Returns an empty string if neither is known.
func GlobalPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "docstore", "config.json")
	}
	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "docstore", "config.json")
	}
	return ""
}

// Load builds the configuration with the following precedence, highest
// last:
//
//  1. Defaults
//  2. Global user config
//  3. Project config (.docstore.json) or the explicit config file
//  4. Overrides
//
// Relative paths are resolved against the working directory.
func Load(in LoadInput) (Config, error) {
	workDir := in.WorkDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := DefaultConfig()

	if path := GlobalPath(in.Env); path != "" {
		global, loaded, err := loadFile(path, false)
		if err != nil {
			return Config{}, err
		}
		if loaded {
			cfg = Merge(cfg, global)
			cfg.Sources.Global = path
		}
	}

	path, mustExist := filepath.Join(workDir, FileName), false
	if in.ConfigPath != "" {
		path, mustExist = in.ConfigPath, true
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
	}
	project, loaded, err := loadFile(path, mustExist)
	if err != nil {
		return Config{}, err
	}
	if loaded {
		cfg = Merge(cfg, project)
		cfg.Sources.Project = path
	}

	cfg = Merge(cfg, in.Overrides)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	cfg.Dir = resolve(workDir, cfg.Dir)
	if cfg.SQLitePath != "" {
		cfg.SQLitePath = resolve(workDir, cfg.SQLitePath)
	}
	return cfg, nil
}

func resolve(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}

func loadFile(path string, mustExist bool) (Config, bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if !mustExist {
			return Config{}, false, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, false, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrFileRead, path, err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrInvalid, path, err)
	}
	return cfg, true, nil
}

// Parse reads a JSONC document. Comments and trailing commas are allowed.
func Parse(b []byte) (Config, error) {
	standardized, err := hujson.Standardize(b)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}
	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return cfg, nil
}

// Merge returns base with every non-zero field of overlay applied.
func Merge(base, overlay Config) Config {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&base.Backend, overlay.Backend)
	set(&base.Dir, overlay.Dir)
	set(&base.SQLitePath, overlay.SQLitePath)
	set(&base.Bucket, overlay.Bucket)
	set(&base.Prefix, overlay.Prefix)
	set(&base.Table, overlay.Table)
	set(&base.Region, overlay.Region)
	set(&base.Profile, overlay.Profile)
	set(&base.Endpoint, overlay.Endpoint)
	set(&base.AccessKey, overlay.AccessKey)
	set(&base.SecretKey, overlay.SecretKey)
	set(&base.LogLevel, overlay.LogLevel)
	set(&base.LogFormat, overlay.LogFormat)
	if overlay.Insecure {
		base.Insecure = true
	}
	return base
}

// Validate checks that the backend is known and has its settings.
func (c Config) Validate() error {
	missing := func(setting string) error {
		return fmt.Errorf("%w: backend %s requires %s", ErrMissingSetting, c.Backend, setting)
	}
	switch c.Backend {
	case BackendFile:
		if c.Dir == "" {
			return missing("dir")
		}
	case BackendMemory:
	case BackendSQLite:
		if c.SQLitePath == "" {
			return missing("sqlite_path")
		}
	case BackendS3:
		if c.Bucket == "" {
			return missing("bucket")
		}
	case BackendMinio:
		if c.Endpoint == "" {
			return missing("endpoint")
		}
		if c.Bucket == "" {
			return missing("bucket")
		}
	case BackendDynamoDB:
		if c.Table == "" {
			return missing("table")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}

	if _, err := c.Level(); err != nil {
		return err
	}
	if c.LogFormat != FormatText && c.LogFormat != FormatJSON {
		return fmt.Errorf("%w: %q", ErrLogFormat, c.LogFormat)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrLogLevel, c.LogLevel)
	}
	return l, nil
}
