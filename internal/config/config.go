package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverValkey = "valkey"
	DriverSQLite = "sqlite"
)

// Config holds the mediacat API configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Storage StorageConfig `yaml:"storage"`
	Query   QueryConfig   `yaml:"query"`
	Upload  UploadConfig  `yaml:"upload"`
	Home    HomeConfig    `yaml:"home"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// StorageConfig selects and configures the record store.
type StorageConfig struct {
	Driver           string   `yaml:"driver"` // file, redis, valkey, sqlite (default: file)
	Path             string   `yaml:"path"`   // file and sqlite
	Addrs            []string `yaml:"addrs"`  // redis and valkey
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// QueryConfig holds query engine and pagination settings.
type QueryConfig struct {
	DefaultPageSize int      `yaml:"default_page_size"`
	MaxPageSize     int      `yaml:"max_page_size"`
	FuzzyThreshold  *float64 `yaml:"fuzzy_threshold"` // nil means 0.3; 0 keeps exact matches only
	Collation       string   `yaml:"collation"`       // BCP 47 tag used to order names
}

// UploadConfig holds cover image upload settings.
type UploadConfig struct {
	Dir           string   `yaml:"dir"`
	MaxBytes      int64    `yaml:"max_bytes"`
	AllowedTypes  []string `yaml:"allowed_types"`
	PublicBaseURL string   `yaml:"public_base_url"`
}

// HomeConfig lists the landing page sections.
type HomeConfig struct {
	Buckets []BucketConfig `yaml:"buckets"`
}

// BucketConfig maps a landing section title to the tag that selects its records.
type BucketConfig struct {
	Title string `yaml:"title"`
	Tag   string `yaml:"tag"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 3000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if len(c.HTTP.CORSOrigins) == 0 {
		c.HTTP.CORSOrigins = []string{"*"}
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverFile
	}
	if c.Storage.Path == "" {
		switch c.Storage.Driver {
		case DriverFile:
			c.Storage.Path = "database.json"
		case DriverSQLite:
			c.Storage.Path = "mediacat.db"
		}
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "mediacat:"
	}
	if c.Storage.ReadinessTimeout <= 0 {
		c.Storage.ReadinessTimeout = 10
	}

	if c.Query.DefaultPageSize <= 0 {
		c.Query.DefaultPageSize = 10
	}
	if c.Query.MaxPageSize <= 0 {
		c.Query.MaxPageSize = 100
	}
	if c.Query.FuzzyThreshold == nil {
		t := 0.3
		c.Query.FuzzyThreshold = &t
	}
	if c.Query.Collation == "" {
		c.Query.Collation = "en"
	}

	if c.Upload.Dir == "" {
		c.Upload.Dir = "uploads"
	}
	if c.Upload.MaxBytes <= 0 {
		c.Upload.MaxBytes = 5 << 20
	}
	if len(c.Upload.AllowedTypes) == 0 {
		c.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/webp"}
	}

	if len(c.Home.Buckets) == 0 {
		c.Home.Buckets = []BucketConfig{
			{Title: "Popular", Tag: "popular"},
			{Title: "New release", Tag: "New release"},
		}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Storage.Driver {
	case DriverFile, DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for driver %q", c.Storage.Driver)
		}
	case DriverRedis, DriverValkey:
		if len(c.Storage.Addrs) == 0 {
			return fmt.Errorf("storage.addrs is required for driver %q", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("storage.driver must be one of file, redis, valkey, sqlite, got %q", c.Storage.Driver)
	}

	if c.Query.DefaultPageSize > c.Query.MaxPageSize {
		return fmt.Errorf("query.default_page_size (%d) exceeds query.max_page_size (%d)",
			c.Query.DefaultPageSize, c.Query.MaxPageSize)
	}
	if t := c.Query.FuzzyThreshold; t != nil && (*t < 0 || *t > 1) {
		return fmt.Errorf("query.fuzzy_threshold must be in [0,1], got %g", *t)
	}
	if _, err := language.Parse(c.Query.Collation); err != nil {
		return fmt.Errorf("query.collation %q: %w", c.Query.Collation, err)
	}

	for _, t := range c.Upload.AllowedTypes {
		if !strings.HasPrefix(t, "image/") {
			return fmt.Errorf("upload.allowed_types must be image types, got %q", t)
		}
	}

	titles := make([]string, 0, len(c.Home.Buckets))
	for i, b := range c.Home.Buckets {
		if b.Title == "" || b.Tag == "" {
			return fmt.Errorf("home.buckets[%d] needs both title and tag", i)
		}
		if slices.Contains(titles, b.Title) {
			return fmt.Errorf("home.buckets: duplicate title %q", b.Title)
		}
		titles = append(titles, b.Title)
	}
	return nil
}

// CollationTag returns the parsed query.collation tag. Call after Validate.
func (c *Config) CollationTag() language.Tag {
	return language.Make(c.Query.Collation)
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
