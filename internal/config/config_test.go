package config

import (
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func validConfig() Config {
	cfg := Config{HTTP: HTTPConfig{Port: 3000}}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 3000 || cfg.Storage.Driver != DriverFile || cfg.Storage.Path != "database.json" {
		t.Errorf("unexpected defaults: port=%d driver=%q path=%q", cfg.HTTP.Port, cfg.Storage.Driver, cfg.Storage.Path)
	}
	if cfg.Query.DefaultPageSize != 10 || cfg.Query.MaxPageSize != 100 || *cfg.Query.FuzzyThreshold != 0.3 {
		t.Errorf("unexpected query defaults: %+v", cfg.Query)
	}
	if cfg.Upload.MaxBytes != 5<<20 || len(cfg.Upload.AllowedTypes) != 3 {
		t.Errorf("unexpected upload defaults: %+v", cfg.Upload)
	}
	if len(cfg.Home.Buckets) != 2 || cfg.Home.Buckets[1].Tag != "New release" {
		t.Errorf("unexpected home defaults: %+v", cfg.Home)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func ptr(f float64) *float64 { return &f }

func TestParse_ZeroFuzzyThresholdKept(t *testing.T) {
	cfg, err := Parse([]byte("query:\n  fuzzy_threshold: 0\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Query.FuzzyThreshold == nil || *cfg.Query.FuzzyThreshold != 0 {
		t.Errorf("FuzzyThreshold = %v, want explicit 0", cfg.Query.FuzzyThreshold)
	}
}

func TestParse_FuzzyThresholdDefaultWhenAbsent(t *testing.T) {
	cfg, err := Parse([]byte("http:\n  port: 8080\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if *cfg.Query.FuzzyThreshold != 0.3 {
		t.Errorf("FuzzyThreshold = %g, want 0.3", *cfg.Query.FuzzyThreshold)
	}
}

func TestApplyDefaults_SQLitePath(t *testing.T) {
	cfg := Config{Storage: StorageConfig{Driver: DriverSQLite}}
	cfg.ApplyDefaults()
	if cfg.Storage.Path != "mediacat.db" {
		t.Errorf("Path = %q", cfg.Storage.Path)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mongo" }, "storage.driver"},
		{"redis without addrs", func(c *Config) { c.Storage.Driver = DriverRedis }, "storage.addrs"},
		{"valkey without addrs", func(c *Config) { c.Storage.Driver = DriverValkey }, "storage.addrs"},
		{"default above max", func(c *Config) { c.Query.DefaultPageSize = 500 }, "default_page_size"},
		{"threshold above one", func(c *Config) { c.Query.FuzzyThreshold = ptr(1.5) }, "fuzzy_threshold"},
		{"negative threshold", func(c *Config) { c.Query.FuzzyThreshold = ptr(-0.1) }, "fuzzy_threshold"},
		{"bad collation", func(c *Config) { c.Query.Collation = "not a tag!" }, "query.collation"},
		{"non-image upload", func(c *Config) { c.Upload.AllowedTypes = []string{"application/pdf"} }, "allowed_types"},
		{"bucket without tag", func(c *Config) { c.Home.Buckets = []BucketConfig{{Title: "x"}} }, "home.buckets[0]"},
		{"duplicate bucket", func(c *Config) {
			c.Home.Buckets = []BucketConfig{{Title: "x", Tag: "a"}, {Title: "x", Tag: "b"}}
		}, "duplicate title"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("MEDIACAT_TEST_ADDR", "cache:6379")

	cfg, err := Parse([]byte(`
http:
  port: ${MEDIACAT_TEST_PORT:-8080}
storage:
  driver: valkey
  addrs: ["${MEDIACAT_TEST_ADDR}"]
query:
  collation: de
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("Port = %d, want default 8080", cfg.HTTP.Port)
	}
	if len(cfg.Storage.Addrs) != 1 || cfg.Storage.Addrs[0] != "cache:6379" {
		t.Errorf("Addrs = %v", cfg.Storage.Addrs)
	}
	if cfg.CollationTag() != language.German {
		t.Errorf("CollationTag = %v", cfg.CollationTag())
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("expected parse error, got %v", err)
	}
	if _, err := Parse([]byte("storage:\n  driver: redis\n")); err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("config/local.yaml should load: %v", err)
	}
	if cfg.Storage.Driver != DriverFile {
		t.Errorf("local driver = %q", cfg.Storage.Driver)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if GetEnv() != "local" {
		t.Errorf("GetEnv() = %q", GetEnv())
	}
	t.Setenv("ENV", "prod")
	if GetEnv() != "prod" {
		t.Errorf("GetEnv() = %q", GetEnv())
	}
}
