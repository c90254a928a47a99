package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 70000

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_RedisRequiresAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.Driver = DriverRedis

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database addrs")
	}
	if !strings.Contains(err.Error(), "database.addrs") {
		t.Errorf("error = %q", err)
	}

	cfg.Database.Addrs = []string{"localhost:6379"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error with addrs: %v", err)
	}
}

func TestValidate_MemoryIgnoresAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Enums(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"driver", func(c *Config) { c.Engine.Driver = "sqlite" }, "engine.driver"},
		{"text", func(c *Config) { c.Engine.Text = "lucene" }, "engine.text"},
		{"match", func(c *Config) { c.Engine.Match = "some" }, "engine.match"},
		{"dedup", func(c *Config) { c.Dispatch.Dedup = "maybe" }, "dispatch.dedup"},
		{"cache", func(c *Config) { c.Dispatch.ResolveCacheSize = -1 }, "resolve_cache_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name    string
		fields  []FieldConfig
		wantErr bool
	}{
		{"valid", []FieldConfig{{Name: "price", Type: "float"}, {Name: "year", Type: "integer"}}, false},
		{"repeated same type", []FieldConfig{{Name: "price", Type: "float"}, {Name: "price", Type: "float"}}, false},
		{"missing name", []FieldConfig{{Type: "float"}}, true},
		{"missing type", []FieldConfig{{Name: "price"}}, true},
		{"conflicting types", []FieldConfig{{Name: "price", Type: "float"}, {Name: "price", Type: "integer"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Fields = tt.fields

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected Port=8080, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Engine.Driver != DriverMemory {
		t.Errorf("expected Driver=memory, got %q", cfg.Engine.Driver)
	}
	if cfg.Engine.Text != TextBleve {
		t.Errorf("expected Text=bleve, got %q", cfg.Engine.Text)
	}
	if cfg.Engine.Match != "any" {
		t.Errorf("expected Match=any, got %q", cfg.Engine.Match)
	}
	if cfg.Database.KeyPrefix != "fieldex:" {
		t.Errorf("expected KeyPrefix='fieldex:', got %q", cfg.Database.KeyPrefix)
	}
	if cfg.Dispatch.Dedup != "auto" {
		t.Errorf("expected Dedup=auto, got %q", cfg.Dispatch.Dedup)
	}
	if cfg.Dispatch.BatchParallelism != 8 {
		t.Errorf("expected BatchParallelism=8, got %d", cfg.Dispatch.BatchParallelism)
	}
	if cfg.Dispatch.MaxBatchValues != 256 {
		t.Errorf("expected MaxBatchValues=256, got %d", cfg.Dispatch.MaxBatchValues)
	}
	if cfg.Dispatch.ResolveCacheSize != 0 {
		t.Errorf("expected ResolveCacheSize=0, got %d", cfg.Dispatch.ResolveCacheSize)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 9000, ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Engine:   EngineConfig{Driver: DriverRedis, Text: TextNone, Match: "all"},
		Database: DatabaseConfig{ReadinessTimeout: 15, KeyPrefix: "custom:"},
		Dispatch: DispatchConfig{Dedup: "never", BatchParallelism: 2, MaxBatchValues: 10},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 9000 {
		t.Errorf("expected Port=9000, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Engine.Text != TextNone {
		t.Errorf("expected Text=none, got %q", cfg.Engine.Text)
	}
	if cfg.Database.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Database.KeyPrefix)
	}
	if cfg.Dispatch.Dedup != "never" {
		t.Errorf("expected Dedup=never, got %q", cfg.Dispatch.Dedup)
	}
	if cfg.Dispatch.BatchParallelism != 2 {
		t.Errorf("expected BatchParallelism=2, got %d", cfg.Dispatch.BatchParallelism)
	}
}

func TestParse_ExpandsEnvVars(t *testing.T) {
	t.Setenv("FIELDEX_TEST_PORT", "9191")

	data := []byte(`
http:
  port: ${FIELDEX_TEST_PORT}
engine:
  driver: ${FIELDEX_TEST_DRIVER:-memory}
fields:
  - name: price
    type: float
  - name: year
    type: integer
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9191 {
		t.Errorf("Port = %d, want 9191", cfg.HTTP.Port)
	}
	if cfg.Engine.Driver != DriverMemory {
		t.Errorf("Driver = %q, want memory", cfg.Engine.Driver)
	}
	if len(cfg.Fields) != 2 || cfg.Fields[1].Name != "year" {
		t.Errorf("Fields = %+v", cfg.Fields)
	}
}

func TestParse_RedisMatchAllStemming(t *testing.T) {
	cfg, err := Parse([]byte(`
engine:
  driver: redis
  match: all
  stemming: true
database:
  addrs: ["localhost:6379"]
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.Match != "all" || !cfg.Engine.Stemming {
		t.Errorf("Engine = %+v", cfg.Engine)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Error("expected YAML error")
	}
	if _, err := Parse([]byte("engine:\n  driver: redis\n")); err == nil {
		t.Error("expected validation error")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte("dispatch:\n  dedup: always\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Dispatch.Dedup != "always" {
		t.Errorf("Dedup = %q", cfg.Dispatch.Dedup)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}
