package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Engine drivers.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Full-text backends for the "fulltext" type.
const (
	TextNone  = "none"
	TextBleve = "bleve"
)

// Config holds the fieldex configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Engine   EngineConfig   `yaml:"engine"`
	Database DatabaseConfig `yaml:"database"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	Fields   []FieldConfig  `yaml:"fields"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// EngineConfig selects the index engines behind the built-in types.
type EngineConfig struct {
	Driver string `yaml:"driver"` // memory, redis (default: memory)
	Text   string `yaml:"text"`   // none, bleve: engine for the "fulltext" type (default: bleve)
	Match  string `yaml:"match"`  // any, all: term matching for the "text" type (default: any)
	// Stemming reduces "text" terms to their English Porter stems.
	Stemming bool `yaml:"stemming"`
}

// DatabaseConfig holds Redis/Valkey connection settings, used by the redis driver.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
}

// DispatchConfig holds dispatcher and batch settings.
type DispatchConfig struct {
	Dedup            string `yaml:"dedup"` // auto, always, never (default: auto)
	ResolveCacheSize int    `yaml:"resolve_cache_size"`
	BatchParallelism int    `yaml:"batch_parallelism"`
	StrictBatch      bool   `yaml:"strict_batch"`
	MaxBatchValues   int    `yaml:"max_batch_values"`
}

// FieldConfig declares a field at startup.
type FieldConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML config data, expanding ${VAR} references, then applies defaults and validates.
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
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Engine.Driver == "" {
		c.Engine.Driver = DriverMemory
	}
	if c.Engine.Text == "" {
		c.Engine.Text = TextBleve
	}
	if c.Engine.Match == "" {
		c.Engine.Match = "any"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.KeyPrefix == "" {
		c.Database.KeyPrefix = "fieldex:"
	}
	if c.Dispatch.Dedup == "" {
		c.Dispatch.Dedup = "auto"
	}
	if c.Dispatch.BatchParallelism <= 0 {
		c.Dispatch.BatchParallelism = 8
	}
	if c.Dispatch.MaxBatchValues <= 0 {
		c.Dispatch.MaxBatchValues = 256
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Engine.Driver {
	case DriverMemory:
	case DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("engine.driver must be %q or %q, got %q", DriverMemory, DriverRedis, c.Engine.Driver)
	}
	switch c.Engine.Text {
	case TextNone, TextBleve:
	default:
		return fmt.Errorf("engine.text must be %q or %q, got %q", TextNone, TextBleve, c.Engine.Text)
	}
	switch c.Engine.Match {
	case "any", "all":
	default:
		return fmt.Errorf("engine.match must be \"any\" or \"all\", got %q", c.Engine.Match)
	}
	switch c.Dispatch.Dedup {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("dispatch.dedup must be \"auto\", \"always\" or \"never\", got %q", c.Dispatch.Dedup)
	}
	if c.Dispatch.ResolveCacheSize < 0 {
		return fmt.Errorf("dispatch.resolve_cache_size must not be negative, got %d", c.Dispatch.ResolveCacheSize)
	}
	seen := make(map[string]string, len(c.Fields))
	for i, f := range c.Fields {
		if f.Name == "" {
			return fmt.Errorf("fields[%d].name is required", i)
		}
		if f.Type == "" {
			return fmt.Errorf("fields[%d].type is required for %q", i, f.Name)
		}
		if prev, ok := seen[f.Name]; ok && prev != f.Type {
			return fmt.Errorf("fields[%d]: %q declared as both %q and %q", i, f.Name, prev, f.Type)
		}
		seen[f.Name] = f.Type
	}
	return nil
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
