package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DataDirName is the per-project directory holding the catalog and an
// optional config file.
const DataDirName = ".ternsnip"

// Config holds all configuration for ternsnip.
type Config struct {
	Snippet SnippetConfig `yaml:"snippet"`
	Index   IndexConfig   `yaml:"index"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// SnippetConfig controls how signatures are rendered.
type SnippetConfig struct {
	Notation        string `yaml:"notation"` // "lsp" or "chocolat"
	ExpandCallbacks bool   `yaml:"expand_callbacks"`
	DropContext     bool   `yaml:"drop_context"`
}

// IndexConfig selects the Tern definition files to catalog.
type IndexConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// CacheConfig holds snippet cache configuration.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	MaxSize int           `yaml:"max_size"`
	TTL     time.Duration `yaml:"ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Snippet: SnippetConfig{
			Notation:        "lsp",
			ExpandCallbacks: true,
			DropContext:     true,
		},
		Index: IndexConfig{
			Includes: []string{"**/defs/*.json", "**/*.tern-defs.json", "**/ecma*.json", "**/browser.json"},
			Excludes: []string{"**/node_modules/**", "**/.git/**", "**/" + DataDirName + "/**", "**/package.json", "**/package-lock.json"},
		},
		Cache: CacheConfig{
			Enabled: true,
			MaxSize: 1024,
			TTL:     10 * time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for ternsnip.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "ternsnip.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, DataDirName, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CatalogDBPath returns the path to the snippet catalog database.
func CatalogDBPath(dir string) string {
	return filepath.Join(dir, DataDirName, "catalog.db")
}

// EnsureDataDir ensures the .ternsnip directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, DataDirName), 0755)
}
