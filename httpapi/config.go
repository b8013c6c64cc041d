// Package httpapi exposes the document store and assembly engine over HTTP:
// multipart upload intake, merge/extract downloads, and zip-packaged split.
package httpapi

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full server configuration.
type Config struct {
	Listen        string  `yaml:"listen"`
	MaxUploadMB   int     `yaml:"max_upload_mb"`
	ObsDBPath     string  `yaml:"obs_db_path"`
	PreviewWidth  float64 `yaml:"preview_width"`
	Workers       int     `yaml:"workers"`
	DocTTLMinutes int     `yaml:"doc_ttl_minutes"` // 0 disables expiry
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:        ":8086",
		MaxUploadMB:   50,
		ObsDBPath:     "db/pdfedit_obs.db",
		PreviewWidth:  800,
		Workers:       4,
		DocTTLMinutes: 60,
	}
}

// LoadConfig reads and parses a YAML config file. Returns DefaultConfig merged
// with the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen is required")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be > 0")
	}
	if c.ObsDBPath == "" {
		return fmt.Errorf("obs_db_path is required")
	}
	if c.PreviewWidth <= 0 {
		return fmt.Errorf("preview_width must be > 0")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0")
	}
	if c.DocTTLMinutes < 0 {
		return fmt.Errorf("doc_ttl_minutes must be >= 0")
	}
	return nil
}

// MaxUploadBytes returns the upload cap in bytes.
func (c *Config) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) * 1024 * 1024 }

// DocTTL returns the document expiry duration; zero means keep forever.
func (c *Config) DocTTL() time.Duration {
	return time.Duration(c.DocTTLMinutes) * time.Minute
}
