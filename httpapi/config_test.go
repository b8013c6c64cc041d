package httpapi

import (
	"os"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.MaxUploadBytes() != 50*1024*1024 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes())
	}
	if cfg.DocTTL() != time.Hour {
		t.Errorf("DocTTL = %v", cfg.DocTTL())
	}
}

func TestLoadConfig(t *testing.T) {
	yaml := `
listen: ":9090"
max_upload_mb: 20
obs_db_path: "/tmp/obs.db"
preview_width: 1000
workers: 8
doc_ttl_minutes: 0
`
	f, err := os.CreateTemp("", "config_test_*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	f.WriteString(yaml)
	f.Close()

	cfg, err := LoadConfig(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != ":9090" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.PreviewWidth != 1000 {
		t.Errorf("PreviewWidth = %v", cfg.PreviewWidth)
	}
	if cfg.DocTTL() != 0 {
		t.Errorf("DocTTL = %v, want 0 (expiry disabled)", cfg.DocTTL())
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listen", func(c *Config) { c.Listen = "" }},
		{"zero upload cap", func(c *Config) { c.MaxUploadMB = 0 }},
		{"empty obs db", func(c *Config) { c.ObsDBPath = "" }},
		{"zero preview width", func(c *Config) { c.PreviewWidth = 0 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"negative ttl", func(c *Config) { c.DocTTLMinutes = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
