package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/talentscout/screener/internal/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.Addr)
	}
	if cfg.StorageBackend != "json" {
		t.Fatalf("unexpected storage backend: %s", cfg.StorageBackend)
	}
	if cfg.SessionIdle != 30*time.Minute {
		t.Fatalf("unexpected session idle timeout: %v", cfg.SessionIdle)
	}
	if len(cfg.ExitKeywords) == 0 {
		t.Fatalf("expected default exit keywords")
	}
}

func TestLoadConfig_YAMLOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("addr: \":9090\"\nstorage_backend: sqlite\ncompany_name: Acme\ngenai:\n  model: mistral\n  retries: 1\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("yaml addr not applied: %s", cfg.Addr)
	}
	if cfg.StorageBackend != "sqlite" {
		t.Fatalf("yaml storage backend not applied: %s", cfg.StorageBackend)
	}
	if cfg.CompanyName != "Acme" {
		t.Fatalf("yaml company not applied: %s", cfg.CompanyName)
	}
	if cfg.GenAI.Model != "mistral" || cfg.GenAI.Retries != 1 {
		t.Fatalf("yaml genai not applied: %+v", cfg.GenAI)
	}
}

func TestValidate_InsecureJWT_FailsWhenNotDevelopment(t *testing.T) {
	os.Setenv("SCREENER_ENV", "production")
	defer os.Unsetenv("SCREENER_ENV")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for insecure JWT in production")
	}
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	cfg.StorageBackend = "redis"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for unknown backend")
	}
}

func TestValidate_MissingModel(t *testing.T) {
	os.Setenv("SCREENER_ENV", "development")
	defer os.Unsetenv("SCREENER_ENV")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	cfg.GenAI.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for missing model")
	}
}
