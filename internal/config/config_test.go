package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Default()
	if cfg != want {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskboard.yaml")
	content := `
database:
  path: /var/lib/taskboard/engine.db
server:
  listen_addr: ":9090"
sweep:
  cron: "*/30 * * * *"
smtp:
  host: smtp.example.com
  username: escalations
  from: escalations@example.com
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/var/lib/taskboard/engine.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Server.ListenAddr != ":9090" {
		t.Errorf("Server.ListenAddr = %q", cfg.Server.ListenAddr)
	}
	if cfg.Sweep.Cron != "*/30 * * * *" {
		t.Errorf("Sweep.Cron = %q", cfg.Sweep.Cron)
	}
	if !cfg.SMTP.Enabled() {
		t.Error("SMTP.Enabled() = false, want true with a host set")
	}
	// Omitted fields keep their defaults.
	if cfg.SMTP.Port != 587 {
		t.Errorf("SMTP.Port = %d, want default 587", cfg.SMTP.Port)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TASKBOARD_DB_PATH", "/tmp/override.db")
	t.Setenv("TASKBOARD_SMTP_PASSWORD", "sekrit")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.SMTP.Password != "sekrit" {
		t.Errorf("SMTP.Password = %q, want env override", cfg.SMTP.Password)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("::: not yaml"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() succeeded on malformed yaml, want error")
	}
}
