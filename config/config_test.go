package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MENUMAKER_CONFIG", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Fetch.UserAgent != "MenuMaker Desktop/0.1" {
		t.Errorf("UserAgent = %q", cfg.Fetch.UserAgent)
	}
	if cfg.Browser.Enabled {
		t.Error("browser should be disabled by default")
	}
	if !cfg.Fetch.RespectRobots {
		t.Error("robots should be respected by default")
	}
	if filepath.Base(cfg.Store.DataDir) != "menumaker" && cfg.Store.DataDir != "menumaker-data" {
		t.Errorf("unexpected data dir %q", cfg.Store.DataDir)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "menumaker.yaml")
	yml := `
server:
  port: 9090
fetch:
  defaultTimeout: 10s
  escalationDelays: [0s, 1s]
store:
  dataDir: /tmp/menus
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MENUMAKER_CONFIG", path)
	t.Setenv("MENUMAKER_LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Fetch.DefaultTimeout != 10*time.Second {
		t.Errorf("DefaultTimeout = %v", cfg.Fetch.DefaultTimeout)
	}
	if len(cfg.Fetch.EscalationDelays) != 2 || cfg.Fetch.EscalationDelays[1] != time.Second {
		t.Errorf("EscalationDelays = %v", cfg.Fetch.EscalationDelays)
	}
	if cfg.Store.DataDir != "/tmp/menus" {
		t.Errorf("DataDir = %q", cfg.Store.DataDir)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("env should override file: level = %q", cfg.Log.Level)
	}
	// Untouched values keep their defaults.
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Host = %q", cfg.Server.Host)
	}
}

func TestLoad_BadFile(t *testing.T) {
	t.Setenv("MENUMAKER_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("MENUMAKER_TEST_SLICE", " a, ,b ")
	got := envSliceOr("MENUMAKER_TEST_SLICE", nil)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("envSliceOr = %v", got)
	}
	t.Setenv("MENUMAKER_TEST_INT", "nope")
	if envIntOr("MENUMAKER_TEST_INT", 7) != 7 {
		t.Error("invalid int should fall back")
	}
	t.Setenv("MENUMAKER_TEST_DUR", "bad,2s")
	d := envDurationSliceOr("MENUMAKER_TEST_DUR", nil)
	if len(d) != 1 || d[0] != 2*time.Second {
		t.Errorf("envDurationSliceOr = %v", d)
	}
}
