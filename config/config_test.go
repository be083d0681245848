package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Socket != DefaultSocket {
		t.Errorf("Socket = %q", cfg.Socket)
	}
	if cfg.Combat.AttackRadius != 800 || cfg.Combat.PolicyPeriod != 8 {
		t.Errorf("combat defaults = %+v", cfg.Combat)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.Socket != want.Socket || cfg.Log != want.Log || cfg.Combat != want.Combat {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "squads.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
socket: /run/squads.sock
log:
  level: debug
  format: json
catalog:
  path: /etc/vimy/catalog.yaml
combat:
  attack_radius: 640
  workers_defend_rush: true
  drop_filter: 'Type == "reaver"'
  seed: 42
`)
	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Socket != "/run/squads.sock" || cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("top level = %+v", cfg)
	}
	if cfg.Catalog.Path != "/etc/vimy/catalog.yaml" {
		t.Errorf("Catalog.Path = %q", cfg.Catalog.Path)
	}
	c := cfg.Combat
	if c.AttackRadius != 640 || !c.WorkersDefendRush || c.DropFilter != `Type == "reaver"` || c.Seed != 42 {
		t.Errorf("combat = %+v", c)
	}
	// Untouched keys keep their defaults.
	if c.ReconMaxWeight != 12 || c.RegionDefenseRadius != 800 {
		t.Errorf("defaults lost: %+v", c)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("VIMY_SQUADS_COMBAT_RECON_MAX_WEIGHT", "6")
	t.Setenv("VIMY_SQUADS_LOG_LEVEL", "warn")
	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Combat.ReconMaxWeight != 6 {
		t.Errorf("ReconMaxWeight = %d, want 6", cfg.Combat.ReconMaxWeight)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"log level", "log:\n  level: loud\n", "log.level"},
		{"log format", "log:\n  format: xml\n", "log.format"},
		{"combat period", "combat:\n  policy_period: 0\n", "policy_period"},
		{"combat filter", "combat:\n  drop_filter: 'Category =='\n", "drop_filter"},
		{"empty socket", "socket: ''\n", "socket"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(viper.New(), writeConfig(t, tc.body))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want mention of %s", err, tc.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
	if errors.Is(err, ErrInvalid) {
		t.Error("a missing file is a read error, not a validation error")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf).Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info logged at warn level: %s", buf.String())
	}

	LogConfig{Level: "debug", Format: "json"}.NewLogger(&buf).Debug("kept", "squad", "Ground")
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("json handler output %q: %v", buf.String(), err)
	}
	if rec["msg"] != "kept" || rec["squad"] != "Ground" {
		t.Errorf("record = %v", rec)
	}

	buf.Reset()
	LogConfig{Level: "info", Format: "text"}.NewLogger(&buf).Info("hello", "tick", 9)
	if !strings.Contains(buf.String(), "msg=hello") || !strings.Contains(buf.String(), "tick=9") {
		t.Errorf("text output = %q", buf.String())
	}
}
