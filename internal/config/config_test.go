package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aaaronmiller/ripit/internal/config"
)

// withConfigDir points XDG_CONFIG_HOME at a temp dir so tests never touch
// the real user config. Not parallel: environment mutation.
func withConfigDir(t *testing.T) string {
	t.Helper()
	d := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", d)
	return filepath.Join(d, "ripit")
}

func TestLoadDefaults(t *testing.T) {
	withConfigDir(t)

	cfg, err := config.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.NoiseDB != -30 {
		t.Errorf("NoiseDB = %v, want -30", cfg.NoiseDB)
	}
	if cfg.MinSilence != 2 {
		t.Errorf("MinSilence = %v, want 2", cfg.MinSilence)
	}
	if cfg.Format != "mp3" {
		t.Errorf("Format = %q, want mp3", cfg.Format)
	}
	if cfg.Archive == "" {
		t.Error("Archive default not derived")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	withConfigDir(t)
	t.Setenv("RIPIT_NOISE_DB", "-45.5")
	t.Setenv("RIPIT_FORMAT", "opus")
	t.Setenv("RIPIT_TIMEOUT", "90s")

	cfg, err := config.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.NoiseDB != -45.5 {
		t.Errorf("NoiseDB = %v, want -45.5", cfg.NoiseDB)
	}
	if cfg.Format != "opus" {
		t.Errorf("Format = %q, want opus", cfg.Format)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", cfg.Timeout)
	}
}

func TestLoadFileOverridesEnv(t *testing.T) {
	d := withConfigDir(t)
	t.Setenv("RIPIT_OUTPUT_DIR", "/from/env")

	if err := os.MkdirAll(d, 0750); err != nil {
		t.Fatalf("MkdirAll() error: %v", err)
	}
	content := "# ripit config\noutput-dir=/from/file\nnoise-db=-50\nmin-silence=1.5\n"
	if err := os.WriteFile(filepath.Join(d, "config"), []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	cfg, err := config.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.OutputDir != "/from/file" {
		t.Errorf("OutputDir = %q, want file value to win over env", cfg.OutputDir)
	}
	if cfg.NoiseDB != -50 {
		t.Errorf("NoiseDB = %v, want -50", cfg.NoiseDB)
	}
	if cfg.MinSilence != 1.5 {
		t.Errorf("MinSilence = %v, want 1.5", cfg.MinSilence)
	}
}

func TestLoadValidation(t *testing.T) {
	t.Run("positive noise threshold rejected", func(t *testing.T) {
		withConfigDir(t)
		t.Setenv("RIPIT_NOISE_DB", "10")

		if _, err := config.Load(context.Background()); err == nil {
			t.Error("Load() accepted a positive dB threshold")
		}
	})

	t.Run("unknown format rejected", func(t *testing.T) {
		withConfigDir(t)
		t.Setenv("RIPIT_FORMAT", "xyz")

		if _, err := config.Load(context.Background()); err == nil {
			t.Error("Load() accepted an unknown audio format")
		}
	})

	t.Run("zero min-silence rejected", func(t *testing.T) {
		withConfigDir(t)
		t.Setenv("RIPIT_MIN_SILENCE", "0")

		if _, err := config.Load(context.Background()); err == nil {
			t.Error("Load() accepted a zero minimum silence duration")
		}
	})
}

func TestSaveGetList(t *testing.T) {
	withConfigDir(t)

	if err := config.Save("output-dir", "/music/rips"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := config.Save("noise-db", "-40"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := config.Get("output-dir")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != "/music/rips" {
		t.Errorf("Get() = %q, want %q", got, "/music/rips")
	}

	all, err := config.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("List() = %v, want 2 entries", all)
	}
}

func TestValidKey(t *testing.T) {
	t.Parallel()

	for _, k := range config.Keys {
		if !config.ValidKey(k) {
			t.Errorf("ValidKey(%q) = false", k)
		}
	}
	if config.ValidKey("bogus") {
		t.Error("ValidKey(\"bogus\") = true")
	}
}
