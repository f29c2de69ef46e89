// Package config loads user configuration from the ripit config file and
// RIPIT_* environment variables.
package config

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// Config keys accepted in the config file.
const (
	KeyOutputDir  = "output-dir"
	KeyArchive    = "archive"
	KeyNoiseDB    = "noise-db"
	KeyMinSilence = "min-silence"
	KeyFormat     = "format"
	KeyFFmpeg     = "ffmpeg"
	KeyYtdlp      = "yt-dlp"
	KeyTimeout    = "timeout"
)

// Keys lists every valid config file key, for validation in the config
// command.
var Keys = []string{
	KeyOutputDir, KeyArchive, KeyNoiseDB, KeyMinSilence,
	KeyFormat, KeyFFmpeg, KeyYtdlp, KeyTimeout,
}

// Config holds user configuration.
//
// Precedence per field: config file value, then environment variable, then
// default.
type Config struct {
	OutputDir  string        `env:"RIPIT_OUTPUT_DIR"`
	Archive    string        `env:"RIPIT_ARCHIVE"`
	NoiseDB    float64       `env:"RIPIT_NOISE_DB, default=-30" validate:"lt=0"`
	MinSilence float64       `env:"RIPIT_MIN_SILENCE, default=2" validate:"gt=0"`
	Format     string        `env:"RIPIT_FORMAT, default=mp3" validate:"oneof=mp3 m4a opus flac wav ogg"`
	FFmpeg     string        `env:"RIPIT_FFMPEG"`
	Ytdlp      string        `env:"RIPIT_YTDLP"`
	Timeout    time.Duration `env:"RIPIT_TIMEOUT" validate:"gte=0"`
}

var validate = validator.New()

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/ripit.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ripit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "ripit"), nil
}

// path returns the full path to the config file.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config"), nil
}

// Load reads configuration: envconfig defaults and RIPIT_* variables
// first, then config file values on top, then validation. A missing
// config file is not an error.
func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid environment configuration: %w", err)
	}

	p, err := path()
	if err != nil {
		return cfg, err
	}
	data, err := parseFile(p)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := applyFile(&cfg, data); err != nil {
		return cfg, err
	}

	if cfg.Archive == "" {
		d, err := dir()
		if err != nil {
			return cfg, err
		}
		cfg.Archive = filepath.Join(d, "archive.txt")
	}

	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyFile overlays config file values onto cfg.
func applyFile(cfg *Config, data map[string]string) error {
	if v, ok := data[KeyOutputDir]; ok {
		cfg.OutputDir = ExpandPath(v)
	}
	if v, ok := data[KeyArchive]; ok {
		cfg.Archive = ExpandPath(v)
	}
	if v, ok := data[KeyFormat]; ok {
		cfg.Format = v
	}
	if v, ok := data[KeyFFmpeg]; ok {
		cfg.FFmpeg = ExpandPath(v)
	}
	if v, ok := data[KeyYtdlp]; ok {
		cfg.Ytdlp = ExpandPath(v)
	}
	if v, ok := data[KeyNoiseDB]; ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %q", KeyNoiseDB, v)
		}
		cfg.NoiseDB = f
	}
	if v, ok := data[KeyMinSilence]; ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %q", KeyMinSilence, v)
		}
		cfg.MinSilence = f
	}
	if v, ok := data[KeyTimeout]; ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %q", KeyTimeout, v)
		}
		cfg.Timeout = d
	}
	return nil
}

// parseFile reads a key=value config file.
// Format: one key=value per line, # comments, empty lines ignored.
func parseFile(p string) (map[string]string, error) {
	f, err := os.Open(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid syntax at line %d: %q", lineNum, line)
		}
		data[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return data, nil
}

// Save writes a single key=value to the config file.
// Creates the config directory and file if they don't exist.
// Preserves existing key=value pairs but discards comments.
func Save(key, value string) error {
	p, err := path()
	if err != nil {
		return err
	}

	d := filepath.Dir(p)
	if err := os.MkdirAll(d, 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	existing, _ := parseFile(p)
	if existing == nil {
		existing = make(map[string]string)
	}
	existing[key] = value

	return writeFile(p, existing)
}

// writeFile writes the config map to a file.
func writeFile(p string, data map[string]string) error {
	// #nosec G302 G304 -- config file with standard permissions, path from home dir
	f, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	for key, value := range data {
		if _, err := fmt.Fprintf(f, "%s=%s\n", key, value); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

// Get reads a single value from the config file.
// Returns empty string if the key doesn't exist.
func Get(key string) (string, error) {
	p, err := path()
	if err != nil {
		return "", err
	}
	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return data[key], nil
}

// List returns all config file values as a map.
func List() (map[string]string, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}
	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	return data, nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[2:])
	}
	return p
}

// ValidKey reports whether key is a recognized config file key.
func ValidKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}
