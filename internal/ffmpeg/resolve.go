package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
)

// EnvPath is the environment variable overriding ffmpeg binary discovery.
const EnvPath = "RIPIT_FFMPEG"

// versionRe extracts the version token from `ffmpeg -version` output.
var versionRe = regexp.MustCompile(`ffmpeg version (\S+)`)

// Resolve locates the ffmpeg binary.
//
// Precedence: explicit path argument (from config), RIPIT_FFMPEG, then
// PATH lookup. Returns ErrNotFound when no candidate is executable.
func Resolve(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: configured path %s: %v", ErrNotFound, explicit, err)
		}
		return explicit, nil
	}

	if env := os.Getenv(EnvPath); env != "" {
		if _, err := os.Stat(env); err != nil {
			return "", fmt.Errorf("%w: %s=%s: %v", ErrNotFound, EnvPath, env, err)
		}
		return env, nil
	}

	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("%w: install ffmpeg or set %s", ErrNotFound, EnvPath)
	}
	return path, nil
}

// Version reports the ffmpeg version string, or "unknown" when it cannot
// be determined. Used for startup diagnostics only; never fatal.
func Version(ctx context.Context, e *Executor, ffmpegPath string) string {
	out, err := e.Output(ctx, ffmpegPath, []string{"-version"})
	if err != nil && out == "" {
		return "unknown"
	}
	if m := versionRe.FindStringSubmatch(out); m != nil {
		return m[1]
	}
	return "unknown"
}
