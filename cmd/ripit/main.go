package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aaaronmiller/ripit/internal/cli"
	"github.com/aaaronmiller/ripit/internal/ffmpeg"
	"github.com/aaaronmiller/ripit/internal/split"
	"github.com/aaaronmiller/ripit/internal/ytdlp"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitUsage      = 2
	ExitSetup      = 3
	ExitValidation = 4
	ExitSplit      = 5
	ExitInterrupt  = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// Context with signal cancellation.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "ripit",
		Level:  hclog.Warn,
		Output: os.Stderr,
	}).With("run_id", uuid.NewString())

	env := cli.NewEnv(cli.WithLogger(logger))

	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "ripit",
		Short:   "Download audio and split it into titled tracks",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(hclog.Debug)
			}
		},
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(cli.RipCmd(env))
	rootCmd.AddCommand(cli.UpdateCmd(env))
	rootCmd.AddCommand(cli.ConfigCmd(env))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	// Interrupt.
	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	// Usage errors: Cobra flag/arg parsing errors. Cobra doesn't expose
	// typed errors, so we check for known error message patterns.
	if isCobraUsageError(err) {
		return ExitUsage
	}

	// Setup errors: required external tools unavailable.
	if errors.Is(err, ffmpeg.ErrNotFound) || errors.Is(err, ytdlp.ErrNotFound) {
		return ExitSetup
	}

	// Validation errors: bad input or configuration.
	if errors.Is(err, ytdlp.ErrPlaylist) || errors.Is(err, cli.ErrInvalidConfigKey) ||
		errors.Is(err, cli.ErrListFileEmpty) {
		return ExitValidation
	}

	// Split errors: the pipeline ran but some tracks could not be produced.
	if errors.Is(err, split.ErrSegmentsFailed) || errors.Is(err, cli.ErrUpdateFailed) ||
		errors.Is(err, ytdlp.ErrDownloadFailed) || errors.Is(err, ytdlp.ErrAudioMissing) {
		return ExitSplit
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
// These patterns are stable across Cobra versions (tested with v1.8+).
var cobraUsageErrorPatterns = []string{
	"required flag",             // Missing required flag
	"unknown flag",              // Flag doesn't exist
	"unknown shorthand",         // Short flag doesn't exist
	"flag needs an argument",    // Flag provided without value
	"invalid argument",          // Invalid flag value type
	"if any flags in the group", // Mutually exclusive flag violation
	"accepts ",                  // Wrong number of arguments (e.g., "accepts 1 arg(s)")
	"requires at least",         // Too few arguments
	"requires at most",          // Too many arguments
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
