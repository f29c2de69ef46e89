package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aaaronmiller/ripit/internal/config"
	"github.com/aaaronmiller/ripit/internal/interrupt"
)

// UpdateCmd creates the update command.
func UpdateCmd(env *Env) *cobra.Command {
	var (
		outputDir string
		format    string
		parallel  int
		keep      bool
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "update <list-file>",
		Short: "Rip every URL from a list file",
		Long: `Read URLs from a file, one per line, and run the rip pipeline for
each. Blank lines and lines starting with # are ignored. URLs already
recorded in the archive are skipped.

A failing URL does not stop the run; failures are reported at the end.`,
		Example: `  ripit update ~/Music/channels.txt
  ripit update --keep -p 4 watchlist.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := env.ConfigLoader.Load(cmd.Context())
			if err != nil {
				return err
			}

			opts := ripOptions{
				outputDir:  cfg.OutputDir,
				noiseDB:    cfg.NoiseDB,
				minSilence: cfg.MinSilence,
				format:     cfg.Format,
				parallel:   1,
				timeout:    cfg.Timeout,
			}
			flags := cmd.Flags()
			if flags.Changed("output-dir") {
				opts.outputDir = config.ExpandPath(outputDir)
			}
			if flags.Changed("format") {
				opts.format = format
			}
			if flags.Changed("parallel") {
				opts.parallel = parallel
			}
			if flags.Changed("timeout") {
				opts.timeout = timeout
			}
			opts.keep = keep

			urls, err := readURLList(args[0])
			if err != nil {
				return err
			}

			p, err := newPipeline(cmd.Context(), env, cfg, opts)
			if err != nil {
				return err
			}

			h, ctx := interrupt.NewHandler(cmd.Context())
			defer h.Stop()

			var failed int
			for i, url := range urls {
				if ctx.Err() != nil {
					break
				}
				infof(env.Stderr, "[%d/%d] %s", i+1, len(urls), url)
				if err := p.run(ctx, url); err != nil {
					failed++
					failf(env.Stderr, "Failed: %s: %v", url, err)
					env.Logger.Error("url failed", "url", url, "error", err)
				}
			}
			if h.Interrupted() {
				h.Decide("Interrupted: keeping completed tracks. Press Ctrl+C again to abort.")
				return ctx.Err()
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", ErrUpdateFailed, failed, len(urls))
			}
			successf(env.Stderr, "All %d URLs processed", len(urls))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for album directories (default: config or cwd)")
	cmd.Flags().StringVarP(&format, "format", "f", "mp3", "Output audio format")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 1, "Concurrent segment transcodes")
	cmd.Flags().BoolVar(&keep, "keep", false, "Never delete downloaded source files")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-call timeout for external tools (0 = none)")

	return cmd
}

// readURLList parses a list file into URLs, skipping blanks and # comments.
func readURLList(path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided list file
	if err != nil {
		return nil, fmt.Errorf("cannot read list file: %w", err)
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cannot read list file: %w", err)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrListFileEmpty, path)
	}
	return urls, nil
}
