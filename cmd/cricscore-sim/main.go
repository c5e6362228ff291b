// Command cricscore-sim plays synthetic innings against a cricscore server
// and checks that every click and scorecard comes back as planned.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/cricscore/internal/domain/reference"
	"github.com/okian/cricscore/internal/simulate"
	"github.com/okian/cricscore/pkg/logger"
)

// Default configuration constants.
const (
	defaultMatches     = 4
	defaultOvers       = 20
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
	logFilePermission  = 0600
)

// errProblems is returned when the run finished but found discrepancies.
var errProblems = errors.New("simulation found problems")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type options struct {
	config  simulate.Config
	logFile string
	roster  string
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "cricscore-sim",
		Short:        "Score synthetic innings against a cricscore server",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd.ErrOrStderr(), opts.logFile, opts.config.Verbose)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), defaultTestTimeout)
			defer cancel()
			rep, err := simulate.Run(ctx, &opts.config)
			if rep != nil {
				fmt.Fprint(out, simulate.Render(rep))
			}
			if err != nil {
				return err
			}
			if rep.Stats.Problems > 0 {
				return fmt.Errorf("%w: %d", errProblems, rep.Stats.Problems)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.IntVar(&opts.config.Matches, "matches", defaultMatches, "Number of innings to play")
	flags.IntVar(&opts.config.Overs, "overs", defaultOvers, "Overs per innings")
	flags.Uint64Var(&opts.config.Seed, "seed", uint64(time.Now().UnixNano()), "Seed for the ball generator")
	flags.StringVar(&opts.config.OutputFile, "output", "", "File to save the generated plans to")
	flags.StringVar(&opts.logFile, "log", "", "Also write logs to this file")
	flags.BoolVarP(&opts.config.Verbose, "verbose", "v", false, "Log every ball")

	root.Flags().StringVar(&opts.config.BaseURL, "url", "http://localhost:9080", "Base URL of the service")
	root.Flags().IntVar(&opts.config.Workers, "workers", runtime.NumCPU(), "Innings played concurrently")
	root.Flags().DurationVar(&opts.config.Timeout, "timeout", defaultTimeout, "HTTP request timeout")

	root.AddCommand(newPlanCmd(opts, out))
	return root
}

// newPlanCmd generates plans offline from a roster file without a server.
func newPlanCmd(opts *options, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate innings plans without playing them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := reference.LoadRoster(opts.roster)
			if err != nil {
				return err
			}
			roster, err := simulate.RosterFrom(r)
			if err != nil {
				return err
			}
			plans, err := simulate.Plans(opts.config.Seed, opts.config.Matches, opts.config.Overs, roster)
			if err != nil {
				return err
			}
			if opts.config.OutputFile == "" {
				for _, p := range plans {
					fmt.Fprintf(out, "%s: %d balls, %d/%d\n", p.MatchID, len(p.Balls), p.Want.Runs, p.Want.Wickets)
				}
				return nil
			}
			if err := simulate.SavePlans(opts.config.OutputFile, plans); err != nil {
				return err
			}
			fmt.Fprintf(out, "wrote %d plans to %s\n", len(plans), opts.config.OutputFile)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.roster, "roster", "", "TOML roster file (default: built-in roster)")
	return cmd
}

// setupLogging sends logs to w and, when logFile is set, to that file too.
func setupLogging(w io.Writer, logFile string, verbose bool) error {
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(w, file)
	}
	if err := logger.Init(logger.WithOutput(w)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}
