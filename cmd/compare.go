package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/schedsim/sim"
	"github.com/inference-sim/schedsim/sim/compare"
)

var (
	comparePolicies []string // Policies to compare; empty compares all
	compareWorkers  int      // Max concurrent runs
	showProgress    bool     // Show a progress bar on stderr
)

// compareCmd runs several policies on the same processes and ranks them
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run several scheduling policies on the same processes and rank them",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := runComparison(ctx, cmd, os.Stdin, os.Stdout); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func runComparison(ctx context.Context, cmd *cobra.Command, stdin io.Reader, stdout io.Writer) error {
	cfg, specs, err := resolveRun(cmd, "", stdin)
	if err != nil {
		return err
	}
	policies := comparePolicies
	if len(policies) == 0 {
		policies = sim.PolicyNames()
	}

	opts := compare.Options{Policies: policies, Workers: compareWorkers}
	if showProgress {
		bar := progressbar.NewOptions(len(policies),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Simulating policies"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		opts.OnDone = func(compare.Result) { _ = bar.Add(1) }
		defer func() { _ = bar.Finish() }()
	}

	logrus.Infof("Comparing %v on %d processes, horizon=%d ticks", policies, len(specs), cfg.Horizon)
	results, err := compare.Run(ctx, specs, cfg, opts)
	if err != nil {
		return err
	}
	if err := renderComparison(stdout, results); err != nil {
		return fmt.Errorf("writing comparison: %w", err)
	}
	return nil
}

func init() {
	addEngineFlags(compareCmd)
	compareCmd.Flags().StringSliceVar(&comparePolicies, "policies", nil, "Comma-separated selectors or names to compare (default: all)")
	compareCmd.Flags().IntVar(&compareWorkers, "workers", 0, "Max concurrent simulations (0 = GOMAXPROCS)")
	compareCmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar on stderr")

	rootCmd.AddCommand(compareCmd)
}
