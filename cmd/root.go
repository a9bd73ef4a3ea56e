package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/schedsim/sim"
	"github.com/inference-sim/schedsim/sim/trace"
)

var (
	// CLI flags shared by run and compare
	logLevel      string // Log verbosity level
	configPath    string // Optional YAML run config
	inputPath     string // Process stream path ("-" for stdin)
	numProcesses  int    // Exact record count to read; 0 reads until EOF
	horizon       int64  // Last simulated tick (inclusive)
	quantum       int64  // Round Robin slice length in ticks
	priorityOrder string // lower-first or higher-first

	// run-only flags
	policyFlag   string // Policy selector (alternative to the positional argument)
	showTrace    bool   // Print the Gantt chart and decision summary
	outputFormat string // text or json
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "schedsim",
	Short: "Discrete-time simulator for CPU scheduling policies",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd executes one simulation using parameters from CLI flags and the optional run config
var runCmd = &cobra.Command{
	Use:   "run [selector]",
	Short: "Run the scheduling simulation with one policy",
	Long: `Run the scheduling simulation with one policy.

The selector is one of:
  f   First Come First Serve
  s   Shortest Job First (Preemptive)
  n   Shortest Job First (Non-Preemptive)
  r   Round Robin
  p   Priority
or the long names fcfs, srtf, sjf, round-robin, priority.

Processes are read from --input (stdin by default) as one "arrival service priority"
record per process, or taken from the processes list of --config.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		selector := policyFlag
		if len(args) == 1 {
			selector = args[0]
		}
		if err := runSimulation(cmd, selector, os.Stdin, os.Stdout); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// resolveRun builds the SimConfig and the process definitions from the run config
// file and the flags. Flags explicitly set on the command line override the file.
// Nothing here constructs simulation state.
func resolveRun(cmd *cobra.Command, selector string, stdin io.Reader) (sim.SimConfig, []sim.ProcessSpec, error) {
	cfg := sim.DefaultSimConfig()
	cfg.Policy = ""
	var fileSpecs []sim.ProcessSpec
	if configPath != "" {
		rc, err := sim.LoadRunConfig(configPath)
		if err != nil {
			return cfg, nil, err
		}
		if cfg, err = rc.Apply(cfg); err != nil {
			return cfg, nil, err
		}
		fileSpecs = rc.Processes
	}

	flags := cmd.Flags()
	if selector != "" {
		name, err := sim.ResolvePolicyName(selector)
		if err != nil {
			return cfg, nil, err
		}
		cfg.Policy = name
	}
	if flags.Changed("horizon") || configPath == "" {
		cfg.Horizon = horizon
	}
	if flags.Changed("quantum") || configPath == "" {
		cfg.Options.Quantum = quantum
	}
	if flags.Changed("priority-order") || configPath == "" {
		cfg.Options.PriorityOrder = sim.PriorityOrder(priorityOrder)
	}

	var specs []sim.ProcessSpec
	if len(fileSpecs) > 0 && !flags.Changed("input") {
		specs = fileSpecs
		if numProcesses > 0 && len(specs) != numProcesses {
			return cfg, nil, fmt.Errorf("%w: expected %d records, config has %d", sim.ErrMalformedInput, numProcesses, len(specs))
		}
	} else {
		var err error
		if specs, err = readProcesses(inputPath, numProcesses, stdin); err != nil {
			return cfg, nil, err
		}
	}
	return cfg, specs, nil
}

// runSimulation resolves the configuration, runs the simulation and writes the report.
func runSimulation(cmd *cobra.Command, selector string, stdin io.Reader, stdout io.Writer) error {
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("%w: unknown output format %q", sim.ErrInvalidConfig, outputFormat)
	}
	cfg, specs, err := resolveRun(cmd, selector, stdin)
	if err != nil {
		return err
	}
	if cfg.Policy == "" {
		return fmt.Errorf("%w: no policy selector given", sim.ErrUnknownPolicy)
	}
	if showTrace {
		cfg.TraceLevel = trace.TraceLevelDecisions
	}

	logrus.Infof("Starting %s with %d processes, horizon=%d ticks, quantum=%d, priority order=%s",
		cfg.Policy, len(specs), cfg.Horizon, cfg.Options.Quantum, cfg.Options.PriorityOrder)

	s, err := sim.NewSimulator(cfg, specs)
	if err != nil {
		return err
	}
	s.Run()
	report := s.Report()

	switch outputFormat {
	case "json":
		err = report.WriteJSON(stdout)
	default:
		err = report.Print(stdout)
	}
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if report.Incomplete > 0 {
		logrus.Warnf("%d of %d processes did not finish within the horizon of %d ticks",
			report.Incomplete, len(report.Processes), report.Horizon)
	}
	if s.Trace != nil && outputFormat != "json" {
		if err := renderTrace(stdout, s.Trace); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
	}
	logrus.Info("Simulation complete.")
	return nil
}

// readProcesses reads process records from path, or from stdin when path is "-" or empty.
func readProcesses(path string, n int, stdin io.Reader) ([]sim.ProcessSpec, error) {
	if path == "" || path == "-" {
		return sim.ReadProcessSpecs(stdin, n)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening process input: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			logrus.Warnf("Error closing %s: %v", path, closeErr)
		}
	}()
	return sim.ReadProcessSpecs(f, n)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addEngineFlags registers the flags every simulating command shares.
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configPath, "config", "", "YAML run config (policy, horizon, quantum, priority_order, trace, processes)")
	cmd.Flags().StringVar(&inputPath, "input", "-", "Process records file, one \"arrival service priority\" per line (- for stdin)")
	cmd.Flags().IntVar(&numProcesses, "num-processes", 0, "Exact number of records to read (0 reads until EOF; the classic format uses 6)")
	cmd.Flags().Int64Var(&horizon, "horizon", sim.DefaultHorizon, "Last simulated tick (inclusive)")
	cmd.Flags().Int64Var(&quantum, "quantum", sim.DefaultPolicyOptions().Quantum, "Round Robin time quantum (ticks)")
	cmd.Flags().StringVar(&priorityOrder, "priority-order", string(sim.LowerFirst), "Priority direction: lower-first or higher-first")
}

// addRunFlags registers the flags only the run command takes.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&policyFlag, "policy", "", "Policy selector (f, s, n, r, p or long name)")
	cmd.Flags().BoolVar(&showTrace, "trace", false, "Print the CPU Gantt chart and decision summary")
	cmd.Flags().StringVar(&outputFormat, "output", "text", "Report format: text or json")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().BoolVar(&color.NoColor, "no-color", color.NoColor, "Disable colored output")

	addEngineFlags(runCmd)
	addRunFlags(runCmd)

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
}
