package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lbfallback/lbfallback/fallback"
	"github.com/lbfallback/lbfallback/fallback/trace"
	"github.com/lbfallback/lbfallback/rpc"
)

var (
	// CLI flags for the deployment under test
	serverURI    string // Target of the deployment under test
	testCase     string // Scenario to run
	unrouteCmd   string // Shell command making LB and backend addresses unreachable
	blackholeCmd string // Shell command blackholing LB and backend addresses
	credentials  string // Channel credentials type
	configPath   string // Optional YAML run config
	logLevel     string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "lbfallback",
	Short: "Verifies grpclb fallback behavior under injected network faults",
}

// runCmd executes one verification scenario using parameters from CLI flags
// and the optional run config file.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one fallback verification scenario",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := resolveConfig(cmd.Flags())
		if err != nil {
			logrus.Fatalf("unable to resolve run config: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("invalid configuration: %v", err)
		}

		scenario, err := fallback.ParseScenario(cfg.TestCase)
		if err != nil {
			logrus.Fatalf("invalid test case: %v", err)
		}

		if err := runScenario(cfg, scenario); err != nil {
			logrus.Fatalf("scenario failed: %v", err)
		}
	},
}

// resolveConfig merges the optional config file under the explicit flags.
// A flag the user set always wins; file values fill the rest.
func resolveConfig(flags *pflag.FlagSet) (*RunConfig, error) {
	cfg := &RunConfig{
		ServerURI:    serverURI,
		TestCase:     testCase,
		UnrouteCmd:   unrouteCmd,
		BlackholeCmd: blackholeCmd,
		Credentials:  credentials,
	}
	if configPath == "" {
		return cfg, nil
	}
	fileCfg, err := LoadRunConfig(configPath)
	if err != nil {
		return nil, err
	}
	if !flags.Changed("server-uri") && fileCfg.ServerURI != "" {
		cfg.ServerURI = fileCfg.ServerURI
	}
	if !flags.Changed("test-case") && fileCfg.TestCase != "" {
		cfg.TestCase = fileCfg.TestCase
	}
	if !flags.Changed("unroute-cmd") && fileCfg.UnrouteCmd != "" {
		cfg.UnrouteCmd = fileCfg.UnrouteCmd
	}
	if !flags.Changed("blackhole-cmd") && fileCfg.BlackholeCmd != "" {
		cfg.BlackholeCmd = fileCfg.BlackholeCmd
	}
	if !flags.Changed("credentials") && fileCfg.Credentials != "" {
		cfg.Credentials = fileCfg.Credentials
	}
	return cfg, nil
}

// runScenario builds the channel and verifier, runs the scenario, and
// reports the probe summary. The channel closes on every return path; a
// shutdown signal cancels the run and the deferred close still applies.
func runScenario(cfg *RunConfig, scenario fallback.Scenario) error {
	conn, err := rpc.Dial(cfg.ServerURI, cfg.Credentials)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logrus.WithFields(logrus.Fields{
		"run_id":    uuid.NewString(),
		"test_case": cfg.TestCase,
	})
	log.Infof("starting fallback verification against %s", cfg.ServerURI)

	verifier := fallback.NewVerifier(rpc.NewTransport(conn), fallback.ShellInjector{}, fallback.Commands{
		Unroute:   cfg.UnrouteCmd,
		Blackhole: cfg.BlackholeCmd,
	})
	err = verifier.Run(ctx, scenario)
	reportSummary(log, trace.Summarize(verifier.Trace()))
	if err != nil {
		return err
	}
	log.Info("scenario passed")
	return nil
}

func reportSummary(log *logrus.Entry, summary *trace.RunSummary) {
	log.Infof("probes: total=%d backend=%d fallback=%d unknown=%d",
		summary.TotalProbes, summary.BackendCount, summary.FallbackCount, summary.UnknownCount)
	if summary.TransitionIteration >= 0 {
		log.Infof("fallback transition observed on attempt %d", summary.TransitionIteration)
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&serverURI, "server-uri", "localhost:10000", "Target of the deployment under test")
	runCmd.Flags().StringVar(&testCase, "test-case", "", "Scenario to run ("+strings.Join(fallback.ScenarioNames(), ", ")+")")
	runCmd.Flags().StringVar(&unrouteCmd, "unroute-cmd", "exit 1", "Shell command that makes the LB and backend addresses unreachable")
	runCmd.Flags().StringVar(&blackholeCmd, "blackhole-cmd", "exit 1", "Shell command that blackholes the LB and backend addresses")
	runCmd.Flags().StringVar(&credentials, "credentials", rpc.CredsComputeEngine, "Channel credentials ("+rpc.CredsComputeEngine+", "+rpc.CredsInsecure+")")
	runCmd.Flags().StringVar(&configPath, "config", "", "Optional YAML run config; explicit flags take precedence")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
