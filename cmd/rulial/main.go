package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/san-kum/rulial/internal/config"
	"github.com/san-kum/rulial/internal/experiment"
	"github.com/san-kum/rulial/internal/logging"
	"github.com/san-kum/rulial/internal/metrics"
)

// flags holds the global flag values. Each one only applies when the user
// set it explicitly.
type flags struct {
	configFile  string
	preset      string
	states      int
	symbols     int
	steps       int
	policy      string
	workers     int
	maxMachines uint64
	logLevel    string
	metricsAddr string
}

// app is the state shared by every command once the persistent pre-run has
// resolved the configuration.
type app struct {
	flags    flags
	cfg      *config.Config
	logger   *slog.Logger
	recorder *metrics.Recorder
	server   *http.Server
	registry *experiment.Registry
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{registry: experiment.NewRegistry()}

	rootCmd := &cobra.Command{
		Use:   "rulial",
		Short: "explore the rulial space of small Turing machines",
		Long: "rulial enumerates every Turing machine of a (states, symbols) signature,\n" +
			"runs them for a bounded number of steps and links the machines that end in\n" +
			"the same configuration.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Flags())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.shutdown()
		},
		RunE: a.runInteractive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.flags.configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&a.flags.preset, "preset", "", "use preset configuration")
	pf.IntVar(&a.flags.states, "states", config.DefaultStates, "number of machine states")
	pf.IntVar(&a.flags.symbols, "symbols", config.DefaultSymbols, "number of tape symbols")
	pf.IntVar(&a.flags.steps, "steps", config.DefaultSteps, "step limit")
	pf.StringVar(&a.flags.policy, "policy", config.DefaultPolicy, "tape edge policy (halt|wrap)")
	pf.IntVar(&a.flags.workers, "workers", 0, "parallel build workers (default one per CPU, 1 = serial)")
	pf.Uint64Var(&a.flags.maxMachines, "max-machines", config.DefaultMaxMachines, "refuse to enumerate more machines than this")
	pf.StringVar(&a.flags.logLevel, "log-level", config.DefaultLogLevel, "log level (debug|info|warn|error)")
	pf.StringVar(&a.flags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	rootCmd.AddCommand(
		a.newRunCmd(),
		a.newAnimateCmd(),
		a.newSweepCmd(),
		a.newEnumerateCmd(),
		a.newTraceCmd(),
		a.newScenarioCmd(),
		newPresetsCmd(),
	)
	return rootCmd
}

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func resolveConfig(fs *pflag.FlagSet, f flags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.preset != "" {
		if err := cfg.ApplyPreset(f.preset); err != nil {
			return nil, err
		}
	}
	if f.configFile != "" {
		if err := cfg.LoadFile(f.configFile); err != nil {
			return nil, err
		}
	}

	if fs.Changed("states") {
		cfg.Signature.States = f.states
	}
	if fs.Changed("symbols") {
		cfg.Signature.Symbols = f.symbols
	}
	if fs.Changed("steps") {
		cfg.Steps = f.steps
	}
	if fs.Changed("policy") {
		cfg.Policy = f.policy
	}
	if fs.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fs.Changed("max-machines") {
		cfg.MaxMachines = f.maxMachines
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fs.Changed("metrics-addr") {
		cfg.MetricsAddr = f.metricsAddr
	}
	return cfg, cfg.Validate()
}

func (a *app) setup(fs *pflag.FlagSet) error {
	cfg, err := resolveConfig(fs, a.flags)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logging.New(level)

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		rec, err := metrics.NewRecorder(reg)
		if err != nil {
			return err
		}
		a.recorder = rec
		a.server = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			a.logger.Info("serving metrics", "addr", cfg.MetricsAddr)
			if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server stopped", "error", err)
			}
		}()
	}
	return nil
}

func (a *app) shutdown() error {
	if a.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return a.server.Shutdown(ctx)
}

// newExperiment returns an experiment for the resolved configuration with the
// family already enumerated.
func (a *app) newExperiment() (*experiment.Experiment, error) {
	ec, err := experiment.FromConfig(a.cfg)
	if err != nil {
		return nil, err
	}
	opts := []experiment.Option{experiment.WithLogger(a.logger)}
	if a.recorder != nil {
		opts = append(opts, experiment.WithRecorder(a.recorder))
	}
	e := experiment.New(ec, opts...)
	if err := e.Setup(); err != nil {
		return nil, err
	}
	return e, nil
}

func (a *app) runInteractive(cmd *cobra.Command, args []string) error {
	e, err := a.newExperiment()
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return runFrames(cmd.Context(), e, a.cfg.Steps, cmd.OutOrStdout())
	}
	return interactive(cmd.Context(), e, cmd.InOrStdin(), cmd.OutOrStdout())
}
