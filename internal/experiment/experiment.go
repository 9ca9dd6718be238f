package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/rulial/internal/config"
	"github.com/san-kum/rulial/internal/enumerate"
	"github.com/san-kum/rulial/internal/logging"
	"github.com/san-kum/rulial/internal/machine"
	"github.com/san-kum/rulial/internal/metrics"
	"github.com/san-kum/rulial/internal/rulial"
)

type Config struct {
	Signature   enumerate.Signature
	Steps       int
	Policy      machine.TapePolicy
	MaxMachines uint64
	Workers     int
}

// FromConfig validates a file/flag configuration and extracts the run settings.
func FromConfig(c *config.Config) (Config, error) {
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	policy, err := c.TapePolicy()
	if err != nil {
		return Config{}, err
	}
	return Config{
		Signature:   c.Signature,
		Steps:       c.Steps,
		Policy:      policy,
		MaxMachines: c.MaxMachines,
		Workers:     c.Workers,
	}, nil
}

// Frame is one built graph with its statistics.
type Frame struct {
	StepLimit int
	Graph     *rulial.Graph
	Stats     metrics.Stats
	Elapsed   time.Duration
}

type Experiment struct {
	cfg      Config
	machines []*machine.Machine
	logger   *slog.Logger
	recorder *metrics.Recorder
}

type Option func(*Experiment)

func WithLogger(l *slog.Logger) Option {
	return func(e *Experiment) { e.logger = l }
}

// WithRecorder publishes every frame's statistics.
func WithRecorder(r *metrics.Recorder) Option {
	return func(e *Experiment) { e.recorder = r }
}

func New(cfg Config, opts ...Option) *Experiment {
	e := &Experiment{cfg: cfg, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Setup enumerates the machine family once. Frames reuse the list.
func (e *Experiment) Setup() error {
	start := time.Now()
	ms, err := enumerate.Machines(e.cfg.Signature,
		enumerate.WithLimit(e.cfg.MaxMachines),
		enumerate.WithPolicy(e.cfg.Policy),
	)
	if err != nil {
		return err
	}
	e.machines = ms
	e.logger.Info("enumerated machines",
		"signature", e.cfg.Signature.String(),
		"machines", len(ms),
		"policy", e.cfg.Policy.String(),
		"elapsed", time.Since(start),
	)
	return nil
}

// Machines returns the enumerated family; nil before Setup.
func (e *Experiment) Machines() []*machine.Machine { return e.machines }

func (e *Experiment) Config() Config { return e.cfg }

// Build constructs the graph for one step limit.
func (e *Experiment) Build(ctx context.Context, stepLimit int) (*Frame, error) {
	if e.machines == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	start := time.Now()
	g, err := rulial.Build(ctx, e.machines, stepLimit, rulial.WithWorkers(e.cfg.Workers))
	if err != nil {
		return nil, err
	}
	f := &Frame{
		StepLimit: stepLimit,
		Graph:     g,
		Stats:     metrics.Summarize(g, stepLimit),
		Elapsed:   time.Since(start),
	}
	if e.recorder != nil {
		e.recorder.Observe(f.Stats, f.Elapsed)
	}
	e.logger.Debug("built graph",
		"step_limit", stepLimit,
		"edges", f.Stats.Edges,
		"classes", f.Stats.Classes,
		"elapsed", f.Elapsed,
	)
	return f, nil
}

// Run builds the graph at the configured step limit.
func (e *Experiment) Run(ctx context.Context) (*Frame, error) {
	return e.Build(ctx, e.cfg.Steps)
}

// Sweep builds frames for step limits 0..frames-1, each from scratch.
func (e *Experiment) Sweep(ctx context.Context, frames int, fn func(*Frame) error) error {
	for _, limit := range rulial.Limits(frames) {
		f, err := e.Build(ctx, limit)
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	e.logger.Info("sweep finished", "frames", frames)
	return nil
}
