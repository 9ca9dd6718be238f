// Package automation runs scripted batches of rulial builds.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/rulial/internal/config"
	"github.com/san-kum/rulial/internal/enumerate"
	"github.com/san-kum/rulial/internal/experiment"
	"github.com/san-kum/rulial/internal/export"
	"github.com/san-kum/rulial/internal/logging"
)

// Scenario defines a scripted sequence of builds
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Runs        []Run  `yaml:"runs"`
}

// Run is a single build in a scenario. Zero fields inherit from the base
// configuration.
type Run struct {
	Name      string              `yaml:"name"`
	Preset    string              `yaml:"preset"`
	Signature enumerate.Signature `yaml:"signature"`
	Steps     *int                `yaml:"steps"`
	Policy    string              `yaml:"policy"`
	Format    string              `yaml:"format"`
	Out       string              `yaml:"out"`
}

// Result is the outcome of one run.
type Result struct {
	Run   Run
	Frame *experiment.Frame
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read scenario %s", path)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, errors.Wrapf(err, "parse scenario %s", path)
	}
	if len(scenario.Runs) == 0 {
		return nil, errors.Errorf("scenario %s has no runs", path)
	}
	return &scenario, nil
}

// Runner executes scenarios on top of a base configuration.
type Runner struct {
	base     *config.Config
	registry *experiment.Registry
	logger   *slog.Logger
	opts     []experiment.Option
}

func NewRunner(base *config.Config, registry *experiment.Registry, logger *slog.Logger, opts ...experiment.Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{base: base, registry: registry, logger: logger, opts: opts}
}

// resolve layers the run's preset and fields over a copy of the base.
func (r *Runner) resolve(run Run) (*config.Config, error) {
	cfg := *r.base
	if run.Preset != "" {
		if err := cfg.ApplyPreset(run.Preset); err != nil {
			return nil, err
		}
	}
	if run.Signature != (enumerate.Signature{}) {
		cfg.Signature = run.Signature
	}
	if run.Steps != nil {
		cfg.Steps = *run.Steps
	}
	if run.Policy != "" {
		cfg.Policy = run.Policy
	}
	return &cfg, nil
}

// RunScenario executes all runs in order and stops at the first failure.
// Runs with an Out path have their graph written in Format (text when empty).
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]Result, error) {
	results := make([]Result, 0, len(scenario.Runs))

	for i, run := range scenario.Runs {
		name := run.Name
		if name == "" {
			name = fmt.Sprintf("run %d", i+1)
		}
		r.logger.Info("scenario run", "scenario", scenario.Name, "run", name, "index", i+1, "of", len(scenario.Runs))

		cfg, err := r.resolve(run)
		if err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}
		ec, err := experiment.FromConfig(cfg)
		if err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}
		e := experiment.New(ec, append([]experiment.Option{experiment.WithLogger(r.logger)}, r.opts...)...)
		if err := e.Setup(); err != nil {
			return results, fmt.Errorf("%s setup: %w", name, err)
		}
		f, err := e.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("%s run: %w", name, err)
		}

		if run.Out != "" {
			format := run.Format
			if format == "" {
				format = "text"
			}
			fn, err := r.registry.GetFormat(format)
			if err != nil {
				return results, fmt.Errorf("%s: %w", name, err)
			}
			data, err := fn(f, cfg.Render)
			if err != nil {
				return results, fmt.Errorf("%s: %w", name, err)
			}
			if err := export.WriteFile(run.Out, data); err != nil {
				return results, fmt.Errorf("%s: %w", name, err)
			}
		}

		results = append(results, Result{Run: run, Frame: f})
	}

	return results, nil
}
