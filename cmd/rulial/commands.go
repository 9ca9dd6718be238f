package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/san-kum/rulial/internal/automation"
	"github.com/san-kum/rulial/internal/config"
	"github.com/san-kum/rulial/internal/enumerate"
	"github.com/san-kum/rulial/internal/experiment"
	"github.com/san-kum/rulial/internal/export"
	"github.com/san-kum/rulial/internal/layout"
	"github.com/san-kum/rulial/internal/machine"
	"github.com/san-kum/rulial/internal/sim"
	"github.com/san-kum/rulial/internal/viz"
)

func (a *app) newRunCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "build the rulial graph once",
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, err := a.registry.GetFormat(format)
			if err != nil {
				return fmt.Errorf("%w (available: %v)", err, a.registry.ListFormats())
			}
			e, err := a.newExperiment()
			if err != nil {
				return err
			}
			f, err := e.Run(cmd.Context())
			if err != nil {
				return err
			}
			data, err := fn(f, a.cfg.Render)
			if err != nil {
				return err
			}
			a.logger.Info("graph built",
				"step_limit", f.StepLimit,
				"edges", f.Stats.Edges,
				"classes", f.Stats.Classes,
				"elapsed", f.Elapsed,
			)
			return export.WriteFile(out, data)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format (dot|mermaid|svg|json|text)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func (a *app) newAnimateCmd() *cobra.Command {
	var gifPath, recordPath string
	var gifSize int
	cmd := &cobra.Command{
		Use:   "animate",
		Short: "animate the graph over step limits 0..steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.newExperiment()
			if err != nil {
				return err
			}
			rc := a.cfg.Render
			place, err := a.registry.GetLayout(rc.Layout, layout.Options{Iterations: rc.Iterations, Seed: rc.Seed})
			if err != nil {
				return err
			}
			frames := a.cfg.Steps + 1

			if gifPath != "" {
				rec := viz.NewRecorder(rc.FPS)
				err := e.Sweep(cmd.Context(), frames, func(f *experiment.Frame) error {
					rec.Add(viz.RenderImage(f.Graph, place(f.Graph), gifSize))
					return nil
				})
				if err != nil {
					return err
				}
				if err := rec.Save(gifPath); err != nil {
					return err
				}
				a.logger.Info("gif written", "path", gifPath, "frames", rec.Len())
				return nil
			}

			if termenv.EnvColorProfile() == termenv.Ascii {
				a.logger.Warn("terminal reports no color support, themes will render plain")
			}
			m := viz.NewSweepModel(cmd.Context(), e.Build, place, sweepOptions(rc, frames, gifSize, recordPath))
			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if sm, ok := final.(viz.SweepModel); ok && sm.Err() != nil {
				return sm.Err()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&gifPath, "gif", "", "render every frame into this GIF instead of opening the viewer")
	cmd.Flags().IntVar(&gifSize, "gif-size", 480, "GIF width and height in pixels")
	cmd.Flags().StringVar(&recordPath, "record", "rulial.gif", "file the viewer writes when recording is toggled with g")
	return cmd
}

func sweepOptions(rc config.RenderConfig, frames, gifSize int, recordPath string) viz.SweepOptions {
	return viz.SweepOptions{
		Frames:  frames,
		FPS:     rc.FPS,
		Width:   rc.Width,
		Height:  rc.Height,
		Theme:   rc.Theme,
		GIFPath: recordPath,
		GIFSize: gifSize,
	}
}

func (a *app) newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "plot edge and class counts for step limits 0..steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.newExperiment()
			if err != nil {
				return err
			}
			var edges, classes []float64
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "LIMIT\tEDGES\tCLASSES\tLARGEST\tHALTED\tTIME")
			err = e.Sweep(cmd.Context(), a.cfg.Steps+1, func(f *experiment.Frame) error {
				s := f.Stats
				edges = append(edges, float64(s.Edges))
				classes = append(classes, float64(s.Classes))
				_, err := fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%v\n",
					s.StepLimit, s.Edges, s.Classes, s.LargestClass, s.Halted, f.Elapsed)
				return err
			})
			if err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprintln(out, asciigraph.Plot(edges, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("edges by step limit")))
			fmt.Fprintln(out)
			fmt.Fprintln(out, asciigraph.Plot(classes, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("classes by step limit")))
			return nil
		},
	}
}

func (a *app) newEnumerateCmd() *cobra.Command {
	var limit uint64
	cmd := &cobra.Command{
		Use:   "enumerate",
		Short: "list the machines of the signature",
		RunE: func(cmd *cobra.Command, args []string) error {
			sig := a.cfg.Signature
			total, err := enumerate.Count(sig)
			if err != nil {
				return err
			}
			policy, err := a.cfg.TapePolicy()
			if err != nil {
				return err
			}
			if limit == 0 {
				limit = a.cfg.MaxMachines
			}

			var ms []*machine.Machine
			err = enumerate.Each(sig, func(i int, rt *machine.RuleTable) bool {
				if uint64(i) >= limit {
					return false
				}
				ms = append(ms, machine.New(i, rt, policy))
				return true
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "signature %s: %d machines\n\n", sig, total)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tRULES")
			for _, m := range ms {
				fmt.Fprintf(w, "%d\t%s\n", m.ID, m.Rules)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if uint64(len(ms)) < total {
				fmt.Fprintf(out, "... %d more\n", total-uint64(len(ms)))
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&limit, "limit", 0, "list at most this many machines (default --max-machines)")
	return cmd
}

func (a *app) newTraceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trace [index]",
		Short: "space-time diagram of one machine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid machine index %q: %w", args[0], err)
			}
			total, err := enumerate.Count(a.cfg.Signature)
			if err != nil {
				return err
			}
			if idx >= total {
				return fmt.Errorf("machine index %d out of range [0, %d)", idx, total)
			}
			policy, err := a.cfg.TapePolicy()
			if err != nil {
				return err
			}
			var m *machine.Machine
			err = enumerate.Each(a.cfg.Signature, func(i int, rt *machine.RuleTable) bool {
				if uint64(i) == idx {
					m = machine.New(i, rt, policy)
					return false
				}
				return true
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "machine %d  %s\n\n", m.ID, m.Rules)
			fmt.Fprint(out, traceMachine(m, a.cfg.Steps))
			return nil
		},
	}
}

// traceMachine runs m for steps and renders the diagram and the outcome.
func traceMachine(m *machine.Machine, steps int) string {
	tr := sim.NewTrace(m)
	r := sim.New()
	r.AddObserver(tr)
	res := r.Run(m, steps)

	s := viz.SpaceTime(tr)
	if res.Halted {
		s += fmt.Sprintf("\nhalted after %d steps: %v\n", res.Steps, res.Reason)
	} else {
		s += fmt.Sprintf("\nran %d steps\n", res.Steps)
	}
	return s
}

func (a *app) newScenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every build listed in a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}
			var opts []experiment.Option
			if a.recorder != nil {
				opts = append(opts, experiment.WithRecorder(a.recorder))
			}
			r := automation.NewRunner(a.cfg, a.registry, a.logger, opts...)
			results, err := r.RunScenario(cmd.Context(), sc)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tLIMIT\tMACHINES\tEDGES\tCLASSES\tOUT")
			for i, res := range results {
				name := res.Run.Name
				if name == "" {
					name = strconv.Itoa(i + 1)
				}
				s := res.Frame.Stats
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\n", name, s.StepLimit, s.Nodes, s.Edges, s.Classes, res.Run.Out)
			}
			return w.Flush()
		},
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIGNATURE\tSTEPS\tPOLICY\tMACHINES")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				n, err := enumerate.Count(p.Signature)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\n", name, p.Signature, p.Steps, p.Policy, n)
			}
			return w.Flush()
		},
	}
}

