package experiment

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/san-kum/rulial/internal/config"
	"github.com/san-kum/rulial/internal/export"
	"github.com/san-kum/rulial/internal/layout"
	"github.com/san-kum/rulial/internal/metrics"
	"github.com/san-kum/rulial/internal/rulial"
)

// Formatter renders a frame into bytes.
type Formatter func(f *Frame, render config.RenderConfig) ([]byte, error)

type Registry struct {
	layouts map[string]func(layout.Options) func(*rulial.Graph) []layout.Point
	formats map[string]Formatter
}

func NewRegistry() *Registry {
	r := &Registry{
		layouts: make(map[string]func(layout.Options) func(*rulial.Graph) []layout.Point),
		formats: make(map[string]Formatter),
	}

	r.layouts["circle"] = func(layout.Options) func(*rulial.Graph) []layout.Point {
		return func(g *rulial.Graph) []layout.Point { return layout.Circle(g.Len()) }
	}
	r.layouts["spring"] = func(opts layout.Options) func(*rulial.Graph) []layout.Point {
		return func(g *rulial.Graph) []layout.Point { return layout.Spring(g, opts) }
	}

	r.formats["text"] = func(f *Frame, _ config.RenderConfig) ([]byte, error) {
		var buf bytes.Buffer
		err := metrics.Fprint(&buf, f.Stats)
		return buf.Bytes(), err
	}
	r.formats["dot"] = func(f *Frame, _ config.RenderConfig) ([]byte, error) {
		return []byte(export.DOT(f.Graph)), nil
	}
	r.formats["mermaid"] = func(f *Frame, _ config.RenderConfig) ([]byte, error) {
		return []byte(export.Mermaid(f.Graph)), nil
	}
	r.formats["json"] = func(f *Frame, _ config.RenderConfig) ([]byte, error) {
		var buf bytes.Buffer
		err := export.JSON(&buf, f.Graph)
		return buf.Bytes(), err
	}
	r.formats["svg"] = func(f *Frame, rc config.RenderConfig) ([]byte, error) {
		place, err := r.GetLayout(rc.Layout, layout.Options{Iterations: rc.Iterations, Seed: rc.Seed})
		if err != nil {
			return nil, err
		}
		out, err := export.SVG(f.Graph, place(f.Graph), export.DefaultStyle())
		return []byte(out), err
	}

	return r
}

func (r *Registry) GetLayout(name string, opts layout.Options) (func(*rulial.Graph) []layout.Point, error) {
	fn, ok := r.layouts[name]
	if !ok {
		return nil, fmt.Errorf("unknown layout: %s", name)
	}
	return fn(opts), nil
}

func (r *Registry) GetFormat(name string) (Formatter, error) {
	fn, ok := r.formats[name]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s", name)
	}
	return fn, nil
}

func (r *Registry) ListLayouts() []string { return sortedKeys(r.layouts) }

func (r *Registry) ListFormats() []string { return sortedKeys(r.formats) }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
