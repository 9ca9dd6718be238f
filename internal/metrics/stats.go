package metrics

import (
	"github.com/emirpasic/gods/maps/treemap"

	"github.com/san-kum/rulial/internal/rulial"
	"github.com/san-kum/rulial/internal/sim"
)

// DegreeBucket counts nodes with a given out-degree.
type DegreeBucket struct {
	Degree int `json:"degree"`
	Nodes  int `json:"nodes"`
}

// Stats summarizes one rulial graph.
type Stats struct {
	StepLimit    int            `json:"step_limit"`
	Nodes        int            `json:"nodes"`
	Edges        int            `json:"edges"`
	SelfLoops    int            `json:"self_loops"`
	Classes      int            `json:"classes"`
	LargestClass int            `json:"largest_class"`
	Halted       int            `json:"halted"`
	Density      float64        `json:"density"`
	Degrees      []DegreeBucket `json:"degrees"`
}

// Summarize computes Stats for g. Halted counts the nodes whose run stops
// before stepLimit; it re-runs a clone of each node.
func Summarize(g *rulial.Graph, stepLimit int) Stats {
	s := Stats{
		StepLimit: stepLimit,
		Nodes:     g.Len(),
		Edges:     g.EdgeCount(),
	}

	hist := treemap.NewWithIntComparator()
	for _, m := range g.Nodes() {
		out := g.Out(m.ID)
		if g.HasEdge(m.ID, m.ID) {
			s.SelfLoops++
		}
		n := 0
		if v, ok := hist.Get(len(out)); ok {
			n = v.(int)
		}
		hist.Put(len(out), n+1)

		if res := sim.Run(m.Clone(), stepLimit); res.Halted {
			s.Halted++
		}
	}

	it := hist.Iterator()
	for it.Next() {
		s.Degrees = append(s.Degrees, DegreeBucket{Degree: it.Key().(int), Nodes: it.Value().(int)})
	}

	classes := g.Classes()
	s.Classes = len(classes)
	for _, c := range classes {
		if len(c) > s.LargestClass {
			s.LargestClass = len(c)
		}
	}

	if s.Nodes > 0 {
		s.Density = float64(s.Edges) / float64(s.Nodes*s.Nodes)
	}
	return s
}
