package metrics

import (
	"fmt"
	"io"
)

// Fprint writes a short human readable summary.
func Fprint(w io.Writer, s Stats) error {
	_, err := fmt.Fprintf(w,
		"step limit: %d\nmachines:   %d\nedges:      %d (self loops %d)\nclasses:    %d (largest %d)\nhalted:     %d\ndensity:    %.4f\n",
		s.StepLimit, s.Nodes, s.Edges, s.SelfLoops, s.Classes, s.LargestClass, s.Halted, s.Density)
	return err
}
