package sim

import "github.com/san-kum/rulial/internal/machine"

// Trace records a space-time history of a run: one tape row and head
// position per step, starting with the initial configuration.
type Trace struct {
	Tapes     [][]int
	Positions []int
	States    []int
}

// NewTrace seeds the trace with m's current configuration.
func NewTrace(m *machine.Machine) *Trace {
	t := &Trace{}
	t.record(m)
	return t
}

func (t *Trace) OnStep(step int, m *machine.Machine) { t.record(m) }

func (t *Trace) record(m *machine.Machine) {
	row := make([]int, len(m.Tape))
	copy(row, m.Tape)
	t.Tapes = append(t.Tapes, row)
	t.Positions = append(t.Positions, m.Position)
	t.States = append(t.States, m.State)
}

// Len is the number of recorded configurations.
func (t *Trace) Len() int { return len(t.Tapes) }
