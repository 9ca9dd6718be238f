package sim

import "github.com/san-kum/rulial/internal/machine"

// Observer is notified after every successful step.
type Observer interface {
	OnStep(step int, m *machine.Machine)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(step int, m *machine.Machine)

func (f ObserverFunc) OnStep(step int, m *machine.Machine) { f(step, m) }

// Result describes where a run stopped.
type Result struct {
	// Steps is the number of successful transitions.
	Steps int
	// Halted is true when a step failed before the limit was reached.
	Halted bool
	// Reason is the step failure that halted the run, nil otherwise.
	Reason error
}
