package sim

import (
	"github.com/san-kum/rulial/internal/machine"
)

// Runner advances machines a bounded number of steps.
type Runner struct {
	observers []Observer
}

func New() *Runner {
	return &Runner{observers: make([]Observer, 0)}
}

func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run steps m up to limit times and stops early at the first failing step.
// The failure is reported in the Result, never returned; m is left in the
// last configuration it reached.
func (r *Runner) Run(m *machine.Machine, limit int) Result {
	var res Result
	for i := 0; i < limit; i++ {
		if err := m.Step(); err != nil {
			res.Halted = true
			res.Reason = err
			return res
		}
		res.Steps++
		for _, obs := range r.observers {
			obs.OnStep(res.Steps, m)
		}
	}
	return res
}

// Run is the observer-free form of Runner.Run.
func Run(m *machine.Machine, limit int) Result {
	var res Result
	for i := 0; i < limit; i++ {
		if err := m.Step(); err != nil {
			res.Halted = true
			res.Reason = err
			return res
		}
		res.Steps++
	}
	return res
}
