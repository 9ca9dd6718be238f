// Package machine models a single deterministic Turing machine.
//
// A [Machine] owns its state, head position and a fixed-length tape, and
// shares an immutable [RuleTable] with any clones:
//
//	rt := machine.Complete(1, 2, []machine.Transition{
//	    {State: 0, Symbol: 1, Move: machine.Right},
//	    {State: 0, Symbol: 0, Move: machine.Left},
//	})
//	m := machine.New(0, rt, machine.PolicyHalt)
//	err := m.Step()
//
// Step failures are typed: [UndefinedTransitionError] when the table has no
// entry and [OutOfBoundsError] when the head has left the tape under
// [PolicyHalt]. Neither mutates the machine.
package machine
