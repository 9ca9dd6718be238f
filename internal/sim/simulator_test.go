package sim

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/san-kum/rulial/internal/machine"
)

func table(t *testing.T, rules map[machine.Key]machine.Transition) *machine.RuleTable {
	t.Helper()
	rt, err := machine.NewRuleTable(2, 2, rules)
	if err != nil {
		t.Fatalf("rule table: %v", err)
	}
	return rt
}

func TestRunExhaustsLimit(t *testing.T) {
	rt := table(t, map[machine.Key]machine.Transition{
		{State: 0, Symbol: 0}: {State: 0, Symbol: 1, Move: machine.Right},
	})
	m := machine.New(0, rt, machine.PolicyHalt)

	res := Run(m, 10)
	if res.Halted {
		t.Fatalf("unexpected halt: %v", res.Reason)
	}
	if res.Steps != 10 {
		t.Errorf("expected 10 steps, got %d", res.Steps)
	}
	if m.Position != 10 {
		t.Errorf("expected position 10, got %d", m.Position)
	}
	for i := 0; i < 10; i++ {
		if m.Tape[i] != 1 {
			t.Errorf("expected tape[%d]=1", i)
		}
	}
}

func TestRunStopsAtUndefinedTransition(t *testing.T) {
	rt := table(t, map[machine.Key]machine.Transition{
		{State: 0, Symbol: 0}: {State: 1, Symbol: 1, Move: machine.Right},
		{State: 1, Symbol: 0}: {State: 0, Symbol: 1, Move: machine.Left},
	})
	m := machine.New(0, rt, machine.PolicyHalt)

	res := Run(m, 50)
	if !res.Halted {
		t.Fatal("expected halt")
	}
	if !errors.Is(res.Reason, machine.ErrUndefinedTransition) {
		t.Errorf("expected undefined transition, got %v", res.Reason)
	}
	if res.Steps != 2 {
		t.Errorf("expected 2 steps before halting, got %d", res.Steps)
	}
	if m.State != 0 || m.Tape[0] != 1 || m.Tape[1] != 1 {
		t.Errorf("machine did not keep its last configuration: state=%d tape=%v", m.State, m.Tape[:2])
	}
}

func TestRunStopsAtTapeEdge(t *testing.T) {
	rt := table(t, map[machine.Key]machine.Transition{
		{State: 0, Symbol: 0}: {State: 0, Symbol: 0, Move: machine.Left},
	})
	m := machine.New(0, rt, machine.PolicyHalt)

	res := Run(m, 5)
	if !res.Halted || !errors.Is(res.Reason, machine.ErrOutOfBounds) {
		t.Fatalf("expected out of bounds halt, got %+v", res)
	}
	if res.Steps != 1 {
		t.Errorf("expected 1 step, got %d", res.Steps)
	}
}

func TestRunPositionIsSumOfMoves(t *testing.T) {
	// alternate right/right/left via two states on a blank tape
	rt := table(t, map[machine.Key]machine.Transition{
		{State: 0, Symbol: 0}: {State: 1, Symbol: 0, Move: machine.Right},
		{State: 1, Symbol: 0}: {State: 0, Symbol: 1, Move: machine.Right},
		{State: 0, Symbol: 1}: {State: 0, Symbol: 1, Move: machine.Left},
		{State: 1, Symbol: 1}: {State: 0, Symbol: 1, Move: machine.Right},
	})

	for _, policy := range []machine.TapePolicy{machine.PolicyHalt, machine.PolicyWrap} {
		m := machine.New(0, rt, policy)
		moves := 0
		r := New()
		r.AddObserver(ObserverFunc(func(step int, _ *machine.Machine) {}))
		res := r.Run(m, 30)
		if res.Halted {
			t.Fatalf("%s: unexpected halt: %v", policy, res.Reason)
		}

		// replay and sum moves independently
		replay := machine.New(0, rt, policy)
		for i := 0; i < 30; i++ {
			tr, _ := rt.Lookup(machine.Key{State: replay.State, Symbol: replay.Tape[replay.Position]})
			moves += int(tr.Move)
			if err := replay.Step(); err != nil {
				t.Fatal(err)
			}
		}
		want := moves
		if policy == machine.PolicyWrap {
			want = ((moves % machine.TapeLength) + machine.TapeLength) % machine.TapeLength
		}
		if m.Position != want {
			t.Errorf("%s: expected position %d, got %d", policy, want, m.Position)
		}
	}
}

func TestRunnerNotifiesObservers(t *testing.T) {
	rt := table(t, map[machine.Key]machine.Transition{
		{State: 0, Symbol: 0}: {State: 0, Symbol: 1, Move: machine.Right},
	})
	m := machine.New(0, rt, machine.PolicyHalt)

	var calls []int
	r := New()
	r.AddObserver(ObserverFunc(func(step int, _ *machine.Machine) { calls = append(calls, step) }))
	r.Run(m, 3)

	if len(calls) != 3 || calls[0] != 1 || calls[2] != 3 {
		t.Errorf("unexpected observer calls: %v", calls)
	}
}

func TestRunNonPositiveLimit(t *testing.T) {
	m := machine.New(0, nil, machine.PolicyHalt)
	for _, limit := range []int{0, -3} {
		res := Run(m, limit)
		if res.Steps != 0 || res.Halted {
			t.Errorf("limit %d: expected an empty run, got %+v", limit, res)
		}
	}
}

func TestTrace(t *testing.T) {
	rt := table(t, map[machine.Key]machine.Transition{
		{State: 0, Symbol: 0}: {State: 0, Symbol: 1, Move: machine.Right},
	})
	m := machine.New(0, rt, machine.PolicyHalt)
	tr := NewTrace(m)

	r := New()
	r.AddObserver(tr)
	r.Run(m, 4)

	if tr.Len() != 5 {
		t.Fatalf("expected 5 rows, got %d", tr.Len())
	}
	if tr.Positions[0] != 0 || tr.Positions[4] != 4 {
		t.Errorf("unexpected positions %v", tr.Positions)
	}
	if tr.Tapes[0][0] != 0 || tr.Tapes[1][0] != 1 {
		t.Error("rows should be independent snapshots")
	}
}

func TestMachinePool(t *testing.T) {
	pool := NewMachinePool(machine.TapeLength)
	src := machine.New(4, nil, machine.PolicyWrap)
	src.Tape[3] = 2
	src.State = 1

	c := pool.GetClone(src)
	if c.ID != 4 || c.State != 1 || c.Tape[3] != 2 || c.Policy != machine.PolicyWrap {
		t.Errorf("GetClone did not copy the configuration: %+v", c)
	}
	c.Tape[3] = 9
	if src.Tape[3] != 2 {
		t.Error("GetClone did not create an independent tape")
	}

	pool.Put(c)
	again := pool.Get()
	if again.State != 0 || again.Tape[3] != 0 || again.Rules != nil {
		t.Error("pool did not reset machine")
	}
}

func TestParallelFor(t *testing.T) {
	for _, workers := range []int{1, 3, 8, 100} {
		var sum atomic.Int64
		seen := make([]int32, 50)
		err := ParallelFor(context.Background(), 50, workers, func(_ context.Context, start, end int) error {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
				sum.Add(int64(i))
			}
			return nil
		})
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if sum.Load() != 49*50/2 {
			t.Errorf("workers=%d: sum %d", workers, sum.Load())
		}
		for i, v := range seen {
			if v != 1 {
				t.Errorf("workers=%d: index %d visited %d times", workers, i, v)
			}
		}
	}
}

func TestParallelForPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	err := ParallelFor(context.Background(), 10, 4, func(_ context.Context, start, end int) error {
		if start == 0 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}
