package rulial

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/rulial/internal/machine"
	"github.com/san-kum/rulial/internal/sim"
)

var (
	// ErrNegativeStepLimit indicates a step limit below zero.
	ErrNegativeStepLimit = errors.New("rulial: step limit must be non-negative")

	// ErrDuplicateID indicates two input machines share an ID.
	ErrDuplicateID = errors.New("rulial: duplicate machine id")
)

type options struct {
	workers  int
	progress func(id int)
}

// Option configures Build.
type Option func(*options)

// WithWorkers compares rows on n goroutines. Each row (all pairs with the
// same first machine) belongs to one worker.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithProgress calls fn with a machine ID once its row is complete. With
// more than one worker fn is called concurrently.
func WithProgress(fn func(id int)) Option {
	return func(o *options) { o.progress = fn }
}

// Build compares every ordered pair (tm1, tm2), tm1 == tm2 included. Each
// side of a pair is a private clone run for up to stepLimit steps; a clone
// that halts early is compared where it stopped. The edge tm1->tm2 is added
// when both clones hold an equal state and tape.
//
// The input machines are never mutated. The only errors are invalid input
// and ctx cancellation, checked between rows.
func Build(ctx context.Context, machines []*machine.Machine, stepLimit int, opts ...Option) (*Graph, error) {
	if stepLimit < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeStepLimit, stepLimit)
	}
	seen := make(map[int]struct{}, len(machines))
	for _, m := range machines {
		if _, dup := seen[m.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, m.ID)
		}
		seen[m.ID] = struct{}{}
	}

	o := options{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}

	g := NewGraph(machines)
	pool := sim.NewMachinePool(machine.TapeLength)

	err := sim.ParallelFor(ctx, len(machines), o.workers, func(ctx context.Context, start, end int) error {
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			tm1 := machines[i]
			var row []int
			for _, tm2 := range machines {
				if agree(pool, tm1, tm2, stepLimit) {
					row = append(row, tm2.ID)
				}
			}
			sort.Ints(row)
			g.setRow(i, row)
			if o.progress != nil {
				o.progress(tm1.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

func agree(pool *sim.MachinePool, tm1, tm2 *machine.Machine, stepLimit int) bool {
	a := pool.GetClone(tm1)
	b := pool.GetClone(tm2)
	defer pool.Put(a)
	defer pool.Put(b)

	sim.Run(a, stepLimit)
	sim.Run(b, stepLimit)
	return a.SameConfig(b)
}

// Limits returns 0, 1, ..., n-1, the step limits of an n-frame animation.
func Limits(n int) []int {
	if n < 0 {
		n = 0
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
