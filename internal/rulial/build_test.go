package rulial_test

import (
	"context"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rulial/internal/enumerate"
	"github.com/san-kum/rulial/internal/machine"
	"github.com/san-kum/rulial/internal/rulial"
)

func mustMachines(sig enumerate.Signature, opts ...enumerate.Option) []*machine.Machine {
	ms, err := enumerate.Machines(sig, opts...)
	Expect(err).NotTo(HaveOccurred())
	return ms
}

var _ = Describe("Build", func() {
	var (
		ctx context.Context
		ms  []*machine.Machine
	)

	BeforeEach(func() {
		ctx = context.Background()
		ms = mustMachines(enumerate.Signature{States: 1, Symbols: 2})
	})

	It("keeps every machine as a node for any step limit", func() {
		for _, limit := range []int{0, 1, 2, 5, 20} {
			g, err := rulial.Build(ctx, ms, limit)
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Len()).To(Equal(16))
			for _, m := range ms {
				_, ok := g.Node(m.ID)
				Expect(ok).To(BeTrue())
			}
		}
	})

	It("gives every node a self loop", func() {
		for _, limit := range []int{0, 1, 3, 10} {
			g, err := rulial.Build(ctx, ms, limit)
			Expect(err).NotTo(HaveOccurred())
			for _, m := range ms {
				Expect(g.HasEdge(m.ID, m.ID)).To(BeTrue(), "tm#%d at limit %d", m.ID, limit)
			}
		}
	})

	It("adds edges in both directions", func() {
		for _, limit := range []int{1, 2, 4} {
			g, err := rulial.Build(ctx, ms, limit)
			Expect(err).NotTo(HaveOccurred())
			Expect(g.IsSymmetric()).To(BeTrue())
			for _, e := range g.Edges() {
				Expect(g.HasEdge(e.To, e.From)).To(BeTrue())
			}
		}
	})

	It("is a complete graph with self loops at step limit zero", func() {
		g, err := rulial.Build(ctx, ms, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(g.EdgeCount()).To(Equal(16 * 16))
		Expect(g.Classes()).To(HaveLen(1))
	})

	It("separates machines whose first write differs", func() {
		g, err := rulial.Build(ctx, ms, 1)
		Expect(err).NotTo(HaveOccurred())

		// tm#5 = {(0,0):(0,0,R), (0,1):(0,0,R)} leaves the tape blank.
		// tm#13 = {(0,0):(0,1,R), (0,1):(0,0,R)} writes a 1 first.
		blank, ok := g.Node(5)
		Expect(ok).To(BeTrue())
		t00, _ := blank.Rules.Lookup(machine.Key{State: 0, Symbol: 0})
		Expect(t00).To(Equal(machine.Transition{State: 0, Symbol: 0, Move: machine.Right}))

		writer, _ := g.Node(13)
		w00, _ := writer.Rules.Lookup(machine.Key{State: 0, Symbol: 0})
		Expect(w00.Symbol).To(Equal(1))

		Expect(g.HasEdge(5, 13)).To(BeFalse())
		Expect(g.HasEdge(13, 5)).To(BeFalse())
	})

	It("splits 1x2 machines by their first written symbol after one step", func() {
		g, err := rulial.Build(ctx, ms, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(g.Classes()).To(HaveLen(2))
		Expect(g.EdgeCount()).To(Equal(8*8 + 8*8))
	})

	It("never mutates the input machines", func() {
		before := make([]string, len(ms))
		for i, m := range ms {
			before[i] = m.Identity()
		}
		_, err := rulial.Build(ctx, ms, 7)
		Expect(err).NotTo(HaveOccurred())
		for i, m := range ms {
			Expect(m.Identity()).To(Equal(before[i]))
		}
	})

	It("compares halted clones where they stopped", func() {
		partial, err := machine.NewRuleTable(1, 2, map[machine.Key]machine.Transition{
			{State: 0, Symbol: 0}: {State: 0, Symbol: 1, Move: machine.Right},
		})
		Expect(err).NotTo(HaveOccurred())
		frozen, err := machine.NewRuleTable(1, 2, map[machine.Key]machine.Transition{
			{State: 0, Symbol: 1}: {State: 0, Symbol: 1, Move: machine.Right},
		})
		Expect(err).NotTo(HaveOccurred())

		a := machine.New(0, frozen, machine.PolicyHalt)
		b := machine.New(1, frozen, machine.PolicyHalt)
		c := machine.New(2, partial, machine.PolicyHalt)

		g, err := rulial.Build(ctx, []*machine.Machine{a, b, c}, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(g.HasEdge(0, 1)).To(BeTrue())
		Expect(g.HasEdge(0, 2)).To(BeFalse())
		Expect(g.HasEdge(2, 2)).To(BeTrue())
	})

	It("matches the serial result when run in parallel", func() {
		serial, err := rulial.Build(ctx, ms, 3)
		Expect(err).NotTo(HaveOccurred())

		var mu sync.Mutex
		var rows int
		parallel, err := rulial.Build(ctx, ms, 3, rulial.WithWorkers(4), rulial.WithProgress(func(int) {
			mu.Lock()
			rows++
			mu.Unlock()
		}))
		Expect(err).NotTo(HaveOccurred())
		Expect(parallel.Edges()).To(Equal(serial.Edges()))
		Expect(rows).To(Equal(len(ms)))
	})

	It("rejects a negative step limit", func() {
		_, err := rulial.Build(ctx, ms, -1)
		Expect(err).To(MatchError(rulial.ErrNegativeStepLimit))
	})

	It("rejects duplicate machine ids", func() {
		_, err := rulial.Build(ctx, []*machine.Machine{ms[0], ms[0]}, 1)
		Expect(err).To(MatchError(rulial.ErrDuplicateID))
	})

	It("stops on a cancelled context", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := rulial.Build(cctx, ms, 1)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("handles an empty machine list", func() {
		g, err := rulial.Build(ctx, nil, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(g.Len()).To(BeZero())
		Expect(g.EdgeCount()).To(BeZero())
	})
})

var _ = Describe("Limits", func() {
	It("counts frames from zero", func() {
		Expect(rulial.Limits(4)).To(Equal([]int{0, 1, 2, 3}))
	})

	It("returns no limits for a non-positive frame count", func() {
		Expect(rulial.Limits(0)).To(BeEmpty())
		Expect(rulial.Limits(-2)).To(BeEmpty())
	})
})
