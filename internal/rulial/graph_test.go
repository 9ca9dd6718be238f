package rulial_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rulial/internal/machine"
	"github.com/san-kum/rulial/internal/rulial"
)

var _ = Describe("Graph", func() {
	var g *rulial.Graph

	BeforeEach(func() {
		g = rulial.NewGraph([]*machine.Machine{
			machine.New(10, nil, machine.PolicyHalt),
			machine.New(20, nil, machine.PolicyHalt),
			machine.New(30, nil, machine.PolicyHalt),
		})
	})

	It("starts with nodes and no edges", func() {
		Expect(g.Len()).To(Equal(3))
		Expect(g.EdgeCount()).To(BeZero())
		Expect(g.Classes()).To(Equal([][]int{{10}, {20}, {30}}))
	})

	It("adds edges idempotently and keeps rows sorted", func() {
		Expect(g.AddEdge(10, 30)).To(BeTrue())
		Expect(g.AddEdge(10, 20)).To(BeTrue())
		Expect(g.AddEdge(10, 30)).To(BeFalse())
		Expect(g.Out(10)).To(Equal([]int{20, 30}))
		Expect(g.EdgeCount()).To(Equal(2))
	})

	It("ignores edges to unknown nodes", func() {
		Expect(g.AddEdge(10, 99)).To(BeFalse())
		Expect(g.AddEdge(99, 10)).To(BeFalse())
		Expect(g.Out(99)).To(BeNil())
	})

	It("detects asymmetric edges", func() {
		g.AddEdge(10, 20)
		Expect(g.IsSymmetric()).To(BeFalse())
		g.AddEdge(20, 10)
		Expect(g.IsSymmetric()).To(BeTrue())
	})

	It("groups connected nodes into classes", func() {
		g.AddEdge(30, 10)
		Expect(g.Classes()).To(Equal([][]int{{10, 30}, {20}}))
	})

	It("lists edges in node order", func() {
		g.AddEdge(20, 10)
		g.AddEdge(10, 30)
		Expect(g.Edges()).To(Equal([]rulial.Edge{{From: 10, To: 30}, {From: 20, To: 10}}))
	})

	It("lists undirected pairs once without self loops", func() {
		g.AddEdge(10, 10)
		g.AddEdge(10, 20)
		g.AddEdge(20, 10)
		g.AddEdge(30, 20)
		Expect(g.Pairs()).To(Equal([]rulial.Edge{{From: 10, To: 20}, {From: 30, To: 20}}))
	})
})
