package rulial

import (
	"sort"
	"sync"

	"github.com/san-kum/rulial/internal/machine"
)

// Edge is a directed edge between node IDs.
type Edge struct {
	From, To int
}

// Graph is the rulial space: one node per enumerated machine, keyed by the
// machine's enumeration index, and a directed edge A->B whenever A and B
// reached the same (state, tape) configuration.
//
// Nodes are never removed and edges are never deleted once added.
type Graph struct {
	mu    sync.Mutex
	nodes []*machine.Machine
	index map[int]int
	out   [][]int
	edges int
}

// NewGraph returns a graph holding every machine as a node and no edges.
func NewGraph(machines []*machine.Machine) *Graph {
	g := &Graph{
		nodes: make([]*machine.Machine, len(machines)),
		index: make(map[int]int, len(machines)),
		out:   make([][]int, len(machines)),
	}
	copy(g.nodes, machines)
	for i, m := range machines {
		g.index[m.ID] = i
	}
	return g
}

// Len is the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns the machines in insertion order. The slice must not be modified.
func (g *Graph) Nodes() []*machine.Machine { return g.nodes }

// Node looks a machine up by ID.
func (g *Graph) Node(id int) (*machine.Machine, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// AddEdge inserts from->to if both IDs are nodes. It is safe for concurrent use
// and idempotent.
func (g *Graph) AddEdge(from, to int) bool {
	fi, ok := g.index[from]
	if !ok {
		return false
	}
	if _, ok := g.index[to]; !ok {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.insert(fi, to)
}

func (g *Graph) insert(fi, to int) bool {
	row := g.out[fi]
	pos := sort.SearchInts(row, to)
	if pos < len(row) && row[pos] == to {
		return false
	}
	row = append(row, 0)
	copy(row[pos+1:], row[pos:])
	row[pos] = to
	g.out[fi] = row
	g.edges++
	return true
}

// setRow replaces the adjacency row of node slot fi. targets must be sorted
// and unique. Callers own the row exclusively.
func (g *Graph) setRow(fi int, targets []int) {
	g.mu.Lock()
	g.edges += len(targets) - len(g.out[fi])
	g.mu.Unlock()
	g.out[fi] = targets
}

// HasEdge reports whether from->to exists.
func (g *Graph) HasEdge(from, to int) bool {
	fi, ok := g.index[from]
	if !ok {
		return false
	}
	row := g.out[fi]
	pos := sort.SearchInts(row, to)
	return pos < len(row) && row[pos] == to
}

// Out returns the sorted successors of id.
func (g *Graph) Out(id int) []int {
	fi, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.out[fi]
}

// EdgeCount is the number of directed edges, self loops included.
func (g *Graph) EdgeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.edges
}

// Edges lists every edge ordered by node insertion order, then target ID.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.EdgeCount())
	for i, m := range g.nodes {
		for _, to := range g.out[i] {
			out = append(out, Edge{From: m.ID, To: to})
		}
	}
	return out
}

// Pairs lists each undirected edge once, skipping self loops. A pair whose
// reverse is missing is still listed, in its stored direction.
func (g *Graph) Pairs() []Edge {
	var out []Edge
	for _, e := range g.Edges() {
		if e.From == e.To {
			continue
		}
		if e.From > e.To && g.HasEdge(e.To, e.From) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// IsSymmetric reports whether every edge has its reverse.
func (g *Graph) IsSymmetric() bool {
	for i, m := range g.nodes {
		for _, to := range g.out[i] {
			if !g.HasEdge(to, m.ID) {
				return false
			}
		}
	}
	return true
}

// Classes groups node IDs into weakly connected components, each sorted by
// ID, ordered by their smallest member. Since agreement is an equivalence
// relation these are exactly the equivalence classes.
func (g *Graph) Classes() [][]int {
	n := len(g.nodes)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for i := range g.nodes {
		for _, to := range g.out[i] {
			a, b := find(i), find(g.index[to])
			if a != b {
				parent[a] = b
			}
		}
	}

	groups := make(map[int][]int)
	for i, m := range g.nodes {
		r := find(i)
		groups[r] = append(groups[r], m.ID)
	}
	classes := make([][]int, 0, len(groups))
	for _, ids := range groups {
		sort.Ints(ids)
		classes = append(classes, ids)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i][0] < classes[j][0] })
	return classes
}
