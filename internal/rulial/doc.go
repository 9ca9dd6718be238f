// Package rulial builds the rulial space graph of a machine family.
//
// Every machine is a node. For every ordered pair the grapher runs private
// clones of both machines for a bounded number of steps and links them when
// they end in the same (state, tape) configuration:
//
//	ms, _ := enumerate.Machines(enumerate.Signature{States: 1, Symbols: 2})
//	g, err := rulial.Build(ctx, ms, 3, rulial.WithWorkers(4))
//
// Agreement is reflexive and symmetric, so every node has a self loop and
// edges come in pairs. [Graph.Classes] recovers the equivalence classes.
//
// Build cost is O(n² · stepLimit) machine steps for n machines.
package rulial
