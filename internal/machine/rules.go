package machine

import (
	"fmt"
	"strings"
)

// Move is a head displacement, always one cell.
type Move int

const (
	Left  Move = -1
	Right Move = 1
)

func (mv Move) String() string {
	if mv == Left {
		return "L"
	}
	return "R"
}

// Key is the domain of a rule table: the machine's state and the symbol under the head.
type Key struct {
	State  int
	Symbol int
}

// Transition is what a machine does for a Key.
type Transition struct {
	State  int
	Symbol int
	Move   Move
}

func (t Transition) String() string {
	return fmt.Sprintf("%d,%d,%s", t.State, t.Symbol, t.Move)
}

// RuleTable maps (state, symbol) to a Transition. It is immutable once
// built and is shared between clones of a machine.
//
// Entries are stored densely in state-major, symbol-minor order. A table may
// be partial; missing entries report false from Lookup.
type RuleTable struct {
	states  int
	symbols int
	rules   []Transition
	defined []bool
	size    int
}

// NewRuleTable builds a possibly partial table for the given signature.
// Keys outside [0, states) x [0, symbols) are rejected.
func NewRuleTable(states, symbols int, rules map[Key]Transition) (*RuleTable, error) {
	if states <= 0 || symbols <= 0 {
		return nil, fmt.Errorf("rule table needs a positive signature, got %dx%d", states, symbols)
	}
	rt := &RuleTable{
		states:  states,
		symbols: symbols,
		rules:   make([]Transition, states*symbols),
		defined: make([]bool, states*symbols),
	}
	for k, t := range rules {
		idx, ok := rt.index(k)
		if !ok {
			return nil, fmt.Errorf("key (%d,%d) outside %dx%d signature", k.State, k.Symbol, states, symbols)
		}
		rt.rules[idx] = t
		rt.defined[idx] = true
		rt.size++
	}
	return rt, nil
}

// Complete builds a total table from transitions listed in canonical key
// order. It panics if len(rules) != states*symbols.
func Complete(states, symbols int, rules []Transition) *RuleTable {
	if len(rules) != states*symbols {
		panic(fmt.Sprintf("machine: complete table needs %d rules, got %d", states*symbols, len(rules)))
	}
	defined := make([]bool, len(rules))
	for i := range defined {
		defined[i] = true
	}
	return &RuleTable{
		states:  states,
		symbols: symbols,
		rules:   rules,
		defined: defined,
		size:    len(rules),
	}
}

func (rt *RuleTable) index(k Key) (int, bool) {
	if k.State < 0 || k.State >= rt.states || k.Symbol < 0 || k.Symbol >= rt.symbols {
		return 0, false
	}
	return k.State*rt.symbols + k.Symbol, true
}

// Lookup returns the transition for k.
func (rt *RuleTable) Lookup(k Key) (Transition, bool) {
	if rt == nil {
		return Transition{}, false
	}
	idx, ok := rt.index(k)
	if !ok || !rt.defined[idx] {
		return Transition{}, false
	}
	return rt.rules[idx], true
}

// Len is the number of defined entries.
func (rt *RuleTable) Len() int { return rt.size }

// Signature returns the (states, symbols) the table was built for.
func (rt *RuleTable) Signature() (states, symbols int) { return rt.states, rt.symbols }

// Keys lists the defined keys in canonical order.
func (rt *RuleTable) Keys() []Key {
	keys := make([]Key, 0, rt.size)
	for i, ok := range rt.defined {
		if ok {
			keys = append(keys, Key{State: i / rt.symbols, Symbol: i % rt.symbols})
		}
	}
	return keys
}

// Equal reports structural equality.
func (rt *RuleTable) Equal(other *RuleTable) bool {
	if rt == other {
		return true
	}
	if rt == nil || other == nil {
		return false
	}
	if rt.states != other.states || rt.symbols != other.symbols || rt.size != other.size {
		return false
	}
	for i := range rt.rules {
		if rt.defined[i] != other.defined[i] {
			return false
		}
		if rt.defined[i] && rt.rules[i] != other.rules[i] {
			return false
		}
	}
	return true
}

// String is the canonical form, e.g. "(0,0)->0,1,R (0,1)->0,0,L".
func (rt *RuleTable) String() string {
	if rt == nil {
		return "<nil>"
	}
	var b strings.Builder
	for i, k := range rt.Keys() {
		if i > 0 {
			b.WriteByte(' ')
		}
		t, _ := rt.Lookup(k)
		fmt.Fprintf(&b, "(%d,%d)->%s", k.State, k.Symbol, t)
	}
	return b.String()
}
