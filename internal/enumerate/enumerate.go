// Package enumerate generates every rule table for a (states x symbols)
// signature in a fixed lexicographic order.
package enumerate

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/san-kum/rulial/internal/machine"
)

var (
	// ErrInvalidSignature indicates a non-positive number of states or symbols.
	ErrInvalidSignature = errors.New("enumerate: signature needs at least one state and one symbol")

	// ErrSignatureTooLarge indicates the machine count exceeds the allowed limit.
	ErrSignatureTooLarge = errors.New("enumerate: signature yields too many machines")

	// ErrNotInSignature indicates a rule table that cannot belong to the signature.
	ErrNotInSignature = errors.New("enumerate: rule table does not match signature")
)

// Signature is the (states, symbols) shape of a family of machines.
type Signature struct {
	States  int `yaml:"states" json:"states"`
	Symbols int `yaml:"symbols" json:"symbols"`
}

func (s Signature) String() string {
	return fmt.Sprintf("%dx%d", s.States, s.Symbols)
}

func (s Signature) Validate() error {
	if s.States <= 0 || s.Symbols <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidSignature, s)
	}
	return nil
}

// Domain is the number of (state, symbol) keys.
func (s Signature) Domain() int { return s.States * s.Symbols }

// Codomain is the number of distinct transitions: new state, new symbol, move.
func (s Signature) Codomain() int { return s.States * s.Symbols * 2 }

// Count returns (states*symbols*2)^(states*symbols) exactly.
func Count(sig Signature) (uint64, error) {
	if err := sig.Validate(); err != nil {
		return 0, err
	}
	n := new(big.Int).Exp(big.NewInt(int64(sig.Codomain())), big.NewInt(int64(sig.Domain())), nil)
	if !n.IsUint64() {
		return 0, fmt.Errorf("%w: %s has %s machines", ErrSignatureTooLarge, sig, n)
	}
	return n.Uint64(), nil
}

// TransitionAt maps a codomain index to its transition. The order is new
// state major, then new symbol, then move with Left before Right.
func TransitionAt(sig Signature, i int) machine.Transition {
	mv := machine.Left
	if i%2 == 1 {
		mv = machine.Right
	}
	return machine.Transition{
		State:  i / (sig.Symbols * 2),
		Symbol: (i / 2) % sig.Symbols,
		Move:   mv,
	}
}

// Codomain lists every transition in canonical order.
func Codomain(sig Signature) []machine.Transition {
	out := make([]machine.Transition, sig.Codomain())
	for i := range out {
		out[i] = TransitionAt(sig, i)
	}
	return out
}

func transitionIndex(sig Signature, t machine.Transition) (int, bool) {
	if t.State < 0 || t.State >= sig.States || t.Symbol < 0 || t.Symbol >= sig.Symbols {
		return 0, false
	}
	var mv int
	switch t.Move {
	case machine.Left:
	case machine.Right:
		mv = 1
	default:
		return 0, false
	}
	return (t.State*sig.Symbols+t.Symbol)*2 + mv, true
}

// Each streams every rule table in enumeration order. The first domain key,
// (0,0), is the most significant digit. fn returning false stops the walk.
func Each(sig Signature, fn func(i int, rt *machine.RuleTable) bool) error {
	if _, err := Count(sig); err != nil {
		return err
	}

	codomain := Codomain(sig)
	digits := make([]int, sig.Domain())
	for i := 0; ; i++ {
		rules := make([]machine.Transition, len(digits))
		for k, d := range digits {
			rules[k] = codomain[d]
		}
		if !fn(i, machine.Complete(sig.States, sig.Symbols, rules)) {
			return nil
		}

		k := len(digits) - 1
		for ; k >= 0; k-- {
			digits[k]++
			if digits[k] < len(codomain) {
				break
			}
			digits[k] = 0
		}
		if k < 0 {
			return nil
		}
	}
}

type options struct {
	limit  uint64
	policy machine.TapePolicy
}

// Option configures Machines.
type Option func(*options)

// WithLimit refuses signatures with more than n machines. Zero means no limit.
func WithLimit(n uint64) Option {
	return func(o *options) { o.limit = n }
}

// WithPolicy sets the tape policy of every generated machine.
func WithPolicy(p machine.TapePolicy) Option {
	return func(o *options) { o.policy = p }
}

// Machines materializes one machine per rule table, in enumeration order,
// each with ID equal to its index.
func Machines(sig Signature, opts ...Option) ([]*machine.Machine, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	n, err := Count(sig)
	if err != nil {
		return nil, err
	}
	if o.limit > 0 && n > o.limit {
		return nil, fmt.Errorf("%w: %s has %d machines, limit is %d", ErrSignatureTooLarge, sig, n, o.limit)
	}
	if n > uint64(maxInt) {
		return nil, fmt.Errorf("%w: %s has %d machines", ErrSignatureTooLarge, sig, n)
	}

	out := make([]*machine.Machine, 0, int(n))
	err = Each(sig, func(i int, rt *machine.RuleTable) bool {
		out = append(out, machine.New(i, rt, o.policy))
		return true
	})
	return out, err
}

const maxInt = int(^uint(0) >> 1)

// Index is the inverse of the enumeration: the position rt would have in
// Machines(sig). rt must be complete and within the signature.
func Index(sig Signature, rt *machine.RuleTable) (int, error) {
	if err := sig.Validate(); err != nil {
		return 0, err
	}
	states, symbols := rt.Signature()
	if states != sig.States || symbols != sig.Symbols || rt.Len() != sig.Domain() {
		return 0, fmt.Errorf("%w: %s", ErrNotInSignature, sig)
	}

	base := sig.Codomain()
	idx := 0
	for _, k := range rt.Keys() {
		t, _ := rt.Lookup(k)
		d, ok := transitionIndex(sig, t)
		if !ok {
			return 0, fmt.Errorf("%w: transition %s", ErrNotInSignature, t)
		}
		if idx > (maxInt-d)/base {
			return 0, fmt.Errorf("%w: index overflows int", ErrSignatureTooLarge)
		}
		idx = idx*base + d
	}
	return idx, nil
}
