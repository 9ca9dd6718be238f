package machine

import (
	"fmt"
	"strconv"
	"strings"
)

// TapeLength is the fixed tape size every enumerated machine starts with.
const TapeLength = 100

// Machine is one deterministic Turing machine instance. Rules is shared and
// read-only; State, Position and Tape belong to the instance.
type Machine struct {
	ID       int
	Rules    *RuleTable
	State    int
	Position int
	Tape     []int
	Policy   TapePolicy
}

// New returns a machine in the initial configuration: state 0, position 0 and
// a zeroed tape of TapeLength cells.
func New(id int, rules *RuleTable, policy TapePolicy) *Machine {
	return &Machine{
		ID:     id,
		Rules:  rules,
		Tape:   make([]int, TapeLength),
		Policy: policy,
	}
}

// Step performs one transition. On failure the machine is left untouched.
func (m *Machine) Step() error {
	n := len(m.Tape)
	pos := m.Position
	if pos < 0 || pos >= n {
		if m.Policy != PolicyWrap || n == 0 {
			return &OutOfBoundsError{Position: pos, Length: n}
		}
		pos = wrap(pos, n)
	}

	sym := m.Tape[pos]
	t, ok := m.Rules.Lookup(Key{State: m.State, Symbol: sym})
	if !ok {
		return &UndefinedTransitionError{State: m.State, Symbol: sym}
	}

	m.State = t.State
	m.Tape[pos] = t.Symbol
	next := pos + int(t.Move)
	if m.Policy == PolicyWrap {
		next = wrap(next, n)
	}
	m.Position = next
	return nil
}

// Reset returns m to the initial configuration, keeping its rules and tape
// length.
func (m *Machine) Reset() {
	m.State = 0
	m.Position = 0
	clear(m.Tape)
}

// Clone shares the rule table and copies the mutable configuration.
func (m *Machine) Clone() *Machine {
	c := &Machine{Tape: make([]int, len(m.Tape))}
	m.CopyInto(c)
	return c
}

// CopyInto overwrites dst with m's configuration, reusing dst.Tape when it
// has the right length.
func (m *Machine) CopyInto(dst *Machine) {
	dst.ID = m.ID
	dst.Rules = m.Rules
	dst.State = m.State
	dst.Position = m.Position
	dst.Policy = m.Policy
	if len(dst.Tape) != len(m.Tape) {
		dst.Tape = make([]int, len(m.Tape))
	}
	copy(dst.Tape, m.Tape)
}

// SameConfig reports whether both machines hold an equal state and an
// element-wise equal tape. Head position is not part of the comparison.
func (m *Machine) SameConfig(other *Machine) bool {
	if m.State != other.State || len(m.Tape) != len(other.Tape) {
		return false
	}
	for i, v := range m.Tape {
		if other.Tape[i] != v {
			return false
		}
	}
	return true
}

// Config snapshots the (state, tape) pair.
func (m *Machine) Config() Config {
	tape := make([]int, len(m.Tape))
	copy(tape, m.Tape)
	return Config{State: m.State, Tape: tape}
}

// Identity is a stable key built from the rule table and the current
// configuration. For canonical (never simulated) machines that is the
// initial configuration.
func (m *Machine) Identity() string {
	return fmt.Sprintf("%s|q%d|@%d|%s", m.Rules, m.State, m.Position, EncodeTape(m.Tape))
}

func (m *Machine) String() string {
	return fmt.Sprintf("tm#%d[%s]", m.ID, m.Rules)
}

// Config is a (state, tape) snapshot, the observation the grapher compares.
type Config struct {
	State int
	Tape  []int
}

func (c Config) Equal(other Config) bool {
	if c.State != other.State || len(c.Tape) != len(other.Tape) {
		return false
	}
	for i := range c.Tape {
		if c.Tape[i] != other.Tape[i] {
			return false
		}
	}
	return true
}

// Fingerprint is a compact string that is equal for equal configs.
func (c Config) Fingerprint() string {
	return "q" + strconv.Itoa(c.State) + "|" + EncodeTape(c.Tape)
}

// EncodeTape run-length encodes a tape, e.g. "1*1 0*99".
func EncodeTape(tape []int) string {
	if len(tape) == 0 {
		return "-"
	}
	var b strings.Builder
	run := 1
	for i := 1; i <= len(tape); i++ {
		if i < len(tape) && tape[i] == tape[i-1] {
			run++
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(tape[i-1]))
		b.WriteByte('*')
		b.WriteString(strconv.Itoa(run))
		run = 1
	}
	return b.String()
}
