package machine

import (
	"fmt"
	"strings"
)

// TapePolicy decides what happens when the head leaves [0, len(tape)).
type TapePolicy int

const (
	// PolicyHalt fails the next step with ErrOutOfBounds.
	PolicyHalt TapePolicy = iota
	// PolicyWrap treats the tape as a ring.
	PolicyWrap
)

func (p TapePolicy) String() string {
	switch p {
	case PolicyHalt:
		return "halt"
	case PolicyWrap:
		return "wrap"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy accepts "halt" or "wrap". The empty string means halt.
func ParsePolicy(s string) (TapePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "halt":
		return PolicyHalt, nil
	case "wrap":
		return PolicyWrap, nil
	default:
		return PolicyHalt, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

func wrap(pos, n int) int {
	return ((pos % n) + n) % n
}
