package grid

import (
	"errors"
	"fmt"
	"strings"
)

// State is the tilt state of a single mirror. The ordinal value is the
// digit used when packing pixels into parameters.
type State uint8

// Mirror states
const (
	Inactive State = iota
	PositiveTilt
	NegativeTilt
)

// NumStates is the number of distinct states, and so the base of the
// parameter encoding
const NumStates = 3

// ErrState is returned by ParseState for unrecognised input
var ErrState = errors.New("grid: unknown state")

var stateNames = [NumStates]string{"inactive", "positive", "negative"}

// Valid reports whether s is one of the three defined states.
func (s State) Valid() bool {
	return s < NumStates
}

func (s State) String() string {
	if !s.Valid() {
		return "invalid"
	}
	return stateNames[s]
}

// ParseState parses a state name, ordinal digit or pen label.
func ParseState(v string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "inactive":
		return Inactive, nil
	case "1", "positive", "on":
		return PositiveTilt, nil
	case "2", "negative", "off":
		return NegativeTilt, nil
	}
	return Inactive, fmt.Errorf("%w: %q", ErrState, v)
}
