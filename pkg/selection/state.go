// Package selection keeps a tri-state checkbox selection over a clause tree
// consistent as users select leaves, branches, presets and wizard answers.
package selection

import (
	"fmt"
	"strings"
)

// State is the checked state of a tree node. Its string form matches the
// values of the ARIA aria-checked attribute.
type State int

const (
	// False means nothing under the node is selected.
	False State = iota
	// True means the node, and everything it aggregates, is selected.
	True
	// Mixed means some but not all of the node's descendants are selected.
	Mixed
)

// FromBool converts a leaf checkbox value to a State.
func FromBool(b bool) State {
	if b {
		return True
	}
	return False
}

func (s State) String() string {
	switch s {
	case True:
		return "true"
	case Mixed:
		return "mixed"
	default:
		return "false"
	}
}

// AriaChecked returns the aria-checked attribute value for the state.
func (s State) AriaChecked() string { return s.String() }

// Checked reports whether the state is fully selected.
func (s State) Checked() bool { return s == True }

// Indeterminate reports whether the state should render as an indeterminate
// checkbox.
func (s State) Indeterminate() bool { return s == Mixed }

// ParseState converts an aria-checked value to a State.
func ParseState(raw string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return True, nil
	case "false", "":
		return False, nil
	case "mixed":
		return Mixed, nil
	default:
		return False, fmt.Errorf("selection: unknown state %q", raw)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Derive aggregates child states into a parent state: true when every child
// is true, false when every child is false, mixed otherwise. No children
// derive false.
func Derive(children ...State) State {
	if len(children) == 0 {
		return False
	}
	allTrue, allFalse := true, true
	for _, c := range children {
		switch c {
		case True:
			allFalse = false
		case False:
			allTrue = false
		default:
			return Mixed
		}
	}
	switch {
	case allTrue:
		return True
	case allFalse:
		return False
	default:
		return Mixed
	}
}
