package countdown

import "fmt"

// State is the phase a Controller is in.
type State int

// Controller states. Idle moves to Counting on Start, and Counting moves to
// Redirected on the tick that takes the remaining time below zero.
const (
	StateIdle State = iota
	StateCounting
	StateRedirected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateCounting:
		return "Counting"
	case StateRedirected:
		return "Redirected"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText lets states appear by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
