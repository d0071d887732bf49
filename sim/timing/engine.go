package timing

import (
	"github.com/basp-group/basplib-redirect/sim/hooking"
)

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	Now() VTimeInSec
}

// EventScheduler can be used to schedule future events.
type EventScheduler interface {
	TimeTeller

	Schedule(e Event)
}

// An Engine keeps the events flowing. Events are handled one at a time, in
// time order, and a handler is never re-entered.
type Engine interface {
	hooking.Hookable
	EventScheduler

	// Run processes events until there are none left. It stops early and
	// returns the error if a handler fails.
	Run() error

	// Pause will pause the engine until continue is called.
	Pause()

	// Continue will continue the paused engine.
	Continue()
}
