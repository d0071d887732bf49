// Package countdown provides the Controller that counts down on a display
// surface and then navigates its host to a destination URL.
package countdown

import (
	"strconv"
	"time"

	"github.com/basp-group/basplib-redirect/sim/hooking"
)

// Defaults used when the builder is not told otherwise.
const (
	DefaultDestination = "https://basp-group.github.io/BASPLib/index.html"
	DefaultSeconds     = 5
	DefaultInterval    = time.Second

	// ElementID is the id of the element the countdown is written to.
	ElementID = "countdown"
)

// Display is the surface that shows the remaining time. The controller only
// writes to it.
type Display interface {
	SetText(text string)
}

// Navigator changes the location of the hosting document.
type Navigator interface {
	Assign(url string) error
}

// HookPosTick fires after each tick has written to the display. The detail is
// a TickInfo.
var HookPosTick = &hooking.HookPos{Name: "CountdownTick"}

// HookPosRedirect fires once the navigator has been called. The item is the
// destination URL and the detail is the navigation error, if any.
var HookPosRedirect = &hooking.HookPos{Name: "CountdownRedirect"}

// TickInfo describes one tick.
type TickInfo struct {
	Tick      int
	Time      float64
	Remaining int
	Text      string
}

// Format renders a remaining-seconds value the way the display shows it.
func Format(remaining int) string {
	return strconv.Itoa(remaining) + " sec."
}
