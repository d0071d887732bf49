package countdown

import (
	"log"
	"time"

	"github.com/basp-group/basplib-redirect/sim/timing"
)

// Builder can build countdown controllers.
type Builder struct {
	engine      timing.Engine
	interval    time.Duration
	seconds     int
	destination string
	display     Display
	navigator   Navigator
}

// MakeBuilder returns a Builder with the default destination, five seconds
// and a one second interval.
func MakeBuilder() Builder {
	return Builder{
		interval:    DefaultInterval,
		seconds:     DefaultSeconds,
		destination: DefaultDestination,
	}
}

// WithEngine sets the engine that delivers ticks.
func (b Builder) WithEngine(engine timing.Engine) Builder {
	b.engine = engine
	return b
}

// WithInterval sets the time between ticks.
func (b Builder) WithInterval(interval time.Duration) Builder {
	b.interval = interval
	return b
}

// WithSeconds sets the first value shown.
func (b Builder) WithSeconds(seconds int) Builder {
	b.seconds = seconds
	return b
}

// WithDestination sets the URL to navigate to.
func (b Builder) WithDestination(url string) Builder {
	b.destination = url
	return b
}

// WithDisplay sets the display surface.
func (b Builder) WithDisplay(display Display) Builder {
	b.display = display
	return b
}

// WithNavigator sets the navigator.
func (b Builder) WithNavigator(navigator Navigator) Builder {
	b.navigator = navigator
	return b
}

// Build creates a Controller in the Idle state.
func (b Builder) Build(name string) *Controller {
	if b.engine == nil {
		log.Panic("countdown needs an engine")
	}

	if b.navigator == nil {
		log.Panic("countdown needs a navigator")
	}

	if b.seconds < 0 {
		log.Panicf("countdown cannot start from %d seconds", b.seconds)
	}

	c := &Controller{
		display:        b.display,
		navigator:      b.navigator,
		destination:    b.destination,
		initialSeconds: b.seconds,
	}
	c.TickingComponent = timing.NewTickingComponent(
		name, b.engine, timing.FreqOf(b.interval), c)

	return c
}
