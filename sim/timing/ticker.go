package timing

import (
	"sync"

	"github.com/basp-group/basplib-redirect/sim/hooking"
	"github.com/basp-group/basplib-redirect/sim/id"
)

// TickEvent is a generic event that a ticking handler uses to update its
// state once per cycle.
type TickEvent struct {
	EventBase
}

// MakeTickEvent creates a new TickEvent
func MakeTickEvent(handler Handler, time VTimeInSec) TickEvent {
	evt := TickEvent{
		EventBase: EventBase{
			ID:      id.Generate(),
			time:    time,
			handler: handler,
		},
	}

	return evt
}

// A Ticker is an object that updates states with ticks. Tick reports whether
// another tick is wanted.
type Ticker interface {
	Tick() (madeProgress bool, err error)
}

// TickScheduler schedules tick events at a fixed frequency. It is the handle
// of a periodic schedule: once cancelled, it never schedules again.
type TickScheduler struct {
	lock      sync.Mutex
	handler   Handler
	Freq      Freq
	Engine    Engine
	cancelled bool

	nextTickTime VTimeInSec
}

// NewTickScheduler creates a scheduler for tick events.
func NewTickScheduler(
	handler Handler,
	engine Engine,
	freq Freq,
) *TickScheduler {
	ticker := new(TickScheduler)

	ticker.handler = handler
	ticker.Engine = engine
	ticker.Freq = freq
	ticker.nextTickTime = -1 // This will make sure the first tick is scheduled

	return ticker
}

// TickLater will schedule a tick event at the cycle after the now time.
func (t *TickScheduler) TickLater() {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.scheduleAt(t.Freq.NextTick(t.Now()))
}

func (t *TickScheduler) scheduleAt(time VTimeInSec) {
	if t.cancelled || t.nextTickTime >= time {
		return
	}

	t.nextTickTime = time
	t.Engine.Schedule(MakeTickEvent(t.handler, time))
}

// Cancel stops the schedule. A tick that is already queued is dropped when it
// arrives, and later TickLater calls do nothing.
func (t *TickScheduler) Cancel() {
	t.lock.Lock()
	t.cancelled = true
	t.lock.Unlock()
}

// Cancelled tells if Cancel has been called.
func (t *TickScheduler) Cancelled() bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.cancelled
}

// Now returns the engine time.
func (t *TickScheduler) Now() VTimeInSec {
	return t.Engine.Now()
}

// TickingComponent is a named, hookable handler that calls its Ticker once
// per tick event and keeps ticking while the Ticker makes progress.
type TickingComponent struct {
	hooking.HookableBase
	*TickScheduler

	name   string
	ticker Ticker
}

// NewTickingComponent creates a new ticking component
func NewTickingComponent(
	name string,
	engine Engine,
	freq Freq,
	ticker Ticker,
) *TickingComponent {
	tc := new(TickingComponent)
	tc.TickScheduler = NewTickScheduler(tc, engine, freq)
	tc.name = name
	tc.ticker = ticker

	return tc
}

// Name returns the name of the component.
func (c *TickingComponent) Name() string {
	return c.name
}

// Handle triggers the tick function of the TickingComponent
func (c *TickingComponent) Handle(_ Event) error {
	if c.Cancelled() {
		return nil
	}

	madeProgress, err := c.ticker.Tick()
	if madeProgress {
		c.TickLater()
	}

	return err
}
