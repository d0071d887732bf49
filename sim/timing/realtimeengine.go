package timing

import (
	"context"
	"log"
	"reflect"
	"sync"
	"time"

	"github.com/basp-group/basplib-redirect/sim/hooking"
)

// A RealTimeEngine handles events in order like the SerialEngine, but holds
// every event back until its time has passed on the wall clock. Engine time 0
// maps to the moment the first Run starts.
type RealTimeEngine struct {
	hooking.HookableBase

	clock Clock

	timeLock sync.RWMutex
	time     VTimeInSec
	start    time.Time
	started  bool
	queue    EventQueue
	wakeup   chan struct{}

	// pauseLock is held while an event is handled. resumed is non-nil while
	// the engine is paused and is closed by Continue.
	pauseLock sync.Mutex
	resumed   chan struct{}

	singleRunLock sync.Mutex
}

// NewRealTimeEngine creates a RealTimeEngine driven by the given clock.
func NewRealTimeEngine(clock Clock) *RealTimeEngine {
	e := new(RealTimeEngine)

	e.clock = clock
	e.queue = NewEventQueue()
	e.wakeup = make(chan struct{}, 1)

	return e
}

// Name returns the name of the engine.
func (e *RealTimeEngine) Name() string {
	return "RealTimeEngine"
}

// Schedule registers an event to happen in the future. It may be called from
// any goroutine.
func (e *RealTimeEngine) Schedule(evt Event) {
	if evt.Time() < e.Now() {
		log.Panic("scheduling an event earlier than current time")
	}

	e.queue.Push(evt)
	e.wake()
}

func (e *RealTimeEngine) wake() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

// Now returns the time of the event being handled, or of the last handled
// event.
func (e *RealTimeEngine) Now() VTimeInSec {
	e.timeLock.RLock()
	t := e.time
	e.timeLock.RUnlock()

	return t
}

func (e *RealTimeEngine) writeNow(t VTimeInSec) {
	e.timeLock.Lock()
	e.time = t
	e.timeLock.Unlock()
}

// Run handles events until the queue drains.
func (e *RealTimeEngine) Run() error {
	return e.RunContext(context.Background())
}

// RunContext handles events until the queue drains, a handler fails, or ctx
// is done. Events still queued when ctx ends are kept. A paused engine still
// returns as soon as ctx is done.
func (e *RealTimeEngine) RunContext(ctx context.Context) error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	if !e.started {
		e.start = e.clock.Now()
		e.started = true
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if e.noMoreEvent() {
			return nil
		}

		if resumed := e.pausedSignal(); resumed != nil {
			select {
			case <-resumed:
			case <-ctx.Done():
				return ctx.Err()
			}

			continue
		}

		due := e.start.Add(DurationOf(e.queue.Peek().Time()))
		if wait := due.Sub(e.clock.Now()); wait > 0 {
			select {
			case <-e.clock.After(wait):
			case <-e.wakeup:
			case <-ctx.Done():
				return ctx.Err()
			}

			continue
		}

		if err := e.handleNext(); err != nil {
			return err
		}
	}
}

func (e *RealTimeEngine) pausedSignal() chan struct{} {
	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	return e.resumed
}

// handleNext handles the first queued event unless Pause won the race for
// pauseLock.
func (e *RealTimeEngine) handleNext() error {
	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	if e.resumed != nil {
		return nil
	}

	evt := e.queue.Pop()
	if evt.Time() < e.Now() {
		log.Panicf(
			"cannot run event in the past, evt %s @ %.10f, now %.10f",
			reflect.TypeOf(evt), evt.Time(), e.Now(),
		)
	}

	e.writeNow(evt.Time())

	hookCtx := hooking.HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	e.InvokeHook(hookCtx)

	err := evt.Handler().Handle(evt)

	hookCtx.Pos = HookPosAfterEvent
	hookCtx.Detail = err
	e.InvokeHook(hookCtx)

	return err
}

func (e *RealTimeEngine) noMoreEvent() bool {
	return e.queue.Len() == 0
}

// Pause stops the engine from handling more events. It waits for the event
// being handled, if any. Events that fall due while paused are handled as
// soon as Continue is called.
func (e *RealTimeEngine) Pause() {
	e.pauseLock.Lock()
	if e.resumed == nil {
		e.resumed = make(chan struct{})
	}
	e.pauseLock.Unlock()

	e.wake()
}

// Continue lets a paused engine handle events again.
func (e *RealTimeEngine) Continue() {
	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	if e.resumed == nil {
		return
	}

	close(e.resumed)
	e.resumed = nil
}

// Paused tells if Pause has been called without a matching Continue.
func (e *RealTimeEngine) Paused() bool {
	return e.pausedSignal() != nil
}
