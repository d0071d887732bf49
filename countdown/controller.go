package countdown

import (
	"log"
	"sync"

	"github.com/basp-group/basplib-redirect/sim/hooking"
	"github.com/basp-group/basplib-redirect/sim/timing"
)

// Controller writes "<n> sec." to its display once per tick, counting down
// from the initial value. Right after writing "0 sec." it cancels its tick
// schedule and assigns the destination to its navigator. It is built with a
// Builder.
type Controller struct {
	*timing.TickingComponent

	display        Display
	navigator      Navigator
	destination    string
	initialSeconds int

	lock             sync.Mutex
	state            State
	remainingSeconds int
	ticks            int
	lastText         string
}

// Start begins the countdown. The first tick happens one interval later.
// Start must be called exactly once.
func (c *Controller) Start() {
	c.lock.Lock()
	if c.state != StateIdle {
		c.lock.Unlock()
		log.Panicf("countdown %s started twice", c.Name())
	}

	c.remainingSeconds = c.initialSeconds
	c.state = StateCounting
	c.lock.Unlock()

	c.TickLater()
}

// Tick updates the display and decrements the remaining time. On the tick
// that takes the remaining time below zero, it cancels the schedule and
// navigates.
func (c *Controller) Tick() (bool, error) {
	if c.display == nil {
		log.Panicf("countdown %s has no display surface", c.Name())
	}

	c.lock.Lock()
	if c.state != StateCounting {
		c.lock.Unlock()
		return false, nil
	}

	text := Format(c.remainingSeconds)
	c.display.SetText(text)
	c.lastText = text
	c.ticks++

	info := TickInfo{
		Tick:      c.ticks,
		Time:      c.Now(),
		Remaining: c.remainingSeconds,
		Text:      text,
	}

	c.remainingSeconds--
	done := c.remainingSeconds < 0
	if done {
		c.Cancel()
		c.state = StateRedirected
	}
	c.lock.Unlock()

	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    HookPosTick,
		Item:   c,
		Detail: info,
	})

	if !done {
		return true, nil
	}

	return false, c.navigate()
}

func (c *Controller) navigate() error {
	err := c.navigator.Assign(c.destination)

	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    HookPosRedirect,
		Item:   c.destination,
		Detail: err,
	})

	return err
}

// State returns the current state.
func (c *Controller) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.state
}

// Remaining returns the value the next tick will display. It goes to -1 once
// the controller has redirected.
func (c *Controller) Remaining() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.remainingSeconds
}

// Ticks returns how many ticks have been handled.
func (c *Controller) Ticks() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.ticks
}

// Text returns the last text written to the display.
func (c *Controller) Text() string {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.lastText
}

// Destination returns the URL the controller navigates to.
func (c *Controller) Destination() string {
	return c.destination
}
