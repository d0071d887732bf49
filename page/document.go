// Package page models the document that hosts a countdown: addressable text
// elements, a current location and a load event.
package page

import (
	"log"
	"sync"

	"github.com/basp-group/basplib-redirect/countdown"
)

// An Element is a text-bearing node of a Document.
type Element struct {
	id string

	lock sync.RWMutex
	text string
}

// ID returns the element id.
func (e *Element) ID() string {
	return e.id
}

// SetText replaces the element text.
func (e *Element) SetText(text string) {
	e.lock.Lock()
	e.text = text
	e.lock.Unlock()
}

// Text returns the element text.
func (e *Element) Text() string {
	e.lock.RLock()
	defer e.lock.RUnlock()

	return e.text
}

// A Document hosts elements and has a location that can be assigned. Assigning
// the location notifies navigation listeners, which is how the document
// reaches a real browser or terminal.
type Document struct {
	lock           sync.RWMutex
	title          string
	location       string
	navigated      bool
	loaded         bool
	elements       map[string]*Element
	elementOrder   []string
	loadHandlers   []func()
	navigateHooks  []func(url string) error
	navigatedCount int
}

// NewDocument creates a document at location with one empty element per id.
func NewDocument(title, location string, elementIDs ...string) *Document {
	d := &Document{
		title:    title,
		location: location,
		elements: make(map[string]*Element),
	}

	for _, id := range elementIDs {
		d.AddElement(id)
	}

	return d
}

// Title returns the document title.
func (d *Document) Title() string {
	return d.title
}

// AddElement adds an element with the given id. Adding an existing id panics.
func (d *Document) AddElement(id string) *Element {
	d.lock.Lock()
	defer d.lock.Unlock()

	if _, found := d.elements[id]; found {
		log.Panicf("element %s already exists", id)
	}

	e := &Element{id: id}
	d.elements[id] = e
	d.elementOrder = append(d.elementOrder, id)

	return e
}

// GetElementByID returns the element with the id, or nil.
func (d *Document) GetElementByID(id string) *Element {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.elements[id]
}

// Elements returns the elements in the order they were added.
func (d *Document) Elements() []*Element {
	d.lock.RLock()
	defer d.lock.RUnlock()

	elements := make([]*Element, 0, len(d.elementOrder))
	for _, id := range d.elementOrder {
		elements = append(elements, d.elements[id])
	}

	return elements
}

// Display returns the element with the id as a countdown display. A missing
// element gives a nil Display, not a Display holding a nil *Element.
func (d *Document) Display(id string) countdown.Display {
	e := d.GetElementByID(id)
	if e == nil {
		return nil
	}

	return e
}

// OnLoad registers f to run when the document finishes loading.
func (d *Document) OnLoad(f func()) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.loadHandlers = append(d.loadHandlers, f)
}

// Load fires the load event. A document loads once; a second Load panics.
func (d *Document) Load() {
	d.lock.Lock()
	if d.loaded {
		d.lock.Unlock()
		log.Panic("document already loaded")
	}

	d.loaded = true
	handlers := make([]func(), len(d.loadHandlers))
	copy(handlers, d.loadHandlers)
	d.lock.Unlock()

	for _, h := range handlers {
		h()
	}
}

// Loaded tells if Load has been called.
func (d *Document) Loaded() bool {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.loaded
}

// OnNavigate registers f to run whenever the location is assigned.
func (d *Document) OnNavigate(f func(url string) error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.navigateHooks = append(d.navigateHooks, f)
}

// Assign sets the location and calls the navigation listeners in order. The
// location changes even if a listener fails; the first failure is returned.
func (d *Document) Assign(url string) error {
	d.lock.Lock()
	d.location = url
	d.navigated = true
	d.navigatedCount++
	hooks := make([]func(string) error, len(d.navigateHooks))
	copy(hooks, d.navigateHooks)
	d.lock.Unlock()

	var firstErr error
	for _, h := range hooks {
		if err := h(url); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// Location returns the current location.
func (d *Document) Location() string {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.location
}

// Navigated tells if the location has been assigned since the document was
// created.
func (d *Document) Navigated() bool {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.navigated
}

// NavigationCount returns how many times the location has been assigned.
func (d *Document) NavigationCount() int {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.navigatedCount
}
