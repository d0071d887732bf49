// Package surface provides display surfaces for a countdown outside of a
// page: plain writers, terminals, and fan-out to several surfaces at once.
package surface

import (
	"fmt"
	"io"
	"sync"

	"github.com/basp-group/basplib-redirect/countdown"
)

// WriterDisplay writes each text to an io.Writer. In overwrite mode every
// text starts with a carriage return so a terminal line is reused; otherwise
// each text goes on its own line.
type WriterDisplay struct {
	lock      sync.Mutex
	w         io.Writer
	overwrite bool
	lastLen   int
}

// NewWriterDisplay creates a WriterDisplay that prints one line per text.
func NewWriterDisplay(w io.Writer) *WriterDisplay {
	return &WriterDisplay{w: w}
}

// NewOverwritingDisplay creates a WriterDisplay that rewrites a single line.
func NewOverwritingDisplay(w io.Writer) *WriterDisplay {
	return &WriterDisplay{w: w, overwrite: true}
}

// SetText writes text.
func (d *WriterDisplay) SetText(text string) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if !d.overwrite {
		fmt.Fprintln(d.w, text)
		return
	}

	padding := d.lastLen - len(text)
	if padding < 0 {
		padding = 0
	}

	fmt.Fprintf(d.w, "\r%s%*s", text, padding, "")
	d.lastLen = len(text)
}

// Tee returns a Display that forwards every text to each of displays, in
// order. Nil displays are skipped.
func Tee(displays ...countdown.Display) countdown.Display {
	t := tee{}

	for _, d := range displays {
		if d != nil {
			t = append(t, d)
		}
	}

	return t
}

type tee []countdown.Display

func (t tee) SetText(text string) {
	for _, d := range t {
		d.SetText(text)
	}
}
