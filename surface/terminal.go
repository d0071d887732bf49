package surface

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// TerminalDisplay draws the text centred on a tcell screen, under a fixed
// heading.
type TerminalDisplay struct {
	lock    sync.Mutex
	screen  tcell.Screen
	heading string
	style   tcell.Style
	text    string
}

// NewTerminalDisplay creates a TerminalDisplay on an initialized screen.
func NewTerminalDisplay(screen tcell.Screen, heading string) *TerminalDisplay {
	return &TerminalDisplay{
		screen:  screen,
		heading: heading,
		style:   tcell.StyleDefault.Bold(true),
	}
}

// SetText redraws the screen with text.
func (d *TerminalDisplay) SetText(text string) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.text = text
	d.draw()
}

// WatchKeys reads the screen events until the screen is finalized. The screen
// is in raw mode, so Ctrl-C arrives as a key rather than a signal; Escape and
// Ctrl-C call stop. A resize redraws the current text.
func (d *TerminalDisplay) WatchKeys(stop func()) {
	go func() {
		for {
			switch ev := d.screen.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					stop()
				}
			case *tcell.EventResize:
				d.lock.Lock()
				d.screen.Sync()
				d.draw()
				d.lock.Unlock()
			}
		}
	}()
}

func (d *TerminalDisplay) draw() {
	d.screen.Clear()

	width, height := d.screen.Size()
	middle := height / 2

	d.drawCentered(width, middle-1, d.heading, tcell.StyleDefault)
	d.drawCentered(width, middle+1, d.text, d.style)

	d.screen.Show()
}

func (d *TerminalDisplay) drawCentered(
	width, y int,
	text string,
	style tcell.Style,
) {
	runes := []rune(text)

	x := (width - len(runes)) / 2
	if x < 0 {
		x = 0
	}

	for i, r := range runes {
		d.screen.SetContent(x+i, y, r, nil, style)
	}
}
