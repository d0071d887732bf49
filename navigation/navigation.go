// Package navigation provides navigators that take a countdown's destination
// out of the process: into the user's web browser, or onto a writer.
package navigation

import (
	"fmt"
	"io"
	"net/url"

	"github.com/pkg/browser"
)

// BrowserNavigator opens the destination in the system web browser.
type BrowserNavigator struct {
	open func(url string) error
}

// NewBrowserNavigator creates a BrowserNavigator. Output of the launched
// browser process goes to stdout and stderr.
func NewBrowserNavigator(stdout, stderr io.Writer) *BrowserNavigator {
	if stdout != nil {
		browser.Stdout = stdout
	}

	if stderr != nil {
		browser.Stderr = stderr
	}

	return &BrowserNavigator{open: browser.OpenURL}
}

// Assign opens rawURL. Only absolute http and https URLs are opened.
func (n *BrowserNavigator) Assign(rawURL string) error {
	if err := CheckURL(rawURL); err != nil {
		return err
	}

	if err := n.open(rawURL); err != nil {
		return fmt.Errorf("open %s in browser: %w", rawURL, err)
	}

	return nil
}

// PrintNavigator reports the destination on a writer instead of leaving.
type PrintNavigator struct {
	w io.Writer
}

// NewPrintNavigator creates a PrintNavigator writing to w.
func NewPrintNavigator(w io.Writer) *PrintNavigator {
	return &PrintNavigator{w: w}
}

// Assign prints the destination.
func (n *PrintNavigator) Assign(rawURL string) error {
	_, err := fmt.Fprintf(n.w, "Redirecting to %s\n", rawURL)
	return err
}

// CheckURL returns an error unless rawURL is an absolute http or https URL.
func CheckURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid destination %q: %w", rawURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid destination %q: scheme must be http or https", rawURL)
	}

	if u.Host == "" {
		return fmt.Errorf("invalid destination %q: missing host", rawURL)
	}

	return nil
}
