// Package session defines the browsing-session capability the scraper runs
// against: navigation, selector lookups, bounded waits and element handles.
// The chromedp-backed implementation lives in chrome.go; tests substitute
// in-memory fakes.
package session

import (
	"errors"
	"time"
)

var (
	// ErrNoSuchElement reports that a selector matched nothing. Callers that
	// can tolerate a missing element check for it with errors.Is.
	ErrNoSuchElement = errors.New("no such element")

	// ErrWaitTimeout reports that a bounded wait elapsed before its
	// condition held.
	ErrWaitTimeout = errors.New("wait timed out")

	// ErrStale reports that an element handle was used after its page was
	// replaced.
	ErrStale = errors.New("stale element reference")
)

// Element is a live handle to one DOM node on the currently displayed page.
// Handles go stale once the page navigates away.
type Element interface {
	// Find returns the first descendant matching the CSS selector, or
	// ErrNoSuchElement.
	Find(selector string) (Element, error)
	// FindAll returns every descendant matching the CSS selector, in DOM
	// order. No match is an empty slice, not an error.
	FindAll(selector string) ([]Element, error)
	// Text returns the element's visible text.
	Text() (string, error)
	// Parent returns the element's immediate container.
	Parent() (Element, error)
	// Click invokes the element.
	Click() error
	// Enabled reports whether the element accepts interaction.
	Enabled() (bool, error)
	// Displayed reports whether the element is rendered visibly.
	Displayed() (bool, error)
}

// Session is one exclusive browsing session against one page at a time.
type Session interface {
	// Navigate loads the given URL in the session's page.
	Navigate(url string) error
	// FindAll returns every element matching the CSS selector on the
	// current page, in DOM order.
	FindAll(selector string) ([]Element, error)
	// FindByText returns the first element with the given tag whose
	// whitespace-normalized text equals label, or ErrNoSuchElement.
	FindByText(tag, label string) (Element, error)
	// WaitFor blocks until at least one element matches the selector,
	// returning ErrWaitTimeout if none appears within timeout.
	WaitFor(selector string, timeout time.Duration) error
	// WaitStale blocks until el is detached from the page, returning
	// ErrWaitTimeout if it is still attached after timeout.
	WaitStale(el Element, timeout time.Duration) error
	// Close shuts the session down.
	Close() error
}
