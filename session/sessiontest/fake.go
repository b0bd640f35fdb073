// Package sessiontest provides in-memory Session and Element fakes for
// exercising the scraper without a browser.
package sessiontest

import (
	"time"

	"library-scraper/session"
)

// Element is an in-memory stand-in for a live DOM handle.
type Element struct {
	TextValue string
	ParentEl  *Element
	Children  map[string][]*Element
	Stale     bool
	IsEnabled bool
	IsShown   bool
	OnClick   func() error
}

func NewElement(text string) *Element {
	return &Element{
		TextValue: text,
		Children:  make(map[string][]*Element),
		IsEnabled: true,
		IsShown:   true,
	}
}

// WithChild attaches a child under selector and wires its parent pointer.
func (e *Element) WithChild(selector string, child *Element) *Element {
	child.ParentEl = e
	e.Children[selector] = append(e.Children[selector], child)
	return e
}

func (e *Element) Find(selector string) (session.Element, error) {
	if e.Stale {
		return nil, session.ErrStale
	}
	kids := e.Children[selector]
	if len(kids) == 0 {
		return nil, session.ErrNoSuchElement
	}
	return kids[0], nil
}

func (e *Element) FindAll(selector string) ([]session.Element, error) {
	if e.Stale {
		return nil, session.ErrStale
	}
	kids := e.Children[selector]
	els := make([]session.Element, len(kids))
	for i, k := range kids {
		els[i] = k
	}
	return els, nil
}

func (e *Element) Text() (string, error) {
	if e.Stale {
		return "", session.ErrStale
	}
	return e.TextValue, nil
}

func (e *Element) Parent() (session.Element, error) {
	if e.Stale {
		return nil, session.ErrStale
	}
	if e.ParentEl == nil {
		return nil, session.ErrNoSuchElement
	}
	return e.ParentEl, nil
}

func (e *Element) Click() error {
	if e.Stale {
		return session.ErrStale
	}
	if e.OnClick != nil {
		return e.OnClick()
	}
	return nil
}

func (e *Element) Enabled() (bool, error)   { return e.IsEnabled, nil }
func (e *Element) Displayed() (bool, error) { return e.IsShown, nil }

// Page is one paginated view: its listings plus an optional next control.
type Page struct {
	Listings []*Element
	Next     *Element
}

// Session serves scripted pages. Clicking a page's next control advances to
// the following page.
type Session struct {
	Pages      []Page
	Current    int
	Navigated  string
	NeverLoads bool
	StaleHangs bool
	Closed     bool
}

func NewSession(pages ...Page) *Session {
	s := &Session{Pages: pages}
	for i := range s.Pages {
		if next := s.Pages[i].Next; next != nil && next.OnClick == nil {
			next.OnClick = func() error {
				s.Current++
				return nil
			}
		}
	}
	return s
}

func (s *Session) Navigate(url string) error {
	s.Navigated = url
	return nil
}

func (s *Session) page() Page {
	if s.Current >= len(s.Pages) {
		return Page{}
	}
	return s.Pages[s.Current]
}

func (s *Session) FindAll(selector string) ([]session.Element, error) {
	listings := s.page().Listings
	els := make([]session.Element, len(listings))
	for i, l := range listings {
		els[i] = l
	}
	return els, nil
}

func (s *Session) FindByText(tag, label string) (session.Element, error) {
	next := s.page().Next
	if next == nil {
		return nil, session.ErrNoSuchElement
	}
	return next, nil
}

func (s *Session) WaitFor(selector string, timeout time.Duration) error {
	if s.NeverLoads || len(s.page().Listings) == 0 {
		return session.ErrWaitTimeout
	}
	return nil
}

func (s *Session) WaitStale(el session.Element, timeout time.Duration) error {
	if s.StaleHangs {
		return session.ErrWaitTimeout
	}
	return nil
}

func (s *Session) Close() error {
	s.Closed = true
	return nil
}
