package scraper

import (
	"errors"
	"fmt"
	"time"

	"library-scraper/logger"
	"library-scraper/session"
)

// Walker produces the catalog's listing elements across every page as a
// forward-only pull sequence. It owns pagination: when the current page's
// listings are exhausted it looks for the next-page control, clicks it,
// waits for the old page to go stale and starts over. The sequence is
// consumed once; there is no rewind.
type Walker struct {
	sess    session.Session
	timeout time.Duration

	queue   []session.Element
	page    int
	started bool
	done    bool
}

// NewWalker returns a walker over sess's current page and its successors.
// timeout bounds both waits at a page boundary: waiting for listings to
// appear and waiting for the old page to go stale after a pagination click.
func NewWalker(sess session.Session, timeout time.Duration) *Walker {
	return &Walker{sess: sess, timeout: timeout}
}

// Next returns the next listing element, or ok=false once pagination is
// exhausted. A listings timeout is fatal and surfaces as an error; running
// off the end of pagination is not.
func (w *Walker) Next() (session.Element, bool, error) {
	for {
		if len(w.queue) > 0 {
			el := w.queue[0]
			w.queue = w.queue[1:]
			return el, true, nil
		}
		if w.done {
			return nil, false, nil
		}
		if w.started {
			if err := w.advance(); err != nil {
				return nil, false, err
			}
			if w.done {
				return nil, false, nil
			}
		}
		if err := w.loadListings(); err != nil {
			return nil, false, err
		}
		w.started = true
	}
}

// loadListings blocks until the current page shows at least one listing,
// then queues every listing in DOM order. A page that never shows listings
// within the timeout fails the run.
func (w *Walker) loadListings() error {
	if err := w.sess.WaitFor(ListingSelector, w.timeout); err != nil {
		return fmt.Errorf("page %d: %w", w.page+1, err)
	}
	els, err := w.sess.FindAll(ListingSelector)
	if err != nil {
		return fmt.Errorf("page %d: list listings: %w", w.page+1, err)
	}
	w.page++
	w.queue = els
	logger.ForWalker().Debug().
		Int("page", w.page).
		Int("listings", len(els)).
		Msg("page loaded")
	return nil
}

// advance clicks the next-page control and waits for the current page to be
// replaced. A missing, disabled or hidden control — and any failure while
// clicking or waiting for the old page to go stale — means the catalog has
// no further pages, not that the run failed.
func (w *Walker) advance() error {
	next, err := w.sess.FindByText(NextPageTag, NextPageLabel)
	if errors.Is(err, session.ErrNoSuchElement) {
		w.finish("no next control")
		return nil
	}
	if err != nil {
		return fmt.Errorf("page %d: locate next control: %w", w.page, err)
	}

	enabled, err := next.Enabled()
	if err != nil {
		return fmt.Errorf("page %d: next control state: %w", w.page, err)
	}
	displayed, err := next.Displayed()
	if err != nil {
		return fmt.Errorf("page %d: next control state: %w", w.page, err)
	}
	if !enabled || !displayed {
		w.finish("next control inactive")
		return nil
	}

	if err := next.Click(); err != nil {
		w.finish("next control click failed")
		return nil
	}
	if err := w.sess.WaitStale(next, w.timeout); err != nil {
		w.finish("page never went stale after click")
		return nil
	}
	return nil
}

func (w *Walker) finish(reason string) {
	w.done = true
	logger.ForWalker().Debug().
		Int("pages", w.page).
		Str("reason", reason).
		Msg("pagination exhausted")
}
