package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// registry is a page-scoped JS array holding every element handed out to Go.
// Elements are addressed by their index; navigation wipes the window object,
// so indices from a previous page resolve to nothing — which is exactly the
// staleness signal the scraper relies on.
const registry = "window.__libcatElements"

const stalenessPollInterval = 100 * time.Millisecond

// Chrome drives one browser tab via chromedp.
type Chrome struct {
	ctx context.Context
}

// NewChrome opens a tab on the given allocator context and starts the
// browser eagerly so that Close always has a process to tear down.
func NewChrome(parent context.Context) (*Chrome, context.CancelFunc, error) {
	ctx, cancel := chromedp.NewContext(parent)
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("start browser: %w", err)
	}
	return &Chrome{ctx: ctx}, cancel, nil
}

func (c *Chrome) Navigate(url string) error {
	if err := chromedp.Run(c.ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (c *Chrome) FindAll(selector string) ([]Element, error) {
	expr := fmt.Sprintf(`(() => {
		const reg = %s = %s || [];
		const ids = [];
		for (const el of document.querySelectorAll(%q)) ids.push(reg.push(el) - 1);
		return ids;
	})()`, registry, registry, selector)

	var ids []int
	if err := c.eval(expr, &ids); err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	els := make([]Element, len(ids))
	for i, id := range ids {
		els[i] = &chromeElement{sess: c, id: id}
	}
	return els, nil
}

func (c *Chrome) FindByText(tag, label string) (Element, error) {
	expr := fmt.Sprintf(`(() => {
		const reg = %s = %s || [];
		const norm = s => s.replace(/\s+/g, ' ').trim();
		for (const el of document.querySelectorAll(%q)) {
			if (norm(el.textContent) === %q) return reg.push(el) - 1;
		}
		return -1;
	})()`, registry, registry, tag, label)

	var id int
	if err := c.eval(expr, &id); err != nil {
		return nil, fmt.Errorf("query %s by text %q: %w", tag, label, err)
	}
	if id < 0 {
		return nil, fmt.Errorf("%s %q: %w", tag, label, ErrNoSuchElement)
	}
	return &chromeElement{sess: c, id: id}, nil
}

func (c *Chrome) WaitFor(selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(c.ctx, timeout)
	defer cancel()
	err := chromedp.Run(ctx, chromedp.WaitReady(selector, chromedp.ByQuery))
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("no element matching %q after %s: %w", selector, timeout, ErrWaitTimeout)
	}
	return err
}

func (c *Chrome) WaitStale(el Element, timeout time.Duration) error {
	ce, ok := el.(*chromeElement)
	if !ok {
		return fmt.Errorf("element %T is not a chrome element", el)
	}
	expr := fmt.Sprintf(`(() => {
		const reg = %s;
		const el = reg && reg[%d];
		return !el || !document.contains(el);
	})()`, registry, ce.id)

	deadline := time.Now().Add(timeout)
	for {
		var detached bool
		if err := c.eval(expr, &detached); err != nil {
			// Evaluation fails while the page is being torn down and
			// replaced; from the caller's perspective the element is gone.
			return nil
		}
		if detached {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("element still attached after %s: %w", timeout, ErrWaitTimeout)
		}
		time.Sleep(stalenessPollInterval)
	}
}

// Close shuts the tab and browser down, waiting for the process to exit.
func (c *Chrome) Close() error {
	return chromedp.Cancel(c.ctx)
}

func (c *Chrome) eval(expr string, out any) error {
	return chromedp.Run(c.ctx, chromedp.Evaluate(expr, out))
}

// chromeElement addresses one registry slot on the current page.
type chromeElement struct {
	sess *Chrome
	id   int
}

// elemResult is the JSON shape every per-element JS snippet returns.
type elemResult struct {
	Stale bool   `json:"stale"`
	OK    bool   `json:"ok"`
	ID    int    `json:"id"`
	IDs   []int  `json:"ids"`
	Text  string `json:"text"`
	Flag  bool   `json:"flag"`
}

// run evaluates op with `el` bound to this element's node. Handles that no
// longer resolve (the page navigated away, or the node was detached) map to
// ErrStale.
func (e *chromeElement) run(op string) (elemResult, error) {
	expr := fmt.Sprintf(`(() => {
		const reg = %s;
		const el = reg && reg[%d];
		if (!el || !document.contains(el)) return {stale: true};
		%s
	})()`, registry, e.id, op)

	var res elemResult
	if err := e.sess.eval(expr, &res); err != nil {
		return res, err
	}
	if res.Stale {
		return res, ErrStale
	}
	return res, nil
}

func (e *chromeElement) Find(selector string) (Element, error) {
	res, err := e.run(fmt.Sprintf(
		`const m = el.querySelector(%q);
		if (!m) return {ok: false};
		return {ok: true, id: reg.push(m) - 1};`, selector))
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, fmt.Errorf("%q: %w", selector, ErrNoSuchElement)
	}
	return &chromeElement{sess: e.sess, id: res.ID}, nil
}

func (e *chromeElement) FindAll(selector string) ([]Element, error) {
	res, err := e.run(fmt.Sprintf(
		`const ids = [];
		for (const m of el.querySelectorAll(%q)) ids.push(reg.push(m) - 1);
		return {ok: true, ids: ids};`, selector))
	if err != nil {
		return nil, err
	}
	els := make([]Element, len(res.IDs))
	for i, id := range res.IDs {
		els[i] = &chromeElement{sess: e.sess, id: id}
	}
	return els, nil
}

func (e *chromeElement) Text() (string, error) {
	res, err := e.run(`return {ok: true, text: (el.innerText || el.textContent || '').trim()};`)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

func (e *chromeElement) Parent() (Element, error) {
	res, err := e.run(
		`const p = el.parentElement;
		if (!p) return {ok: false};
		return {ok: true, id: reg.push(p) - 1};`)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, fmt.Errorf("parent: %w", ErrNoSuchElement)
	}
	return &chromeElement{sess: e.sess, id: res.ID}, nil
}

func (e *chromeElement) Click() error {
	_, err := e.run(`el.click(); return {ok: true};`)
	return err
}

func (e *chromeElement) Enabled() (bool, error) {
	res, err := e.run(
		`const off = el.disabled
			|| el.getAttribute('aria-disabled') === 'true'
			|| el.classList.contains('disabled')
			|| (el.parentElement && el.parentElement.classList.contains('disabled'));
		return {ok: true, flag: !off};`)
	if err != nil {
		return false, err
	}
	return res.Flag, nil
}

func (e *chromeElement) Displayed() (bool, error) {
	res, err := e.run(
		`return {ok: true, flag: !!(el.offsetWidth || el.offsetHeight || el.getClientRects().length)};`)
	if err != nil {
		return false, err
	}
	return res.Flag, nil
}
