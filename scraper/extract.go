package scraper

import (
	"errors"
	"fmt"
	"strings"

	"library-scraper/models"
	"library-scraper/session"
)

// Extract builds one record from a listing element. Every locator field is
// present in the result: fields whose selector matches nothing default to
// "" (or "false" for presence fields). Any error other than a missing
// sub-element — above all a stale listing handle — aborts extraction, since
// it means the page moved on underneath us rather than that the card lacks
// a field.
func Extract(el session.Element, locs models.Locators) (models.Record, error) {
	rec := make(models.Record, len(locs))
	for _, loc := range locs {
		switch loc.Kind {
		case models.FieldPresence:
			matches, err := el.FindAll(loc.Selector)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", loc.Name, err)
			}
			rec.SetBool(loc.Name, len(matches) > 0)

		case models.FieldText:
			text, err := elementText(el, loc.Selector)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", loc.Name, err)
			}
			rec[loc.Name] = text

		case models.FieldLabeled:
			text, err := labeledText(el, loc)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", loc.Name, err)
			}
			rec[loc.Name] = text

		default:
			return nil, fmt.Errorf("field %s: unknown kind %d", loc.Name, loc.Kind)
		}
	}
	return rec, nil
}

// elementText returns the first match's text verbatim, or "" when the
// selector matches nothing.
func elementText(el session.Element, selector string) (string, error) {
	sub, err := el.Find(selector)
	if errors.Is(err, session.ErrNoSuchElement) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return sub.Text()
}

// labeledText resolves a labeled field: find the marker sub-element, walk to
// its immediate container, take the container's full text and strip the
// label prefix up to the first delimiter. A container text with no delimiter
// is returned whole, matching how the site renders unlabeled values.
func labeledText(el session.Element, loc models.FieldLocator) (string, error) {
	sub, err := el.Find(loc.Selector)
	if errors.Is(err, session.ErrNoSuchElement) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	container, err := sub.Parent()
	if errors.Is(err, session.ErrNoSuchElement) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	text, err := container.Text()
	if err != nil {
		return "", err
	}

	delim := loc.Delimiter
	if delim == "" {
		delim = models.DefaultDelimiter
	}
	if _, after, found := strings.Cut(text, delim); found {
		return after, nil
	}
	return text, nil
}
