package scraper

import "library-scraper/session/sessiontest"

// newBookCard builds a listing element shaped like one catalog card.
// labeled maps a field selector to its container text ("Label: value").
func newBookCard(title string, labeled map[string]string, badge bool) *sessiontest.Element {
	card := sessiontest.NewElement("")
	if title != "" {
		card.WithChild(`h4.text-primary`, sessiontest.NewElement(title))
	}
	for selector, containerText := range labeled {
		container := sessiontest.NewElement(containerText)
		icon := sessiontest.NewElement("")
		container.WithChild(selector, icon)
		// The card finds the icon by selector; the icon's container is the
		// line element holding the visible "Label: value" text.
		card.Children[selector] = append(card.Children[selector], icon)
	}
	if badge {
		card.WithChild(`span.badge.badge-secondary.text-white`, sessiontest.NewElement("New"))
	}
	return card
}
