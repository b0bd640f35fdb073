package scraper

import "library-scraper/models"

// Selectors used across the scraper.
// Centralising them makes future updates trivial.
const (
	// ListingSelector matches one book card on the catalog page.
	ListingSelector = `.card.listing-preview`

	// NextPageTag and NextPageLabel identify the pagination control: an
	// anchor whose normalized text is the » glyph.
	NextPageTag   = `a`
	NextPageLabel = `»`
)

// BookLocators is the record shape for one catalog entry. Declaration order
// is the CSV column order. All fields except the title sit next to an icon;
// the visible value is the icon container's text after the "Label: " prefix.
var BookLocators = models.Locators{
	{Name: "title", Selector: `h4.text-primary`, Kind: models.FieldText},
	{Name: "district", Selector: `i.fas.fa-map-marker`, Kind: models.FieldLabeled},
	{Name: "author", Selector: `i.fa.fa-user`, Kind: models.FieldLabeled},
	{Name: "copy_id", Selector: `i.fa.fa-clone`, Kind: models.FieldLabeled},
	{Name: "publication_year", Selector: `i.fa.fa-calendar`, Kind: models.FieldLabeled},
	{Name: "publisher", Selector: `i.fas.fa-money-bill-alt`, Kind: models.FieldLabeled},
	{Name: "call_number", Selector: `i.fa.fa-list-ol`, Kind: models.FieldLabeled},
	{Name: "edition", Selector: `i.fas.fa-clock`, Kind: models.FieldLabeled},
	{Name: "new_release", Selector: `span.badge.badge-secondary.text-white`, Kind: models.FieldPresence},
}
