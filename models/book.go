package models

import "strconv"

// FieldKind selects how a field's value is derived from a listing element.
type FieldKind int

const (
	// FieldText takes the matched sub-element's own text verbatim.
	FieldText FieldKind = iota
	// FieldLabeled locates the sub-element, walks to its immediate container
	// and takes the container text after the first delimiter occurrence.
	FieldLabeled
	// FieldPresence reports whether any sub-element matches the selector.
	FieldPresence
)

// DefaultDelimiter separates a field's label from its value on the page.
const DefaultDelimiter = ": "

// FieldLocator maps one record field to the selector that finds it inside a
// listing element.
type FieldLocator struct {
	Name      string
	Selector  string
	Kind      FieldKind
	Delimiter string // labeled fields only; empty means DefaultDelimiter
}

// Locators is the ordered field-locator table for one record shape.
// Declaration order is the output schema order.
type Locators []FieldLocator

// Schema returns the field names in declared order.
func (ls Locators) Schema() []string {
	names := make([]string, len(ls))
	for i, l := range ls {
		names[i] = l.Name
	}
	return names
}

// Record holds one scraped book. Every schema field is always present;
// unlocatable fields carry "" (or "false" for presence fields).
type Record map[string]string

// SetBool stores a presence field as a boolean literal.
func (r Record) SetBool(name string, v bool) {
	r[name] = strconv.FormatBool(v)
}

// Row projects the record onto schema order for delimited output.
func (r Record) Row(schema []string) []string {
	row := make([]string, len(schema))
	for i, name := range schema {
		row[i] = r[name]
	}
	return row
}
