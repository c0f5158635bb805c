// Package citation renders parsed bibliography entries as plain citation
// text for the publications page.
package citation

import (
	"strings"

	"github.com/fleury/bibsite/internal/bib"
)

// Render formats an entry as a one-line plain-style citation:
// authors, title, venue with volume/number/pages, year, then note.
func Render(e bib.Entry) string {
	var parts []string

	if authors := formatAuthors(e.Field("author")); authors != "" {
		parts = append(parts, authors)
	}
	if title := e.Field("title"); title != "" {
		parts = append(parts, title)
	}
	if v := formatVenue(e); v != "" {
		parts = append(parts, v)
	}
	if note := e.Field("note"); note != "" {
		parts = append(parts, note)
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ". ") + "."
}

// formatAuthors turns the BibTeX author field ("Last, First and Last, First")
// into readable names ("First Last and First Last"). Three or more authors
// are comma-separated with "and" before the last.
func formatAuthors(field string) string {
	if field == "" {
		return ""
	}

	var names []string
	for _, raw := range strings.Split(field, " and ") {
		names = append(names, formatName(strings.TrimSpace(raw)))
	}

	switch len(names) {
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}

// formatName converts "Last, First" to "First Last". Names without a comma
// are passed through unchanged.
func formatName(name string) string {
	last, first, found := strings.Cut(name, ",")
	if !found {
		return name
	}
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	if first == "" {
		return last
	}
	return first + " " + last
}

// formatVenue assembles the publication venue portion: journal or booktitle,
// volume(number):pages, and year. Any piece may be absent.
func formatVenue(e bib.Entry) string {
	var parts []string

	name := e.Field("journal")
	if name == "" {
		if bt := e.Field("booktitle"); bt != "" {
			name = "In " + bt
		}
	}
	if name != "" {
		parts = append(parts, name)
	}

	if detail := formatVolume(e); detail != "" {
		parts = append(parts, detail)
	}
	if year := e.Field("year"); year != "" {
		parts = append(parts, year)
	}

	return strings.Join(parts, ", ")
}

// formatVolume renders volume(number):pages from whichever pieces exist.
func formatVolume(e bib.Entry) string {
	vol := e.Field("volume")
	if num := e.Field("number"); num != "" && vol != "" {
		vol += "(" + num + ")"
	}
	pages := e.Field("pages")

	switch {
	case vol != "" && pages != "":
		return vol + ":" + pages
	case vol != "":
		return vol
	case pages != "":
		return "pages " + pages
	default:
		return ""
	}
}

// braceStripper removes protective-grouping artifacts from rendered text.
// Escaped sequences come first so a literal \{ is never left as a stray
// backslash by the bare-brace rules.
var braceStripper = strings.NewReplacer(
	`\{`, "",
	`\}`, "",
	"{", "",
	"}", "",
)

// StripBraces removes escaped brace sequences and literal braces from
// rendered citation text, preserving all other characters in order.
func StripBraces(s string) string {
	return braceStripper.Replace(s)
}
