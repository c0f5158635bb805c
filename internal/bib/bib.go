// Package bib wraps the external BibTeX library behind the small surface the
// publications plugin needs: ordered parsing, defaulted field access, and
// single-entry re-serialization.
package bib

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/nickng/bibtex"
)

// Entry is one bibliography record. Entries are read-only once parsed;
// field access never mutates the underlying map.
type Entry struct {
	// Key is the citation key, e.g. "Smith2020".
	Key string
	// Type is the lowercased entry type tag, e.g. "article".
	Type string

	fields map[string]string
}

// Field returns the entry's value for the named field, or "" when the field
// is absent. Field names are matched case-insensitively.
func (e Entry) Field(name string) string {
	return e.fields[strings.ToLower(name)]
}

// Has reports whether the entry carries the named field.
func (e Entry) Has(name string) bool {
	_, ok := e.fields[strings.ToLower(name)]
	return ok
}

// FieldNames returns the entry's field names in sorted order.
func (e Entry) FieldNames() []string {
	names := make([]string, 0, len(e.fields))
	for name := range e.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseFile reads a BibTeX database from a file, preserving entry order.
func ParseFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bibliography: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a BibTeX database, preserving entry order.
func Parse(r io.Reader) ([]Entry, error) {
	db, err := bibtex.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing bibliography: %w", err)
	}

	entries := make([]Entry, 0, len(db.Entries))
	for _, be := range db.Entries {
		fields := make(map[string]string, len(be.Fields))
		for name, val := range be.Fields {
			fields[strings.ToLower(name)] = strings.TrimSpace(val.String())
		}
		entries = append(entries, Entry{
			Key:    be.CiteName,
			Type:   strings.ToLower(be.Type),
			fields: fields,
		})
	}
	return entries, nil
}

// Serialize renders a single entry back to BibTeX source, for display and
// copy-paste on the rendered page. Fields are written in sorted order so
// that output is byte-identical across runs (the library's own writer
// iterates a Go map, which is not).
func Serialize(e Entry) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", e.Type, e.Key))
	for _, name := range e.FieldNames() {
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", name, e.fields[name]))
	}
	b.WriteString("}\n")

	return b.String()
}

// NewEntry builds an entry from a type tag, citation key, and field map.
// The fields map is copied; callers keep ownership of theirs.
func NewEntry(entryType, key string, fields map[string]string) Entry {
	copied := make(map[string]string, len(fields))
	for name, val := range fields {
		copied[strings.ToLower(name)] = val
	}
	return Entry{Key: key, Type: strings.ToLower(entryType), fields: copied}
}
