package bib

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleBib = `@article{Smith2020,
  author = {Smith, John and Doe, Jane},
  title = {A Study of Things},
  journal = {Nature},
  year = {2020},
  doi = {10.1/x},
}

@inproceedings{Doe2019,
  author = {Doe, Jane},
  title = {Conference Findings},
  booktitle = {Proceedings of Stuff},
  year = {2019},
}
`

func TestParse_EntryOrder(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleBib))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Parse() returned %d entries, want 2", len(entries))
	}
	if entries[0].Key != "Smith2020" || entries[1].Key != "Doe2019" {
		t.Errorf("entries out of file order: %q, %q", entries[0].Key, entries[1].Key)
	}
	if entries[0].Type != "article" {
		t.Errorf("entries[0].Type = %q, want article", entries[0].Type)
	}
}

func TestEntry_FieldDefaults(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleBib))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	e := entries[0]
	if got := e.Field("doi"); got != "10.1/x" {
		t.Errorf("Field(doi) = %q, want 10.1/x", got)
	}
	// Missing optional fields default to empty, never error
	if got := e.Field("pdf"); got != "" {
		t.Errorf("Field(pdf) = %q, want empty", got)
	}
	if e.Has("pdf") {
		t.Error("Has(pdf) = true for entry without pdf field")
	}
	// Case-insensitive access
	if got := e.Field("DOI"); got != "10.1/x" {
		t.Errorf("Field(DOI) = %q, want 10.1/x", got)
	}
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.bib"))
	if err == nil {
		t.Fatal("ParseFile() on missing file should return an error")
	}
}

func TestParseFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bib")
	if err := os.WriteFile(path, []byte("@article{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseFile(path); err == nil {
		t.Fatal("ParseFile() on malformed file should return an error")
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleBib))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	for _, orig := range entries {
		reparsed, err := Parse(strings.NewReader(Serialize(orig)))
		if err != nil {
			t.Fatalf("reparsing serialized %s: %v", orig.Key, err)
		}
		if len(reparsed) != 1 {
			t.Fatalf("serialized %s reparsed to %d entries, want 1", orig.Key, len(reparsed))
		}

		got := reparsed[0]
		if got.Key != orig.Key || got.Type != orig.Type {
			t.Errorf("round trip changed identity: got (%s, %s), want (%s, %s)",
				got.Key, got.Type, orig.Key, orig.Type)
		}
		for _, name := range orig.FieldNames() {
			if got.Field(name) != orig.Field(name) {
				t.Errorf("round trip changed %s.%s: got %q, want %q",
					orig.Key, name, got.Field(name), orig.Field(name))
			}
		}
		if len(got.FieldNames()) != len(orig.FieldNames()) {
			t.Errorf("round trip changed field set of %s: got %v, want %v",
				orig.Key, got.FieldNames(), orig.FieldNames())
		}
	}
}

func TestSerialize_SingleEntryScope(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleBib))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	out := Serialize(entries[0])
	if !strings.HasPrefix(out, "@article{Smith2020,") {
		t.Errorf("Serialize() should start with @article{Smith2020, got:\n%s", out)
	}
	if strings.Contains(out, "Doe2019") {
		t.Errorf("Serialize() leaked another entry:\n%s", out)
	}
}

func TestSerialize_Deterministic(t *testing.T) {
	e := NewEntry("article", "K1", map[string]string{
		"author": "A", "title": "T", "year": "2020", "doi": "10.1/x", "note": "n",
	})
	first := Serialize(e)
	for i := 0; i < 20; i++ {
		if got := Serialize(e); got != first {
			t.Fatalf("Serialize() not deterministic:\n%s\nvs\n%s", first, got)
		}
	}
}
