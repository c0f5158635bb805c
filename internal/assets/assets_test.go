package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fleury/bibsite/internal/publist"
)

func TestCheck_MissingFile(t *testing.T) {
	root := t.TempDir()
	records := []publist.Record{
		{Key: "Smith2020", PDF: "papers/smith.pdf", Slides: "talks/smith.pdf"},
	}

	issues := Check(root, records)
	if len(issues) != 2 {
		t.Fatalf("Check() found %d issues, want 2: %+v", len(issues), issues)
	}
	for _, issue := range issues {
		if issue.Type != "missing_file" {
			t.Errorf("issue.Type = %q, want missing_file", issue.Type)
		}
		if issue.Key != "Smith2020" {
			t.Errorf("issue.Key = %q, want Smith2020", issue.Key)
		}
	}
}

func TestCheck_ExistingFileOK(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "talks"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "talks", "a.html"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	records := []publist.Record{{Key: "A", Slides: "talks/a.html"}}
	if issues := Check(root, records); len(issues) != 0 {
		t.Errorf("Check() = %+v, want no issues", issues)
	}
}

func TestCheck_SkipsRemoteAndEmpty(t *testing.T) {
	records := []publist.Record{
		{Key: "B", PDF: "https://example.org/b.pdf", Poster: ""},
	}
	if issues := Check(t.TempDir(), records); len(issues) != 0 {
		t.Errorf("Check() = %+v, remote links and empty fields should be skipped", issues)
	}
}

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.1234/ABC", "10.1234/abc"},
		{"https://doi.org/10.1234/abc", "10.1234/abc"},
		{"doi:10.1234/abc", "10.1234/abc"},
		{"  10.1234/abc ", "10.1234/abc"},
	}
	for _, tt := range tests {
		if got := NormalizeDOI(tt.in); got != tt.want {
			t.Errorf("NormalizeDOI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDOIPattern(t *testing.T) {
	text := "Available at https://doi.org/10.1093/molbev/msaa123. Cited often."
	got := doiPattern.FindString(text)
	if got == "" {
		t.Fatal("doiPattern should match a DOI in running text")
	}
	if want := "10.1093/molbev/msaa123."; got != want {
		t.Errorf("doiPattern matched %q, want %q (trailing dot trimmed later)", got, want)
	}
}
