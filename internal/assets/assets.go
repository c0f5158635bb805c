// Package assets verifies the local files publication records point at:
// pdf, slides, and poster paths, plus a best-effort cross-check of the DOI
// embedded in each local PDF against the entry's doi field.
package assets

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/fleury/bibsite/internal/linkcheck"
	"github.com/fleury/bibsite/internal/publist"
)

// Issue is one problem found while checking a record's assets.
type Issue struct {
	Type string `json:"type"` // missing_file, doi_mismatch
	Key  string `json:"key"`
	Path string `json:"path,omitempty"`
	Want string `json:"want,omitempty"` // expected DOI for doi_mismatch
	Got  string `json:"got,omitempty"`  // DOI found in the PDF
}

// Check verifies local asset paths for all records, resolving them against
// root. Remote links are skipped; the link checker owns those.
func Check(root string, records []publist.Record) []Issue {
	var issues []Issue

	for _, r := range records {
		for _, path := range []string{r.PDF, r.Slides, r.Poster} {
			if path == "" || linkcheck.IsRemote(path) {
				continue
			}

			full := filepath.Join(root, path)
			if _, err := os.Stat(full); os.IsNotExist(err) {
				issues = append(issues, Issue{Type: "missing_file", Key: r.Key, Path: path})
				continue
			}

			if path == r.PDF && r.DOI != "" {
				issues = append(issues, checkDOI(r, full)...)
			}
		}
	}

	return issues
}

// checkDOI compares the DOI embedded in a local PDF with the record's doi
// field. Extraction failures are silently skipped: a scanned or image-only
// PDF is not an issue.
func checkDOI(r publist.Record, pdfPath string) []Issue {
	found, err := ExtractDOI(pdfPath)
	if err != nil || found == "" {
		return nil
	}
	if NormalizeDOI(found) != NormalizeDOI(r.DOI) {
		return []Issue{{
			Type: "doi_mismatch",
			Key:  r.Key,
			Path: pdfPath,
			Want: r.DOI,
			Got:  found,
		}}
	}
	return nil
}

// doiPattern matches DOIs: 10.XXXX/... with 4+ registrant digits.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// ExtractDOI extracts a DOI from a PDF file, searching the first few pages
// (the DOI is usually on the first).
func ExtractDOI(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	maxPages := 3
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if m := doiPattern.FindString(text); m != "" {
			// Trailing punctuation is usually sentence context, not DOI
			return strings.TrimRight(m, ".,;"), nil
		}
	}

	return "", nil // no DOI found, not an error
}

// NormalizeDOI strips resolver prefixes and lowercases a DOI for comparison.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.ToLower(doi)
}
