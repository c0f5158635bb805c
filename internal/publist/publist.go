// Package publist builds the formatted publications list a site's templates
// render. It subscribes to the generator's init signal, reads the configured
// BibTeX file through the external parser, and publishes one record per
// entry into the shared build context.
package publist

import (
	"log/slog"

	"github.com/fleury/bibsite/internal/bib"
	"github.com/fleury/bibsite/internal/citation"
	"github.com/fleury/bibsite/internal/generator"
	"github.com/fleury/bibsite/internal/pubtype"
)

const (
	// SourceKey is the settings key naming the BibTeX source file.
	// Absence of the key disables the plugin for the run.
	SourceKey = "PUBLICATIONS_SRC"

	// ContextKey is the build-context key the publications list is
	// published under, replacing any prior value.
	ContextKey = "publications"
)

// Record is one formatted publication. Every key is always present; optional
// BibTeX fields default to the empty string.
type Record struct {
	BibTeX     string        `json:"bibtex"`
	DOI        string        `json:"doi"`
	Entry      pubtype.Class `json:"entry"`
	Key        string        `json:"key"`
	PDF        string        `json:"pdf"`
	Poster     string        `json:"poster"`
	Slides     string        `json:"slides"`
	Text       string        `json:"text"`
	URL        string        `json:"url"`
	Note       string        `json:"note"`
	Year       string        `json:"year"`
	Authorizer string        `json:"authorizer"`
}

// Builder converts a bibliography file into publication records.
type Builder struct {
	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for skip warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a Builder. Without options it logs through
// slog.Default().
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Register subscribes the builder to the generator's init signal, so that
// AddPublications runs once per generation pass.
func (b *Builder) Register(gen *generator.Generator) {
	gen.ConnectInit(b.AddPublications)
}

// Register subscribes a default Builder to the generator's init signal.
func Register(gen *generator.Generator) {
	NewBuilder().Register(gen)
}

// AddPublications populates the build context with the publications list.
//
// If SourceKey is not configured the call is a no-op. If the source file
// cannot be parsed, a warning naming the path is logged and the context is
// left untouched; partial lists are never published.
func (b *Builder) AddPublications(gen *generator.Generator) {
	src, ok := gen.Setting(SourceKey)
	if !ok {
		return
	}

	entries, err := bib.ParseFile(src)
	if err != nil {
		b.logger.Warn("failed to parse publications source", "path", src, "error", err)
		return
	}

	gen.Context[ContextKey] = Build(entries)
}

// Build converts parsed entries into records, in the order given. Records
// are not sorted here; the entry class carries the rank templates group by.
func Build(entries []bib.Entry) []Record {
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, buildRecord(e))
	}
	return records
}

func buildRecord(e bib.Entry) Record {
	text := citation.StripBraces(citation.Render(e))

	return Record{
		BibTeX:     bib.Serialize(e),
		DOI:        e.Field("doi"),
		Entry:      pubtype.Classify(e.Type),
		Key:        e.Key,
		PDF:        e.Field("pdf"),
		Poster:     e.Field("poster"),
		Slides:     e.Field("slides"),
		Text:       text,
		URL:        e.Field("url"),
		Note:       e.Field("note"),
		Year:       e.Field("year"),
		Authorizer: e.Field("authorizer"),
	}
}
