// Package pubtype ranks and labels BibTeX entry types for display grouping
// on a publications page.
package pubtype

import "strings"

// FallbackRank is assigned to entry types outside the known table, so that
// unrecognized types always sort after all known ones.
const FallbackRank = 100

// Class is the display rank and section heading for one entry type.
type Class struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
}

// classes ranks the standard BibTeX entry types. Ranks are distinct per type.
var classes = map[string]Class{
	"book":          {0, "Book"},
	"incollection":  {1, "Book in a Collection"},
	"booklet":       {2, "Booklet"},
	"proceedings":   {3, "Proceedings"},
	"inbook":        {4, "Chapter in a Book"},
	"article":       {5, "Journal Articles"},
	"inproceedings": {6, "Papers"},
	"conference":    {7, "Papers"},
	"phdthesis":     {8, "PhD Thesis"},
	"mastersthesis": {9, "Master Thesis"},
	"techreport":    {10, "Technical Report"},
	"manual":        {11, "Manual"},
	"misc":          {12, "Other Publications"},
	"unpublished":   {13, "Unpublished"},
}

// Classify returns the display class for an entry type tag. Unknown tags get
// FallbackRank with the tag itself as the label, so every entry is
// classifiable.
func Classify(tag string) Class {
	if c, ok := classes[strings.ToLower(tag)]; ok {
		return c
	}
	return Class{Rank: FallbackRank, Label: tag}
}
