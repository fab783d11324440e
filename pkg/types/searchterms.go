// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "maps"

// NotesSection is the item name of the template section that expands into
// Note1..NoteN.
const NotesSection = "Notes"

// NotePlaceholder marks where the note number goes in a Notes template
// pattern. Every occurrence is replaced, so template patterns must not use
// a literal hyphen elsewhere.
const NotePlaceholder = "-"

// SearchPair is one candidate (start, end) pattern pair delimiting a section.
type SearchPair struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// SectionTerms lists the candidate search pairs for one section, keyed by
// the pattern dialect of each document variant ("txt", "html").
type SectionTerms struct {
	// ItemName is the section name used in output paths (e.g. "1A", "7").
	ItemName string `json:"itemname" yaml:"itemname"`

	// Pairs maps a variant's search-terms type to its ordered candidates.
	Pairs map[string][]SearchPair `json:"-" yaml:",inline"`
}

// PairsFor returns the candidates for the given search-terms type.
func (s SectionTerms) PairsFor(kind string) []SearchPair {
	return s.Pairs[kind]
}

// With returns a copy of s named name whose kind candidates are replaced by
// pairs. The receiver's map is not modified.
func (s SectionTerms) With(name, kind string, pairs []SearchPair) SectionTerms {
	out := SectionTerms{ItemName: name, Pairs: maps.Clone(s.Pairs)}
	if out.Pairs == nil {
		out.Pairs = make(map[string][]SearchPair, 1)
	}
	out.Pairs[kind] = pairs
	return out
}
