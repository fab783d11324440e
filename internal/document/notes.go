// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/secedgartext/pkg/types"
)

// NotesTrailingAnchor ends the last note section: the heading of Item 9,
// "Changes in and Disagreements With Accountants", optionally preceded by
// a PART label.
const NotesTrailingAnchor = `\n\s*(?:PART.{0,40})?Item\s*9.{0,10}Changes\s+in\s+and\s+Disagreements\s+With.{0,99}?\n`

var noteRefRe = regexp.MustCompile(`(?is)Note\s(\d+)`)

// MaxNoteNumber returns the highest n among "Note n" references in text,
// or 0 if there are none. References whose number cannot be converted are
// skipped and described in the returned diagnostics.
func MaxNoteNumber(text string) (int, []string) {
	maxN := 0
	var diags []string
	for _, m := range noteRefRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			diags = append(diags, fmt.Sprintf("failed to get note number with %q: %v", m[0], err))
			continue
		}
		if n > maxN {
			maxN = n
		}
	}
	return maxN, diags
}

// TransformNotePairs instantiates the Notes template pairs for note i of
// maxN. The start placeholder becomes i and the end placeholder i+1; the
// last note ends at NotesTrailingAnchor instead. pairs is not modified.
func TransformNotePairs(i, maxN int, pairs []types.SearchPair) []types.SearchPair {
	out := make([]types.SearchPair, len(pairs))
	for k, p := range pairs {
		out[k].Start = strings.ReplaceAll(p.Start, types.NotePlaceholder, strconv.Itoa(i))
		if i != maxN {
			out[k].End = strings.ReplaceAll(p.End, types.NotePlaceholder, strconv.Itoa(i+1))
		} else {
			out[k].End = NotesTrailingAnchor
		}
	}
	return out
}

// ExpandSections replaces the Notes template with Note1..NoteN, keeping
// every other section as is and in order. noteCount is called only when
// the template is present. Only the kind pair list is instantiated; the
// template itself is left untouched.
func ExpandSections(sections []types.SectionTerms, kind string, noteCount func() int) []types.SectionTerms {
	out := make([]types.SectionTerms, 0, len(sections))
	for _, sec := range sections {
		if sec.ItemName != types.NotesSection {
			out = append(out, sec)
			continue
		}
		maxN := noteCount()
		template := sec.PairsFor(kind)
		for i := 1; i <= maxN; i++ {
			out = append(out, sec.With(fmt.Sprintf("Note%d", i), kind, TransformNotePairs(i, maxN, template)))
		}
	}
	return out
}
