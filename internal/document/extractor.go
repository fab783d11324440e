// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"fmt"
	"strings"

	"github.com/pdiddy/secedgartext/internal/patterncache"
	"github.com/pdiddy/secedgartext/pkg/types"
)

// SectionResult is the outcome of searching for one section.
type SectionResult struct {
	// Text is the extracted span, empty when no candidate pair matched.
	Text string

	// Summary names the pair that produced Text.
	Summary string

	// StartText and EndText are the literal anchors that delimited Text.
	StartText string
	EndText   string

	// Warnings describe partial matches and unusable patterns, in the
	// order the candidate pairs were tried.
	Warnings []string
}

// ExtractSection searches text with the candidate pairs in order and
// returns the span of the first pair that matches in full. For one pair,
// every start match is paired with the nearest end match after it and the
// longest resulting span wins, which passes over table-of-contents lines
// that repeat the headings. The span starts at the start anchor and stops
// before the end anchor.
func ExtractSection(text string, pairs []types.SearchPair, cache *patterncache.Cache) SectionResult {
	if cache == nil {
		cache = patterncache.Default
	}
	var res SectionResult
	if len(pairs) == 0 {
		res.Warnings = append(res.Warnings, "no search pairs defined for this document type")
		return res
	}

	for idx, pair := range pairs {
		label := fmt.Sprintf("search pair %d of %d", idx+1, len(pairs))

		startRe, err := cache.Compile(pair.Start)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", label, err))
			continue
		}
		endRe, err := cache.Compile(pair.End)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", label, err))
			continue
		}

		starts := startRe.FindAllStringIndex(text, -1)
		if len(starts) == 0 {
			if endRe.MatchString(text) {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("%s: end pattern %q found but start pattern %q not found", label, pair.End, pair.Start))
			}
			continue
		}

		var best []int // start-anchor begin, start-anchor end, end-anchor begin, end-anchor end
		for _, s := range starts {
			loc := endRe.FindStringIndex(text[s[1]:])
			if loc == nil {
				continue
			}
			end := s[1] + loc[0]
			if best == nil || end-s[0] > best[2]-best[0] {
				best = []int{s[0], s[1], end, s[1] + loc[1]}
			}
		}
		if best == nil {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%s: start pattern %q found but no end pattern %q after it", label, pair.Start, pair.End))
			continue
		}

		excerpt := strings.TrimSpace(text[best[0]:best[2]])
		if excerpt == "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: anchors matched an empty span", label))
			continue
		}

		res.Text = excerpt
		res.Summary = label
		res.StartText = strings.TrimSpace(text[best[0]:best[1]])
		res.EndText = strings.TrimSpace(text[best[2]:best[3]])
		return res
	}
	return res
}
