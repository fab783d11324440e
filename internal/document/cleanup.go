// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"regexp"
	"strings"
)

// TableRemovedPlaceholder stands in for a table removed during text
// preparation.
const TableRemovedPlaceholder = "[DATA_TABLE_REMOVED]"

var (
	tableRemovedRe = regexp.MustCompile(regexp.QuoteMeta(TableRemovedPlaceholder))

	// shortLinePatterns match whole lines of layout noise: page numbers,
	// table placeholders, and repeated "Table of Contents" links.
	shortLinePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*([0-9]+\s*)+$`),
		regexp.MustCompile(`(?m)^\s*(\[DATA_TABLE_REMOVED\]+\s*)+$`),
		regexp.MustCompile(`(?m)^\s*(Table of Contents+\s*)+$`),
	}

	excessNewlinesRe = regexp.MustCompile(`\n{3,}`)
)

// CountTablesRemoved returns the number of table placeholders in text.
func CountTablesRemoved(text string) int {
	return len(tableRemovedRe.FindAllStringIndex(text, -1))
}

// RemoveShortLines strips noise lines from an excerpt, collapses runs of
// blank lines to one, and trims the result. It also returns the number of
// table placeholders counted before cleanup. Lines that carry other text
// next to a number or placeholder are kept as they are.
func RemoveShortLines(text string) (string, int) {
	tables := CountTablesRemoved(text)
	for _, re := range shortLinePatterns {
		text = re.ReplaceAllString(text, "")
	}
	text = excessNewlinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text), tables
}
