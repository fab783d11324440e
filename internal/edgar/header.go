// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package edgar

import (
	"bufio"
	"strings"

	"github.com/pdiddy/secedgartext/pkg/types"
)

// headerFields maps SEC-HEADER labels to the metadata fields they fill.
var headerFields = map[string]func(*types.Metadata, string){
	"CONFORMED SUBMISSION TYPE":  func(m *types.Metadata, v string) { m.FormType = v },
	"COMPANY CONFORMED NAME":     func(m *types.Metadata, v string) { m.CompanyDescription = v },
	"CENTRAL INDEX KEY":          func(m *types.Metadata, v string) { m.CIK = v },
	"CONFORMED PERIOD OF REPORT": func(m *types.Metadata, v string) { m.PeriodOfReport = v },
	"FILED AS OF DATE":           func(m *types.Metadata, v string) { m.FilingDate = v },
}

// ParseHeader reads the SEC-HEADER block at the top of a full-text
// submission and returns the filing identity it declares. Only the first
// occurrence of each field counts, so filer data wins over later
// subject-company or filed-by blocks. Text without a header yields a zero
// Metadata.
func ParseHeader(text string) types.Metadata {
	var md types.Metadata
	seen := make(map[string]bool, len(headerFields))

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	inHeader := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "<SEC-HEADER>"):
			inHeader = true
			continue
		case strings.HasPrefix(line, "</SEC-HEADER>"):
			return md
		}
		if !inHeader {
			continue
		}

		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		label = strings.TrimSpace(label)
		set, known := headerFields[label]
		if !known || seen[label] {
			continue
		}
		seen[label] = true
		set(&md, strings.TrimSpace(value))
	}
	return md
}
