// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveShortLines(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       string
		wantTables int
	}{
		{
			name:  "table of contents, page number and blank lines",
			input: "Table of Contents\n\n\n\nBody text\n42\n",
			want:  "Body text",
		},
		{
			name:  "digit-only line between paragraphs",
			input: "Intro\n42\nMore",
			want:  "Intro\n\nMore",
		},
		{
			name:       "placeholder-only line",
			input:      "A\n[DATA_TABLE_REMOVED] [DATA_TABLE_REMOVED]\nB",
			want:       "A\n\nB",
			wantTables: 2,
		},
		{
			name:  "page reference inside a sentence is kept",
			input: "Page 42 of the Annual Report",
			want:  "Page 42 of the Annual Report",
		},
		{
			name:       "placeholder alongside text is kept",
			input:      "See [DATA_TABLE_REMOVED] above\n12\nEnd",
			want:       "See [DATA_TABLE_REMOVED] above\n\nEnd",
			wantTables: 1,
		},
		{
			name:  "runs of blank lines collapse to one",
			input: "A\n\n\n\n\nB",
			want:  "A\n\nB",
		},
		{
			name:  "repeated table of contents links",
			input: "Revenue\n  17  \n\nTable of Contents Table of Contents\nNext para",
			want:  "Revenue\n\nNext para",
		},
		{
			name:  "single line breaks are preserved",
			input: "line one\nline two",
			want:  "line one\nline two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, tables := RemoveShortLines(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantTables, tables)
		})
	}
}

func TestCountTablesRemoved(t *testing.T) {
	assert.Equal(t, 0, CountTablesRemoved("no tables here"))
	assert.Equal(t, 3, CountTablesRemoved("[DATA_TABLE_REMOVED]\ntext [DATA_TABLE_REMOVED][DATA_TABLE_REMOVED]"))
}
