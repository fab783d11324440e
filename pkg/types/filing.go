// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the secedgartext pipeline:
// filing metadata records, search-term specifications, run log entries and
// stage configuration.
package types

import "slices"

// Metadata describes one filing and, once derived for a section, the
// outcome of extracting that section. A master record is built per filing
// and never modified; each section works on a copy from Derive.
type Metadata struct {
	// CIK is the SEC Central Index Key of the filer.
	CIK string `json:"sec_cik" yaml:"sec_cik"`

	// CompanyDescription is the filer's conformed name.
	CompanyDescription string `json:"company_description" yaml:"company_description"`

	// FormType is the filing's form header (e.g. "10-K").
	FormType string `json:"sec_form_header" yaml:"sec_form_header"`

	// PeriodOfReport is the reporting period end date.
	PeriodOfReport string `json:"sec_period_of_report" yaml:"sec_period_of_report"`

	// FilingDate is the date the filing was accepted.
	FilingDate string `json:"sec_filing_date" yaml:"sec_filing_date"`

	// IndexURL is the EDGAR filing index page.
	IndexURL string `json:"sec_index_url" yaml:"sec_index_url"`

	// DocumentURL is the EDGAR URL of the filing body.
	DocumentURL string `json:"sec_url" yaml:"sec_url"`

	// OriginalFileName is the local path of the filing body.
	OriginalFileName string `json:"original_file_name" yaml:"original_file_name"`

	// OriginalFileSize is the size in bytes of the filing body.
	OriginalFileSize int64 `json:"original_file_size" yaml:"original_file_size"`

	// DocumentGroup labels the set of filings a run belongs to.
	DocumentGroup string `json:"document_group,omitempty" yaml:"document_group,omitempty"`

	BatchNumber    int    `json:"batch_number" yaml:"batch_number"`
	BatchSignature string `json:"batch_signature,omitempty" yaml:"batch_signature,omitempty"`
	BatchStartTime string `json:"batch_start_time,omitempty" yaml:"batch_start_time,omitempty"`

	// FileRoot is the path prefix for this filing's output files. Section
	// outputs are written to FileRoot_<Section>_excerpt.txt and friends.
	FileRoot string `json:"-" yaml:"file_root,omitempty"`

	// MetadataFileName is the path of the metadata file this record was
	// written to.
	MetadataFileName string `json:"metadata_file_name" yaml:"metadata_file_name"`

	// ExtractionMethod is the document variant used (txt or html).
	ExtractionMethod string `json:"extraction_method" yaml:"extraction_method"`

	SectionName string `json:"section_name" yaml:"section_name"`

	// Endpoints holds the literal start and end anchor text that delimited
	// the excerpt.
	Endpoints []string `json:"endpoints" yaml:"endpoints"`

	// ExtractionSummary names the search pair that produced the excerpt.
	ExtractionSummary string `json:"extraction_summary,omitempty" yaml:"extraction_summary,omitempty"`

	Warnings []string `json:"warnings" yaml:"warnings"`

	// TimeElapsed is the processing time in seconds, rounded to 0.1s. It
	// includes the whole document preparation time.
	TimeElapsed float64 `json:"time_elapsed" yaml:"time_elapsed"`

	SectionEndTime string `json:"section_end_time" yaml:"section_end_time"`

	SectionNCharacters   int `json:"section_n_characters,omitempty" yaml:"section_n_characters,omitempty"`
	SectionNWords        int `json:"section_n_words,omitempty" yaml:"section_n_words,omitempty"`
	SectionNTableRemoved int `json:"section_n_table_removed,omitempty" yaml:"section_n_table_removed,omitempty"`

	// OutputFile is the excerpt path. Empty on failure records.
	OutputFile string `json:"output_file,omitempty" yaml:"output_file,omitempty"`

	// Failed marks a failure record.
	Failed bool `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// SectionOverrides are the per-section fields applied by Derive.
type SectionOverrides struct {
	SectionName       string
	ExtractionMethod  string
	ExtractionSummary string
	Endpoints         []string
	Warnings          []string
	TimeElapsed       float64
	SectionEndTime    string
}

// Derive returns a copy of m with the section overrides applied. Slices
// are cloned so that no two derived records share backing storage.
func (m Metadata) Derive(o SectionOverrides) Metadata {
	d := m
	d.Endpoints = slices.Clone(o.Endpoints)
	d.Warnings = slices.Clone(o.Warnings)
	if d.Warnings == nil {
		d.Warnings = []string{}
	}
	d.SectionName = o.SectionName
	d.ExtractionSummary = o.ExtractionSummary
	d.TimeElapsed = o.TimeElapsed
	d.SectionEndTime = o.SectionEndTime
	if o.ExtractionMethod != "" {
		d.ExtractionMethod = o.ExtractionMethod
	}
	return d
}

// LogLevel is the severity of a LogEntry.
type LogLevel string

const (
	LevelDebug   LogLevel = "DEBUG"
	LevelInfo    LogLevel = "INFO"
	LevelWarning LogLevel = "WARNING"
	LevelError   LogLevel = "ERROR"
)

// LogEntry is one message produced while processing a document. Documents
// accumulate entries and hand them back to the caller instead of logging
// directly.
type LogEntry struct {
	Level   LogLevel `json:"level" yaml:"level"`
	Message string   `json:"message" yaml:"message"`
}
