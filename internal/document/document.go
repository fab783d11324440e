// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document extracts named sections from one filing body.
//
// A Document owns the raw text of a filing and a Variant that knows how to
// normalize it. GetExcerpt expands the form type's search terms (turning
// the Notes template into one section per discovered note), searches the
// prepared text for each section, and writes either an excerpt with its
// metadata or a failure record. Every section yields exactly one of the
// two; a section that cannot be found never stops the ones after it.
package document

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pdiddy/secedgartext/internal/patterncache"
	"github.com/pdiddy/secedgartext/pkg/types"
)

// TermSource provides the ordered sections to extract for a form type.
type TermSource interface {
	Sections(formType string) ([]types.SectionTerms, bool)
}

// Persister stores a metadata record outside the filesystem.
type Persister interface {
	SaveMetadata(ctx context.Context, md types.Metadata) error
}

// Options configure a Document.
type Options struct {
	// RemoveShortLines strips page numbers, table placeholders and
	// table-of-contents lines from excerpts.
	RemoveShortLines bool

	// Persister, when set, receives every success and failure record.
	Persister Persister

	// Cache compiles search patterns. Defaults to patterncache.Default.
	Cache *patterncache.Cache

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Document is a single filing body and the log of its extraction run.
// A Document is not safe for concurrent use; process different filings in
// different Documents.
type Document struct {
	path    string
	raw     string
	variant Variant
	opts    Options

	prepared bool
	text     string
	prepTime time.Duration

	logCache []types.LogEntry
}

// New creates a Document for the filing at path with body text.
func New(path, text string, variant Variant, opts Options) *Document {
	if opts.Cache == nil {
		opts.Cache = patterncache.Default
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Document{
		path:    path,
		raw:     text,
		variant: variant,
		opts:    opts,
	}
}

// Path returns the filing's source path.
func (d *Document) Path() string { return d.path }

// Variant returns the document variant.
func (d *Document) Variant() Variant { return d.variant }

// Log returns a copy of the entries logged so far.
func (d *Document) Log() []types.LogEntry {
	out := make([]types.LogEntry, len(d.logCache))
	copy(out, d.logCache)
	return out
}

// Text returns the prepared text once Prepare has run, and the raw body
// before that.
func (d *Document) Text() string {
	if d.prepared {
		return d.text
	}
	return d.raw
}

// Prepare normalizes the raw body through the variant. It runs once; later
// calls return the time spent by the first. If the variant fails, the raw
// body is searched as is and a warning is logged.
func (d *Document) Prepare() time.Duration {
	if d.prepared {
		return d.prepTime
	}
	start := d.opts.Now()
	text, err := d.variant.PrepareText(d.raw)
	if err != nil {
		d.logf(types.LevelWarning, "preparing %s as %s failed, searching raw text: %v", d.path, d.variant.Name(), err)
		text = d.raw
	}
	d.text = text
	d.prepared = true
	d.prepTime = d.opts.Now().Sub(start)
	return d.prepTime
}

// NoteCount returns the highest note number referenced in the document
// text. Unparseable references are logged and skipped.
func (d *Document) NoteCount() int {
	n, diags := MaxNoteNumber(d.Text())
	for _, msg := range diags {
		d.logf(types.LevelDebug, "%s: %s", d.path, msg)
	}
	return n
}

// SectionOutcome records what was written for one section.
type SectionOutcome struct {
	Name string

	// Failed is true when a failure record was written instead of an
	// excerpt.
	Failed bool

	// ExcerptPath is empty for failures.
	ExcerptPath  string
	MetadataPath string
}

// Report is the result of GetExcerpt.
type Report struct {
	// Log holds the document's entries in the order they were produced.
	Log      []types.LogEntry
	Sections []SectionOutcome
}

// Succeeded returns the number of sections written as excerpts.
func (r Report) Succeeded() int {
	n := 0
	for _, s := range r.Sections {
		if !s.Failed {
			n++
		}
	}
	return n
}

// Failed returns the number of sections written as failure records.
func (r Report) Failed() int {
	return len(r.Sections) - r.Succeeded()
}

// GetExcerpt extracts every section terms defines for formType and writes
// the outputs under master.FileRoot. Each section's metadata is derived
// from master, which is never modified. The preparation time is added in
// full to every section's time_elapsed.
//
// An error is returned only when the run cannot start (unknown form type,
// missing FileRoot) or ctx is cancelled between sections; per-section
// problems are reported through the log and the metadata records.
func (d *Document) GetExcerpt(ctx context.Context, terms TermSource, formType string, master types.Metadata) (Report, error) {
	var report Report
	if master.FileRoot == "" {
		return report, fmt.Errorf("metadata for %s has no output file root", d.path)
	}
	sections, ok := terms.Sections(formType)
	if !ok {
		return report, fmt.Errorf("no search terms for form type %q", formType)
	}

	prepTime := d.Prepare()
	kind := d.variant.SearchTermsType()
	expanded := ExpandSections(sections, kind, d.NoteCount)

	for _, sec := range expanded {
		if err := ctx.Err(); err != nil {
			report.Log = d.Log()
			return report, err
		}

		start := d.opts.Now()
		res := ExtractSection(d.text, sec.PairsFor(kind), d.opts.Cache)
		elapsed := d.opts.Now().Sub(start)

		md := master.Derive(types.SectionOverrides{
			SectionName:       sec.ItemName,
			ExtractionMethod:  d.variant.Name(),
			ExtractionSummary: res.Summary,
			Endpoints:         []string{normalizeQuotes(res.StartText), normalizeQuotes(res.EndText)},
			Warnings:          res.Warnings,
			TimeElapsed:       roundTenth((prepTime + elapsed).Seconds()),
			SectionEndTime:    d.opts.Now().UTC().Format("2006-01-02 15:04:05.000000"),
		})

		paths := newSectionPaths(master.FileRoot, sec.ItemName)
		var outcome SectionOutcome
		if res.Text != "" {
			outcome = d.saveSuccess(ctx, md, res.Text, paths)
		} else {
			outcome = d.saveFailure(ctx, md, paths)
		}
		report.Sections = append(report.Sections, outcome)
	}

	report.Log = d.Log()
	return report, nil
}

func (d *Document) logf(level types.LogLevel, format string, args ...any) {
	d.logCache = append(d.logCache, types.LogEntry{Level: level, Message: fmt.Sprintf(format, args...)})
}

var quoteReplacer = strings.NewReplacer(`"`, `'`, "“", `'`, "”", `'`)

// normalizeQuotes turns double quotes into single quotes so anchors embed
// cleanly in downstream CSV and SQL exports.
func normalizeQuotes(s string) string {
	return quoteReplacer.Replace(s)
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
