// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/secedgartext/internal/fsutil"
	"github.com/pdiddy/secedgartext/pkg/types"
)

const filingText = `ANNUAL REPORT

PART II

Item 7. Management's Discussion and Analysis

Revenue grew by "ten" percent.
21
Table of Contents

Item 8. Financial Statements

Note 1. Summary of Accounting Policies
We follow GAAP.

Note 2. Revenue
Revenue is recognized over time (see Note 3).

Note 3. Leases
We lease offices.

PART III

Item 9. Changes in and Disagreements With Accountants on Accounting and Financial Disclosure
None.
`

// staticTerms serves one fixed section list for "10-K".
type staticTerms []types.SectionTerms

func (s staticTerms) Sections(formType string) ([]types.SectionTerms, bool) {
	if formType != "10-K" {
		return nil, false
	}
	return s, true
}

func txtSection(name, start, end string) types.SectionTerms {
	return types.SectionTerms{
		ItemName: name,
		Pairs:    map[string][]types.SearchPair{"txt": {{Start: start, End: end}}},
	}
}

var testTerms = staticTerms{
	txtSection("7", `\n\s*Item\s*7\.?\s*Management.{0,5}s\s+Discussion`, `\n\s*Item\s*8\.?\s*Financial`),
	{ItemName: types.NotesSection, Pairs: map[string][]types.SearchPair{"txt": {{Start: `\n\s*Note\s-[\.:\s]`, End: `\n\s*Note\s-[\.:\s]`}}}},
	txtSection("1A", `\n\s*Item\s*1A\.?`, `\n\s*Item\s*2\.?`),
	txtSection("9", `\n\s*Item\s*9\.?\s*Changes`, `\n\s*Item\s*9A`),
}

type recordingPersister struct {
	records []types.Metadata
	err     error
}

func (p *recordingPersister) SaveMetadata(_ context.Context, md types.Metadata) error {
	p.records = append(p.records, md)
	return p.err
}

// steppingClock advances one second on every call.
func steppingClock() func() time.Time {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func testMaster(root string) types.Metadata {
	return types.Metadata{
		CIK:                "0000000001",
		CompanyDescription: "ACME CORP",
		FormType:           "10-K",
		IndexURL:           "https://www.sec.gov/Archives/edgar/data/1/0000000001-26-000001-index.htm",
		OriginalFileName:   "filings/raw/acme.txt",
		BatchNumber:        1,
		FileRoot:           root,
	}
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestGetExcerpt(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "acme")

	// Leftovers from an earlier run whose outcomes have flipped.
	require.NoError(t, os.WriteFile(ExcerptPath(root, "1A"), []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(MetadataPath(root, "1A"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(FailurePath(root, "7"), []byte("{}"), 0o644))

	persister := &recordingPersister{}
	doc := New("acme.txt", filingText, TextVariant{}, Options{
		RemoveShortLines: true,
		Persister:        persister,
		Now:              steppingClock(),
	})

	master := testMaster(root)
	masterCopy := master

	report, err := doc.GetExcerpt(context.Background(), testTerms, "10-K", master)
	require.NoError(t, err)

	var names []string
	for _, s := range report.Sections {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"7", "Note1", "Note2", "Note3", "1A", "9"}, names)
	assert.Equal(t, 4, report.Succeeded())
	assert.Equal(t, 2, report.Failed())

	// Every section has exactly one outcome on disk.
	for _, s := range report.Sections {
		success := fsutil.Exists(ExcerptPath(root, s.Name)) && fsutil.Exists(MetadataPath(root, s.Name))
		failure := fsutil.Exists(FailurePath(root, s.Name))
		assert.NotEqual(t, success, failure, "section %s", s.Name)
		assert.Equal(t, s.Failed, failure, "section %s", s.Name)
		if failure {
			assert.False(t, fsutil.Exists(ExcerptPath(root, s.Name)), "section %s", s.Name)
			assert.False(t, fsutil.Exists(MetadataPath(root, s.Name)), "section %s", s.Name)
		}
	}

	excerpt, err := os.ReadFile(ExcerptPath(root, "7"))
	require.NoError(t, err)
	assert.Equal(t, "Item 7. Management's Discussion and Analysis\n\nRevenue grew by \"ten\" percent.", string(excerpt))

	note3, err := os.ReadFile(ExcerptPath(root, "Note3"))
	require.NoError(t, err)
	assert.Equal(t, "Note 3. Leases\nWe lease offices.", string(note3))

	md := readJSON(t, MetadataPath(root, "7"))
	assert.Equal(t, "7", md["section_name"])
	assert.Equal(t, "txt", md["extraction_method"])
	assert.Equal(t, "0000000001", md["sec_cik"])
	assert.Equal(t, ExcerptPath(root, "7"), md["output_file"])
	assert.Equal(t, MetadataPath(root, "7"), md["metadata_file_name"])
	assert.Equal(t, "search pair 1 of 1", md["extraction_summary"])
	assert.Equal(t, []any{"Item 7. Management's Discussion", "Item 8. Financial"}, md["endpoints"])
	assert.Equal(t, []any{}, md["warnings"])
	assert.EqualValues(t, 11, md["section_n_words"])
	assert.EqualValues(t, 2, md["time_elapsed"], "preparation time is included")
	assert.NotContains(t, md, "failed")
	assert.NotContains(t, md, "file_root")
	_, err = time.Parse("2006-01-02 15:04:05.000000", md["section_end_time"].(string))
	assert.NoError(t, err)

	failure := readJSON(t, FailurePath(root, "9"))
	assert.Equal(t, true, failure["failed"])
	assert.Equal(t, "9", failure["section_name"])
	assert.Equal(t, FailurePath(root, "9"), failure["metadata_file_name"])
	assert.NotContains(t, failure, "output_file")
	require.Len(t, failure["warnings"], 1)
	assert.Contains(t, failure["warnings"].([]any)[0], "no end pattern")

	failure = readJSON(t, FailurePath(root, "1A"))
	assert.Equal(t, []any{}, failure["warnings"], "no anchor found is not a partial match")

	var warnings, debugs []string
	for _, e := range report.Log {
		switch e.Level {
		case types.LevelWarning:
			warnings = append(warnings, e.Message)
		case types.LevelDebug:
			debugs = append(debugs, e.Message)
		}
	}
	assert.Equal(t, []string{
		"No excerpt located for: 1A: " + master.IndexURL,
		"No excerpt located for: 9: " + master.IndexURL,
	}, warnings)
	assert.Len(t, debugs, 4)
	assert.Contains(t, debugs[0], "SUCCESS Saved file for: 7: ")

	require.Len(t, persister.records, 6)
	assert.False(t, persister.records[0].Failed)
	assert.True(t, persister.records[5].Failed)
	assert.Equal(t, "Note2", persister.records[2].SectionName)

	assert.Equal(t, masterCopy, master, "master metadata must not change")
}

func TestGetExcerpt_KeepsShortLinesWhenDisabled(t *testing.T) {
	root := filepath.Join(t.TempDir(), "acme")
	doc := New("acme.txt", filingText, TextVariant{}, Options{})

	_, err := doc.GetExcerpt(context.Background(), testTerms[:1], "10-K", testMaster(root))
	require.NoError(t, err)

	excerpt, err := os.ReadFile(ExcerptPath(root, "7"))
	require.NoError(t, err)
	assert.Equal(t, "Item 7. Management's Discussion and Analysis\n\nRevenue grew by \"ten\" percent.\n21\nTable of Contents", string(excerpt))
}

func TestGetExcerpt_NoNotes(t *testing.T) {
	root := filepath.Join(t.TempDir(), "acme")
	text := "PART II\n\nItem 7. Management's Discussion\nBody.\n\nItem 8. Financial Statements\n"
	doc := New("acme.txt", text, TextVariant{}, Options{})

	report, err := doc.GetExcerpt(context.Background(), testTerms, "10-K", testMaster(root))
	require.NoError(t, err)
	require.Len(t, report.Sections, 3)
	assert.Equal(t, 1, report.Succeeded())

	matches, err := filepath.Glob(root + "_Note*")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestGetExcerpt_PersisterErrorIsLogged(t *testing.T) {
	root := filepath.Join(t.TempDir(), "acme")
	persister := &recordingPersister{err: errors.New("database is locked")}
	doc := New("acme.txt", filingText, TextVariant{}, Options{Persister: persister})

	report, err := doc.GetExcerpt(context.Background(), testTerms[:1], "10-K", testMaster(root))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded())
	assert.True(t, fsutil.Exists(ExcerptPath(root, "7")))

	var found bool
	for _, e := range report.Log {
		if e.Level == types.LevelWarning && e.Message == "failed to persist metadata for 7: database is locked" {
			found = true
		}
	}
	assert.True(t, found, "log: %v", report.Log)
}

func TestGetExcerpt_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("unknown form type", func(t *testing.T) {
		doc := New("acme.txt", filingText, TextVariant{}, Options{})
		_, err := doc.GetExcerpt(context.Background(), testTerms, "S-1", testMaster(filepath.Join(dir, "acme")))
		assert.ErrorContains(t, err, `"S-1"`)
	})

	t.Run("missing file root", func(t *testing.T) {
		doc := New("acme.txt", filingText, TextVariant{}, Options{})
		_, err := doc.GetExcerpt(context.Background(), testTerms, "10-K", testMaster(""))
		assert.Error(t, err)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		doc := New("acme.txt", filingText, TextVariant{}, Options{})
		report, err := doc.GetExcerpt(ctx, testTerms, "10-K", testMaster(filepath.Join(dir, "acme")))
		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, report.Sections)
	})

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is written when the run cannot start")
}

func TestPrepare_RunsOnce(t *testing.T) {
	v := &countingVariant{}
	doc := New("acme.txt", "raw", v, Options{Now: steppingClock()})

	first := doc.Prepare()
	second := doc.Prepare()
	assert.Equal(t, time.Second, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, v.calls)
	assert.Equal(t, "RAW", doc.Text())
}

func TestPrepare_FallsBackToRawText(t *testing.T) {
	doc := New("acme.htm", "raw body", failingVariant{}, Options{})
	doc.Prepare()

	assert.Equal(t, "raw body", doc.Text())
	log := doc.Log()
	require.Len(t, log, 1)
	assert.Equal(t, types.LevelWarning, log[0].Level)
}

func TestNormalizeQuotes(t *testing.T) {
	assert.Equal(t, `He said 'hi' 'there'`, normalizeQuotes("He said \"hi\" “there”"))
	assert.Equal(t, "plain", normalizeQuotes("plain"))
}

type countingVariant struct{ calls int }

func (v *countingVariant) Name() string            { return "txt" }
func (v *countingVariant) SearchTermsType() string { return "txt" }
func (v *countingVariant) PrepareText(raw string) (string, error) {
	v.calls++
	return "RAW", nil
}

type failingVariant struct{}

func (failingVariant) Name() string            { return "html" }
func (failingVariant) SearchTermsType() string { return "html" }
func (failingVariant) PrepareText(string) (string, error) {
	return "", errors.New("malformed markup")
}
