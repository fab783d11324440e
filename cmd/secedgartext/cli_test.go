// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/secedgartext/pkg/types"
)

func TestPipelineConfig_Defaults(t *testing.T) {
	cfg := pipelineConfig()
	want := types.DefaultPipelineConfig()

	assert.Equal(t, want.Extraction, cfg.Extraction)
	assert.Equal(t, want.Store, cfg.Store)
	assert.Equal(t, 60*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, want.Fetch.RequestsPerSecond, cfg.Fetch.RequestsPerSecond)
}

func TestPipelineConfig_Env(t *testing.T) {
	t.Setenv("SECEDGARTEXT_EXTRACTION_FORM_TYPE", "10-Q")
	t.Setenv("SECEDGARTEXT_FETCH_USER_AGENT", "Example Corp admin@example.com")
	initConfig()

	cfg := pipelineConfig()
	assert.Equal(t, "10-Q", cfg.Extraction.FormType)
	assert.Equal(t, "Example Corp admin@example.com", cfg.Fetch.UserAgent)
}

func TestReadURLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := "# 2024 annual reports\nhttps://www.sec.gov/a.txt\n\n  https://www.sec.gov/b.htm  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	urls, err := readURLFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://www.sec.gov/a.txt", "https://www.sec.gov/b.htm"}, urls)

	_, err = readURLFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestFormatListOutput(t *testing.T) {
	records := []types.Metadata{
		{CIK: "0000320193", FormType: "10-K", SectionName: "7", SectionNWords: 4210, OriginalFileName: "filings/raw/aapl.txt"},
		{CIK: "0000320193", FormType: "10-K", SectionName: "9", Failed: true, OriginalFileName: "filings/raw/aapl.txt"},
	}

	var table bytes.Buffer
	require.NoError(t, formatListOutput(&table, records, false))
	assert.Contains(t, table.String(), "missing")
	assert.Contains(t, table.String(), "4210")
	assert.Contains(t, table.String(), "2 records")

	var empty bytes.Buffer
	require.NoError(t, formatListOutput(&empty, nil, false))
	assert.Equal(t, "No records found.\n", empty.String())

	var js bytes.Buffer
	require.NoError(t, formatListOutput(&js, records, true))
	assert.Contains(t, js.String(), `"section_name": "9"`)
}
