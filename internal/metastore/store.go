// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metastore persists section metadata records in SQLite so that
// extraction runs can be queried across filings.
package metastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/secedgartext/pkg/types"
)

// Store manages the metadata SQLite database. It is safe for concurrent
// use; writes are serialized by SQLite.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the database at cfg.Path and creates the
// schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("metadata store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps concurrent workers from racing for the
	// write lock.
	db.SetMaxOpenConns(1)

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sections (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			original_file_name TEXT NOT NULL,
			section_name TEXT NOT NULL,
			sec_cik TEXT,
			company_description TEXT,
			form_type TEXT,
			period_of_report TEXT,
			filing_date TEXT,
			index_url TEXT,
			document_url TEXT,
			document_group TEXT,
			batch_number INTEGER,
			extraction_method TEXT,
			extraction_summary TEXT,
			endpoints TEXT,
			warnings TEXT,
			time_elapsed REAL,
			section_end_time TEXT,
			n_characters INTEGER,
			n_words INTEGER,
			n_tables_removed INTEGER,
			output_file TEXT,
			metadata_file_name TEXT,
			failed INTEGER NOT NULL DEFAULT 0,
			UNIQUE(original_file_name, section_name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sections_cik ON sections(sec_cik)`,
		`CREATE INDEX IF NOT EXISTS idx_sections_form ON sections(form_type, section_name)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveMetadata upserts one section record. A later run for the same
// filing and section replaces the earlier row, so a section that flips
// from failure to success keeps a single record.
func (s *Store) SaveMetadata(ctx context.Context, md types.Metadata) error {
	endpointsJSON, err := json.Marshal(md.Endpoints)
	if err != nil {
		return fmt.Errorf("encoding endpoints: %w", err)
	}
	warningsJSON, err := json.Marshal(md.Warnings)
	if err != nil {
		return fmt.Errorf("encoding warnings: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sections (
			original_file_name, section_name, sec_cik, company_description, form_type,
			period_of_report, filing_date, index_url, document_url, document_group,
			batch_number, extraction_method, extraction_summary, endpoints, warnings,
			time_elapsed, section_end_time, n_characters, n_words, n_tables_removed,
			output_file, metadata_file_name, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(original_file_name, section_name) DO UPDATE SET
			sec_cik=excluded.sec_cik, company_description=excluded.company_description,
			form_type=excluded.form_type, period_of_report=excluded.period_of_report,
			filing_date=excluded.filing_date, index_url=excluded.index_url,
			document_url=excluded.document_url, document_group=excluded.document_group,
			batch_number=excluded.batch_number, extraction_method=excluded.extraction_method,
			extraction_summary=excluded.extraction_summary, endpoints=excluded.endpoints,
			warnings=excluded.warnings, time_elapsed=excluded.time_elapsed,
			section_end_time=excluded.section_end_time, n_characters=excluded.n_characters,
			n_words=excluded.n_words, n_tables_removed=excluded.n_tables_removed,
			output_file=excluded.output_file, metadata_file_name=excluded.metadata_file_name,
			failed=excluded.failed`,
		md.OriginalFileName, md.SectionName, md.CIK, md.CompanyDescription, md.FormType,
		md.PeriodOfReport, md.FilingDate, md.IndexURL, md.DocumentURL, md.DocumentGroup,
		md.BatchNumber, md.ExtractionMethod, md.ExtractionSummary,
		string(endpointsJSON), string(warningsJSON),
		md.TimeElapsed, md.SectionEndTime, md.SectionNCharacters, md.SectionNWords,
		md.SectionNTableRemoved, md.OutputFile, md.MetadataFileName, md.Failed,
	)
	if err != nil {
		return fmt.Errorf("upserting section %s of %s: %w", md.SectionName, md.OriginalFileName, err)
	}
	return nil
}
