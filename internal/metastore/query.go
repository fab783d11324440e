// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/secedgartext/pkg/types"
)

// QueryOptions filters List results. Zero values match everything.
type QueryOptions struct {
	CIK      string
	FormType string
	Section  string

	// FailedOnly restricts results to failure records.
	FailedOnly bool

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// List returns stored records matching opts, ordered by filing and
// section.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]types.Metadata, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT original_file_name, section_name, sec_cik, company_description, form_type,
			period_of_report, filing_date, index_url, document_url, document_group,
			batch_number, extraction_method, extraction_summary, endpoints, warnings,
			time_elapsed, section_end_time, n_characters, n_words, n_tables_removed,
			output_file, metadata_file_name, failed
		FROM sections WHERE 1=1`)

	if opts.CIK != "" {
		qb.WriteString(` AND sec_cik = ?`)
		args = append(args, opts.CIK)
	}
	if opts.FormType != "" {
		qb.WriteString(` AND form_type = ?`)
		args = append(args, opts.FormType)
	}
	if opts.Section != "" {
		qb.WriteString(` AND section_name = ?`)
		args = append(args, opts.Section)
	}
	if opts.FailedOnly {
		qb.WriteString(` AND failed = 1`)
	}
	qb.WriteString(` ORDER BY original_file_name, rowid LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying metadata store: %w", err)
	}
	defer rows.Close()

	var results []types.Metadata
	for rows.Next() {
		var (
			md            types.Metadata
			cik, company  sql.NullString
			form, period  sql.NullString
			filed, index  sql.NullString
			docURL, group sql.NullString
			method, sum   sql.NullString
			endpointsJSON sql.NullString
			warningsJSON  sql.NullString
			endTime       sql.NullString
			outFile, mdFn sql.NullString
			batch         sql.NullInt64
			elapsed       sql.NullFloat64
			nChars        sql.NullInt64
			nWords        sql.NullInt64
			nTables       sql.NullInt64
		)
		if err := rows.Scan(
			&md.OriginalFileName, &md.SectionName, &cik, &company, &form,
			&period, &filed, &index, &docURL, &group,
			&batch, &method, &sum, &endpointsJSON, &warningsJSON,
			&elapsed, &endTime, &nChars, &nWords, &nTables,
			&outFile, &mdFn, &md.Failed,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		md.CIK = cik.String
		md.CompanyDescription = company.String
		md.FormType = form.String
		md.PeriodOfReport = period.String
		md.FilingDate = filed.String
		md.IndexURL = index.String
		md.DocumentURL = docURL.String
		md.DocumentGroup = group.String
		md.BatchNumber = int(batch.Int64)
		md.ExtractionMethod = method.String
		md.ExtractionSummary = sum.String
		md.TimeElapsed = elapsed.Float64
		md.SectionEndTime = endTime.String
		md.SectionNCharacters = int(nChars.Int64)
		md.SectionNWords = int(nWords.Int64)
		md.SectionNTableRemoved = int(nTables.Int64)
		md.OutputFile = outFile.String
		md.MetadataFileName = mdFn.String

		if endpointsJSON.Valid {
			_ = json.Unmarshal([]byte(endpointsJSON.String), &md.Endpoints)
		}
		if warningsJSON.Valid {
			_ = json.Unmarshal([]byte(warningsJSON.String), &md.Warnings)
		}
		if md.Warnings == nil {
			md.Warnings = []string{}
		}

		results = append(results, md)
	}
	return results, rows.Err()
}

// SectionStats counts outcomes for one section name.
type SectionStats struct {
	Section   string `json:"section" yaml:"section"`
	Succeeded int    `json:"succeeded" yaml:"succeeded"`
	Failed    int    `json:"failed" yaml:"failed"`
}

// Summary returns per-section outcome counts, optionally restricted to one
// form type, ordered by section name.
func (s *Store) Summary(ctx context.Context, formType string) ([]SectionStats, error) {
	query := `SELECT section_name,
			SUM(CASE WHEN failed = 0 THEN 1 ELSE 0 END),
			SUM(CASE WHEN failed = 1 THEN 1 ELSE 0 END)
		FROM sections`
	var args []any
	if formType != "" {
		query += ` WHERE form_type = ?`
		args = append(args, formType)
	}
	query += ` GROUP BY section_name ORDER BY section_name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("summarizing metadata store: %w", err)
	}
	defer rows.Close()

	var stats []SectionStats
	for rows.Next() {
		var st SectionStats
		if err := rows.Scan(&st.Section, &st.Succeeded, &st.Failed); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
