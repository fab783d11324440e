// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/secedgartext/internal/batch"
	"github.com/pdiddy/secedgartext/internal/document"
	"github.com/pdiddy/secedgartext/internal/metastore"
	"github.com/pdiddy/secedgartext/internal/searchterms"
)

var extractCmd = &cobra.Command{
	Use:   "extract [filings...]",
	Short: "Extract named sections from filing bodies",
	Long: `Extract searches each filing for the sections its form type defines and
writes, per section, either <root>_<section>_excerpt.txt with
<root>_<section>_metadata.json, or <root>_<section>_failure.json when the
section cannot be located. <root> is the output directory joined with the
filing's base name.

Without arguments every filing in the input directory is processed. Metadata
comes from the .meta.yaml sidecar written by fetch, or from the filing's SEC
header.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("input-dir", "", "directory scanned for filings when none are given (default filings/raw)")
	extractCmd.Flags().String("output-dir", "", "directory for excerpts and metadata (default filings/excerpts)")
	extractCmd.Flags().String("form-type", "", "form type selecting the search terms, e.g. 10-K, 10-Q, 8-K (default 10-K)")
	extractCmd.Flags().String("method", "", "document variant: auto, txt, or html (default auto)")
	extractCmd.Flags().String("search-terms", "", "YAML search terms file (default: built-in)")
	extractCmd.Flags().Bool("remove-short-lines", true, "strip page numbers, table placeholders and table-of-contents lines")
	extractCmd.Flags().Bool("skip-existing", false, "skip filings that already have excerpts")
	extractCmd.Flags().Bool("write-sql", false, "also record metadata in the SQLite store")
	extractCmd.Flags().Int("workers", 0, "filings processed concurrently (default 4)")
	extractCmd.Flags().String("document-group", "", "label recorded in every metadata record")
	extractCmd.Flags().Int("batch-number", 0, "batch number recorded in every metadata record")

	bindFlags(extractCmd, map[string]string{
		"input-dir":          "extraction.input_dir",
		"output-dir":         "extraction.output_dir",
		"form-type":          "extraction.form_type",
		"method":             "extraction.method",
		"search-terms":       "extraction.search_terms_file",
		"remove-short-lines": "extraction.remove_short_lines",
		"skip-existing":      "extraction.skip_existing",
		"write-sql":          "extraction.write_sql",
		"workers":            "extraction.workers",
	})

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	ec := cfg.Extraction
	if _, err := document.VariantFor(ec.Method, ""); err != nil {
		return err
	}

	terms, err := searchterms.Load(ec.SearchTermsFile)
	if err != nil {
		return err
	}
	if ec.FormType != "" {
		if _, ok := terms.Sections(ec.FormType); !ok {
			return fmt.Errorf("no search terms for form type %q (known: %v)", ec.FormType, terms.FormTypes())
		}
	}

	paths := args
	if len(paths) == 0 {
		paths, err = batch.Discover(ec.InputDir)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no filings found in %s", ec.InputDir)
		}
	}

	group, _ := cmd.Flags().GetString("document-group")
	batchNumber, _ := cmd.Flags().GetInt("batch-number")

	opts := batch.Options{
		OutputDir:        ec.OutputDir,
		FormType:         ec.FormType,
		Method:           ec.Method,
		RemoveShortLines: ec.RemoveShortLines,
		SkipExisting:     ec.SkipExisting,
		Workers:          ec.Workers,
		DocumentGroup:    group,
		BatchNumber:      batchNumber,
		Terms:            terms,
		Logger:           slog.Default(),
	}

	if ec.WriteSQL {
		store, err := metastore.NewStore(cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Persister = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := batch.Run(ctx, paths, opts, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d filing(s) failed extraction", summary.Failed)
	}
	return nil
}

// Compile-time check that the store can receive section records.
var _ document.Persister = (*metastore.Store)(nil)
