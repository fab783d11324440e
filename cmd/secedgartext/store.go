// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/secedgartext/internal/metastore"
	"github.com/pdiddy/secedgartext/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Query the metadata store (list, summary, export)",
	Long: `Store reads the SQLite database that extract --write-sql fills with one
record per filing and section. Use subcommands to list records, count
outcomes per section, or export records.`,
}

// --- list subcommand ---

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List section records",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.List(context.Background(), queryOptsFromFlags(cmd))
		if err != nil {
			return err
		}
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return formatListOutput(os.Stdout, records, jsonOutput)
	},
}

func formatListOutput(w io.Writer, records []types.Metadata, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No records found.")
		return nil
	}

	fmt.Fprintf(w, "%-12s  %-8s  %-10s  %-7s  %-7s  %s\n",
		"CIK", "Form", "Section", "Status", "Words", "File")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, r := range records {
		status := "ok"
		if r.Failed {
			status = "missing"
		}
		file := r.OriginalFileName
		if len(file) > 40 {
			file = "..." + file[len(file)-37:]
		}
		fmt.Fprintf(w, "%-12s  %-8s  %-10s  %-7s  %-7d  %s\n",
			r.CIK, r.FormType, r.SectionName, status, r.SectionNWords, file)
	}
	fmt.Fprintf(w, "\n%d records\n", len(records))
	return nil
}

// --- summary subcommand ---

var storeSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Count extracted and missing sections",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		form, _ := cmd.Flags().GetString("form")
		stats, err := store.Summary(context.Background(), form)
		if err != nil {
			return err
		}

		fmt.Printf("%-12s  %9s  %7s  %6s\n", "Section", "Extracted", "Missing", "Rate")
		fmt.Println(strings.Repeat("-", 40))
		for _, s := range stats {
			rate := 0.0
			if total := s.Succeeded + s.Failed; total > 0 {
				rate = 100 * float64(s.Succeeded) / float64(total)
			}
			fmt.Printf("%-12s  %9d  %7d  %5.1f%%\n", s.Section, s.Succeeded, s.Failed, rate)
		}
		return nil
	},
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export section records to YAML or JSON",
	Long: `Export writes every record matching the filters to stdout, or to the
file named by --output. Supports the same filters as list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		var w io.Writer = os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}

		opts := queryOptsFromFlags(cmd)
		switch format {
		case "yaml", "":
			err = store.ExportYAML(context.Background(), w, opts)
		case "json":
			err = store.ExportJSON(context.Background(), w, opts)
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		if output != "" {
			fmt.Fprintf(os.Stderr, "Exported to %s\n", output)
		}
		return nil
	},
}

// --- shared helpers ---

func openStore() (*metastore.Store, error) {
	return metastore.NewStore(pipelineConfig().Store)
}

func queryOptsFromFlags(cmd *cobra.Command) metastore.QueryOptions {
	cik, _ := cmd.Flags().GetString("cik")
	form, _ := cmd.Flags().GetString("form")
	section, _ := cmd.Flags().GetString("section")
	failed, _ := cmd.Flags().GetBool("failed")
	limit, _ := cmd.Flags().GetInt("limit")

	return metastore.QueryOptions{
		CIK:        cik,
		FormType:   form,
		Section:    section,
		FailedOnly: failed,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	storeCmd.PersistentFlags().String("db", "", "SQLite database path (default index/secedgartext.db)")
	storeCmd.PersistentFlags().String("form", "", "filter by form type")
	bindPersistentFlags(storeCmd, map[string]string{"db": "store.path"})

	for _, c := range []*cobra.Command{storeListCmd, storeExportCmd} {
		c.Flags().String("cik", "", "filter by CIK")
		c.Flags().String("section", "", "filter by section name, e.g. 1A or Note3")
		c.Flags().Bool("failed", false, "only sections that were not found")
		c.Flags().Int("limit", 0, "maximum results (0 = use default)")
	}
	storeListCmd.Flags().Bool("json", false, "output records as JSON")
	storeExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	storeExportCmd.Flags().String("output", "", "write to this file instead of stdout")

	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeSummaryCmd)
	storeCmd.AddCommand(storeExportCmd)

	rootCmd.AddCommand(storeCmd)
}
