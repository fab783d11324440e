// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/secedgartext/internal/searchterms"
)

var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "List, dump, or validate search terms",
	Long: `Terms shows the form types and sections defined by the search terms in
use (the built-in set, or the file named by --search-terms or
extraction.search_terms_file).`,
	RunE: runTermsList,
}

var termsDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print search terms as YAML",
	Long: `Dump prints the built-in search terms, a starting point for a custom
file. With --form only that form type is printed, from the terms in use.`,
	RunE: runTermsDump,
}

var termsValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a search terms file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := searchterms.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: ok (%s)\n", args[0], strings.Join(spec.FormTypes(), ", "))
		return nil
	},
}

func runTermsList(cmd *cobra.Command, args []string) error {
	spec, err := loadTerms(cmd)
	if err != nil {
		return err
	}
	form, _ := cmd.Flags().GetString("form")

	for _, f := range spec.FormTypes() {
		if form != "" && f != searchterms.NormalizeFormType(form) {
			continue
		}
		sections, _ := spec.Sections(f)
		names := make([]string, len(sections))
		for i, s := range sections {
			names[i] = s.ItemName
		}
		fmt.Printf("%-6s  %s\n", f, strings.Join(names, ", "))
	}
	return nil
}

func runTermsDump(cmd *cobra.Command, args []string) error {
	form, _ := cmd.Flags().GetString("form")
	if form == "" {
		_, err := os.Stdout.Write(searchterms.Builtin())
		return err
	}

	spec, err := loadTerms(cmd)
	if err != nil {
		return err
	}
	key := searchterms.NormalizeFormType(form)
	sections, ok := spec.Sections(key)
	if !ok {
		return fmt.Errorf("no search terms for form type %q", form)
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(searchterms.Spec{key: sections}); err != nil {
		return err
	}
	return enc.Close()
}

// loadTerms loads the file named by --search-terms, falling back to the
// configured file and then the built-in set.
func loadTerms(cmd *cobra.Command) (searchterms.Spec, error) {
	path, _ := cmd.Flags().GetString("search-terms")
	if path == "" {
		path = pipelineConfig().Extraction.SearchTermsFile
	}
	return searchterms.Load(path)
}

func init() {
	termsCmd.PersistentFlags().String("form", "", "restrict output to one form type")
	termsCmd.PersistentFlags().String("search-terms", "", "YAML search terms file (default: built-in)")

	termsCmd.AddCommand(termsDumpCmd)
	termsCmd.AddCommand(termsValidateCmd)
	rootCmd.AddCommand(termsCmd)
}
