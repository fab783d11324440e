// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package searchterms loads the search-term specification: for each form
// type, the ordered sections to extract and, per document variant, the
// candidate (start, end) pattern pairs that delimit each section.
package searchterms

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/secedgartext/internal/patterncache"
	"github.com/pdiddy/secedgartext/pkg/types"
)

//go:embed search_terms.yaml
var builtin []byte

// Spec maps a normalized form type (upper case, e.g. "10-K") to its
// ordered section list. A Spec is read-only once loaded and may be shared
// between goroutines.
type Spec map[string][]types.SectionTerms

// Default returns the built-in specification.
func Default() (Spec, error) {
	return Parse(builtin)
}

// Builtin returns the raw YAML of the built-in specification.
func Builtin() []byte {
	return builtin
}

// Load reads a specification from a YAML file. An empty path selects the
// built-in specification.
func Load(path string) (Spec, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading search terms %s: %w", path, err)
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

// Parse decodes and validates a YAML specification.
func Parse(data []byte) (Spec, error) {
	var raw map[string][]types.SectionTerms
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing search terms: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("search terms define no form types")
	}

	spec := make(Spec, len(raw))
	for form, sections := range raw {
		key := NormalizeFormType(form)
		if _, dup := spec[key]; dup {
			return nil, fmt.Errorf("form type %q defined more than once", key)
		}
		if err := validate(key, sections); err != nil {
			return nil, err
		}
		spec[key] = sections
	}
	return spec, nil
}

// NormalizeFormType upper-cases and trims a form type key.
func NormalizeFormType(form string) string {
	return strings.ToUpper(strings.TrimSpace(form))
}

// Sections returns the ordered sections for formType.
func (s Spec) Sections(formType string) ([]types.SectionTerms, bool) {
	sections, ok := s[NormalizeFormType(formType)]
	return sections, ok
}

// FormTypes returns the defined form types in sorted order.
func (s Spec) FormTypes() []string {
	forms := make([]string, 0, len(s))
	for f := range s {
		forms = append(forms, f)
	}
	sort.Strings(forms)
	return forms
}

func validate(form string, sections []types.SectionTerms) error {
	if len(sections) == 0 {
		return fmt.Errorf("form type %q has no sections", form)
	}
	seen := make(map[string]bool, len(sections))
	for i, sec := range sections {
		name := strings.TrimSpace(sec.ItemName)
		if name == "" {
			return fmt.Errorf("form type %q: section %d has no itemname", form, i+1)
		}
		if seen[name] {
			return fmt.Errorf("form type %q: section %q defined more than once", form, name)
		}
		seen[name] = true
		if len(sec.Pairs) == 0 {
			return fmt.Errorf("form type %q: section %q has no search pairs", form, name)
		}
		for kind, pairs := range sec.Pairs {
			for j, p := range pairs {
				if err := validatePair(sec.ItemName, p); err != nil {
					return fmt.Errorf("form type %q: section %q: %s pair %d: %w", form, name, kind, j+1, err)
				}
			}
		}
	}
	return nil
}

func validatePair(itemName string, p types.SearchPair) error {
	if p.Start == "" || p.End == "" {
		return fmt.Errorf("start and end patterns are required")
	}
	start, end := p.Start, p.End
	if itemName == types.NotesSection {
		if !strings.Contains(start, types.NotePlaceholder) {
			return fmt.Errorf("notes start pattern %q has no %q placeholder", start, types.NotePlaceholder)
		}
		start = strings.ReplaceAll(start, types.NotePlaceholder, strconv.Itoa(1))
		end = strings.ReplaceAll(end, types.NotePlaceholder, strconv.Itoa(2))
	}
	if _, err := patterncache.Default.Compile(start); err != nil {
		return err
	}
	if _, err := patterncache.Default.Compile(end); err != nil {
		return err
	}
	return nil
}
