//go:build mage

// Package main contains Mage build targets for secedgartext developer tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"go.yaml.in/yaml/v3"
)

// projectDirs lists the working directories the pipeline expects.
var projectDirs = []string{
	"filings/raw",
	"filings/excerpts",
	"index",
	".secrets",
}

// Init creates the project directory structure for the pipeline.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "secedgartext"
	cmdPkg  = "./cmd/secedgartext"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", out, version)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Check vets the module and then runs the tests.
func Check() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	mg.Deps(Test)
	return nil
}

// Stats prints project metrics: Go production/test LOC and the number of
// search-term patterns per form type.
func Stats() error {
	prodLines, testLines, err := countGoLines(".")
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)

	counts, err := countSearchTerms(filepath.Join("internal", "searchterms", "search_terms.yaml"))
	if err != nil {
		return err
	}
	for _, c := range counts {
		fmt.Printf("Search terms %-6s %3d sections, %3d pairs\n", c.form+":", c.sections, c.pairs)
	}
	return nil
}

// countGoLines walks the tree and counts non-blank lines in production
// and test Go files. Example and vendor directories are not counted.
func countGoLines(root string) (prod, test int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, test, err
}

type termCount struct {
	form     string
	sections int
	pairs    int
}

// countSearchTerms counts sections and candidate pairs per form type.
func countSearchTerms(path string) ([]termCount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var spec yaml.Node
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(spec.Content) == 0 {
		return nil, nil
	}

	// Walk the node tree to keep the file's form order.
	var counts []termCount
	forms := spec.Content[0].Content
	for i := 0; i+1 < len(forms); i += 2 {
		c := termCount{form: forms[i].Value}
		for _, section := range forms[i+1].Content {
			c.sections++
			for j := 0; j+1 < len(section.Content); j += 2 {
				if section.Content[j].Value != "itemname" {
					c.pairs += len(section.Content[j+1].Content)
				}
			}
		}
		counts = append(counts, c)
	}
	return counts, nil
}
