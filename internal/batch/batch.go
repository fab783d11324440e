// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs section extraction over many filings. Each filing is
// processed by its own Document on a bounded pool of goroutines; the
// search terms, pattern cache and metadata store are shared.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/secedgartext/internal/document"
	"github.com/pdiddy/secedgartext/internal/edgar"
	"github.com/pdiddy/secedgartext/internal/patterncache"
	"github.com/pdiddy/secedgartext/pkg/types"
)

const defaultWorkers = 4

// Options configure a batch run.
type Options struct {
	// OutputDir receives the excerpt, metadata and failure files.
	OutputDir string

	// FormType selects the search terms. When empty, each filing's
	// header decides.
	FormType string

	Method           types.ExtractionMethod
	RemoveShortLines bool

	// SkipExisting leaves filings that already have an excerpt on disk
	// untouched.
	SkipExisting bool

	// Workers bounds how many filings are processed at once (default 4).
	Workers int

	// DocumentGroup and BatchNumber are copied into every record.
	DocumentGroup string
	BatchNumber   int

	Terms     document.TermSource
	Persister document.Persister
	Cache     *patterncache.Cache

	// Logger receives each document's log entries. Nil discards them.
	Logger *slog.Logger
}

// Summary holds counts from a batch run.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int

	SectionsSucceeded int
	SectionsFailed    int
}

// Total returns the number of filings considered.
func (s Summary) Total() int {
	return s.Processed + s.Skipped + s.Failed
}

// Discover lists the filing bodies in dir: regular, non-hidden files that
// are not metadata sidecars, in lexical order.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || strings.HasSuffix(name, edgar.SidecarSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	slices.Sort(paths)
	return paths, nil
}

// FileRoot returns the output path prefix for the filing at path.
func FileRoot(outputDir, path string) string {
	base := filepath.Base(path)
	return filepath.Join(outputDir, strings.TrimSuffix(base, filepath.Ext(base)))
}

// HasExcerpts reports whether any excerpt exists under fileRoot.
func HasExcerpts(fileRoot string) bool {
	matches, err := filepath.Glob(fileRoot + "_*_excerpt.txt")
	return err == nil && len(matches) > 0
}

// Run extracts sections from every filing in paths, printing one status
// line per filing to w. A filing that cannot be read or has no search
// terms is counted as failed and the run continues. The returned error is
// non-nil only when ctx is cancelled.
func Run(ctx context.Context, paths []string, opts Options, w io.Writer) (Summary, error) {
	if opts.Terms == nil {
		return Summary{}, fmt.Errorf("batch: no search terms configured")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	startTime := time.Now().UTC()
	signature := fmt.Sprintf("%s_%s_%s", opts.DocumentGroup, opts.FormType, startTime.Format("20060102T150405"))

	var (
		mu      sync.Mutex
		summary Summary
	)
	report := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, format, args...)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, path := range paths {
		path := path
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			root := FileRoot(opts.OutputDir, path)
			if opts.SkipExisting && HasExcerpts(root) {
				report("skipped %s\n", path)
				mu.Lock()
				summary.Skipped++
				mu.Unlock()
				return nil
			}

			rep, err := runOne(gctx, path, root, opts, startTime, signature, logger)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Error("extraction failed", "path", path, "error", err)
				report("failed  %s: %v\n", path, err)
				mu.Lock()
				summary.Failed++
				mu.Unlock()
				return nil
			}

			report("done    %s (%d sections, %d failed)\n", path, len(rep.Sections), rep.Failed())
			mu.Lock()
			summary.Processed++
			summary.SectionsSucceeded += rep.Succeeded()
			summary.SectionsFailed += rep.Failed()
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	fmt.Fprintf(w, "\nprocessed: %d, skipped: %d, failed: %d; sections: %d extracted, %d not found\n",
		summary.Processed, summary.Skipped, summary.Failed, summary.SectionsSucceeded, summary.SectionsFailed)
	return summary, err
}

func runOne(ctx context.Context, path, root string, opts Options, start time.Time, signature string, logger *slog.Logger) (document.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return document.Report{}, fmt.Errorf("reading filing: %w", err)
	}
	text := string(data)

	variant, err := document.VariantFor(opts.Method, path)
	if err != nil {
		return document.Report{}, err
	}

	master := loadMaster(path, text)
	master.OriginalFileName = path
	master.OriginalFileSize = int64(len(data))
	master.FileRoot = root
	master.DocumentGroup = opts.DocumentGroup
	master.BatchNumber = opts.BatchNumber
	master.BatchSignature = signature
	master.BatchStartTime = start.Format("2006-01-02 15:04:05")

	formType := opts.FormType
	if formType == "" {
		formType = master.FormType
	}
	if master.FormType == "" {
		master.FormType = formType
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return document.Report{}, fmt.Errorf("creating output directory: %w", err)
	}

	doc := document.New(path, text, variant, document.Options{
		RemoveShortLines: opts.RemoveShortLines,
		Persister:        opts.Persister,
		Cache:            opts.Cache,
	})
	rep, err := doc.GetExcerpt(ctx, opts.Terms, formType, master)
	replay(logger, path, rep.Log)
	return rep, err
}

// loadMaster returns the filing's metadata from its sidecar when one was
// written at download time, and from the SEC header otherwise.
func loadMaster(path, text string) types.Metadata {
	if md, err := edgar.ReadSidecar(path + edgar.SidecarSuffix); err == nil {
		return md
	}
	return edgar.ParseHeader(text)
}

var slogLevels = map[types.LogLevel]slog.Level{
	types.LevelDebug:   slog.LevelDebug,
	types.LevelInfo:    slog.LevelInfo,
	types.LevelWarning: slog.LevelWarn,
	types.LevelError:   slog.LevelError,
}

// replay forwards document log entries to logger in order.
func replay(logger *slog.Logger, path string, entries []types.LogEntry) {
	for _, e := range entries {
		level, ok := slogLevels[e.Level]
		if !ok {
			level = slog.LevelInfo
		}
		logger.Log(context.Background(), level, e.Message, "path", path)
	}
}
