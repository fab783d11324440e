// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/secedgartext/internal/fsutil"
	"github.com/pdiddy/secedgartext/pkg/types"
)

const (
	excerptSuffix  = "_excerpt.txt"
	metadataSuffix = "_metadata.json"
	failureSuffix  = "_failure.json"
)

// sectionPaths are the three possible outputs of one section.
type sectionPaths struct {
	excerpt  string
	metadata string
	failure  string
}

func newSectionPaths(fileRoot, section string) sectionPaths {
	base := fileRoot + "_" + section
	return sectionPaths{
		excerpt:  base + excerptSuffix,
		metadata: base + metadataSuffix,
		failure:  base + failureSuffix,
	}
}

// ExcerptPath returns where the excerpt for section of the filing rooted
// at fileRoot is written.
func ExcerptPath(fileRoot, section string) string {
	return newSectionPaths(fileRoot, section).excerpt
}

// MetadataPath returns where the success metadata for section is written.
func MetadataPath(fileRoot, section string) string {
	return newSectionPaths(fileRoot, section).metadata
}

// FailurePath returns where the failure record for section is written.
func FailurePath(fileRoot, section string) string {
	return newSectionPaths(fileRoot, section).failure
}

// saveSuccess writes the excerpt and its metadata and removes any failure
// record left by an earlier run. If the excerpt cannot be written the
// section is recorded as a failure instead.
func (d *Document) saveSuccess(ctx context.Context, md types.Metadata, text string, p sectionPaths) SectionOutcome {
	cleaned := text
	if d.opts.RemoveShortLines {
		cleaned, md.SectionNTableRemoved = RemoveShortLines(text)
		if cleaned == "" {
			md.Warnings = append(md.Warnings, "excerpt is empty after removing short lines")
		}
	}
	md.SectionNCharacters = utf8.RuneCountInString(cleaned)
	md.SectionNWords = len(strings.Fields(cleaned))

	if err := fsutil.WriteFileAtomic(p.excerpt, []byte(cleaned), 0o644); err != nil {
		d.logf(types.LevelError, "failed to save excerpt for %s: %v", md.SectionName, err)
		md.Warnings = append(md.Warnings, err.Error())
		return d.saveFailure(ctx, md, p)
	}
	d.logf(types.LevelDebug, "SUCCESS Saved file for: %s: %s", md.SectionName, p.excerpt)

	if err := fsutil.RemoveIfExists(p.failure); err != nil {
		md.Warnings = append(md.Warnings, err.Error())
		d.logf(types.LevelWarning, "stale failure record for %s: %v", md.SectionName, err)
	}

	md.Failed = false
	md.OutputFile = p.excerpt
	md.MetadataFileName = p.metadata
	if err := writeMetadata(p.metadata, md); err != nil {
		d.logf(types.LevelError, "failed to save metadata for %s: %v", md.SectionName, err)
	}
	d.persist(ctx, md)

	return SectionOutcome{Name: md.SectionName, ExcerptPath: p.excerpt, MetadataPath: p.metadata}
}

// saveFailure removes success outputs left by an earlier run and writes
// the failure record.
func (d *Document) saveFailure(ctx context.Context, md types.Metadata, p sectionPaths) SectionOutcome {
	for _, stale := range []string{p.metadata, p.excerpt} {
		if err := fsutil.RemoveIfExists(stale); err != nil {
			md.Warnings = append(md.Warnings, err.Error())
			d.logf(types.LevelWarning, "stale output for %s: %v", md.SectionName, err)
		}
	}

	md.Failed = true
	md.OutputFile = ""
	md.SectionNCharacters = 0
	md.SectionNWords = 0
	md.SectionNTableRemoved = 0
	md.MetadataFileName = p.failure

	d.logf(types.LevelWarning, "No excerpt located for: %s: %s", md.SectionName, md.IndexURL)
	if err := writeMetadata(p.failure, md); err != nil {
		d.logf(types.LevelError, "failed to save failure record for %s: %v", md.SectionName, err)
	}
	d.persist(ctx, md)

	return SectionOutcome{Name: md.SectionName, Failed: true, MetadataPath: p.failure}
}

func (d *Document) persist(ctx context.Context, md types.Metadata) {
	if d.opts.Persister == nil {
		return
	}
	if err := d.opts.Persister.SaveMetadata(ctx, md); err != nil {
		d.logf(types.LevelWarning, "failed to persist metadata for %s: %v", md.SectionName, err)
	}
}

func writeMetadata(path string, md types.Metadata) error {
	data, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	return fsutil.WriteFileAtomic(path, append(data, '\n'), 0o644)
}
