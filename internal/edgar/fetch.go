// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package edgar

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/secedgartext/internal/fsutil"
	"github.com/pdiddy/secedgartext/pkg/types"
)

// SidecarSuffix is appended to a downloaded filing's path to name the YAML
// file holding its metadata.
const SidecarSuffix = ".meta.yaml"

// archivePathRe matches /Archives/edgar/data/<cik>/<accession>/<file>.
var archivePathRe = regexp.MustCompile(`/Archives/edgar/data/(\d+)/(\d{10}-?\d{2}-?\d{6})/`)

// BatchResult holds the outcome of a batch download run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
	Filings    []types.Metadata
}

// Total returns the number of URLs processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any download failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Download fetches the filing at rawURL into cfg.OutputDir and writes its
// metadata sidecar next to it. A filing already on disk is not fetched
// again; skipped reports that case.
func (c *Client) Download(ctx context.Context, rawURL string) (md types.Metadata, skipped bool, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return md, false, fmt.Errorf("parsing URL %q: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return md, false, fmt.Errorf("URL %q does not name a file", rawURL)
	}

	dest := filepath.Join(c.cfg.OutputDir, name)
	sidecar := dest + SidecarSuffix
	if fsutil.Exists(dest) {
		if existing, err := ReadSidecar(sidecar); err == nil {
			return existing, true, nil
		}
		return types.Metadata{OriginalFileName: dest, DocumentURL: rawURL}, true, nil
	}

	data, err := c.Get(ctx, rawURL)
	if err != nil {
		return md, false, err
	}
	if err := fsutil.WriteFileAtomic(dest, data, 0o644); err != nil {
		return md, false, fmt.Errorf("writing %s: %w", dest, err)
	}

	md = ParseHeader(string(data))
	md.DocumentURL = rawURL
	md.OriginalFileName = dest
	md.OriginalFileSize = int64(len(data))
	if m := archivePathRe.FindStringSubmatch(u.Path); m != nil {
		if md.CIK == "" {
			md.CIK = m[1]
		}
		md.IndexURL = indexURL(u, m[1], m[2])
	}

	if err := WriteSidecar(sidecar, md); err != nil {
		return md, false, err
	}
	return md, false, nil
}

// DownloadBatch downloads each URL in turn, printing per-item status to w.
// It continues after individual failures and stops early only when ctx is
// cancelled.
func (c *Client) DownloadBatch(ctx context.Context, urls []string, w io.Writer) BatchResult {
	var result BatchResult
	for _, u := range urls {
		if ctx.Err() != nil {
			fmt.Fprintf(w, "cancelled: %d URLs not fetched\n", len(urls)-result.Total())
			break
		}
		md, skipped, err := c.Download(ctx, u)
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed:  %s (%v)\n", u, err)
			result.Failed++
			continue
		case skipped:
			fmt.Fprintf(w, "skipped: %s (already exists)\n", md.OriginalFileName)
			result.Skipped++
		default:
			fmt.Fprintf(w, "fetched: %s (%d bytes)\n", md.OriginalFileName, md.OriginalFileSize)
			result.Downloaded++
		}
		result.Filings = append(result.Filings, md)
	}
	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result
}

// indexURL builds the filing index page URL for an archive document.
func indexURL(u *url.URL, cik, accession string) string {
	acc := accession
	if !strings.Contains(acc, "-") {
		acc = acc[:10] + "-" + acc[10:12] + "-" + acc[12:]
	}
	idx := *u
	idx.RawQuery = ""
	idx.Fragment = ""
	idx.Path = fmt.Sprintf("/Archives/edgar/data/%s/%s/%s-index.htm", cik, strings.ReplaceAll(acc, "-", ""), acc)
	return idx.String()
}

// ReadSidecar loads the metadata written next to a downloaded filing.
func ReadSidecar(path string) (types.Metadata, error) {
	var md types.Metadata
	data, err := os.ReadFile(path)
	if err != nil {
		return md, err
	}
	if err := yaml.Unmarshal(data, &md); err != nil {
		return md, fmt.Errorf("parsing %s: %w", path, err)
	}
	return md, nil
}

// WriteSidecar writes md as YAML to path.
func WriteSidecar(path string, md types.Metadata) error {
	data, err := yaml.Marshal(&md)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
