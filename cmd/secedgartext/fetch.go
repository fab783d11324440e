// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/secedgartext/internal/edgar"
	"github.com/pdiddy/secedgartext/internal/secrets"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [urls...]",
	Short: "Download filing bodies from EDGAR",
	Long: `Fetch downloads filing documents from sec.gov Archives URLs into the raw
filings directory and writes a .meta.yaml sidecar next to each with the
identity read from the URL and the SEC header. Filings already on disk are
skipped.

EDGAR requires a User-Agent naming a contact. Set it with --user-agent, the
fetch.user_agent config key, SECEDGARTEXT_FETCH_USER_AGENT, or a
sec-user-agent file in the secrets directory.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("user-agent", "", "User-Agent sent to EDGAR, e.g. \"Example Corp admin@example.com\"")
	fetchCmd.Flags().Float64("rate", 0, "maximum requests per second (default 5; EDGAR allows 10)")
	fetchCmd.Flags().Int("retries", 0, "retries on HTTP 429 and 503 (default 5)")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().String("output-dir", "", "directory for downloaded filings (default filings/raw)")
	fetchCmd.Flags().String("url-file", "", "file with one URL per line; # starts a comment")

	bindFlags(fetchCmd, map[string]string{
		"user-agent": "fetch.user_agent",
		"rate":       "fetch.requests_per_second",
		"retries":    "fetch.max_retries",
		"timeout":    "fetch.timeout",
		"output-dir": "fetch.output_dir",
	})

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	urls := args
	if urlFile, _ := cmd.Flags().GetString("url-file"); urlFile != "" {
		fromFile, err := readURLFile(urlFile)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return fmt.Errorf("provide one or more EDGAR URLs or --url-file")
	}

	cfg := pipelineConfig().Fetch
	cfg.UserAgent = loadedSecrets.Get(secrets.SECUserAgent, cfg.UserAgent)

	client, err := edgar.NewClient(cfg, nil, slog.Default())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result := client.DownloadBatch(ctx, urls, os.Stdout)
	if err := ctx.Err(); err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d filing(s) failed to download", result.Failed)
	}
	return nil
}

// readURLFile reads one URL per line, ignoring blank lines and comments.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening URL file: %w", err)
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading URL file: %w", err)
	}
	return urls, nil
}
