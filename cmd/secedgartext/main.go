// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the secedgartext CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/secedgartext/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from the secrets directory at
// startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the secedgartext CLI.
var rootCmd = &cobra.Command{
	Use:   "secedgartext",
	Short: "Extract named sections from SEC EDGAR filings",
	Long: `secedgartext downloads SEC filings and extracts named sections (Item 1A
Risk Factors, Item 7 MD&A, the financial statement notes, ...) into plain-text
excerpts with JSON metadata.

Each stage is a subcommand: fetch downloads filing bodies, extract writes
excerpts, terms shows the search patterns, and store queries the metadata
database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(viper.GetBool("verbose"))

		s, err := secrets.Load(viper.GetString("secrets_dir"))
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := s.Keys()
			sort.Strings(keys)
			slog.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./secedgartext.yaml or ~/.config/secedgartext/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug messages, including every saved excerpt")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets", "directory of credential files (sec-user-agent)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("secrets_dir", rootCmd.PersistentFlags().Lookup("secrets-dir"))
	setConfigDefaults()
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("secedgartext")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "secedgartext"))
		}
	}

	viper.SetEnvPrefix("SECEDGARTEXT")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setupLogging installs a text handler on stderr as the default logger.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
