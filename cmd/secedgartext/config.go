// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/secedgartext/pkg/types"
)

// envKeyReplacer maps nested keys to environment names, so that
// extraction.output_dir is read from SECEDGARTEXT_EXTRACTION_OUTPUT_DIR.
var envKeyReplacer = strings.NewReplacer(".", "_")

// setConfigDefaults registers the built-in defaults under the keys used
// in secedgartext.yaml.
func setConfigDefaults() {
	d := types.DefaultPipelineConfig()

	viper.SetDefault("extraction.input_dir", d.Extraction.InputDir)
	viper.SetDefault("extraction.output_dir", d.Extraction.OutputDir)
	viper.SetDefault("extraction.form_type", d.Extraction.FormType)
	viper.SetDefault("extraction.method", string(d.Extraction.Method))
	viper.SetDefault("extraction.search_terms_file", d.Extraction.SearchTermsFile)
	viper.SetDefault("extraction.remove_short_lines", d.Extraction.RemoveShortLines)
	viper.SetDefault("extraction.skip_existing", d.Extraction.SkipExisting)
	viper.SetDefault("extraction.write_sql", d.Extraction.WriteSQL)
	viper.SetDefault("extraction.workers", d.Extraction.Workers)

	viper.SetDefault("fetch.timeout", d.Fetch.Timeout)
	viper.SetDefault("fetch.user_agent", d.Fetch.UserAgent)
	viper.SetDefault("fetch.requests_per_second", d.Fetch.RequestsPerSecond)
	viper.SetDefault("fetch.max_retries", d.Fetch.MaxRetries)
	viper.SetDefault("fetch.output_dir", d.Fetch.OutputDir)

	viper.SetDefault("store.path", d.Store.Path)
	viper.SetDefault("store.max_results", d.Store.MaxResults)
}

// bindFlags binds each command flag to its config key. Flags set on the
// command line win over the config file and the environment.
func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for flag, key := range keys {
		viper.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

// bindPersistentFlags is bindFlags for flags inherited by subcommands.
func bindPersistentFlags(cmd *cobra.Command, keys map[string]string) {
	for flag, key := range keys {
		viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag))
	}
}

// pipelineConfig assembles the effective configuration.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Extraction: types.ExtractionConfig{
			InputDir:         viper.GetString("extraction.input_dir"),
			OutputDir:        viper.GetString("extraction.output_dir"),
			FormType:         viper.GetString("extraction.form_type"),
			Method:           types.ExtractionMethod(viper.GetString("extraction.method")),
			SearchTermsFile:  viper.GetString("extraction.search_terms_file"),
			RemoveShortLines: viper.GetBool("extraction.remove_short_lines"),
			SkipExisting:     viper.GetBool("extraction.skip_existing"),
			WriteSQL:         viper.GetBool("extraction.write_sql"),
			Workers:          viper.GetInt("extraction.workers"),
		},
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("fetch.timeout"),
				UserAgent: viper.GetString("fetch.user_agent"),
			},
			RequestsPerSecond: viper.GetFloat64("fetch.requests_per_second"),
			MaxRetries:        viper.GetInt("fetch.max_retries"),
			OutputDir:         viper.GetString("fetch.output_dir"),
		},
		Store: types.StoreConfig{
			Path:       viper.GetString("store.path"),
			MaxResults: viper.GetInt("store.max_results"),
		},
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config prints the configuration after merging built-in defaults, the
config file, SECEDGARTEXT_* environment variables and flags. The output is a
valid secedgartext.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(pipelineConfig()); err != nil {
			return err
		}
		return enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
