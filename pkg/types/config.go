package types

import "time"

// ExtractionMethod selects how a filing body is prepared and which
// search-term pair list is used against it.
type ExtractionMethod string

const (
	MethodAuto ExtractionMethod = "auto"
	MethodText ExtractionMethod = "txt"
	MethodHTML ExtractionMethod = "html"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests. EDGAR
	// rejects requests that do not identify a contact
	// (e.g. "Example Corp admin@example.com").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for downloading filings from EDGAR.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// RequestsPerSecond caps the request rate (EDGAR allows 10; default 5).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// MaxRetries is the number of retries on HTTP 429/503 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// OutputDir is where downloaded filing bodies are written.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// ExtractionConfig holds settings for the extraction stage.
type ExtractionConfig struct {
	// InputDir is scanned for filing bodies when no explicit paths are given.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives excerpt and metadata files.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// FormType selects the search-term list (e.g. "10-K").
	FormType string `json:"form_type" yaml:"form_type"`

	// Method selects the document variant: auto, txt, or html.
	Method ExtractionMethod `json:"method" yaml:"method"`

	// SearchTermsFile overrides the built-in search terms.
	SearchTermsFile string `json:"search_terms_file,omitempty" yaml:"search_terms_file,omitempty"`

	// RemoveShortLines strips page numbers, table placeholders and
	// table-of-contents lines from excerpts (default true).
	RemoveShortLines bool `json:"remove_short_lines" yaml:"remove_short_lines"`

	// SkipExisting skips documents that already have excerpts on disk.
	SkipExisting bool `json:"skip_existing" yaml:"skip_existing"`

	// WriteSQL also persists each metadata record to the metadata store.
	WriteSQL bool `json:"write_sql" yaml:"write_sql"`

	// Workers bounds how many documents are processed concurrently (default 4).
	Workers int `json:"workers" yaml:"workers"`
}

// StoreConfig holds settings for the SQLite metadata store.
type StoreConfig struct {
	// Path is the database file (default "index/secedgartext.db").
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default maximum number of query results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch"`
	Store      StoreConfig      `json:"store" yaml:"store"`
}

// DefaultPipelineConfig returns the configuration used when neither a
// config file nor flags override a value.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Extraction: ExtractionConfig{
			InputDir:         "filings/raw",
			OutputDir:        "filings/excerpts",
			FormType:         "10-K",
			Method:           MethodAuto,
			RemoveShortLines: true,
			Workers:          4,
		},
		Fetch: FetchConfig{
			HTTPConfig: HTTPConfig{
				Timeout: 60 * time.Second,
			},
			RequestsPerSecond: 5,
			MaxRetries:        5,
			OutputDir:         "filings/raw",
		},
		Store: StoreConfig{
			Path:       "index/secedgartext.db",
			MaxResults: 50,
		},
	}
}
