package types

import "time"

// HTTPConfig holds shared HTTP settings used by both source clients.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 (0 uses the transport default).
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`
}

// UniProtConfig holds settings for the primary source.
type UniProtConfig struct {
	// BaseURL is the UniProtKB search endpoint.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Delay is the minimum interval between requests (default 400ms).
	Delay time.Duration `mapstructure:"delay" yaml:"delay"`
}

// NCBIConfig holds settings for the secondary source (E-utilities).
type NCBIConfig struct {
	ESearchURL string `mapstructure:"esearch_url" yaml:"esearch_url"`
	EFetchURL  string `mapstructure:"efetch_url" yaml:"efetch_url"`

	// DB is the Entrez database queried (default "protein").
	DB string `mapstructure:"db" yaml:"db"`

	// Delay is the minimum interval between requests (default 400ms).
	Delay time.Duration `mapstructure:"delay" yaml:"delay"`

	// FailureBackoff is the extra pause after a failed search or fetch
	// (default 1s).
	FailureBackoff time.Duration `mapstructure:"failure_backoff" yaml:"failure_backoff"`

	// Email, Tool and APIKey identify the caller to NCBI. Email and APIKey
	// may also come from .secrets/.
	Email  string `mapstructure:"email" yaml:"email"`
	Tool   string `mapstructure:"tool" yaml:"tool"`
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty"`
}

// ColumnMap names the input table columns mapped onto RawRecord fields.
type ColumnMap struct {
	Protein   string `mapstructure:"protein" yaml:"protein"`
	Organism  string `mapstructure:"organism" yaml:"organism"`
	Accession string `mapstructure:"accession" yaml:"accession"`
}

// OutputConfig names the directories final artifacts are written to.
type OutputConfig struct {
	FastaDir  string `mapstructure:"fasta_dir" yaml:"fasta_dir"`
	ReportDir string `mapstructure:"report_dir" yaml:"report_dir"`
}

// LedgerConfig controls the SQLite run history.
type LedgerConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// RunConfig holds per-invocation run settings.
type RunConfig struct {
	// ByAccession selects ByAccession mode for every dataset in the run.
	ByAccession bool `mapstructure:"by_accession" yaml:"by_accession"`
}

// Mode returns the RunMode selected by the config.
func (r RunConfig) Mode() RunMode {
	if r.ByAccession {
		return ByAccession
	}
	return ByName
}

// Config groups all settings for a seqref invocation.
type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http" yaml:"http"`
	UniProt UniProtConfig `mapstructure:"uniprot" yaml:"uniprot"`
	NCBI    NCBIConfig    `mapstructure:"ncbi" yaml:"ncbi"`
	Columns ColumnMap     `mapstructure:"columns" yaml:"columns"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Ledger  LedgerConfig  `mapstructure:"ledger" yaml:"ledger"`
	Run     RunConfig     `mapstructure:"run" yaml:"run"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Timeout:    10 * time.Second,
			UserAgent:  "seqref/0.1",
			MaxRetries: 5,
		},
		UniProt: UniProtConfig{
			BaseURL: "https://rest.uniprot.org/uniprotkb/search",
			Delay:   400 * time.Millisecond,
		},
		NCBI: NCBIConfig{
			ESearchURL:     "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi",
			EFetchURL:      "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi",
			DB:             "protein",
			Delay:          400 * time.Millisecond,
			FailureBackoff: time.Second,
			Tool:           "seqref",
		},
		Columns: ColumnMap{
			Protein:   "protid",
			Organism:  "Taxonomy",
			Accession: "Protein_Accession",
		},
		Output: OutputConfig{
			FastaDir:  "fastas_ref",
			ReportDir: "search_reports",
		},
		Ledger: LedgerConfig{
			Enabled: true,
			Path:    "seqref.db",
		},
	}
}
