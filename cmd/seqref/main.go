// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the seqref CLI. It retrieves
// reference protein sequences for screening datasets, querying UniProt
// first and falling back to NCBI.
package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/seqref/internal/logger"
	"github.com/pdiddy/seqref/internal/secrets"
	"github.com/pdiddy/seqref/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	log           = zap.NewNop()
	loadedSecrets secrets.Secrets
)

// rootCmd is the base command for the seqref CLI.
var rootCmd = &cobra.Command{
	Use:   "seqref",
	Short: "Retrieve reference protein sequences from UniProt and NCBI",
	Long: `seqref reads a table of screened proteins, looks each one up in UniProt
(falling back to NCBI Entrez), and writes a FASTA collection together with a
per-protein search report.

Use "fetch" for a single table and "batch" for every dataset in a manifest.
Completed runs are recorded in a local SQLite ledger; "history" lists them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("log-json")
		level, _ := cmd.Flags().GetString("log-level")
		l, err := logger.New(jsonOut, level)
		if err != nil {
			return err
		}
		log = l

		if used := viper.ConfigFileUsed(); used != "" {
			log.Debug("using config file", zap.String("path", used))
		}

		s, err := secrets.Load(".secrets/", log)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			log.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./seqref.yaml or ~/.config/seqref/seqref.yaml)")
	rootCmd.PersistentFlags().Bool("log-json", false, "emit JSON logs on stderr")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("seqref")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "seqref"))
		}
	}

	setDefaults(viper.GetViper(), types.DefaultConfig())
	viper.SetEnvPrefix("SEQREF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// setDefaults registers every config key so environment variables such as
// SEQREF_NCBI_EMAIL are seen by Unmarshal.
func setDefaults(v *viper.Viper, d types.Config) {
	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("http.max_retries", d.HTTP.MaxRetries)
	v.SetDefault("uniprot.base_url", d.UniProt.BaseURL)
	v.SetDefault("uniprot.delay", d.UniProt.Delay)
	v.SetDefault("ncbi.esearch_url", d.NCBI.ESearchURL)
	v.SetDefault("ncbi.efetch_url", d.NCBI.EFetchURL)
	v.SetDefault("ncbi.db", d.NCBI.DB)
	v.SetDefault("ncbi.delay", d.NCBI.Delay)
	v.SetDefault("ncbi.failure_backoff", d.NCBI.FailureBackoff)
	v.SetDefault("ncbi.email", d.NCBI.Email)
	v.SetDefault("ncbi.tool", d.NCBI.Tool)
	v.SetDefault("ncbi.api_key", d.NCBI.APIKey)
	v.SetDefault("columns.protein", d.Columns.Protein)
	v.SetDefault("columns.organism", d.Columns.Organism)
	v.SetDefault("columns.accession", d.Columns.Accession)
	v.SetDefault("output.fasta_dir", d.Output.FastaDir)
	v.SetDefault("output.report_dir", d.Output.ReportDir)
	v.SetDefault("ledger.enabled", d.Ledger.Enabled)
	v.SetDefault("ledger.path", d.Ledger.Path)
	v.SetDefault("run.by_accession", d.Run.ByAccession)
}

// loadConfig decodes viper state over the defaults and fills NCBI
// credentials from .secrets/.
func loadConfig(v *viper.Viper) (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "decoding configuration")
	}
	loadedSecrets.ApplyNCBI(&cfg.NCBI)
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
