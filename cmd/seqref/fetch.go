// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Retrieve reference sequences for one input table",
	Long: `Fetch reads one CSV table of proteins, looks up each record and writes
<name>_proteins.fasta and <name>_search_report.csv. By default records are
searched by protein name and organism in UniProt, then NCBI. With
--by-accession the table's accession column is fetched directly from NCBI.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("input", "", "input CSV table (required)")
	fetchCmd.Flags().String("name", "", "dataset name for output files (default: input file name)")
	fetchCmd.Flags().Bool("by-accession", false, "fetch by the table's accession column")
	_ = fetchCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	applyModeFlag(cmd, &cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := newPipeline(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	dr := p.driver.RunDataset(ctx, name, input)
	printSummary(dr)
	if dr.Err != nil {
		return errors.Wrapf(dr.Err, "fetch %s", name)
	}
	return nil
}
