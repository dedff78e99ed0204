// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/seqref/internal/batch"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Retrieve reference sequences for every dataset in a manifest",
	Long: `Batch runs fetch for each dataset listed in a YAML manifest, in order.
A dataset whose table cannot be read is reported and skipped; the rest of the
batch still runs. Input tables default to <input_dir>/<prefix>/<name>.csv.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().String("manifest", "datasets.yaml", "dataset manifest")
	batchCmd.Flags().Bool("by-accession", false, "fetch by each table's accession column")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("manifest")
	m, err := batch.LoadManifest(path)
	if err != nil {
		return err
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

	results, runErr := p.driver.Run(ctx, m)
	for _, dr := range results {
		printSummary(dr)
	}
	if err := printBatchTable(results); err != nil {
		log.Warn("rendering batch table failed", zap.Error(err))
	}

	if runErr != nil {
		failed := 0
		for _, dr := range results {
			if dr.Err != nil {
				failed++
			}
		}
		return errors.Wrapf(runErr, "%d of %d dataset(s) failed", failed, len(m.Datasets))
	}
	return nil
}
