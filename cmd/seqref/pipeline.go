// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/seqref/internal/batch"
	"github.com/pdiddy/seqref/internal/httputil"
	"github.com/pdiddy/seqref/internal/ledger"
	"github.com/pdiddy/seqref/internal/output"
	"github.com/pdiddy/seqref/internal/resolve"
	"github.com/pdiddy/seqref/internal/run"
	"github.com/pdiddy/seqref/internal/source"
	"github.com/pdiddy/seqref/pkg/types"
)

// pipeline holds the wired components for one invocation.
type pipeline struct {
	driver *batch.Driver
	ledger *ledger.Store
}

// newPipeline builds both source clients, the resolver and the driver from
// cfg. The ledger is opened only when enabled.
func newPipeline(ctx context.Context, cmd *cobra.Command, cfg types.Config) (*pipeline, error) {
	hc := httputil.NewClient(cfg.HTTP, log)
	primary := source.NewUniProt(hc, cfg.UniProt, log)
	secondary := source.NewNCBI(hc, cfg.NCBI, log)

	if cfg.NCBI.Email == "" {
		log.Warn("no NCBI contact e-mail configured; set ncbi.email or .secrets/ncbi-email")
	}

	layout := output.NewLayout(cfg.Output)
	p := &pipeline{
		driver: &batch.Driver{
			Resolver: resolve.New(cfg.Run.Mode(), primary, secondary, log),
			Columns:  cfg.Columns,
			SinkFor:  func(string) run.Sink { return &output.FileSink{Layout: layout} },
			Logger:   log,
		},
	}

	if jsonOut, _ := cmd.Flags().GetBool("log-json"); !jsonOut {
		p.driver.ProgressFor = progressBar
	}

	if cfg.Ledger.Enabled {
		store, err := ledger.Open(ctx, cfg.Ledger.Path)
		if err != nil {
			log.Warn("run ledger unavailable", zap.String("path", cfg.Ledger.Path), zap.Error(err))
		} else {
			p.ledger = store
			p.driver.Recorder = store
		}
	}
	return p, nil
}

func (p *pipeline) Close() {
	if p.ledger != nil {
		if err := p.ledger.Close(); err != nil {
			log.Warn("closing ledger", zap.Error(err))
		}
	}
}

// applyModeFlag lets --by-accession override run.by_accession.
func applyModeFlag(cmd *cobra.Command, cfg *types.Config) {
	if cmd.Flags().Changed("by-accession") {
		cfg.Run.ByAccession, _ = cmd.Flags().GetBool("by-accession")
	}
}
