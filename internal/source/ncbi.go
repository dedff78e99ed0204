// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/seqref/internal/httputil"
	"github.com/pdiddy/seqref/internal/throttle"
	"github.com/pdiddy/seqref/pkg/types"
)

const defaultFailureBackoff = time.Second

// NCBI is the secondary source client. It supports two entry modes that
// share one fetch step: search-then-fetch by name and organism, and
// fetch-only by a known accession id.
type NCBI struct {
	Finder  Finder
	Fetcher Fetcher
	Pacer   throttle.Pacer
	Logger  *zap.Logger

	// FailureBackoff is the extra pause applied to Pacer after any failed
	// search or fetch.
	FailureBackoff time.Duration
}

// NewNCBI builds the secondary client over E-utilities.
func NewNCBI(hc *httputil.Client, cfg types.NCBIConfig, logger *zap.Logger) *NCBI {
	e := NewEntrez(hc, cfg)
	backoff := cfg.FailureBackoff
	if backoff < cfg.Delay {
		backoff = cfg.Delay
	}
	return &NCBI{
		Finder:         e,
		Fetcher:        e,
		Pacer:          throttle.New(cfg.Delay),
		Logger:         logger,
		FailureBackoff: backoff,
	}
}

// Name returns the source identifier.
func (n *NCBI) Name() string { return "ncbi" }

// SearchAndFetch finds the first identifier matching proteinName and
// organism and fetches its record. Any further identifiers are discarded.
func (n *NCBI) SearchAndFetch(ctx context.Context, proteinName, organism string) Result {
	log := n.logger().With(zap.String("protein", proteinName), zap.String("organism", organism))

	if err := n.wait(ctx); err != nil {
		return n.fail(log, err)
	}
	ids, err := n.Finder.FindIDs(ctx, proteinName, organism)
	if err != nil {
		return n.fail(log, err)
	}
	if len(ids) == 0 || ids[0] == "" {
		log.Debug("ncbi miss", zap.String("reason", reasonNoIdentifier))
		return Miss(reasonNoIdentifier)
	}
	if len(ids) > 1 {
		log.Debug("ncbi search returned several ids, using the first",
			zap.String("id", ids[0]), zap.Int("discarded", len(ids)-1))
	}

	return n.fetch(ctx, log.With(zap.String("id", ids[0])), ids[0])
}

// FetchByID fetches the record for a known accession id. proteinName and
// organism are used only for log context.
func (n *NCBI) FetchByID(ctx context.Context, proteinName, organism, accessionID string) Result {
	log := n.logger().With(
		zap.String("protein", proteinName),
		zap.String("organism", organism),
		zap.String("accession", accessionID))
	return n.fetch(ctx, log, accessionID)
}

func (n *NCBI) fetch(ctx context.Context, log *zap.Logger, id string) Result {
	if err := n.wait(ctx); err != nil {
		return n.fail(log, err)
	}
	body, err := n.Fetcher.FetchFASTA(ctx, id)
	if err != nil {
		return n.fail(log, err)
	}
	return accept(body, log, "ncbi miss")
}

func (n *NCBI) wait(ctx context.Context) error {
	if n.Pacer == nil {
		return ctx.Err()
	}
	return n.Pacer.Wait(ctx)
}

// fail logs err, backs off the pacer and converts err to a Result.
func (n *NCBI) fail(log *zap.Logger, err error) Result {
	log.Warn("ncbi lookup failed", zap.Error(err))
	if n.Pacer != nil {
		backoff := n.FailureBackoff
		if backoff <= 0 {
			backoff = defaultFailureBackoff
		}
		n.Pacer.Backoff(backoff)
	}
	return Failed(err)
}

func (n *NCBI) logger() *zap.Logger {
	if n.Logger == nil {
		return zap.NewNop()
	}
	return n.Logger
}
