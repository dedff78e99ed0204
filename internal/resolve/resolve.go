// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve decides, per canonical record, which sources to consult
// and in what order.
//
// In ByName mode the primary source is always tried first; the secondary
// source is tried only when the primary misses. In ByAccession mode only
// the secondary source's fetch-by-id is used. A miss is final for that
// source and record.
package resolve

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/seqref/internal/source"
	"github.com/pdiddy/seqref/pkg/types"
)

// Primary looks a protein up by name and organism.
type Primary interface {
	Lookup(ctx context.Context, proteinName, organism string) source.Result
}

// Secondary supports search-then-fetch and fetch-by-id.
type Secondary interface {
	SearchAndFetch(ctx context.Context, proteinName, organism string) source.Result
	FetchByID(ctx context.Context, proteinName, organism, accessionID string) source.Result
}

// Resolver applies the run mode's fallback policy to one record at a time.
type Resolver struct {
	mode      types.RunMode
	primary   Primary
	secondary Secondary
	logger    *zap.Logger
}

// New returns a Resolver. primary may be nil in ByAccession mode.
func New(mode types.RunMode, primary Primary, secondary Secondary, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{mode: mode, primary: primary, secondary: secondary, logger: logger}
}

// Mode returns the run mode the resolver was built for.
func (r *Resolver) Mode() types.RunMode { return r.mode }

// Resolve produces the outcome for rec. It never fails: source failures
// have already been logged by the client and count as misses here.
func (r *Resolver) Resolve(ctx context.Context, rec types.CanonicalRecord) types.Outcome {
	if r.mode == types.ByAccession {
		return r.byAccession(ctx, rec)
	}
	return r.byName(ctx, rec)
}

func (r *Resolver) byName(ctx context.Context, rec types.CanonicalRecord) types.Outcome {
	if r.primary != nil {
		if res := r.primary.Lookup(ctx, rec.ProteinName, rec.Organism); res.OK() {
			return found(rec, "", types.SourcePrimary, res.Sequence)
		}
	}
	if res := r.secondary.SearchAndFetch(ctx, rec.ProteinName, rec.Organism); res.OK() {
		return found(rec, "", types.SourceSecondary, res.Sequence)
	}
	return notFound(rec, "")
}

// byAccession fetches by id. A row with a blank id has nothing to fetch,
// so it falls back to a name search on the secondary source.
func (r *Resolver) byAccession(ctx context.Context, rec types.CanonicalRecord) types.Outcome {
	id := strings.TrimSpace(rec.AccessionID)

	var res source.Result
	if id == "" {
		r.logger.Debug("blank accession id, searching by name",
			zap.String("protein", rec.ProteinName), zap.String("organism", rec.Organism))
		res = r.secondary.SearchAndFetch(ctx, rec.ProteinName, rec.Organism)
	} else {
		res = r.secondary.FetchByID(ctx, rec.ProteinName, rec.Organism, id)
	}

	if res.OK() {
		return found(rec, rec.AccessionID, types.SourceSecondary, res.Sequence)
	}
	return notFound(rec, rec.AccessionID)
}

func found(rec types.CanonicalRecord, accession string, src types.SourceName, seq string) types.Outcome {
	return types.Outcome{
		Record:      rec,
		AccessionID: accession,
		Status:      types.StatusFound,
		Source:      src,
		Sequence:    seq,
	}
}

func notFound(rec types.CanonicalRecord, accession string) types.Outcome {
	return types.Outcome{
		Record:      rec,
		AccessionID: accession,
		Status:      types.StatusNotFound,
		Source:      types.SourceNone,
	}
}
