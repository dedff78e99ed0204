// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package run drives one sequential sweep over a dataset's records. It
// accumulates found sequences and per-record report rows, and is the only
// place that writes a run's final artifacts.
package run

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/pdiddy/seqref/pkg/types"
)

// Separator joins FASTA entries in the output collection.
const Separator = "\n\n"

// Resolver yields the outcome for one record.
type Resolver interface {
	Mode() types.RunMode
	Resolve(ctx context.Context, rec types.CanonicalRecord) types.Outcome
}

// Sink receives a finished run's artifacts.
type Sink interface {
	Write(res *Result) error
}

// ProgressFunc is called after each record. It does not influence outcomes.
type ProgressFunc func(done, total int, o types.Outcome)

// Result holds everything a sweep produced.
type Result struct {
	Sequences []string
	Report    types.RunReport
}

// FASTA returns the sequence collection, one blank line between entries.
func (r *Result) FASTA() string {
	return strings.Join(r.Sequences, Separator)
}

// Aggregator iterates records through a Resolver.
type Aggregator struct {
	Resolver Resolver
	Sink     Sink
	Progress ProgressFunc
	Logger   *zap.Logger
}

// Run resolves every record in input order, then hands the result to the
// Sink. Individual lookup failures never stop the sweep; only a cancelled
// context does, in which case nothing is written.
func (a *Aggregator) Run(ctx context.Context, dataset string, records []types.CanonicalRecord) (*Result, error) {
	log := a.logger().With(zap.String("dataset", dataset))
	mode := a.Resolver.Mode()

	res := &Result{
		Report: types.RunReport{
			Dataset:   dataset,
			Mode:      mode,
			StartedAt: time.Now().UTC(),
			Rows:      make([]types.ReportRow, 0, len(records)),
		},
	}

	log.Info("run started", zap.Int("records", len(records)), zap.Stringer("mode", mode))

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "run %s interrupted after %d of %d records", dataset, i, len(records))
		}

		out := a.Resolver.Resolve(ctx, rec)
		if out.Found() {
			res.Sequences = append(res.Sequences, out.Sequence)
		}
		row := types.RowFromOutcome(out)
		if mode == types.ByAccession {
			row.AccessionID = rec.AccessionID
		} else {
			row.AccessionID = ""
		}
		res.Report.Rows = append(res.Report.Rows, row)

		if a.Progress != nil {
			a.Progress(i+1, len(records), out)
		}
	}

	res.Report.FinishedAt = time.Now().UTC()
	res.Report.Summary = types.Summarize(res.Report.Rows)

	s := res.Report.Summary
	log.Info("run finished",
		zap.Int("total", s.Total),
		zap.Int("found", s.Found),
		zap.Int("found_by_primary", s.FoundByPrimary),
		zap.Int("found_by_secondary", s.FoundBySecondary),
		zap.Int("not_found", s.NotFound))

	if a.Sink != nil {
		if err := a.Sink.Write(res); err != nil {
			return res, errors.Wrapf(err, "writing artifacts for %s", dataset)
		}
	}
	return res, nil
}

func (a *Aggregator) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}
