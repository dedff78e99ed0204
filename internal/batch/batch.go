// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs one aggregator sweep per dataset and collects the
// per-dataset reports. It owns the I/O around the core: loading and
// normalizing the input table, choosing where artifacts go, and recording
// finished runs in the ledger.
package batch

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/pdiddy/seqref/internal/normalize"
	"github.com/pdiddy/seqref/internal/run"
	"github.com/pdiddy/seqref/internal/table"
	"github.com/pdiddy/seqref/pkg/types"
)

// Recorder persists a finished run and returns its id.
type Recorder interface {
	RecordRun(ctx context.Context, report types.RunReport) (string, error)
}

// Driver wires the pieces of one dataset sweep together.
type Driver struct {
	Resolver run.Resolver
	Columns  types.ColumnMap

	// SinkFor returns the artifact sink for a dataset. Nil writes nothing.
	SinkFor func(dataset string) run.Sink

	// Recorder, when set, stores every completed run.
	Recorder Recorder

	// ProgressFor, when set, returns a progress hook for a dataset of n
	// records.
	ProgressFor func(dataset string, n int) run.ProgressFunc

	Logger *zap.Logger
}

// DatasetResult is the outcome of one dataset in a batch.
type DatasetResult struct {
	Name   string
	Input  string
	RunID  string
	Report *types.RunReport
	Err    error
}

// RunDataset loads inputPath, sweeps it and writes its artifacts.
func (d *Driver) RunDataset(ctx context.Context, name, inputPath string) DatasetResult {
	log := d.logger().With(zap.String("dataset", name), zap.String("input", inputPath))
	dr := DatasetResult{Name: name, Input: inputPath}

	requireAccession := d.Resolver.Mode() == types.ByAccession
	raws, err := table.Load(inputPath, d.Columns, requireAccession)
	if err != nil {
		dr.Err = errors.Wrapf(err, "dataset %s", name)
		return dr
	}
	records := normalize.All(raws)

	agg := &run.Aggregator{Resolver: d.Resolver, Logger: d.Logger}
	if d.SinkFor != nil {
		agg.Sink = d.SinkFor(name)
	}
	if d.ProgressFor != nil {
		agg.Progress = d.ProgressFor(name, len(records))
	}

	res, err := agg.Run(ctx, name, records)
	if res != nil {
		dr.Report = &res.Report
	}
	if err != nil {
		dr.Err = err
		return dr
	}

	if d.Recorder != nil {
		id, err := d.Recorder.RecordRun(ctx, res.Report)
		if err != nil {
			// Artifacts are already on disk.
			log.Warn("recording run in ledger failed", zap.Error(err))
		} else {
			dr.RunID = id
			log.Debug("run recorded", zap.String("run_id", id))
		}
	}
	return dr
}

// Run sweeps every dataset in m in order. A dataset that fails to load or
// write is reported and the batch moves on; a cancelled context stops the
// batch. The returned error combines all dataset errors.
func (d *Driver) Run(ctx context.Context, m *Manifest) ([]DatasetResult, error) {
	var results []DatasetResult
	var combined error

	for _, ds := range m.Datasets {
		if err := ctx.Err(); err != nil {
			return results, errors.CombineErrors(combined, errors.Wrap(err, "batch interrupted"))
		}

		dr := d.RunDataset(ctx, ds.Name, ds.InputPath(m.InputDir))
		results = append(results, dr)
		if dr.Err != nil {
			d.logger().Error("dataset failed", zap.String("dataset", ds.Name), zap.Error(dr.Err))
			combined = errors.CombineErrors(combined, dr.Err)
		}
	}
	return results, combined
}

func (d *Driver) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
