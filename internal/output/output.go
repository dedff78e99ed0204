// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output writes a run's artifacts: the FASTA collection, the CSV
// search report and a YAML summary.
package output

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/seqref/internal/run"
	"github.com/pdiddy/seqref/pkg/types"
)

// Layout locates artifacts for a dataset.
type Layout struct {
	FastaDir  string
	ReportDir string
}

// NewLayout builds a Layout from cfg.
func NewLayout(cfg types.OutputConfig) Layout {
	return Layout{FastaDir: cfg.FastaDir, ReportDir: cfg.ReportDir}
}

// FASTAPath returns <fasta_dir>/<dataset>_proteins.fasta.
func (l Layout) FASTAPath(dataset string) string {
	return filepath.Join(l.FastaDir, dataset+"_proteins.fasta")
}

// ReportPath returns <report_dir>/<dataset>_search_report.csv.
func (l Layout) ReportPath(dataset string) string {
	return filepath.Join(l.ReportDir, dataset+"_search_report.csv")
}

// SummaryPath returns <report_dir>/<dataset>_search_summary.yaml.
func (l Layout) SummaryPath(dataset string) string {
	return filepath.Join(l.ReportDir, dataset+"_search_summary.yaml")
}

// FileSink writes artifacts into a Layout. It implements run.Sink.
type FileSink struct {
	Layout Layout
}

// Write creates the output directories and writes all three artifacts.
func (s *FileSink) Write(res *run.Result) error {
	dataset := res.Report.Dataset
	for _, dir := range []string{s.Layout.FastaDir, s.Layout.ReportDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating directory %s", dir)
		}
	}

	if err := writeFile(s.Layout.FASTAPath(dataset), []byte(res.FASTA())); err != nil {
		return err
	}

	report, err := EncodeReport(res.Report)
	if err != nil {
		return err
	}
	if err := writeFile(s.Layout.ReportPath(dataset), report); err != nil {
		return err
	}

	summary, err := EncodeSummary(res.Report)
	if err != nil {
		return err
	}
	return writeFile(s.Layout.SummaryPath(dataset), summary)
}

// EncodeReport renders report rows as CSV. The accession_id column is
// present only for ByAccession runs.
func EncodeReport(r types.RunReport) ([]byte, error) {
	withAccession := r.Mode == types.ByAccession

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"protein", "organism"}
	if withAccession {
		header = append(header, "accession_id")
	}
	header = append(header, "status", "source")
	if err := w.Write(header); err != nil {
		return nil, errors.Wrap(err, "writing report header")
	}

	for _, row := range r.Rows {
		rec := []string{row.Protein, row.Organism}
		if withAccession {
			rec = append(rec, row.AccessionID)
		}
		rec = append(rec, string(row.Status), string(row.Source))
		if err := w.Write(rec); err != nil {
			return nil, errors.Wrap(err, "writing report row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "flushing report")
	}
	return buf.Bytes(), nil
}

// summaryFile is the on-disk YAML shape of a run summary.
type summaryFile struct {
	Dataset    string        `yaml:"dataset"`
	Mode       string        `yaml:"mode"`
	StartedAt  string        `yaml:"started_at"`
	FinishedAt string        `yaml:"finished_at"`
	Summary    types.Summary `yaml:"summary"`
}

const timeFmt = "2006-01-02T15:04:05Z07:00"

// EncodeSummary renders the run's counts as YAML.
func EncodeSummary(r types.RunReport) ([]byte, error) {
	sf := summaryFile{
		Dataset:    r.Dataset,
		Mode:       r.Mode.String(),
		StartedAt:  r.StartedAt.Format(timeFmt),
		FinishedAt: r.FinishedAt.Format(timeFmt),
		Summary:    r.Summary,
	}
	data, err := yaml.Marshal(&sf)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling summary")
	}
	return data, nil
}

// writeFile writes data to a temp file beside path and renames it into
// place, so readers never see a partial artifact.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".seqref-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(writeErr, "writing %s", path)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return errors.Wrap(closeErr, "closing temp file")
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "setting permissions on %s", path)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "renaming temp file to %s", path)
	}
	return nil
}
