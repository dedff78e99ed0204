// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ReportRow is one line of the search report, in input order.
type ReportRow struct {
	Protein     string     `json:"protein" yaml:"protein"`
	Organism    string     `json:"organism" yaml:"organism"`
	AccessionID string     `json:"accession_id,omitempty" yaml:"accession_id,omitempty"`
	Status      Status     `json:"status" yaml:"status"`
	Source      SourceName `json:"source" yaml:"source"`
}

// RowFromOutcome builds the report row for an outcome.
func RowFromOutcome(o Outcome) ReportRow {
	return ReportRow{
		Protein:     o.Record.ProteinName,
		Organism:    o.Record.Organism,
		AccessionID: o.AccessionID,
		Status:      o.Status,
		Source:      o.Source,
	}
}

// Summary holds the per-run counts shown to the operator.
type Summary struct {
	Total            int `json:"total" yaml:"total"`
	Found            int `json:"found" yaml:"found"`
	FoundByPrimary   int `json:"found_by_primary" yaml:"found_by_primary"`
	FoundBySecondary int `json:"found_by_secondary" yaml:"found_by_secondary"`
	NotFound         int `json:"not_found" yaml:"not_found"`
}

// Summarize derives the counts from report rows.
func Summarize(rows []ReportRow) Summary {
	s := Summary{Total: len(rows)}
	for _, r := range rows {
		if r.Status != StatusFound {
			s.NotFound++
			continue
		}
		s.Found++
		switch r.Source {
		case SourcePrimary:
			s.FoundByPrimary++
		case SourceSecondary:
			s.FoundBySecondary++
		}
	}
	return s
}

// RunReport is the finalized report for one dataset sweep.
type RunReport struct {
	Dataset    string      `json:"dataset" yaml:"dataset"`
	Mode       RunMode     `json:"-" yaml:"-"`
	StartedAt  time.Time   `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time   `json:"finished_at" yaml:"finished_at"`
	Rows       []ReportRow `json:"rows" yaml:"rows"`
	Summary    Summary     `json:"summary" yaml:"summary"`
}
