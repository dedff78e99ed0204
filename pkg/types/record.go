// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the seqref pipeline:
// input records in raw and canonical form, per-record lookup outcomes, and
// the run report built from them.
package types

import (
	"fmt"
	"strings"
)

// HeaderMarker is the first character of every FASTA entry.
const HeaderMarker = ">"

// IsSequenceRecord reports whether s structurally looks like a FASTA entry.
// No other validation is applied to sequence text.
func IsSequenceRecord(s string) bool {
	return strings.HasPrefix(s, HeaderMarker)
}

// RawRecord is one row of the input table as loaded, before normalization.
type RawRecord struct {
	// Protein is the free-form protein label, possibly with a trailing
	// parenthetical annotation (e.g. "Catalase (fragment)").
	Protein string

	// Taxonomy is the free-form organism string, possibly carrying strain
	// or subspecies tokens (e.g. "Homo sapiens sapiens").
	Taxonomy string

	// Accession is the optional external accession id for the row.
	Accession string
}

// CanonicalRecord is the normalized form of a RawRecord that the resolver
// consumes. ProteinName never ends in a "(...)" group and Organism holds at
// most two whitespace-separated tokens.
type CanonicalRecord struct {
	ProteinName string `json:"protein" yaml:"protein"`
	Organism    string `json:"organism" yaml:"organism"`
	AccessionID string `json:"accession_id,omitempty" yaml:"accession_id,omitempty"`
}

// Status is the terminal state of a lookup.
type Status string

const (
	StatusFound    Status = "found"
	StatusNotFound Status = "not-found"
)

// SourceName identifies which database produced a sequence.
type SourceName string

const (
	SourceNone      SourceName = ""
	SourcePrimary   SourceName = "primary"
	SourceSecondary SourceName = "secondary"
)

// RunMode selects the resolver path for every record in a run.
type RunMode int

const (
	// ByName queries the primary source by name and organism, falling back
	// to a name search on the secondary source.
	ByName RunMode = iota

	// ByAccession fetches each record from the secondary source by its
	// accession id. The primary source is never consulted.
	ByAccession
)

func (m RunMode) String() string {
	switch m {
	case ByAccession:
		return "accession"
	default:
		return "name"
	}
}

// ParseRunMode converts "name" or "accession" to a RunMode.
func ParseRunMode(s string) (RunMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name", "by-name":
		return ByName, nil
	case "accession", "by-accession":
		return ByAccession, nil
	default:
		return ByName, fmt.Errorf("unknown run mode %q (want name or accession)", s)
	}
}

// Outcome is the resolver's verdict for one record. It is never mutated
// after creation.
type Outcome struct {
	Record CanonicalRecord

	// AccessionID is populated only in ByAccession mode.
	AccessionID string

	Status   Status
	Source   SourceName
	Sequence string
}

// Found reports whether the outcome carries a sequence.
func (o Outcome) Found() bool {
	return o.Status == StatusFound
}
