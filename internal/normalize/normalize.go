// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns raw input rows into the canonical records the
// resolver consumes.
package normalize

import (
	"regexp"
	"strings"

	"github.com/pdiddy/seqref/pkg/types"
)

// trailingParen matches one parenthetical group anchored at the end of the
// label, along with the whitespace around it.
var trailingParen = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// Record converts a RawRecord to a CanonicalRecord. It never fails;
// malformed strings degrade to whatever tokens they have.
func Record(raw types.RawRecord) types.CanonicalRecord {
	return types.CanonicalRecord{
		ProteinName: ProteinName(raw.Protein),
		Organism:    Organism(raw.Taxonomy),
		AccessionID: raw.Accession,
	}
}

// All normalizes every row, preserving order.
func All(raws []types.RawRecord) []types.CanonicalRecord {
	out := make([]types.CanonicalRecord, len(raws))
	for i, r := range raws {
		out[i] = Record(r)
	}
	return out
}

// ProteinName strips the trailing "(...)" group from label.
// "Hemoglobin subunit alpha (partial)" becomes "Hemoglobin subunit alpha";
// "Protein (x) kinase" is left alone. Stacked groups such as "A (b) (c)"
// are stripped until none remains at the end, so the result is stable
// under repeated normalization.
func ProteinName(label string) string {
	name := strings.TrimSpace(label)
	for trailingParen.MatchString(name) {
		name = strings.TrimSpace(trailingParen.ReplaceAllString(name, ""))
	}
	return name
}

// Organism keeps the first two whitespace-separated tokens of taxonomy.
func Organism(taxonomy string) string {
	fields := strings.Fields(taxonomy)
	if len(fields) > 2 {
		fields = fields[:2]
	}
	return strings.Join(fields, " ")
}
