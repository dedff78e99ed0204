// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table loads the input CSV into RawRecords, mapping configured
// column names onto record fields.
package table

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/pdiddy/seqref/pkg/types"
)

// ErrMissingColumn is returned when a required column is absent.
var ErrMissingColumn = errors.New("missing column")

// Load reads the CSV at path. The accession column is required only when
// requireAccession is set.
func Load(path string, cols types.ColumnMap, requireAccession bool) ([]types.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening input table %s", path)
	}
	defer f.Close()

	recs, err := Read(f, cols, requireAccession)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return recs, nil
}

// Read parses CSV from r. The first row is the header. A leading UTF-8 BOM
// is tolerated.
func Read(r io.Reader, cols types.ColumnMap, requireAccession bool) ([]types.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("input table is empty")
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading header")
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		index[h] = i
	}

	proteinIdx, err := column(index, cols.Protein)
	if err != nil {
		return nil, err
	}
	organismIdx, err := column(index, cols.Organism)
	if err != nil {
		return nil, err
	}
	accessionIdx := -1
	if i, ok := index[cols.Accession]; ok && cols.Accession != "" {
		accessionIdx = i
	} else if requireAccession {
		return nil, errors.WithHint(
			errors.Wrapf(ErrMissingColumn, "accession column %q", cols.Accession),
			"set columns.accession in seqref.yaml, or run without --by-accession")
	}

	var recs []types.RawRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		if blank(row) {
			continue
		}
		recs = append(recs, types.RawRecord{
			Protein:   field(row, proteinIdx),
			Taxonomy:  field(row, organismIdx),
			Accession: strings.TrimSpace(field(row, accessionIdx)),
		})
	}
	return recs, nil
}

func column(index map[string]int, name string) (int, error) {
	if i, ok := index[name]; ok && name != "" {
		return i, nil
	}
	return 0, errors.WithHint(
		errors.Wrapf(ErrMissingColumn, "column %q", name),
		"map the input headers with the columns.* keys in seqref.yaml")
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
