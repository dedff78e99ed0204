// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/seqref/internal/source"
	"github.com/pdiddy/seqref/pkg/types"
)

const fasta = ">sp|P69905|HBA_HUMAN Hemoglobin subunit alpha\nMVLSPADKTNVKAAWGKVGAHAGEYGAEALERMF"

type mockPrimary struct {
	result source.Result
	calls  int
}

func (m *mockPrimary) Lookup(_ context.Context, _, _ string) source.Result {
	m.calls++
	return m.result
}

type mockSecondary struct {
	search   source.Result
	byID     source.Result
	searches int
	fetches  []string
}

func (m *mockSecondary) SearchAndFetch(_ context.Context, _, _ string) source.Result {
	m.searches++
	return m.search
}

func (m *mockSecondary) FetchByID(_ context.Context, _, _, id string) source.Result {
	m.fetches = append(m.fetches, id)
	return m.byID
}

var hba = types.CanonicalRecord{ProteinName: "Hemoglobin subunit alpha", Organism: "Homo sapiens"}

func TestByName_PrimaryHitStops(t *testing.T) {
	p := &mockPrimary{result: source.Found(fasta)}
	s := &mockSecondary{search: source.Found(">other\nAAA")}

	out := New(types.ByName, p, s, nil).Resolve(context.Background(), hba)

	assert.Equal(t, types.StatusFound, out.Status)
	assert.Equal(t, types.SourcePrimary, out.Source)
	assert.Equal(t, fasta, out.Sequence)
	assert.Equal(t, 0, s.searches, "secondary must not be consulted after a primary hit")
	assert.Empty(t, s.fetches)
}

func TestByName_FallsBackToSecondary(t *testing.T) {
	p := &mockPrimary{result: source.Miss("no match")}
	s := &mockSecondary{search: source.Found(fasta)}

	out := New(types.ByName, p, s, nil).Resolve(context.Background(), hba)

	assert.Equal(t, types.StatusFound, out.Status)
	assert.Equal(t, types.SourceSecondary, out.Source)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, 1, s.searches)
	assert.Empty(t, out.AccessionID)
}

func TestByName_PrimaryFailureFallsThrough(t *testing.T) {
	p := &mockPrimary{result: source.Failed(errors.New("connection refused"))}
	s := &mockSecondary{search: source.Found(fasta)}

	out := New(types.ByName, p, s, nil).Resolve(context.Background(), hba)
	assert.Equal(t, types.SourceSecondary, out.Source)
}

func TestByName_BothMiss(t *testing.T) {
	p := &mockPrimary{result: source.Miss("no match")}
	s := &mockSecondary{search: source.Failed(errors.New("HTTP 500"))}

	out := New(types.ByName, p, s, nil).Resolve(context.Background(), hba)

	assert.Equal(t, types.StatusNotFound, out.Status)
	assert.Equal(t, types.SourceNone, out.Source)
	assert.Empty(t, out.Sequence)
	assert.Equal(t, 1, p.calls, "no retry after a miss")
	assert.Equal(t, 1, s.searches, "no retry after a miss")
}

func TestByAccession_OnlyFetchByID(t *testing.T) {
	p := &mockPrimary{result: source.Found(fasta)}
	s := &mockSecondary{byID: source.Found(fasta)}
	rec := types.CanonicalRecord{ProteinName: "Catalase", Organism: "Escherichia coli", AccessionID: "P13029"}

	out := New(types.ByAccession, p, s, nil).Resolve(context.Background(), rec)

	assert.Equal(t, 0, p.calls, "primary is never used in accession mode")
	assert.Equal(t, 0, s.searches)
	assert.Equal(t, []string{"P13029"}, s.fetches)
	assert.Equal(t, types.SourceSecondary, out.Source)
	assert.Equal(t, "P13029", out.AccessionID)
}

func TestByAccession_MissKeepsAccession(t *testing.T) {
	s := &mockSecondary{byID: source.Miss("not a sequence record")}
	rec := types.CanonicalRecord{ProteinName: "Catalase", Organism: "Escherichia coli", AccessionID: "P13029"}

	out := New(types.ByAccession, nil, s, nil).Resolve(context.Background(), rec)
	assert.Equal(t, types.StatusNotFound, out.Status)
	assert.Equal(t, types.SourceNone, out.Source)
	assert.Equal(t, "P13029", out.AccessionID)
}

func TestByAccession_BlankIDSearchesByName(t *testing.T) {
	s := &mockSecondary{search: source.Found(fasta)}
	rec := types.CanonicalRecord{ProteinName: "Catalase", Organism: "Escherichia coli", AccessionID: "  "}

	out := New(types.ByAccession, nil, s, nil).Resolve(context.Background(), rec)
	require.Equal(t, types.StatusFound, out.Status)
	assert.Equal(t, 1, s.searches)
	assert.Empty(t, s.fetches)
}

func TestByAccession_TrimsID(t *testing.T) {
	s := &mockSecondary{byID: source.Found(fasta)}
	rec := types.CanonicalRecord{ProteinName: "Catalase", Organism: "Escherichia coli", AccessionID: " P13029 "}

	New(types.ByAccession, nil, s, nil).Resolve(context.Background(), rec)
	assert.Equal(t, []string{"P13029"}, s.fetches)
}

func TestResolverMode(t *testing.T) {
	assert.Equal(t, types.ByAccession, New(types.ByAccession, nil, &mockSecondary{}, nil).Mode())
}
