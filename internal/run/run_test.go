// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package run

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/seqref/internal/normalize"
	"github.com/pdiddy/seqref/internal/resolve"
	"github.com/pdiddy/seqref/internal/source"
	"github.com/pdiddy/seqref/pkg/types"
)

// --- scripted sources ---

// scriptedPrimary answers by protein name; unknown names miss.
type scriptedPrimary struct {
	answers map[string]source.Result
	calls   []string
}

func (s *scriptedPrimary) Lookup(_ context.Context, name, _ string) source.Result {
	s.calls = append(s.calls, name)
	if r, ok := s.answers[name]; ok {
		return r
	}
	return source.Miss("no match")
}

type scriptedSecondary struct {
	byName   map[string]source.Result
	byID     map[string]source.Result
	searches []string
	fetches  []string
}

func (s *scriptedSecondary) SearchAndFetch(_ context.Context, name, _ string) source.Result {
	s.searches = append(s.searches, name)
	if r, ok := s.byName[name]; ok {
		return r
	}
	return source.Miss("no identifier")
}

func (s *scriptedSecondary) FetchByID(_ context.Context, _, _, id string) source.Result {
	s.fetches = append(s.fetches, id)
	if r, ok := s.byID[id]; ok {
		return r
	}
	return source.Miss("not a sequence record")
}

type memorySink struct {
	got *Result
	err error
}

func (m *memorySink) Write(res *Result) error {
	m.got = res
	return m.err
}

func entry(name string) string {
	return fmt.Sprintf(">sp|X|%s\nMKVLAAGIVGLLLA", strings.ReplaceAll(name, " ", "_"))
}

func hbaRecords() []types.CanonicalRecord {
	return normalize.All([]types.RawRecord{
		{Protein: "Hemoglobin subunit alpha (partial)", Taxonomy: "Homo sapiens sapiens"},
	})
}

// --- lookup scenarios ---

func TestRun_FoundByPrimary(t *testing.T) {
	p := &scriptedPrimary{answers: map[string]source.Result{
		"Hemoglobin subunit alpha": source.Found(entry("hba")),
	}}
	s := &scriptedSecondary{}
	sink := &memorySink{}
	agg := &Aggregator{Resolver: resolve.New(types.ByName, p, s, nil), Sink: sink}

	res, err := agg.Run(context.Background(), "TJL_S", hbaRecords())
	require.NoError(t, err)

	require.Len(t, res.Report.Rows, 1)
	row := res.Report.Rows[0]
	assert.Equal(t, types.StatusFound, row.Status)
	assert.Equal(t, types.SourcePrimary, row.Source)
	assert.Equal(t, "Homo sapiens", row.Organism)
	assert.Equal(t, "Hemoglobin subunit alpha", row.Protein)
	assert.Empty(t, s.searches)
	assert.Same(t, res, sink.got)
}

func TestRun_FoundBySecondary(t *testing.T) {
	p := &scriptedPrimary{}
	s := &scriptedSecondary{byName: map[string]source.Result{
		"Hemoglobin subunit alpha": source.Found(entry("hba")),
	}}
	agg := &Aggregator{Resolver: resolve.New(types.ByName, p, s, nil)}

	res, err := agg.Run(context.Background(), "TJL_S", hbaRecords())
	require.NoError(t, err)
	assert.Equal(t, types.SourceSecondary, res.Report.Rows[0].Source)
	assert.Equal(t, []string{entry("hba")}, res.Sequences)
}

func TestRun_BothMiss(t *testing.T) {
	agg := &Aggregator{Resolver: resolve.New(types.ByName, &scriptedPrimary{}, &scriptedSecondary{}, nil)}

	res, err := agg.Run(context.Background(), "TJL_S", hbaRecords())
	require.NoError(t, err)
	assert.Empty(t, res.Sequences)
	assert.Equal(t, "", res.FASTA())
	assert.Equal(t, types.StatusNotFound, res.Report.Rows[0].Status)
	assert.Equal(t, types.SourceNone, res.Report.Rows[0].Source)
}

func TestRun_ByAccession(t *testing.T) {
	p := &scriptedPrimary{}
	s := &scriptedSecondary{byID: map[string]source.Result{"P13029": source.Found(entry("katg"))}}
	agg := &Aggregator{Resolver: resolve.New(types.ByAccession, p, s, nil)}

	recs := []types.CanonicalRecord{{ProteinName: "Catalase", Organism: "Escherichia coli", AccessionID: "P13029"}}
	res, err := agg.Run(context.Background(), "DDS_I", recs)
	require.NoError(t, err)

	assert.Empty(t, p.calls)
	assert.Equal(t, []string{"P13029"}, s.fetches)
	assert.Equal(t, "P13029", res.Report.Rows[0].AccessionID)
	assert.Equal(t, types.ByAccession, res.Report.Mode)
}

func TestRun_ByAccessionNotFoundKeepsAccession(t *testing.T) {
	agg := &Aggregator{Resolver: resolve.New(types.ByAccession, nil, &scriptedSecondary{}, nil)}

	recs := []types.CanonicalRecord{{ProteinName: "Catalase", Organism: "Escherichia coli", AccessionID: "Q00000"}}
	res, err := agg.Run(context.Background(), "DDS_I", recs)
	require.NoError(t, err)
	assert.Equal(t, "Q00000", res.Report.Rows[0].AccessionID)
	assert.Equal(t, types.StatusNotFound, res.Report.Rows[0].Status)
}

func TestRun_FailureIsIsolatedPerRecord(t *testing.T) {
	p := &scriptedPrimary{answers: map[string]source.Result{
		"Alpha": source.Failed(errors.New("connection reset by peer")),
		"Beta":  source.Found(entry("beta")),
	}}
	s := &scriptedSecondary{}
	agg := &Aggregator{Resolver: resolve.New(types.ByName, p, s, nil)}

	recs := []types.CanonicalRecord{
		{ProteinName: "Alpha", Organism: "Homo sapiens"},
		{ProteinName: "Beta", Organism: "Homo sapiens"},
	}
	res, err := agg.Run(context.Background(), "RMS_I", recs)
	require.NoError(t, err)

	require.Len(t, res.Report.Rows, 2)
	assert.Equal(t, types.StatusNotFound, res.Report.Rows[0].Status)
	assert.Equal(t, types.SourcePrimary, res.Report.Rows[1].Source)
	assert.Equal(t, []string{"Alpha"}, s.searches, "only the failed record falls through")
}

func TestRun_SummaryCounts(t *testing.T) {
	p := &scriptedPrimary{answers: map[string]source.Result{}}
	s := &scriptedSecondary{byName: map[string]source.Result{}}
	var recs []types.CanonicalRecord
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("protein-%d", i)
		recs = append(recs, types.CanonicalRecord{ProteinName: name, Organism: "Homo sapiens"})
		switch {
		case i < 6:
			p.answers[name] = source.Found(entry(name))
		case i < 8:
			s.byName[name] = source.Found(entry(name))
		}
	}

	agg := &Aggregator{Resolver: resolve.New(types.ByName, p, s, nil)}
	res, err := agg.Run(context.Background(), "RMS_S", recs)
	require.NoError(t, err)

	sum := res.Report.Summary
	assert.Equal(t, types.Summary{Total: 10, Found: 8, FoundByPrimary: 6, FoundBySecondary: 2, NotFound: 2}, sum)
	assert.Equal(t, sum.Total, sum.FoundByPrimary+sum.FoundBySecondary+sum.NotFound)
	assert.Len(t, res.Sequences, 8)
}

// --- properties ---

func TestRun_SequencesAppearVerbatimInOrder(t *testing.T) {
	seqs := map[string]string{
		"A": ">a desc with  double  spaces\nMKV\nLLA",
		"B": ">b\nGGG",
		"C": ">c\r\nTTT",
	}
	p := &scriptedPrimary{answers: map[string]source.Result{}}
	for k, v := range seqs {
		p.answers[k] = source.Found(v)
	}
	recs := []types.CanonicalRecord{{ProteinName: "A"}, {ProteinName: "missing"}, {ProteinName: "B"}, {ProteinName: "C"}}
	agg := &Aggregator{Resolver: resolve.New(types.ByName, p, &scriptedSecondary{}, nil)}

	res, err := agg.Run(context.Background(), "x", recs)
	require.NoError(t, err)

	out := res.FASTA()
	assert.Equal(t, seqs["A"]+"\n\n"+seqs["B"]+"\n\n"+seqs["C"], out)
	for _, s := range res.Sequences {
		assert.True(t, types.IsSequenceRecord(s))
		assert.Contains(t, out, s)
	}
}

func TestRun_ReportsInInputOrderWithProgress(t *testing.T) {
	var seen []int
	agg := &Aggregator{
		Resolver: resolve.New(types.ByName, &scriptedPrimary{}, &scriptedSecondary{}, nil),
		Progress: func(done, total int, _ types.Outcome) {
			assert.Equal(t, 3, total)
			seen = append(seen, done)
		},
	}
	recs := []types.CanonicalRecord{{ProteinName: "z"}, {ProteinName: "a"}, {ProteinName: "m"}}
	res, err := agg.Run(context.Background(), "x", recs)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, seen)
	var names []string
	for _, r := range res.Report.Rows {
		names = append(names, r.Protein)
	}
	assert.Equal(t, []string{"z", "a", "m"}, names)
}

func TestRun_CancelledContextWritesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &memorySink{}
	agg := &Aggregator{Resolver: resolve.New(types.ByName, &scriptedPrimary{}, &scriptedSecondary{}, nil), Sink: sink}
	_, err := agg.Run(ctx, "x", hbaRecords())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, sink.got)
}

func TestRun_SinkErrorIsReturned(t *testing.T) {
	sink := &memorySink{err: errors.New("disk full")}
	agg := &Aggregator{Resolver: resolve.New(types.ByName, &scriptedPrimary{}, &scriptedSecondary{}, nil), Sink: sink}

	res, err := agg.Run(context.Background(), "x", hbaRecords())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NotNil(t, res)
	assert.Len(t, res.Report.Rows, 1)
}

func TestRun_EmptyInput(t *testing.T) {
	agg := &Aggregator{Resolver: resolve.New(types.ByName, &scriptedPrimary{}, &scriptedSecondary{}, nil)}
	res, err := agg.Run(context.Background(), "x", nil)
	require.NoError(t, err)
	assert.Equal(t, types.Summary{}, res.Report.Summary)
	assert.False(t, res.Report.FinishedAt.Before(res.Report.StartedAt))
}
