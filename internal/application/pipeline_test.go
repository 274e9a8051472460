package application

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinpulse/coinpulse/internal/artifacts"
	"github.com/coinpulse/coinpulse/internal/domain"
	"github.com/coinpulse/coinpulse/internal/providers/coingecko"
	"github.com/coinpulse/coinpulse/internal/report"
)

type stubFetcher struct {
	raws []domain.RawAsset
	err  error
}

func (s *stubFetcher) Fetch(ctx context.Context) ([]domain.RawAsset, error) {
	return s.raws, s.err
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func newTestPipeline(t *testing.T, fetcher Fetcher, out *strings.Builder) (*Pipeline, string) {
	t.Helper()
	dir := t.TempDir()
	writer := artifacts.NewWriter(dir, true)
	renderer := report.NewRenderer(10)
	p := NewPipeline(fetcher, writer, renderer, 10, out, zerolog.Nop())
	return p, dir
}

func TestPipeline_SuccessfulRun(t *testing.T) {
	fetcher := &stubFetcher{raws: []domain.RawAsset{
		{ID: "gainer", Symbol: "gnr", Name: "Gainer",
			MarketCapRank: iptr(2), PriceChangePct24h: fptr(5.0)},
		{ID: "loser", Symbol: "lsr", Name: "Loser",
			MarketCapRank: iptr(1), PriceChangePct24h: fptr(-3.0)},
		{ID: "flat", Symbol: "flt", Name: "Flat",
			PriceChangePct24h: fptr(0.0)},
	}}

	var out strings.Builder
	p, dir := newTestPipeline(t, fetcher, &out)

	artifact, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateDone, p.State())
	require.NotNil(t, artifact)

	// Canonical order: rank 1, rank 2, rank-less last.
	require.Len(t, artifact.Assets, 3)
	assert.Equal(t, "loser", artifact.Assets[0].ID)
	assert.Equal(t, "gainer", artifact.Assets[1].ID)
	assert.Equal(t, "flat", artifact.Assets[2].ID)
	assert.Equal(t, []int{1, 2, 3}, seqs(artifact.Assets))

	require.Len(t, artifact.Movers.Gainers, 1)
	assert.Equal(t, "gainer", artifact.Movers.Gainers[0].ID)
	require.Len(t, artifact.Movers.Losers, 1)
	assert.Equal(t, "loser", artifact.Movers.Losers[0].ID)

	assert.Equal(t, domain.DirectionUp, artifact.Assets[1].Direction)
	assert.Equal(t, domain.DirectionDown, artifact.Assets[0].Direction)
	assert.Equal(t, domain.DirectionDown, artifact.Assets[2].Direction)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	assert.Contains(t, out.String(), "Market Summary:")
}

func TestPipeline_FetchFailureWritesNothing(t *testing.T) {
	fetcher := &stubFetcher{err: &coingecko.FetchError{Kind: coingecko.KindStatus, Status: 429}}

	var out strings.Builder
	p, dir := newTestPipeline(t, fetcher, &out)

	artifact, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, artifact)
	assert.Equal(t, StateFailed, p.State())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "fetch failure must not touch the file system")
	assert.Empty(t, out.String(), "no report on failure")
}

func TestPipeline_WriteFailureFailsRun(t *testing.T) {
	fetcher := &stubFetcher{raws: []domain.RawAsset{{ID: "bitcoin", Symbol: "btc"}}}

	dir := t.TempDir()
	blocked := filepath.Join(dir, "occupied")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0644))

	var out strings.Builder
	writer := artifacts.NewWriter(blocked, true)
	p := NewPipeline(fetcher, writer, report.NewRenderer(10), 10, &out, zerolog.Nop())

	artifact, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, artifact)
	assert.Equal(t, StateFailed, p.State())
	assert.Empty(t, out.String())
}

func TestPipeline_EmptyFetchStillSucceeds(t *testing.T) {
	fetcher := &stubFetcher{raws: []domain.RawAsset{}}

	var out strings.Builder
	p, dir := newTestPipeline(t, fetcher, &out)

	artifact, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateDone, p.State())
	assert.Zero(t, artifact.Summary.TotalAssets)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func seqs(assets []domain.Asset) []int {
	out := make([]int, len(assets))
	for i, a := range assets {
		out[i] = a.Seq
	}
	return out
}
