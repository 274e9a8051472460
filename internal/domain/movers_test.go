package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyMovers_PartitionsBySign(t *testing.T) {
	assets := []Asset{
		{ID: "up1", ChangePct24h: 3.0},
		{ID: "down1", ChangePct24h: -8.0},
		{ID: "flat", ChangePct24h: 0.0},
		{ID: "up2", ChangePct24h: 12.5},
		{ID: "down2", ChangePct24h: -1.2},
	}

	movers := ClassifyMovers(assets, 10)

	assert.Equal(t, []string{"up2", "up1"}, ids(movers.Gainers))
	assert.Equal(t, []string{"down1", "down2"}, ids(movers.Losers))
	for _, g := range movers.Gainers {
		assert.Positive(t, g.ChangePct24h)
	}
	for _, l := range movers.Losers {
		assert.Negative(t, l.ChangePct24h)
	}
}

func TestClassifyMovers_AssignsMoverRanks(t *testing.T) {
	assets := []Asset{
		{ID: "a", ChangePct24h: 1},
		{ID: "b", ChangePct24h: 2},
		{ID: "c", ChangePct24h: -3},
	}

	movers := ClassifyMovers(assets, 10)

	require.Len(t, movers.Gainers, 2)
	assert.Equal(t, 1, movers.Gainers[0].MoverRank)
	assert.Equal(t, 2, movers.Gainers[1].MoverRank)
	require.Len(t, movers.Losers, 1)
	assert.Equal(t, 1, movers.Losers[0].MoverRank)
}

func TestClassifyMovers_TruncatesToTopN(t *testing.T) {
	var assets []Asset
	for i := 1; i <= 15; i++ {
		assets = append(assets, Asset{ID: string(rune('a' + i)), ChangePct24h: float64(i)})
	}

	movers := ClassifyMovers(assets, 10)

	assert.Len(t, movers.Gainers, 10)
	assert.Empty(t, movers.Losers)
	assert.Equal(t, 15.0, movers.Gainers[0].ChangePct24h)
	assert.Equal(t, 6.0, movers.Gainers[9].ChangePct24h)
}

func TestClassifyMovers_NeverPads(t *testing.T) {
	assets := []Asset{
		{ID: "up1", ChangePct24h: 0.4},
		{ID: "up2", ChangePct24h: 0.2},
	}

	movers := ClassifyMovers(assets, 10)

	assert.Len(t, movers.Gainers, 2)
	assert.Empty(t, movers.Losers)
}

func TestClassifyMovers_TieKeepsRankedOrder(t *testing.T) {
	// Equal percentage changes fall back to the incoming market-cap order.
	assets := []Asset{
		{ID: "higher-cap", Rank: iptr(3), ChangePct24h: 4.0},
		{ID: "lower-cap", Rank: iptr(9), ChangePct24h: 4.0},
	}

	movers := ClassifyMovers(assets, 10)

	assert.Equal(t, []string{"higher-cap", "lower-cap"}, ids(movers.Gainers))
}

func TestClassifyMovers_DoesNotMutateInput(t *testing.T) {
	assets := []Asset{{ID: "a", ChangePct24h: 1}}

	_ = ClassifyMovers(assets, 10)

	assert.Zero(t, assets[0].MoverRank)
}

func TestSummarize_Counts(t *testing.T) {
	assets := []Asset{
		{ID: "up1", ChangePct24h: 3.0, MarketCap: 100},
		{ID: "up2", ChangePct24h: 9.0, MarketCap: 200},
		{ID: "down", ChangePct24h: -4.0, MarketCap: 300},
		{ID: "flat", ChangePct24h: 0.0, MarketCap: 400},
	}

	s := Summarize(assets)

	assert.Equal(t, 4, s.TotalAssets)
	assert.Equal(t, 2, s.GainerCount)
	assert.Equal(t, 1, s.LoserCount)
	assert.Equal(t, 1, s.UnchangedCount)
	assert.InDelta(t, 50.0, s.GainerPct, 1e-9)
	assert.InDelta(t, 25.0, s.LoserPct, 1e-9)
	assert.Equal(t, 1000.0, s.TotalMarketCap)
	require.NotNil(t, s.BiggestGainer)
	assert.Equal(t, "up2", s.BiggestGainer.ID)
	require.NotNil(t, s.BiggestLoser)
	assert.Equal(t, "down", s.BiggestLoser.ID)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Zero(t, s.TotalAssets)
	assert.Nil(t, s.BiggestGainer)
	assert.Nil(t, s.BiggestLoser)
}
