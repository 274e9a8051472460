package domain

import (
	"time"

	"github.com/google/uuid"
)

// Direction marks the sign of an asset's 24h move. Zero or missing change
// counts as DOWN.
type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
)

// RawAsset is one record of the CoinGecko /coins/markets response. Numeric
// fields are pointers because the free API returns null for thinly traded or
// freshly listed coins.
type RawAsset struct {
	ID                string   `json:"id"`
	Symbol            string   `json:"symbol"`
	Name              string   `json:"name"`
	Image             string   `json:"image"`
	CurrentPrice      *float64 `json:"current_price"`
	MarketCap         *float64 `json:"market_cap"`
	MarketCapRank     *int     `json:"market_cap_rank"`
	TotalVolume       *float64 `json:"total_volume"`
	PriceChangePct24h *float64 `json:"price_change_percentage_24h"`
	ATH               *float64 `json:"ath"`
	LastUpdated       string   `json:"last_updated"`
}

// Asset is the normalized projection of a RawAsset. Every field except Rank
// is defaulted during normalization; Rank stays optional because rank-less
// assets sort after everything else and render as N/A.
type Asset struct {
	Seq          int       `json:"number"`
	Rank         *int      `json:"rank"`
	Name         string    `json:"name"`
	Symbol       string    `json:"symbol"`
	Price        float64   `json:"current_price"`
	ChangePct24h float64   `json:"price_change_24h"`
	Direction    Direction `json:"change_symbol"`
	MarketCap    float64   `json:"market_cap"`
	Volume24h    float64   `json:"volume_24h"`
	ATH          float64   `json:"ath"`
	ID           string    `json:"id"`
	Image        string    `json:"image"`
	FetchDate    string    `json:"date"`
	LastUpdated  string    `json:"last_updated"`

	// MoverRank is 1-based within the gainer or loser list and zero for
	// assets outside the MoverSet.
	MoverRank int `json:"mover_rank,omitempty"`
}

// HasRank reports whether the upstream source assigned a market-cap rank.
func (a Asset) HasRank() bool {
	return a.Rank != nil
}

// MoverSet holds the top-N movers in each direction for one run. Either list
// may be shorter than N; neither is ever padded.
type MoverSet struct {
	Gainers []Asset `json:"gainers"`
	Losers  []Asset `json:"losers"`
}

// Summary aggregates one run's market statistics.
type Summary struct {
	TotalAssets    int     `json:"total_assets"`
	GainerCount    int     `json:"gainer_count"`
	LoserCount     int     `json:"loser_count"`
	UnchangedCount int     `json:"unchanged_count"`
	GainerPct      float64 `json:"gainer_pct"`
	LoserPct       float64 `json:"loser_pct"`
	TotalMarketCap float64 `json:"total_market_cap"`
	BiggestGainer  *Asset  `json:"biggest_gainer,omitempty"`
	BiggestLoser   *Asset  `json:"biggest_loser,omitempty"`
}

// RunArtifact is the complete output of one execution: the canonical ranked
// sequence, its movers, and the summary. Built once per run and discarded
// when the process exits.
type RunArtifact struct {
	RunID     string    `json:"run_id"`
	FetchedAt time.Time `json:"fetched_at"`
	FetchDate string    `json:"fetch_date"`
	Assets    []Asset   `json:"assets"`
	Movers    MoverSet  `json:"movers"`
	Summary   Summary   `json:"summary"`
}

// NewRunArtifact assembles the artifact for one run from the ranked sequence.
func NewRunArtifact(fetchedAt time.Time, assets []Asset, movers MoverSet) *RunArtifact {
	return &RunArtifact{
		RunID:     uuid.NewString(),
		FetchedAt: fetchedAt,
		FetchDate: fetchedAt.Format(FetchDateLayout),
		Assets:    assets,
		Movers:    movers,
		Summary:   Summarize(assets),
	}
}

// FetchDateLayout is the calendar-date stamp used in file names and the date
// column, e.g. "25-08-2026".
const FetchDateLayout = "02-01-2006"
