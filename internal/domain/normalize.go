package domain

import "strings"

// Normalize maps one raw record onto the fixed output schema. It is total:
// missing numerics become zero, the symbol is upper-cased, and the direction
// is derived last from the sign of the 24h percentage change (zero or absent
// is DOWN).
func Normalize(raw RawAsset, fetchDate string) Asset {
	a := Asset{
		Rank:         raw.MarketCapRank,
		Name:         raw.Name,
		Symbol:       strings.ToUpper(raw.Symbol),
		Price:        deref(raw.CurrentPrice),
		ChangePct24h: deref(raw.PriceChangePct24h),
		MarketCap:    deref(raw.MarketCap),
		Volume24h:    deref(raw.TotalVolume),
		ATH:          deref(raw.ATH),
		ID:           raw.ID,
		Image:        raw.Image,
		FetchDate:    fetchDate,
		LastUpdated:  raw.LastUpdated,
	}

	a.Direction = DirectionDown
	if a.ChangePct24h > 0 {
		a.Direction = DirectionUp
	}
	return a
}

// NormalizeAll applies Normalize in input order.
func NormalizeAll(raws []RawAsset, fetchDate string) []Asset {
	assets := make([]Asset, 0, len(raws))
	for _, raw := range raws {
		assets = append(assets, Normalize(raw, fetchDate))
	}
	return assets
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
