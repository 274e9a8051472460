package domain

import "sort"

// ClassifyMovers partitions a ranked sequence into the top-N gainers and
// losers by 24h percentage change. Zero or absent change lands in neither
// list. Within each direction the order is descending absolute change; equal
// changes keep the incoming (market-cap rank) order. Lists are truncated to
// topN and never padded.
func ClassifyMovers(ranked []Asset, topN int) MoverSet {
	var gainers, losers []Asset
	for _, a := range ranked {
		switch {
		case a.ChangePct24h > 0:
			gainers = append(gainers, a)
		case a.ChangePct24h < 0:
			losers = append(losers, a)
		}
	}

	sort.SliceStable(gainers, func(i, j int) bool {
		return gainers[i].ChangePct24h > gainers[j].ChangePct24h
	})
	sort.SliceStable(losers, func(i, j int) bool {
		return losers[i].ChangePct24h < losers[j].ChangePct24h
	})

	gainers = truncateMovers(gainers, topN)
	losers = truncateMovers(losers, topN)
	return MoverSet{Gainers: gainers, Losers: losers}
}

func truncateMovers(movers []Asset, topN int) []Asset {
	if topN >= 0 && len(movers) > topN {
		movers = movers[:topN]
	}
	out := make([]Asset, len(movers))
	copy(out, movers)
	for i := range out {
		out[i].MoverRank = i + 1
	}
	return out
}

// Summarize computes the run's aggregate statistics over the full ranked
// sequence.
func Summarize(assets []Asset) Summary {
	s := Summary{TotalAssets: len(assets)}
	if len(assets) == 0 {
		return s
	}

	var biggestGainer, biggestLoser *Asset
	for i := range assets {
		a := assets[i]
		s.TotalMarketCap += a.MarketCap
		switch {
		case a.ChangePct24h > 0:
			s.GainerCount++
			if biggestGainer == nil || a.ChangePct24h > biggestGainer.ChangePct24h {
				biggestGainer = &assets[i]
			}
		case a.ChangePct24h < 0:
			s.LoserCount++
			if biggestLoser == nil || a.ChangePct24h < biggestLoser.ChangePct24h {
				biggestLoser = &assets[i]
			}
		default:
			s.UnchangedCount++
		}
	}

	total := float64(s.TotalAssets)
	s.GainerPct = float64(s.GainerCount) / total * 100
	s.LoserPct = float64(s.LoserCount) / total * 100
	s.BiggestGainer = biggestGainer
	s.BiggestLoser = biggestLoser
	return s
}
