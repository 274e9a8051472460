package domain

import "sort"

// Rank returns the canonical ordering for one run: stable sort by market-cap
// rank ascending with rank-less assets after every ranked one, then dense
// 1..N sequence numbers. Every downstream consumer (writer, report) uses
// this order.
func Rank(assets []Asset) []Asset {
	ranked := make([]Asset, len(assets))
	copy(ranked, assets)

	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := ranked[i].Rank, ranked[j].Rank
		switch {
		case ri == nil:
			return false
		case rj == nil:
			return true
		default:
			return *ri < *rj
		}
	})

	for i := range ranked {
		ranked[i].Seq = i + 1
	}
	return ranked
}
