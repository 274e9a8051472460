// Package report renders the fixed-width console summary for one run.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/coinpulse/coinpulse/internal/domain"
)

const (
	tableWidth   = 100
	summaryWidth = 60
	placeholder  = "N/A"
)

// Renderer produces the human-readable run report. It only formats; the
// caller decides where the text goes.
type Renderer struct {
	leaders int // rows in the market-cap leaders table
}

// NewRenderer creates a renderer showing the top `leaders` assets in the
// leaders table.
func NewRenderer(leaders int) *Renderer {
	return &Renderer{leaders: leaders}
}

// Render writes the full report: market-cap leaders, top gainers, top
// losers, and the market summary.
func (r *Renderer) Render(w io.Writer, artifact *domain.RunArtifact) {
	leaders := artifact.Assets
	if len(leaders) > r.leaders {
		leaders = leaders[:r.leaders]
	}

	renderTable(w, fmt.Sprintf("Top %d Cryptocurrencies by Market Cap", len(leaders)), leaders, false)
	renderTable(w, fmt.Sprintf("Top %d Gainers (24h Price Change)", len(artifact.Movers.Gainers)), artifact.Movers.Gainers, true)
	renderTable(w, fmt.Sprintf("Top %d Losers (24h Price Change)", len(artifact.Movers.Losers)), artifact.Movers.Losers, true)
	renderSummary(w, artifact.Summary)
}

func renderTable(w io.Writer, title string, assets []domain.Asset, movers bool) {
	if len(assets) == 0 {
		fmt.Fprintf(w, "\nNo entries for: %s\n", title)
		return
	}

	rule := strings.Repeat("-", tableWidth)
	fmt.Fprintf(w, "\n%s:\n%s\n", title, rule)
	fmt.Fprintf(w, "%-4s %-5s %-20s %-8s %-14s %-12s %-16s\n",
		"No.", "Rank", "Name", "Symbol", "Price (USD)", "24h Change", "Market Cap")
	fmt.Fprintln(w, rule)

	for _, a := range assets {
		no := a.Seq
		if movers {
			no = a.MoverRank
		}
		fmt.Fprintf(w, "%-4d %-5s %-20s %-8s %-14s %-12s %-16s\n",
			no,
			rankCell(a),
			truncate(a.Name, 18),
			a.Symbol,
			"$"+Comma(a.Price, 2),
			fmt.Sprintf("%s %.2f%%", a.Direction, math.Abs(a.ChangePct24h)),
			"$"+Comma(a.MarketCap, 0))
	}
}

func renderSummary(w io.Writer, s domain.Summary) {
	rule := strings.Repeat("-", summaryWidth)
	fmt.Fprintf(w, "\nMarket Summary:\n%s\n", rule)
	fmt.Fprintf(w, "Total Coins Analyzed: %d\n", s.TotalAssets)
	fmt.Fprintf(w, "Gainers: %d (%.1f%%)\n", s.GainerCount, s.GainerPct)
	fmt.Fprintf(w, "Losers: %d (%.1f%%)\n", s.LoserCount, s.LoserPct)
	fmt.Fprintf(w, "Unchanged: %d\n", s.UnchangedCount)
	fmt.Fprintf(w, "Total Market Cap: $%s\n", Comma(s.TotalMarketCap, 0))

	if s.BiggestGainer != nil {
		fmt.Fprintf(w, "Biggest Gainer: %s (+%.2f%%)\n", s.BiggestGainer.Name, s.BiggestGainer.ChangePct24h)
	}
	if s.BiggestLoser != nil {
		fmt.Fprintf(w, "Biggest Loser: %s (%.2f%%)\n", s.BiggestLoser.Name, s.BiggestLoser.ChangePct24h)
	}
}

func rankCell(a domain.Asset) string {
	if !a.HasRank() {
		return placeholder
	}
	return strconv.Itoa(*a.Rank)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Comma formats v with thousands separators and the given number of decimal
// places, e.g. Comma(1234567.891, 2) == "1,234,567.89".
func Comma(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	b.WriteString(frac)
	return b.String()
}
