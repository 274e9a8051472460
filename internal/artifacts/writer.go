// Package artifacts persists one run's output as JSON and CSV files.
package artifacts

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/coinpulse/coinpulse/internal/domain"
)

// csvHeader is the fixed tabular column order. Mover files prepend a
// mover_rank column.
var csvHeader = []string{
	"number", "rank", "name", "symbol", "current_price", "price_change_24h",
	"change_symbol", "market_cap", "volume_24h", "ath", "id", "date",
	"last_updated",
}

// Writer persists run artifacts under a base directory. File names are
// deterministic per run date, so same-day reruns overwrite.
type Writer struct {
	dir       string
	dateStamp bool
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string, dateStamp bool) *Writer {
	return &Writer{dir: dir, dateStamp: dateStamp}
}

// Files returns the four artifact paths for the given run date, in write
// order: full JSON, full CSV, gainers CSV, losers CSV.
func (w *Writer) Files(fetchDate string) []string {
	stamp := ""
	if w.dateStamp {
		stamp = "_" + fetchDate
	}
	return []string{
		filepath.Join(w.dir, fmt.Sprintf("crypto_data%s.json", stamp)),
		filepath.Join(w.dir, fmt.Sprintf("crypto_data%s.csv", stamp)),
		filepath.Join(w.dir, fmt.Sprintf("top_gainers%s.csv", stamp)),
		filepath.Join(w.dir, fmt.Sprintf("top_losers%s.csv", stamp)),
	}
}

// Write persists the artifact as four files. Every file is fully serialized
// in memory before the single write call, so an interrupted run never leaves
// a partial file behind.
func (w *Writer) Write(artifact *domain.RunArtifact) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("ensure output dir %s: %w", w.dir, err)
	}

	paths := w.Files(artifact.FetchDate)

	jsonData, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}

	fullCSV, err := encodeCSV(artifact.Assets, false)
	if err != nil {
		return fmt.Errorf("encode full csv: %w", err)
	}
	gainersCSV, err := encodeCSV(artifact.Movers.Gainers, true)
	if err != nil {
		return fmt.Errorf("encode gainers csv: %w", err)
	}
	losersCSV, err := encodeCSV(artifact.Movers.Losers, true)
	if err != nil {
		return fmt.Errorf("encode losers csv: %w", err)
	}

	files := [][]byte{jsonData, fullCSV, gainersCSV, losersCSV}
	for i, path := range paths {
		if err := os.WriteFile(path, files[i], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

func encodeCSV(assets []domain.Asset, withMoverRank bool) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	header := csvHeader
	if withMoverRank {
		header = append([]string{"mover_rank"}, csvHeader...)
	}
	if err := cw.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for _, a := range assets {
		row := assetRow(a)
		if withMoverRank {
			row = append([]string{strconv.Itoa(a.MoverRank)}, row...)
		}
		if err := cw.Write(row); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func assetRow(a domain.Asset) []string {
	rank := ""
	if a.Rank != nil {
		rank = strconv.Itoa(*a.Rank)
	}
	return []string{
		strconv.Itoa(a.Seq),
		rank,
		a.Name,
		a.Symbol,
		formatFloat(a.Price),
		formatFloat(a.ChangePct24h),
		string(a.Direction),
		formatFloat(a.MarketCap),
		formatFloat(a.Volume24h),
		formatFloat(a.ATH),
		a.ID,
		a.FetchDate,
		a.LastUpdated,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
