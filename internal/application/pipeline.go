// Package application wires the fetch-transform-persist pipeline for one
// run.
package application

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/coinpulse/coinpulse/internal/artifacts"
	"github.com/coinpulse/coinpulse/internal/domain"
	"github.com/coinpulse/coinpulse/internal/providers/coingecko"
	"github.com/coinpulse/coinpulse/internal/report"
)

// State is the pipeline's run state.
type State string

const (
	StateIdle       State = "idle"
	StateFetching   State = "fetching"
	StateProcessing State = "processing"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Fetcher is the market-data source. Satisfied by *coingecko.Client.
type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.RawAsset, error)
}

// Pipeline runs one snapshot end to end: fetch, normalize, rank, classify,
// persist, report. It is single-shot; build a new one per run.
type Pipeline struct {
	fetcher  Fetcher
	writer   *artifacts.Writer
	renderer *report.Renderer
	topN     int
	out      io.Writer // report destination
	log      zerolog.Logger
	now      func() time.Time

	state State
}

// NewPipeline assembles a pipeline. out receives the rendered report on
// success.
func NewPipeline(fetcher Fetcher, writer *artifacts.Writer, renderer *report.Renderer, topN int, out io.Writer, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		fetcher:  fetcher,
		writer:   writer,
		renderer: renderer,
		topN:     topN,
		out:      out,
		log:      log,
		now:      time.Now,
		state:    StateIdle,
	}
}

// State returns the pipeline's current run state.
func (p *Pipeline) State() State {
	return p.state
}

// Run executes one snapshot. On fetch failure the run stops before touching
// the file system; on write failure no success is reported. The returned
// artifact is non-nil only in StateDone.
func (p *Pipeline) Run(ctx context.Context) (*domain.RunArtifact, error) {
	p.state = StateFetching
	p.log.Info().Msg("fetching market data")

	raws, err := p.fetcher.Fetch(ctx)
	if err != nil {
		p.state = StateFailed
		evt := p.log.Error().Err(err)
		var fe *coingecko.FetchError
		if errors.As(err, &fe) && fe.RateLimited() {
			evt = evt.Str("hint", "likely rate limited, wait a few minutes before retrying")
		}
		evt.Msg("fetch failed")
		return nil, err
	}

	fetchedAt := p.now()
	p.log.Info().Int("records", len(raws)).Time("at", fetchedAt).Msg("fetch succeeded")

	p.state = StateProcessing
	normalized := domain.NormalizeAll(raws, fetchedAt.Format(domain.FetchDateLayout))
	ranked := domain.Rank(normalized)
	movers := domain.ClassifyMovers(ranked, p.topN)
	artifact := domain.NewRunArtifact(fetchedAt, ranked, movers)

	p.log.Info().
		Str("run_id", artifact.RunID).
		Int("total", artifact.Summary.TotalAssets).
		Int("gainers", artifact.Summary.GainerCount).
		Int("losers", artifact.Summary.LoserCount).
		Int("unchanged", artifact.Summary.UnchangedCount).
		Msg("processing complete")

	if err := p.writer.Write(artifact); err != nil {
		p.state = StateFailed
		p.log.Error().Err(err).Msg("persist failed")
		return nil, err
	}
	for _, path := range p.writer.Files(artifact.FetchDate) {
		p.log.Info().Str("file", path).Msg("artifact saved")
	}

	p.renderer.Render(p.out, artifact)

	p.state = StateDone
	return artifact, nil
}
