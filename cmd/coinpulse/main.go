package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/coinpulse/coinpulse/internal/application"
	"github.com/coinpulse/coinpulse/internal/artifacts"
	"github.com/coinpulse/coinpulse/internal/config"
	"github.com/coinpulse/coinpulse/internal/net/ratelimit"
	"github.com/coinpulse/coinpulse/internal/providers/coingecko"
	"github.com/coinpulse/coinpulse/internal/report"
)

const (
	appName = "coinpulse"
	version = "v1.2.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	// Optional .env for the CoinGecko demo API key; absence is fine.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "CoinGecko market snapshot tool",
		Version: version,
		Long: `coinpulse takes a single snapshot of the top cryptocurrencies by market
cap from the CoinGecko API, classifies 24h gainers and losers, writes the
result to JSON and CSV artifacts, and prints a formatted summary.

One HTTP request per run. Invocation cadence is the caller's job (cron or
similar); back-to-back runs from multiple processes can still trip the
upstream rate limit.`,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch, analyze, and persist one market snapshot",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().String("config", "", "Path to YAML config file")
	snapshotCmd.Flags().String("out", "", "Output directory (overrides config)")
	snapshotCmd.Flags().Int("top-n", 0, "Number of top gainers/losers (overrides config)")
	snapshotCmd.Flags().Int("per-page", 0, "Number of assets to fetch, max 250 (overrides config)")
	snapshotCmd.Flags().Bool("no-report", false, "Skip the console report")

	rootCmd.AddCommand(snapshotCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		log.Error().Err(err).Msg("configuration error")
		return err
	}

	gate := ratelimit.NewGate(cfg.API.GateInterval())
	log.Info().Dur("delay", gate.Interval()).Msg("applying rate limit before request")

	client := coingecko.NewClient(coingecko.Options{
		BaseURL:    cfg.API.BaseURL,
		VsCurrency: cfg.API.VsCurrency,
		PerPage:    cfg.API.PerPage,
		Page:       cfg.API.Page,
		Timeout:    cfg.API.Timeout(),
		APIKey:     cfg.API.APIKey,
	}, gate)

	writer := artifacts.NewWriter(cfg.Output.Dir, cfg.Output.DateStamp)
	renderer := report.NewRenderer(cfg.Report.Leaders)

	var out io.Writer = cmd.OutOrStdout()
	if noReport, _ := cmd.Flags().GetBool("no-report"); noReport {
		out = io.Discard
	}

	pipeline := application.NewPipeline(client, writer, renderer, cfg.Movers.TopN, out, log.Logger)
	if _, err := pipeline.Run(cmd.Context()); err != nil {
		return fmt.Errorf("snapshot failed: %w", err)
	}

	log.Info().Msg("snapshot complete")
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	if dir, _ := cmd.Flags().GetString("out"); dir != "" {
		cfg.Output.Dir = dir
	}
	if topN, _ := cmd.Flags().GetInt("top-n"); topN > 0 {
		cfg.Movers.TopN = topN
	}
	if perPage, _ := cmd.Flags().GetInt("per-page"); perPage > 0 {
		cfg.API.PerPage = perPage
	}
	cfg.API.APIKey = os.Getenv("COINGECKO_API_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
