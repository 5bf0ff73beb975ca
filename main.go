package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"feedbackintel/internal/aggregator"
	"feedbackintel/internal/ai"
	"feedbackintel/internal/cache"
	"feedbackintel/internal/config"
	"feedbackintel/internal/enrich"
	"feedbackintel/internal/logging"
	"feedbackintel/internal/models"
	"feedbackintel/internal/rules"
	"feedbackintel/internal/sources"
)

type runReport struct {
	Summary models.SummaryStats     `json:"summary"`
	Enrich  enrich.Report           `json:"enrichment"`
	Trend   []aggregator.TrendPoint `json:"weekly_trend"`
}

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	for _, dir := range []string{cfg.DataDir, cfg.ReportsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("cannot create directory")
		}
	}

	var srcs []models.ReviewSource
	if cfg.UsePlayStore {
		srcs = append(srcs, sources.NewPlayStoreClient(cfg.PlayStoreFeedURL, cfg.PlayStoreAppID, cfg.PageCap, log))
	}
	if cfg.UseAppStore {
		srcs = append(srcs, sources.NewAppStoreClient(cfg.AppStoreAppID, cfg.PageCap, log))
	}
	if cfg.UseCSV {
		srcs = append(srcs, sources.NewCSVClient(cfg.CSVPath, log))
	}

	store := cache.New(cfg.CachePath(), cfg.CacheTTL, log)
	reviews, err := store.LoadOrFetch(ctx, srcs, cfg.ForceRefresh)
	if err != nil {
		log.Fatal().Err(err).Msg("fetch failed")
	}
	log.Info().Int("reviews", len(reviews)).Msg("corpus assembled")

	var classifier enrich.Classifier
	if cfg.GroqAPIKey != "" {
		classifier = ai.NewClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel, cfg.MaxRetries, log)
	} else {
		log.Warn().Msg("GROQ_API_KEY not set, rule-based analysis only")
	}

	enricher := enrich.New(classifier, rules.New(), cfg.BatchSize, cfg.InterCallDelay, log)
	enriched, report := enricher.Enrich(ctx, reviews)

	summary := aggregator.Summarize(enriched)
	log.Info().
		Int("total", summary.Total).
		Float64("positive_pct", summary.PositivePct).
		Float64("negative_pct", summary.NegativePct).
		Int("critical", summary.CriticalCount).
		Int("fallback", report.FallbackCount).
		Msg("run complete")

	out := runReport{
		Summary: summary,
		Enrich:  report,
		Trend:   aggregator.WeeklyTrend(enriched),
	}
	name := filepath.Join(cfg.ReportsDir,
		"run_"+time.Now().UTC().Format("20060102_150405")+"_"+report.RunID+".json")
	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("report encode failed")
		return
	}
	if err := os.WriteFile(name, raw, 0o644); err != nil {
		log.Error().Err(err).Str("path", name).Msg("report write failed")
		return
	}
	log.Info().Str("path", name).Msg("report written")
}
