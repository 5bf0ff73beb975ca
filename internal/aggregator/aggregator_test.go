package aggregator

import (
	"testing"

	"feedbackintel/internal/models"
)

func enriched(id, sentiment string, score float64, opts func(*models.Review)) models.Review {
	r := models.Review{
		ID:             id,
		Source:         models.SourcePlayStore,
		Text:           "text",
		Sentiment:      sentiment,
		SentimentScore: score,
		Priority:       models.PriorityNormal,
	}
	if opts != nil {
		opts(&r)
	}
	return r
}

func TestSummarizeEmptyCorpus(t *testing.T) {
	t.Parallel()

	got := Summarize(nil)
	if got.Total != 0 {
		t.Fatalf("total = %d, want 0", got.Total)
	}
	if got.PositivePct != 0 || got.NegativePct != 0 || got.AvgScore != 0 {
		t.Fatalf("empty corpus produced non-zero stats: %+v", got)
	}
	if got.AvgRating != nil || got.AvgConfidence != nil {
		t.Fatalf("empty corpus should leave means unset: %+v", got)
	}
}

func TestSummarizeCountsAndPercentages(t *testing.T) {
	t.Parallel()

	in := []models.Review{
		enriched("1", models.SentimentPositive, 0.8, nil),
		enriched("2", models.SentimentPositive, 0.6, nil),
		enriched("3", models.SentimentNegative, -0.9, func(r *models.Review) {
			r.IsBug = true
			r.Priority = models.PriorityCritical
			r.Source = models.SourceAppStore
		}),
		enriched("4", models.SentimentNeutral, 0.0, func(r *models.Review) {
			r.IsFeature = true
			r.Source = models.SourceSurvey
		}),
	}

	got := Summarize(in)
	if got.Total != 4 || got.Positive != 2 || got.Negative != 1 || got.Neutral != 1 {
		t.Fatalf("counts wrong: %+v", got)
	}
	if got.PositivePct != 50.0 || got.NegativePct != 25.0 {
		t.Fatalf("percentages wrong: %v / %v", got.PositivePct, got.NegativePct)
	}
	if got.AvgScore != 0.125 {
		t.Fatalf("avg score = %v, want 0.125", got.AvgScore)
	}
	if got.BugsCount != 1 || got.FeaturesCount != 1 || got.CriticalCount != 1 {
		t.Fatalf("flag counts wrong: %+v", got)
	}
	if got.Sources[models.SourcePlayStore] != 2 || got.Sources[models.SourceAppStore] != 1 {
		t.Fatalf("source counts wrong: %+v", got.Sources)
	}
}

func TestSummarizeMeansSkipAbsentValues(t *testing.T) {
	t.Parallel()

	in := []models.Review{
		enriched("1", models.SentimentPositive, 1, func(r *models.Review) {
			r.Rating = models.Float(5)
			r.ConfidenceScore = models.Float(0.9)
		}),
		enriched("2", models.SentimentNegative, -1, func(r *models.Review) {
			r.Rating = models.Float(1)
		}),
		enriched("3", models.SentimentNeutral, 0, nil),
	}

	got := Summarize(in)
	if got.AvgRating == nil || *got.AvgRating != 3.0 {
		t.Fatalf("avg rating = %v, want 3.0 over rated records only", got.AvgRating)
	}
	if got.AvgConfidence == nil || *got.AvgConfidence != 0.9 {
		t.Fatalf("avg confidence = %v, want 0.9", got.AvgConfidence)
	}
}

func TestTopLabelsFrequencyAndTieOrder(t *testing.T) {
	t.Parallel()

	in := []models.Review{
		enriched("1", models.SentimentNeutral, 0, func(r *models.Review) {
			r.Topics = []string{"bugs", "performance"}
		}),
		enriched("2", models.SentimentNeutral, 0, func(r *models.Review) {
			r.Topics = []string{"performance", "privacy"}
		}),
		enriched("3", models.SentimentNeutral, 0, func(r *models.Review) {
			r.Topics = []string{"bugs"}
		}),
	}

	got := Summarize(in).TopTopics
	if len(got) != 3 {
		t.Fatalf("got %d topics, want 3", len(got))
	}
	// bugs and performance both count 2; bugs was seen first.
	if got[0].Label != "bugs" || got[0].Count != 2 {
		t.Fatalf("first = %+v, want bugs/2", got[0])
	}
	if got[1].Label != "performance" || got[1].Count != 2 {
		t.Fatalf("second = %+v, want performance/2", got[1])
	}
	if got[2].Label != "privacy" || got[2].Count != 1 {
		t.Fatalf("third = %+v, want privacy/1", got[2])
	}
}

func TestWeeklyTrendBucketsByMonday(t *testing.T) {
	t.Parallel()

	in := []models.Review{
		enriched("1", models.SentimentPositive, 1, func(r *models.Review) { r.Date = "2026-08-24" }), // Monday
		enriched("2", models.SentimentPositive, 1, func(r *models.Review) { r.Date = "2026-08-26" }), // same week
		enriched("3", models.SentimentNegative, -1, func(r *models.Review) { r.Date = "2026-08-31" }), // next week
		enriched("4", models.SentimentNegative, -1, func(r *models.Review) { r.Date = "not-a-date" }),
	}

	got := WeeklyTrend(in)
	if len(got) != 2 {
		t.Fatalf("got %d trend points, want 2: %+v", len(got), got)
	}
	if got[0].WeekStart != "2026-08-24" || got[0].Count != 2 || got[0].Sentiment != models.SentimentPositive {
		t.Fatalf("first point = %+v", got[0])
	}
	if got[1].WeekStart != "2026-08-31" || got[1].Count != 1 {
		t.Fatalf("second point = %+v", got[1])
	}
}

func TestTopIssuesAndFeatureRequests(t *testing.T) {
	t.Parallel()

	in := []models.Review{
		enriched("mild", models.SentimentNegative, -0.4, func(r *models.Review) { r.IsBug = true }),
		enriched("severe", models.SentimentNegative, -0.9, func(r *models.Review) { r.IsBug = true }),
		enriched("positive-bug-mention", models.SentimentPositive, 0.8, func(r *models.Review) { r.IsBug = true }),
		enriched("wish", models.SentimentNeutral, 0.1, func(r *models.Review) { r.IsFeature = true }),
		enriched("loved-wish", models.SentimentPositive, 0.7, func(r *models.Review) { r.IsFeature = true }),
	}

	issues := TopIssues(in, 10)
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2 (negative bugs only)", len(issues))
	}
	if issues[0].ID != "severe" {
		t.Fatalf("issues not sorted most negative first: %+v", issues)
	}

	feats := TopFeatureRequests(in, 1)
	if len(feats) != 1 || feats[0].ID != "loved-wish" {
		t.Fatalf("feature requests wrong: %+v", feats)
	}
}
