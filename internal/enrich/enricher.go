// Package enrich runs the batched classification pipeline: partition, submit,
// merge results back by id, fall back per batch on failure, and pace calls to
// respect the service rate limit.
package enrich

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"feedbackintel/internal/ai"
	"feedbackintel/internal/models"
	"feedbackintel/internal/rules"
)

// Classifier is the slice of the AI client the pipeline needs; tests inject
// scripted doubles through it.
type Classifier interface {
	Classify(ctx context.Context, items []ai.BatchItem) ([]ai.Result, error)
}

// Report describes how a run went. FallbackCount is a quality signal, not a
// failure: records land there when a batch errors out or the service omits
// their id.
type Report struct {
	RunID         string `json:"run_id"`
	Total         int    `json:"total"`
	Batches       int    `json:"batches"`
	FallbackCount int    `json:"fallback_count"`
}

const maxPayloadText = 400

type Enricher struct {
	classifier Classifier
	rules      *rules.Classifier
	batchSize  int
	interDelay time.Duration
	log        zerolog.Logger
	sleep      func(time.Duration)
}

// New builds the pipeline. A nil classifier means no service is configured
// and every record is rule-classified.
func New(classifier Classifier, ruleset *rules.Classifier, batchSize int, interDelay time.Duration, log zerolog.Logger) *Enricher {
	if batchSize <= 0 {
		batchSize = 5
	}
	return &Enricher{
		classifier: classifier,
		rules:      ruleset,
		batchSize:  batchSize,
		interDelay: interDelay,
		log:        log.With().Str("component", "enrich").Logger(),
		sleep:      time.Sleep,
	}
}

// Enrich returns a new slice with the same length and id order as the input,
// every record carrying populated enrichment fields. Cancellation is honored
// between batches; a batch in flight finishes.
func (e *Enricher) Enrich(ctx context.Context, reviews []models.Review) ([]models.Review, Report) {
	report := Report{
		RunID: uuid.NewString(),
		Total: len(reviews),
	}
	if len(reviews) == 0 {
		return []models.Review{}, report
	}

	if e.classifier == nil {
		e.log.Warn().Msg("no classification service configured, rule-based analysis only")
		out := make([]models.Review, 0, len(reviews))
		for _, r := range reviews {
			out = append(out, e.rules.Classify(r))
		}
		report.FallbackCount = len(reviews)
		return out, report
	}

	batches := partition(reviews, e.batchSize)
	report.Batches = len(batches)
	out := make([]models.Review, 0, len(reviews))

	var prevCallOK bool
	for i, batch := range batches {
		if i > 0 {
			select {
			case <-ctx.Done():
				// Aborted run: remaining records still get deterministic labels.
				for _, rest := range batches[i:] {
					for _, r := range rest {
						out = append(out, e.rules.Classify(r))
						report.FallbackCount++
					}
				}
				return out, report
			default:
			}
			// The inter-call delay applies between successful service calls.
			if prevCallOK {
				e.sleep(e.interDelay)
			}
		}

		enriched, fellBack, callOK := e.enrichBatch(ctx, batch)
		prevCallOK = callOK
		out = append(out, enriched...)
		report.FallbackCount += fellBack
		e.log.Debug().Int("batch", i+1).Int("of", len(batches)).Int("fallback", fellBack).Msg("batch done")
	}

	if report.FallbackCount > 0 {
		e.log.Warn().Int("count", report.FallbackCount).Msg("records used rule-based fallback")
	}
	return out, report
}

func (e *Enricher) enrichBatch(ctx context.Context, batch []models.Review) ([]models.Review, int, bool) {
	items := make([]ai.BatchItem, 0, len(batch))
	for _, r := range batch {
		items = append(items, ai.BatchItem{
			ID:     r.ID,
			Text:   truncate(r.Text, maxPayloadText),
			Rating: r.Rating,
		})
	}

	results, err := e.classifier.Classify(ctx, items)
	if err != nil {
		e.log.Error().Err(err).Int("size", len(batch)).Msg("batch failed, rule fallback")
		out := make([]models.Review, 0, len(batch))
		for _, r := range batch {
			out = append(out, e.rules.Classify(r))
		}
		return out, len(batch), false
	}

	byID := make(map[string]ai.Result, len(results))
	for _, res := range results {
		byID[res.ID] = res
	}

	var fellBack int
	out := make([]models.Review, 0, len(batch))
	for _, r := range batch {
		res, ok := byID[r.ID]
		if !ok {
			out = append(out, e.rules.Classify(r))
			fellBack++
			continue
		}
		out = append(out, merge(r, res))
	}
	return out, fellBack, true
}

// merge copies service-provided enrichment onto the record without touching
// identity or source fields.
func merge(r models.Review, res ai.Result) models.Review {
	out := r
	out.Sentiment = res.Sentiment
	out.SentimentScore = res.Score
	out.ConfidenceScore = models.Float(res.Confidence)
	out.Topics = res.Topics
	out.Keywords = res.Keywords
	out.IsBug = res.IsBug
	out.IsFeature = res.IsFeature
	out.Priority = res.Priority
	return out
}

func partition(reviews []models.Review, size int) [][]models.Review {
	var batches [][]models.Review
	for start := 0; start < len(reviews); start += size {
		end := start + size
		if end > len(reviews) {
			end = len(reviews)
		}
		batches = append(batches, reviews[start:end])
	}
	return batches
}

// truncate caps the payload at limit characters, never splitting a rune.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
