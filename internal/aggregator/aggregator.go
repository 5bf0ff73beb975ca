// Package aggregator computes corpus-level statistics over an enriched
// review set.
package aggregator

import (
	"math"
	"sort"
	"time"

	"feedbackintel/internal/models"
)

const (
	topTopicsN   = 10
	topKeywordsN = 15
)

// Summarize computes totals, sentiment breakdowns, means and frequency
// rankings. An empty input yields a zero-valued result, not an error.
func Summarize(reviews []models.Review) models.SummaryStats {
	stats := models.SummaryStats{Sources: map[string]int{}}
	total := len(reviews)
	if total == 0 {
		return stats
	}
	stats.Total = total

	var (
		scoreSum   float64
		ratingSum  float64
		ratedCount int
		confSum    float64
		confCount  int
	)
	for _, r := range reviews {
		switch r.Sentiment {
		case models.SentimentPositive:
			stats.Positive++
		case models.SentimentNegative:
			stats.Negative++
		default:
			stats.Neutral++
		}
		scoreSum += r.SentimentScore
		if r.Rating != nil {
			ratingSum += *r.Rating
			ratedCount++
		}
		if r.ConfidenceScore != nil {
			confSum += *r.ConfidenceScore
			confCount++
		}
		if r.IsBug {
			stats.BugsCount++
		}
		if r.IsFeature {
			stats.FeaturesCount++
		}
		if r.Priority == models.PriorityCritical {
			stats.CriticalCount++
		}
		stats.Sources[r.Source]++
	}

	stats.PositivePct = round1(float64(stats.Positive) / float64(total) * 100)
	stats.NegativePct = round1(float64(stats.Negative) / float64(total) * 100)
	stats.AvgScore = round3(scoreSum / float64(total))
	if ratedCount > 0 {
		stats.AvgRating = models.Float(round2(ratingSum / float64(ratedCount)))
	}
	if confCount > 0 {
		stats.AvgConfidence = models.Float(round2(confSum / float64(confCount)))
	}

	stats.TopTopics = topLabels(reviews, func(r models.Review) []string { return r.Topics }, topTopicsN)
	stats.TopKeywords = topLabels(reviews, func(r models.Review) []string { return r.Keywords }, topKeywordsN)
	return stats
}

// topLabels counts label occurrences across records and returns the n most
// frequent, ties broken by first appearance in the corpus.
func topLabels(reviews []models.Review, pick func(models.Review) []string, n int) []models.LabelCount {
	counts := map[string]int{}
	firstSeen := map[string]int{}
	order := 0
	for _, r := range reviews {
		for _, label := range pick(r) {
			if _, ok := counts[label]; !ok {
				firstSeen[label] = order
				order++
			}
			counts[label]++
		}
	}

	ranked := make([]models.LabelCount, 0, len(counts))
	for label, count := range counts {
		ranked = append(ranked, models.LabelCount{Label: label, Count: count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return firstSeen[ranked[i].Label] < firstSeen[ranked[j].Label]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// TrendPoint is one week's sentiment count.
type TrendPoint struct {
	WeekStart string `json:"week_start"`
	Sentiment string `json:"sentiment"`
	Count     int    `json:"count"`
}

// WeeklyTrend buckets reviews by the Monday of their week and counts
// sentiments per bucket. Records with unparseable dates are skipped.
func WeeklyTrend(reviews []models.Review) []TrendPoint {
	type key struct {
		week      string
		sentiment string
	}
	counts := map[key]int{}
	for _, r := range reviews {
		day, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			continue
		}
		offset := (int(day.Weekday()) + 6) % 7
		week := day.AddDate(0, 0, -offset).Format("2006-01-02")
		counts[key{week, r.Sentiment}]++
	}

	points := make([]TrendPoint, 0, len(counts))
	for k, c := range counts {
		points = append(points, TrendPoint{WeekStart: k.week, Sentiment: k.sentiment, Count: c})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].WeekStart != points[j].WeekStart {
			return points[i].WeekStart < points[j].WeekStart
		}
		return points[i].Sentiment < points[j].Sentiment
	})
	return points
}

// TopIssues returns the n most negative bug reports.
func TopIssues(reviews []models.Review, n int) []models.Review {
	var bugs []models.Review
	for _, r := range reviews {
		if r.IsBug && r.Sentiment == models.SentimentNegative {
			bugs = append(bugs, r)
		}
	}
	sort.SliceStable(bugs, func(i, j int) bool {
		return bugs[i].SentimentScore < bugs[j].SentimentScore
	})
	if len(bugs) > n {
		bugs = bugs[:n]
	}
	return bugs
}

// TopFeatureRequests returns the n highest-scored feature requests.
func TopFeatureRequests(reviews []models.Review, n int) []models.Review {
	var feats []models.Review
	for _, r := range reviews {
		if r.IsFeature {
			feats = append(feats, r)
		}
	}
	sort.SliceStable(feats, func(i, j int) bool {
		return feats[i].SentimentScore > feats[j].SentimentScore
	})
	if len(feats) > n {
		feats = feats[:n]
	}
	return feats
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
