package models

import "context"

const (
	SourcePlayStore = "Google Play"
	SourceAppStore  = "App Store"
	SourceSurvey    = "Survey / CSV"
)

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

const (
	PriorityLow      = "low"
	PriorityNormal   = "normal"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Review is one normalized unit of user feedback. The enrichment fields
// (sentiment through priority) are unset until the pipeline populates them;
// identity and source fields are never touched after construction.
type Review struct {
	ID      string   `json:"id"`
	Source  string   `json:"source"`
	Text    string   `json:"text"`
	Title   string   `json:"title"`
	Rating  *float64 `json:"rating"`
	Date    string   `json:"date"`
	Author  string   `json:"author"`
	Version string   `json:"version"`

	Sentiment       string   `json:"sentiment"`
	SentimentScore  float64  `json:"sentiment_score"`
	ConfidenceScore *float64 `json:"confidence_score"`
	Topics          []string `json:"topics"`
	Keywords        []string `json:"keywords"`
	IsBug           bool     `json:"is_bug"`
	IsFeature       bool     `json:"is_feature"`
	Priority        string   `json:"priority"`
}

// FetchResult carries a source's reviews plus whether the adapter had to fall
// back to its built-in sample dataset because the upstream yielded nothing.
type FetchResult struct {
	Reviews    []Review
	UsedSample bool
}

// ReviewSource is the capability every feedback adapter provides.
type ReviewSource interface {
	Fetch(ctx context.Context) (FetchResult, error)
	Name() string
}

// LabelCount is one entry of a frequency ranking.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// SummaryStats are corpus-level statistics over an enriched review set.
type SummaryStats struct {
	Total         int      `json:"total"`
	Positive      int      `json:"positive"`
	Neutral       int      `json:"neutral"`
	Negative      int      `json:"negative"`
	PositivePct   float64  `json:"positive_pct"`
	NegativePct   float64  `json:"negative_pct"`
	AvgScore      float64  `json:"avg_score"`
	AvgRating     *float64 `json:"avg_rating"`
	AvgConfidence *float64 `json:"avg_confidence"`
	BugsCount     int      `json:"bugs_count"`
	FeaturesCount int      `json:"features_count"`
	CriticalCount int      `json:"critical_count"`

	Sources     map[string]int `json:"sources"`
	TopTopics   []LabelCount   `json:"top_topics"`
	TopKeywords []LabelCount   `json:"top_keywords"`
}

func Float(v float64) *float64 { return &v }
