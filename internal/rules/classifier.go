// Package rules implements the deterministic keyword classifier used when the
// AI service is unavailable or a batch fails.
package rules

import (
	"strings"

	"feedbackintel/internal/models"
)

var bugWords = []string{
	"crash", "bug", "broken", "fix", "error", "freeze", "fail", "glitch",
	"not working", "doesn't work", "won't", "can't", "issue", "problem",
}

var featureWords = []string{
	"please add", "would love", "feature request", "wish", "need", "want", "add option",
	"would be great", "suggest", "suggestion",
}

var negWords = []string{
	"terrible", "awful", "horrible", "useless", "worst", "hate", "uninstall",
	"disappointed", "frustrated", "angry", "waste",
}

var posWords = []string{
	"love", "great", "amazing", "excellent", "perfect", "awesome", "fantastic",
	"wonderful", "best", "thank", "happy", "smooth", "fast",
}

var defaultCriticalWords = []string{
	"crash", "freeze", "broken", "data loss", "hacked", "security", "login", "stuck",
}

// topicEntry order is the tie-break when more than three topics match.
type topicEntry struct {
	topic string
	words []string
}

var topicTable = []topicEntry{
	{"performance", []string{"slow", "fast", "speed", "lag", "crash", "freeze", "battery", "memory"}},
	{"UI/UX", []string{"ui", "interface", "design", "dark mode", "layout", "navigation"}},
	{"features", []string{"feature", "add", "option", "support", "schedule", "export"}},
	{"bugs", []string{"bug", "error", "broken", "fix", "glitch", "not working"}},
	{"notifications", []string{"notification", "alert", "push", "badge"}},
	{"privacy", []string{"privacy", "security", "data", "encrypted", "safe"}},
	{"support", []string{"support", "help", "customer service", "response"}},
}

// fallbackConfidence is a fixed placeholder, no model was consulted.
const fallbackConfidence = 0.75

const maxTopics = 3

// Classifier labels reviews from keyword rules alone. Identical text, title and
// rating always produce identical output.
type Classifier struct {
	criticalWords []string
}

type Option func(*Classifier)

// WithCriticalKeywords overrides the words that escalate priority for negative
// reviews. The default list mirrors the production heuristic, including its
// broad "security"/"data loss" matches.
func WithCriticalKeywords(words []string) Option {
	return func(c *Classifier) {
		c.criticalWords = words
	}
}

func New(opts ...Option) *Classifier {
	c := &Classifier{criticalWords: defaultCriticalWords}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns a copy of the review with enrichment fields populated.
// Identity and source fields pass through untouched.
func (c *Classifier) Classify(r models.Review) models.Review {
	text := strings.ToLower(r.Text + " " + r.Title)
	rating := 3.0
	if r.Rating != nil {
		rating = *r.Rating
	}

	isBug := containsAny(text, bugWords)
	isFeature := containsAny(text, featureWords)
	hasNeg := containsAny(text, negWords)
	hasPos := containsAny(text, posWords)

	// Rating 1-5 maps linearly onto -1..+1, keyword cues nudge it.
	score := (rating - 3) / 2
	if hasNeg {
		score -= 0.2
	}
	if hasPos {
		score += 0.2
	}
	score = clamp(score, -1, 1)

	sentiment := models.SentimentNeutral
	switch {
	case score > 0.15:
		sentiment = models.SentimentPositive
	case score < -0.15:
		sentiment = models.SentimentNegative
	}

	priority := models.PriorityNormal
	if containsAny(text, c.criticalWords) && sentiment == models.SentimentNegative {
		if rating <= 2 {
			priority = models.PriorityCritical
		} else {
			priority = models.PriorityHigh
		}
	} else if isBug && sentiment == models.SentimentNegative {
		priority = models.PriorityHigh
	}

	var topics []string
	for _, entry := range topicTable {
		if len(topics) == maxTopics {
			break
		}
		if containsAny(text, entry.words) {
			topics = append(topics, entry.topic)
		}
	}

	out := r
	out.Sentiment = sentiment
	out.SentimentScore = score
	out.ConfidenceScore = models.Float(fallbackConfidence)
	out.Topics = topics
	out.Keywords = nil
	out.IsBug = isBug
	out.IsFeature = isFeature
	out.Priority = priority
	return out
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
