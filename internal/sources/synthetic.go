package sources

import (
	"fmt"
	"math/rand"
	"strings"

	"feedbackintel/internal/models"
)

// GenerateSynthetic produces n realistic pre-enriched reviews spread over the
// last daysSpan days, with a deliberate negative window in the middle and a
// recovery at the end. Output is deterministic for a given seed.
func GenerateSynthetic(n, daysSpan int, appName string, seed int64) []models.Review {
	rng := rand.New(rand.NewSource(seed))

	positiveTemplates := []string{
		"Love %[1]s! The %[2]s update is absolutely fantastic. Runs super smoothly on my device.",
		"%[1]s just keeps getting better. The new %[2]s is exactly what I needed.",
		"Best app in this category by far. %[2]s works flawlessly. 10/10 would recommend.",
		"Amazing experience with %[1]s. %[2]s has saved me so much time every day.",
		"The %[2]s feature is brilliant. Clean UI, fast performance, zero crashes.",
		"Just upgraded to the latest version. %[2]s is a game changer for my workflow!",
		"Five stars — %[1]s is reliable, fast, and the support team is incredibly responsive.",
		"Couldn't imagine my day without %[1]s. %[2]s works perfectly even on slow connections.",
		"After trying 5 competitors, %[1]s is the clear winner. %[2]s seals the deal.",
		"Superb app. The team clearly listens to feedback. %[2]s was my top request!",
	}
	neutralTemplates := []string{
		"%[1]s is okay. %[2]s works but could be more polished. Room for improvement.",
		"Decent app overall. Nothing extraordinary but gets the job done. %[2]s is average.",
		"3 stars — %[1]s is functional but the %[2]s section feels outdated compared to rivals.",
		"It does what it says. %[2]s is fine. I wish there were more customization options.",
		"Not bad, not great. %[2]s occasionally lags but recovers. Needs more optimization.",
		"Middle-of-the-road experience. %[2]s works most of the time. Average rating fits.",
		"Acceptable app. Used daily but I wouldn't say I love it. %[2]s needs work.",
		"Works for basic use. Power users will find %[2]s limiting. Solid foundation though.",
	}
	negativeTemplates := []string{
		"%[1]s keeps crashing every time I try to use %[2]s. This is a critical bug!",
		"Terrible update. %[2]s is completely broken since version %[3]s. Fix ASAP!",
		"One star. %[1]s used to be great but %[2]s has been broken for 3 weeks now.",
		"Unacceptable performance. %[2]s makes my battery drain from 100%% to 20%% in an hour.",
		"%[1]s crashes on startup after the latest update. %[2]s won't even open. Useless!",
		"I've lost data twice because of the %[2]s bug. This is unacceptable for a paid app.",
		"The worst update in years. %[2]s is so buggy it's now unusable. 1 star.",
		"Constant error code 500 when trying to access %[2]s. Support hasn't replied in days.",
		"Login keeps failing. I've reinstalled %[1]s 4 times and %[2]s still errors out.",
		"Huge security concern: %[2]s shows other users' private data. Please patch immediately!",
	}
	featureTemplates := []string{
		"Please add dark mode to %[2]s! My eyes hurt using the app at night. Would give 5 stars.",
		"Feature request: allow scheduling in %[2]s. Every competitor has this. Please add it!",
		"Would love to see Slack integration for %[2]s. Would save our team so much time.",
		"Please let us export %[2]s data to CSV and Excel. Critical for our reporting.",
		"Needs a proper API for %[2]s so we can automate workflows. Developers are begging!",
		"Offline mode for %[2]s would be incredible. No internet = currently useless.",
		"Custom themes for %[2]s UI would make this a 5-star app. Currently feels generic.",
		"Please add batch operations in %[2]s. Doing things one at a time is painfully slow.",
	}

	features := []string{
		"dashboard", "notifications", "search", "sync", "export", "payments",
		"messaging", "analytics", "settings", "profile", "calendar", "reports",
	}
	posTopics := []string{"performance", "UI/UX", "reliability", "support"}
	negTopics := []string{"bugs", "performance", "crashes", "notifications", "battery"}
	allTopics := []string{
		"performance", "UI/UX", "bugs", "features", "notifications",
		"privacy", "support", "battery", "sync", "crashes", "integration",
	}
	featureTopics := []string{"features", "UI/UX", "integration"}
	sourcesPool := []string{models.SourcePlayStore, models.SourceAppStore, models.SourceSurvey}

	reviews := make([]models.Review, 0, n)
	for i := 0; i < n; i++ {
		// 40% positive, 25% neutral, 25% negative, 10% feature request.
		kind := "positive"
		switch r := rng.Float64(); {
		case r < 0.40:
			kind = "positive"
		case r < 0.65:
			kind = "neutral"
		case r < 0.90:
			kind = "negative"
		default:
			kind = "feature"
		}

		dayOffset := rng.Intn(daysSpan + 1)
		if dayOffset >= 20 && dayOffset <= 40 {
			// Bad release window in the middle of the span.
			if rng.Float64() < 0.4 {
				kind = "negative"
			}
		} else if dayOffset < 10 && kind == "negative" && rng.Float64() < 0.3 {
			kind = "neutral"
		}

		feature := features[rng.Intn(len(features))]
		version := fmt.Sprintf("2.%d.%d", 18+rng.Intn(8), rng.Intn(10))

		var (
			tmpl      string
			rating    float64
			sentiment string
			score     float64
			isBug     bool
			isFeature bool
			priority  string
			topics    []string
		)
		switch kind {
		case "positive":
			tmpl = positiveTemplates[rng.Intn(len(positiveTemplates))]
			rating = weightedPick(rng, []float64{4, 5}, []int{30, 70})
			sentiment = models.SentimentPositive
			score = 0.3 + rng.Float64()*0.7
			priority = models.PriorityLow
			topics = sampleOf(rng, posTopics, 2)
		case "neutral":
			tmpl = neutralTemplates[rng.Intn(len(neutralTemplates))]
			rating = weightedPick(rng, []float64{2, 3, 4}, []int{20, 60, 20})
			sentiment = models.SentimentNeutral
			score = -0.15 + rng.Float64()*0.3
			priority = models.PriorityNormal
			topics = sampleOf(rng, allTopics, 2)
		case "negative":
			tmpl = negativeTemplates[rng.Intn(len(negativeTemplates))]
			rating = weightedPick(rng, []float64{1, 2}, []int{70, 30})
			sentiment = models.SentimentNegative
			score = -1 + rng.Float64()*0.7
			isBug = rng.Float64() < 0.75
			priority = weightedPickStr(rng,
				[]string{models.PriorityCritical, models.PriorityHigh, models.PriorityNormal},
				[]int{20, 40, 40})
			topics = sampleOf(rng, negTopics, 2)
		default:
			tmpl = featureTemplates[rng.Intn(len(featureTemplates))]
			rating = weightedPick(rng, []float64{3, 4}, []int{40, 60})
			sentiment = models.SentimentNeutral
			score = rng.Float64() * 0.3
			isFeature = true
			priority = models.PriorityNormal
			topics = sampleOf(rng, featureTopics, 2)
		}

		text := fmt.Sprintf(tmpl, appName, feature, version)
		if kind == "negative" {
			lower := strings.ToLower(text)
			if strings.Contains(lower, "security") || strings.Contains(lower, "data") {
				priority = models.PriorityCritical
			}
		}

		source := sourcesPool[rng.Intn(len(sourcesPool))]
		var author string
		switch source {
		case models.SourcePlayStore:
			author = fmt.Sprintf("User_%d", 1000+rng.Intn(9000))
		case models.SourceAppStore:
			author = fmt.Sprintf("iUser_%d", 1000+rng.Intn(9000))
		default:
			author = fmt.Sprintf("Respondent_%d", 1+rng.Intn(29))
		}

		reviews = append(reviews, models.Review{
			ID:             fmt.Sprintf("synth_%d", i),
			Source:         source,
			Text:           text,
			Rating:         models.Float(rating),
			Date:           daysAgo(dayOffset),
			Author:         author,
			Version:        version,
			Sentiment:      sentiment,
			SentimentScore: score,
			Topics:         topics,
			Keywords:       extractWords(text, 5),
			IsBug:          isBug,
			IsFeature:      isFeature,
			Priority:       priority,
		})
	}
	return reviews
}

func weightedPick(rng *rand.Rand, values []float64, weights []int) float64 {
	total := 0
	for _, w := range weights {
		total += w
	}
	pick := rng.Intn(total)
	for i, w := range weights {
		if pick < w {
			return values[i]
		}
		pick -= w
	}
	return values[len(values)-1]
}

func weightedPickStr(rng *rand.Rand, values []string, weights []int) string {
	total := 0
	for _, w := range weights {
		total += w
	}
	pick := rng.Intn(total)
	for i, w := range weights {
		if pick < w {
			return values[i]
		}
		pick -= w
	}
	return values[len(values)-1]
}

func sampleOf(rng *rand.Rand, pool []string, k int) []string {
	if k > len(pool) {
		k = len(pool)
	}
	idx := rng.Perm(len(pool))[:k]
	out := make([]string, 0, k)
	for _, i := range idx {
		out = append(out, pool[i])
	}
	return out
}

func extractWords(text string, limit int) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if len(out) == limit {
			break
		}
		if len(w) > 4 && isAlpha(w) {
			out = append(out, w)
		}
	}
	return out
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
