package ai

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Default values merged in when the service omits individual fields.
const (
	defaultSentiment  = "neutral"
	defaultConfidence = 0.85
	defaultPriority   = "normal"
)

// ExtractArray strips any surrounding prose or markdown fencing and returns
// the first array-like substring of raw: everything from the first '[' to the
// last ']'. An empty string means no array was found.
func ExtractArray(raw string) string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end < start {
		return ""
	}
	return raw[start : end+1]
}

// DecodeResults parses the service response leniently. An unparseable body is
// an error (the whole batch falls back); a parseable array with missing
// per-element fields resolves those fields to safe defaults.
func DecodeResults(raw string) ([]Result, error) {
	body := ExtractArray(raw)
	if body == "" {
		return nil, fmt.Errorf("no JSON array in response")
	}
	if !gjson.Valid(body) {
		return nil, fmt.Errorf("response array is not valid JSON")
	}

	parsed := gjson.Parse(body)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("response is not a JSON array")
	}

	var results []Result
	for _, el := range parsed.Array() {
		id := el.Get("id").String()
		if id == "" {
			continue
		}

		r := Result{
			ID:         id,
			Sentiment:  defaultSentiment,
			Confidence: defaultConfidence,
			Priority:   defaultPriority,
		}
		if v := el.Get("sentiment"); v.Exists() && v.String() != "" {
			r.Sentiment = v.String()
		}
		if v := el.Get("score"); v.Exists() {
			r.Score = v.Float()
		}
		if v := el.Get("confidence"); v.Exists() {
			r.Confidence = v.Float()
		}
		if v := el.Get("priority"); v.Exists() && v.String() != "" {
			r.Priority = v.String()
		}
		r.Topics = stringList(el.Get("topics"))
		r.Keywords = stringList(el.Get("keywords"))
		r.IsBug = el.Get("is_bug").Bool()
		r.IsFeature = el.Get("is_feature").Bool()

		results = append(results, r)
	}
	return results, nil
}

func stringList(v gjson.Result) []string {
	if !v.IsArray() {
		return nil
	}
	var out []string
	for _, el := range v.Array() {
		if s := el.String(); s != "" {
			out = append(out, s)
		}
	}
	return out
}
