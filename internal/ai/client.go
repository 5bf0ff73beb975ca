// Package ai talks to the Groq chat-completions endpoint through its
// OpenAI-compatible API and turns batched review payloads into per-id
// classification results.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/rs/zerolog"
)

// BatchItem is the compact per-review request payload: id, truncated text
// and optional rating.
type BatchItem struct {
	ID     string   `json:"id"`
	Text   string   `json:"text"`
	Rating *float64 `json:"rating"`
}

// Result is one per-id classification from the service, with missing fields
// already resolved to their safe defaults.
type Result struct {
	ID         string
	Sentiment  string
	Score      float64
	Confidence float64
	Topics     []string
	Keywords   []string
	IsBug      bool
	IsFeature  bool
	Priority   string
}

const batchPrompt = `You are a product feedback analyst. Analyze each review and return ONLY a JSON array.
Each element must have: id, sentiment ("positive"|"neutral"|"negative"), score (float -1.0 to 1.0),
confidence (float 0.0-1.0 — how confident you are in your sentiment label),
topics (list of 1-3 short strings), keywords (list of 3-5 words),
is_bug (bool), is_feature (bool), priority ("low"|"normal"|"high"|"critical").

priority=critical: crashes, data loss, security, login broken
priority=high: significant performance issues, frequent recurring problems
is_bug: true if describes a software defect
is_feature: true if requesting a new capability

Reviews:
%s

Return ONLY the JSON array, no markdown, no explanation.`

type Client struct {
	client     *openai.Client
	model      string
	maxRetries int
	log        zerolog.Logger
	sleep      func(time.Duration)
}

func NewClient(apiKey, baseURL, model string, maxRetries int, log zerolog.Logger) *Client {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)
	if maxRetries <= 0 {
		maxRetries = 4
	}
	return &Client{
		client:     &client,
		model:      model,
		maxRetries: maxRetries,
		log:        log.With().Str("component", "ai").Logger(),
		sleep:      time.Sleep,
	}
}

// Classify submits one batch and returns its per-id results. Rate-limit
// responses are retried with exponential backoff; any other failure is
// returned to the caller immediately so the batch can fall back.
func (c *Client) Classify(ctx context.Context, items []BatchItem) ([]Result, error) {
	if len(items) == 0 {
		return nil, nil
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode batch: %w", err)
	}
	prompt := fmt.Sprintf(batchPrompt, payload)

	raw, err := c.completeWithRetry(ctx, prompt, 0.05, 1024)
	if err != nil {
		return nil, err
	}

	results, err := DecodeResults(raw)
	if err != nil {
		return nil, fmt.Errorf("decode classification response: %w", err)
	}
	return results, nil
}

// AskQuestion answers a free-form question about the computed summary.
func (c *Client) AskQuestion(ctx context.Context, question string, summary any) (string, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}
	prompt := fmt.Sprintf(`You are a product analytics expert. Answer this question based on the app review data.

Question: %s

Data summary:
%s

Provide a concise, actionable answer (3-5 sentences). Be specific with numbers from the data.`, question, data)

	return c.complete(ctx, prompt, 0.3, 500)
}

// completeWithRetry backs off on rate-limit errors: 3s, 6s, 12s, 24s.
func (c *Client) completeWithRetry(ctx context.Context, prompt string, temperature float64, maxTokens int64) (string, error) {
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		raw, err := c.complete(ctx, prompt, temperature, maxTokens)
		if err == nil {
			return raw, nil
		}
		if !isRateLimit(err) {
			return "", err
		}
		wait := time.Duration(1<<attempt) * 3 * time.Second
		c.log.Warn().Dur("wait", wait).Int("attempt", attempt+1).Msg("rate limited, backing off")
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		c.sleep(wait)
	}
	return "", fmt.Errorf("still rate-limited after %d retries", c.maxRetries)
}

func (c *Client) complete(ctx context.Context, prompt string, temperature float64, maxTokens int64) (string, error) {
	response, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(prompt),
					},
				},
			},
		},
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

func isRateLimit(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == 429 {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate_limit") ||
		strings.Contains(msg, "rate limit")
}
