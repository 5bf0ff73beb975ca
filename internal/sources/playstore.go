package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"feedbackintel/internal/models"
)

// PlayStoreClient pulls reviews from a paginated Play review feed. When no
// feed is configured or the upstream yields nothing usable it falls back to
// the built-in sample dataset and says so in the FetchResult.
type PlayStoreClient struct {
	feedURL string
	appID   string
	pageCap int
	client  *http.Client
	log     zerolog.Logger
}

type playStoreResponse struct {
	Reviews []struct {
		ReviewID             string  `json:"reviewId"`
		UserName             string  `json:"userName"`
		Content              string  `json:"content"`
		Score                float64 `json:"score"`
		At                   string  `json:"at"`
		ReviewCreatedVersion string  `json:"reviewCreatedVersion"`
	} `json:"reviews"`
}

func NewPlayStoreClient(feedURL, appID string, pageCap int, log zerolog.Logger) *PlayStoreClient {
	if pageCap <= 0 {
		pageCap = 5
	}
	return &PlayStoreClient{
		feedURL: feedURL,
		appID:   appID,
		pageCap: pageCap,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("source", "play_store").Logger(),
	}
}

func (c *PlayStoreClient) Fetch(ctx context.Context) (models.FetchResult, error) {
	if c.feedURL == "" {
		c.log.Warn().Msg("no review feed configured, using sample data")
		return models.FetchResult{Reviews: SamplePlayStore(), UsedSample: true}, nil
	}

	var reviews []models.Review
	for page := 1; page <= c.pageCap; page++ {
		pageReviews, err := c.fetchPage(ctx, page)
		if err != nil {
			c.log.Error().Err(err).Int("page", page).Msg("page fetch failed")
			break
		}
		if len(pageReviews) == 0 {
			break
		}
		reviews = append(reviews, pageReviews...)
	}

	if len(reviews) == 0 {
		c.log.Warn().Msg("upstream returned 0 reviews, using sample data")
		return models.FetchResult{Reviews: SamplePlayStore(), UsedSample: true}, nil
	}

	c.log.Info().Int("count", len(reviews)).Msg("reviews fetched")
	return models.FetchResult{Reviews: reviews}, nil
}

func (c *PlayStoreClient) fetchPage(ctx context.Context, page int) ([]models.Review, error) {
	u := fmt.Sprintf("%s?app=%s&lang=en&country=us&sort=newest&page=%d",
		c.feedURL, url.QueryEscape(c.appID), page)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("play feed returned status %d", resp.StatusCode)
	}

	var feed playStoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, err
	}

	reviews := make([]models.Review, 0, len(feed.Reviews))
	for _, r := range feed.Reviews {
		if r.Content == "" {
			continue
		}
		author := r.UserName
		if author == "" {
			author = "Anonymous"
		}
		reviews = append(reviews, models.Review{
			ID:       r.ReviewID,
			Source:   models.SourcePlayStore,
			Text:     r.Content,
			Rating:   models.Float(r.Score),
			Date:     truncateDate(r.At),
			Author:   author,
			Version:  r.ReviewCreatedVersion,
			Priority: models.PriorityNormal,
		})
	}
	return reviews, nil
}

func (c *PlayStoreClient) Name() string {
	return "play_store"
}

// truncateDate keeps the calendar-date prefix of an upstream timestamp.
func truncateDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
