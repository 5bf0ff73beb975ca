package sources

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"feedbackintel/internal/models"
)

const defaultAppStoreBaseURL = "https://itunes.apple.com/us/rss/customerreviews"

// AppStoreClient reads the iTunes customer-reviews Atom feed page by page.
// Ratings and app versions come from the feed's im: extension elements.
type AppStoreClient struct {
	baseURL   string
	appID     string
	pages     int
	pageDelay time.Duration
	parser    *gofeed.Parser
	log       zerolog.Logger
}

func NewAppStoreClient(appID string, pages int, log zerolog.Logger) *AppStoreClient {
	if pages <= 0 {
		pages = 5
	}
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 10 * time.Second}
	return &AppStoreClient{
		baseURL:   defaultAppStoreBaseURL,
		appID:     appID,
		pages:     pages,
		pageDelay: 250 * time.Millisecond,
		parser:    parser,
		log:       log.With().Str("source", "app_store").Logger(),
	}
}

func (c *AppStoreClient) Fetch(ctx context.Context) (models.FetchResult, error) {
	var reviews []models.Review
	for page := 1; page <= c.pages; page++ {
		url := fmt.Sprintf("%s/page=%d/id=%s/sortby=mostrecent/xml", c.baseURL, page, c.appID)

		feed, err := c.parser.ParseURLWithContext(url, ctx)
		if err != nil {
			c.log.Error().Err(err).Int("page", page).Msg("feed page failed")
			break
		}
		if len(feed.Items) == 0 {
			break
		}

		before := len(reviews)
		for _, item := range feed.Items {
			review, ok := c.entryToReview(item, page, len(reviews))
			if !ok {
				continue
			}
			reviews = append(reviews, review)
		}
		if len(reviews) == before {
			// Page had only the app-summary entry, nothing usable follows.
			break
		}

		if page < c.pages {
			select {
			case <-ctx.Done():
				return models.FetchResult{Reviews: reviews}, nil
			case <-time.After(c.pageDelay):
			}
		}
	}

	if len(reviews) == 0 {
		c.log.Warn().Msg("feed returned 0 reviews, using sample data")
		return models.FetchResult{Reviews: SampleAppStore(), UsedSample: true}, nil
	}

	c.log.Info().Int("count", len(reviews)).Msg("reviews fetched")
	return models.FetchResult{Reviews: reviews}, nil
}

func (c *AppStoreClient) entryToReview(item *gofeed.Item, page, seq int) (models.Review, bool) {
	text := item.Content
	if text == "" {
		text = item.Description
	}
	if text == "" {
		return models.Review{}, false
	}

	id := item.GUID
	if id == "" {
		id = fmt.Sprintf("as_%d_%d", page, seq)
	}

	author := "Anonymous"
	if len(item.Authors) > 0 && item.Authors[0].Name != "" {
		author = item.Authors[0].Name
	}

	date := item.Updated
	if item.UpdatedParsed != nil {
		date = item.UpdatedParsed.Format("2006-01-02")
	}

	review := models.Review{
		ID:       id,
		Source:   models.SourceAppStore,
		Text:     text,
		Title:    item.Title,
		Date:     truncateDate(date),
		Author:   author,
		Priority: models.PriorityNormal,
	}

	if im, ok := item.Extensions["im"]; ok {
		if ratings := im["rating"]; len(ratings) > 0 {
			if v, err := strconv.ParseFloat(ratings[0].Value, 64); err == nil {
				review.Rating = models.Float(v)
			}
		}
		if versions := im["version"]; len(versions) > 0 {
			review.Version = versions[0].Value
		}
	}
	return review, true
}

func (c *AppStoreClient) Name() string {
	return "app_store"
}
