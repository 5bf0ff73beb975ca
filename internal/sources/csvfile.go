package sources

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"feedbackintel/internal/models"
)

// CSVClient reads survey feedback from a delimited file. Columns are matched
// by alias so exports from different survey tools all work; rows without
// usable text are skipped.
type CSVClient struct {
	path string
	log  zerolog.Logger
}

var (
	textAliases   = []string{"text", "review", "feedback", "comment"}
	ratingAliases = []string{"rating", "score"}
	authorAliases = []string{"author", "name"}
)

func NewCSVClient(path string, log zerolog.Logger) *CSVClient {
	return &CSVClient{
		path: path,
		log:  log.With().Str("source", "survey_csv").Logger(),
	}
}

func (c *CSVClient) Fetch(ctx context.Context) (models.FetchResult, error) {
	if c.path == "" {
		c.log.Warn().Msg("no survey file configured, using sample data")
		return models.FetchResult{Reviews: SampleSurvey(), UsedSample: true}, nil
	}

	reviews, err := c.readFile()
	if err != nil {
		c.log.Error().Err(err).Str("path", c.path).Msg("survey file unreadable, using sample data")
		return models.FetchResult{Reviews: SampleSurvey(), UsedSample: true}, nil
	}
	if len(reviews) == 0 {
		c.log.Warn().Str("path", c.path).Msg("survey file had no usable rows, using sample data")
		return models.FetchResult{Reviews: SampleSurvey(), UsedSample: true}, nil
	}

	c.log.Info().Int("count", len(reviews)).Str("path", c.path).Msg("reviews read")
	return models.FetchResult{Reviews: reviews}, nil
}

func (c *CSVClient) readFile() ([]models.Review, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		// Excel exports often carry a UTF-8 BOM on the first cell.
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var reviews []models.Review
	today := time.Now().UTC().Format("2006-01-02")
	for i := 0; ; i++ {
		row, err := reader.Read()
		if err != nil {
			break
		}

		text := strings.TrimSpace(firstOf(row, cols, textAliases))
		if text == "" {
			continue
		}

		var rating *float64
		if raw := firstOf(row, cols, ratingAliases); raw != "" {
			if v, pErr := strconv.ParseFloat(strings.TrimSpace(raw), 64); pErr == nil {
				rating = models.Float(v)
			}
		}

		id := get(row, cols, "id")
		if id == "" {
			id = fmt.Sprintf("csv_%d", i)
		}
		author := firstOf(row, cols, authorAliases)
		if author == "" {
			author = "Respondent"
		}
		date := get(row, cols, "date")
		if date == "" {
			date = today
		}

		reviews = append(reviews, models.Review{
			ID:       id,
			Source:   models.SourceSurvey,
			Text:     text,
			Title:    get(row, cols, "title"),
			Rating:   rating,
			Date:     truncateDate(date),
			Author:   author,
			Version:  get(row, cols, "version"),
			Priority: models.PriorityNormal,
		})
	}
	return reviews, nil
}

func (c *CSVClient) Name() string {
	return "survey_csv"
}

func get(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func firstOf(row []string, cols map[string]int, aliases []string) string {
	for _, alias := range aliases {
		if v := get(row, cols, alias); v != "" {
			return v
		}
	}
	return ""
}
