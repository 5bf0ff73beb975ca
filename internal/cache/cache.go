// Package cache persists the merged, deduplicated review set as a snapshot
// file and serves it back while it is still fresh.
package cache

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rs/zerolog"

	"feedbackintel/internal/models"
)

// snapshot is the on-disk format: a fetch timestamp plus the raw review set.
type snapshot struct {
	TS      int64           `json:"ts"`
	Reviews []models.Review `json:"reviews"`
}

// Store owns the snapshot file and the merge/dedup cycle around it.
type Store struct {
	path string
	ttl  time.Duration
	log  zerolog.Logger
	now  func() time.Time
}

func New(path string, ttl time.Duration, log zerolog.Logger) *Store {
	return &Store{
		path: path,
		ttl:  ttl,
		log:  log.With().Str("component", "cache").Logger(),
		now:  time.Now,
	}
}

// LoadOrFetch returns the cached snapshot when it is still fresh, otherwise
// fetches every source in order, deduplicates by id (first occurrence wins)
// and persists a new snapshot. A failed persist is logged and swallowed; the
// fetched reviews are returned either way.
func (s *Store) LoadOrFetch(ctx context.Context, srcs []models.ReviewSource, forceRefresh bool) ([]models.Review, error) {
	if !forceRefresh {
		if cached, ok := s.Load(); ok {
			return cached, nil
		}
	}

	var all []models.Review
	for _, src := range srcs {
		res, err := src.Fetch(ctx)
		if err != nil {
			s.log.Error().Err(err).Str("source", src.Name()).Msg("source fetch failed")
			continue
		}
		if res.UsedSample {
			s.log.Warn().Str("source", src.Name()).Msg("source served sample data")
		}
		all = append(all, res.Reviews...)
	}

	unique := Dedupe(all)
	s.save(unique)
	s.log.Info().Int("total", len(all)).Int("unique", len(unique)).Msg("sources merged")
	return unique, nil
}

// Load reads the snapshot if present, parseable and younger than the TTL.
// Anything else is a cache miss.
func (s *Store) Load() ([]models.Review, bool) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, false
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.log.Warn().Err(err).Msg("snapshot unreadable, treating as miss")
		return nil, false
	}

	age := s.now().Sub(time.Unix(snap.TS, 0))
	if age < 0 || age >= s.ttl {
		return nil, false
	}

	s.log.Info().Dur("age", age).Int("count", len(snap.Reviews)).Msg("cache hit")
	return snap.Reviews, true
}

func (s *Store) save(reviews []models.Review) {
	raw, err := json.Marshal(snapshot{TS: s.now().Unix(), Reviews: reviews})
	if err != nil {
		s.log.Error().Err(err).Msg("snapshot encode failed")
		return
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		s.log.Error().Err(err).Msg("snapshot write failed")
	}
}

// Dedupe keeps the first review for each id, preserving encounter order.
func Dedupe(reviews []models.Review) []models.Review {
	seen := make(map[string]struct{}, len(reviews))
	unique := make([]models.Review, 0, len(reviews))
	for _, r := range reviews {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		unique = append(unique, r)
	}
	return unique
}
