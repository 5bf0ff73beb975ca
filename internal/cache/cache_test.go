package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"feedbackintel/internal/models"
)

type stubSource struct {
	name    string
	reviews []models.Review
	sample  bool
	calls   int
}

func (s *stubSource) Fetch(ctx context.Context) (models.FetchResult, error) {
	s.calls++
	return models.FetchResult{Reviews: s.reviews, UsedSample: s.sample}, nil
}

func (s *stubSource) Name() string { return s.name }

func mkReview(id, text string) models.Review {
	return models.Review{ID: id, Source: models.SourcePlayStore, Text: text}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviews_cache.json")
	return New(path, 2*time.Hour, zerolog.Nop())
}

func TestDedupeFirstWins(t *testing.T) {
	t.Parallel()

	in := []models.Review{
		mkReview("a", "first"),
		mkReview("b", "second"),
		mkReview("a", "duplicate"),
		mkReview("c", "third"),
		mkReview("b", "another duplicate"),
	}
	got := Dedupe(in)

	if len(got) != 3 {
		t.Fatalf("got %d reviews, want 3", len(got))
	}
	wantOrder := []string{"a", "b", "c"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Fatalf("position %d: id %q, want %q", i, got[i].ID, id)
		}
	}
	if got[0].Text != "first" {
		t.Fatalf("duplicate replaced the first occurrence: %q", got[0].Text)
	}
}

func TestDedupeIdempotent(t *testing.T) {
	t.Parallel()

	in := []models.Review{mkReview("a", "x"), mkReview("a", "y"), mkReview("b", "z")}
	once := Dedupe(in)
	twice := Dedupe(once)
	if len(once) != len(twice) {
		t.Fatalf("dedup not idempotent: %d then %d", len(once), len(twice))
	}
}

func TestLoadOrFetchCachesAndShortCircuits(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	src := &stubSource{name: "stub", reviews: []models.Review{mkReview("a", "x"), mkReview("b", "y")}}

	first, err := store.LoadOrFetch(context.Background(), []models.ReviewSource{src}, false)
	if err != nil {
		t.Fatalf("first LoadOrFetch: %v", err)
	}
	if len(first) != 2 || src.calls != 1 {
		t.Fatalf("first run: %d reviews, %d calls", len(first), src.calls)
	}

	second, err := store.LoadOrFetch(context.Background(), []models.ReviewSource{src}, false)
	if err != nil {
		t.Fatalf("second LoadOrFetch: %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("fresh snapshot did not short-circuit, %d calls", src.calls)
	}
	if len(second) != 2 || second[0].ID != "a" || second[1].ID != "b" {
		t.Fatalf("cached result differs: %+v", second)
	}
}

func TestLoadOrFetchForceRefreshBypassesCache(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	src := &stubSource{name: "stub", reviews: []models.Review{mkReview("a", "x")}}

	if _, err := store.LoadOrFetch(context.Background(), []models.ReviewSource{src}, false); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := store.LoadOrFetch(context.Background(), []models.ReviewSource{src}, true); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if src.calls != 2 {
		t.Fatalf("force refresh should re-fetch, %d calls", src.calls)
	}
}

func TestLoadStaleSnapshotIsMiss(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	src := &stubSource{name: "stub", reviews: []models.Review{mkReview("a", "x")}}
	if _, err := store.LoadOrFetch(context.Background(), []models.ReviewSource{src}, false); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Move the clock past the freshness threshold.
	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, ok := store.Load(); ok {
		t.Fatalf("stale snapshot served as fresh")
	}

	if _, err := store.LoadOrFetch(context.Background(), []models.ReviewSource{src}, false); err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if src.calls != 2 {
		t.Fatalf("stale snapshot should trigger a fetch, %d calls", src.calls)
	}
}

func TestLoadTolerantOfMissingAndMalformedFiles(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if _, ok := store.Load(); ok {
		t.Fatalf("absent file reported as hit")
	}

	for _, content := range []string{"", "{not json", `{"ts": "wrong type"}`} {
		if err := os.WriteFile(store.path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, ok := store.Load(); ok {
			t.Fatalf("malformed snapshot %q reported as hit", content)
		}
	}
}

func TestLoadOrFetchSurvivesPersistFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// Snapshot path points inside a missing directory; writes will fail.
	store := New(filepath.Join(dir, "missing", "cache.json"), 2*time.Hour, zerolog.Nop())
	src := &stubSource{name: "stub", reviews: []models.Review{mkReview("a", "x")}}

	got, err := store.LoadOrFetch(context.Background(), []models.ReviewSource{src}, false)
	if err != nil {
		t.Fatalf("LoadOrFetch should not fail on persist error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("fetched reviews lost: %+v", got)
	}
}

func TestLoadOrFetchMergesInSourceOrder(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	a := &stubSource{name: "a", reviews: []models.Review{mkReview("1", "a1"), mkReview("2", "a2")}}
	b := &stubSource{name: "b", reviews: []models.Review{mkReview("2", "b2"), mkReview("3", "b3")}}

	got, err := store.LoadOrFetch(context.Background(), []models.ReviewSource{a, b}, true)
	if err != nil {
		t.Fatalf("LoadOrFetch: %v", err)
	}
	wantIDs := []string{"1", "2", "3"}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d reviews, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Fatalf("position %d: %q, want %q", i, got[i].ID, id)
		}
	}
	if got[1].Text != "a2" {
		t.Fatalf("later source overwrote id 2: %q", got[1].Text)
	}
}
