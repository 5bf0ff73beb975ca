package sources

import (
	"reflect"
	"testing"

	"feedbackintel/internal/models"
)

func TestGenerateSyntheticDeterministic(t *testing.T) {
	t.Parallel()

	a := GenerateSynthetic(50, 60, "MyApp", 42)
	b := GenerateSynthetic(50, 60, "MyApp", 42)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed produced different corpora")
	}

	c := GenerateSynthetic(50, 60, "MyApp", 7)
	if reflect.DeepEqual(a, c) {
		t.Fatalf("different seeds produced identical corpora")
	}
}

func TestGenerateSyntheticShape(t *testing.T) {
	t.Parallel()

	got := GenerateSynthetic(200, 60, "MyApp", 42)
	if len(got) != 200 {
		t.Fatalf("got %d reviews, want 200", len(got))
	}

	ids := map[string]struct{}{}
	for i, r := range got {
		if _, dup := ids[r.ID]; dup {
			t.Fatalf("duplicate id %q", r.ID)
		}
		ids[r.ID] = struct{}{}

		if r.Sentiment == "" || r.Priority == "" {
			t.Fatalf("record %d missing enrichment: %+v", i, r)
		}
		if r.SentimentScore < -1 || r.SentimentScore > 1 {
			t.Fatalf("record %d score %v out of range", i, r.SentimentScore)
		}
		if r.Rating == nil || *r.Rating < 1 || *r.Rating > 5 {
			t.Fatalf("record %d rating out of range: %v", i, r.Rating)
		}
		if len(r.Topics) > 3 || len(r.Keywords) > 5 {
			t.Fatalf("record %d list caps exceeded: %+v", i, r)
		}
		switch r.Source {
		case models.SourcePlayStore, models.SourceAppStore, models.SourceSurvey:
		default:
			t.Fatalf("record %d unknown source %q", i, r.Source)
		}
	}
}

func TestSampleDatasetsDistinctIDs(t *testing.T) {
	t.Parallel()

	all := append(append(SamplePlayStore(), SampleAppStore()...), SampleSurvey()...)
	seen := map[string]struct{}{}
	for _, r := range all {
		if _, dup := seen[r.ID]; dup {
			t.Fatalf("sample datasets share id %q", r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	if len(all) != 60 {
		t.Fatalf("combined sample size %d, want 60", len(all))
	}
}
