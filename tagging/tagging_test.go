package tagging

import (
	"context"
	"testing"
)

func TestFilterVocabulary(t *testing.T) {
	got := FilterVocabulary([]string{"Autism", " adhd ", "unicorns", "autism", "", "SPEECH"})
	want := []string{"autism", "adhd", "speech"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestFilterVocabularyAllUnknown(t *testing.T) {
	if got := FilterVocabulary([]string{"karate", "chess"}); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestNoopReturnsEmptySet(t *testing.T) {
	tags, err := Noop{}.ExtractTags(context.Background(), "long narrative about a student")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags) != 0 {
		t.Fatalf("expected no tags, got %v", tags)
	}
}
