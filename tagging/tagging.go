// Package tagging infers support-need tags from free-text student narratives.
//
// Extraction is an enrichment, never a required input: every caller treats a
// provider failure as the empty set and moves on.
package tagging

import (
	"context"
	"strings"
)

// Provider is the capability interface for the external tagging backend.
// Exactly one classification call per narrative, constrained to Vocabulary.
type Provider interface {
	ExtractTags(ctx context.Context, narrative string) ([]string, error)
}

// Vocabulary is the closed set of support tags the system understands.
// Anything a provider returns outside this list is discarded.
var Vocabulary = []string{
	"autism", "adhd", "speech", "language", "ot", "occupational_therapy",
	"pt", "physical_therapy", "behavioral", "executive_function", "sensory",
	"motor_skills", "gifted", "twice_exceptional", "learning_disability",
	"dyslexia", "communication", "social_skills", "adaptive_behavior",
	"cognitive", "developmental_delay", "visual_impairment", "hearing_impairment",
}

var vocabularySet = func() map[string]struct{} {
	s := make(map[string]struct{}, len(Vocabulary))
	for _, t := range Vocabulary {
		s[t] = struct{}{}
	}
	return s
}()

// FilterVocabulary normalizes tags to lowercase, drops duplicates and
// discards anything outside the closed vocabulary. A provider returning
// off-vocabulary tags is a contract violation filtered silently, not a
// failure.
func FilterVocabulary(tags []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, known := vocabularySet[t]; !known {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Noop is the provider for environments without a tagging backend
// configured. It always returns the empty set.
type Noop struct{}

func (Noop) ExtractTags(context.Context, string) ([]string, error) {
	return nil, nil
}
