package matching

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/myiephero/matchengine/models"
)

type stubCapacity struct {
	counts map[string]int
	err    error
}

func (s *stubCapacity) ActiveProposalCount(_ context.Context, advocateID string) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.counts[advocateID], nil
}

func testStudent() *models.Student {
	budget := 150.0
	return &models.Student{
		ID:        "stu1",
		ParentID:  "parent1",
		Name:      "Emma",
		Needs:     datatypes.NewJSONSlice([]string{"autism", "speech"}),
		Languages: datatypes.NewJSONSlice([]string{"en"}),
		Timezone:  "America/New_York",
		Budget:    &budget,
	}
}

func testAdvocate() *models.AdvocateProfile {
	return &models.AdvocateProfile{
		ID:          "adv1",
		Name:        "Sarah",
		Tags:        datatypes.NewJSONSlice([]string{"autism", "speech"}),
		Languages:   datatypes.NewJSONSlice([]string{"en"}),
		Timezone:    "America/New_York",
		HourlyRate:  125,
		MaxCaseload: 8,
	}
}

func newTestScorer(capacity CapacityCounter) *Scorer {
	return NewScorer(DefaultWeights(), capacity, zap.NewNop())
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	if diff := math.Abs(DefaultWeights().Sum() - 1.0); diff > 1e-9 {
		t.Fatalf("default weights must sum to 1.0, off by %v", diff)
	}
}

func TestScoreExactMatch(t *testing.T) {
	scorer := newTestScorer(&stubCapacity{})

	res, err := scorer.Score(context.Background(), testStudent(), testAdvocate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(res.Score-100) > 1e-9 {
		t.Fatalf("aligned pair should score 100, got %v", res.Score)
	}
	if math.Abs(res.Breakdown[FactorTagOverlap]-0.45) > 1e-9 {
		t.Fatalf("expected full tag_overlap contribution 0.45, got %v", res.Breakdown[FactorTagOverlap])
	}
}

func TestScoreNoTagOverlap(t *testing.T) {
	scorer := newTestScorer(&stubCapacity{})

	student := testStudent()
	student.Needs = datatypes.NewJSONSlice([]string{"adhd"})
	advocate := testAdvocate()
	advocate.Tags = datatypes.NewJSONSlice([]string{"gifted"})

	res, err := scorer.Score(context.Background(), student, advocate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Breakdown[FactorTagOverlap] != 0 {
		t.Fatalf("expected zero tag_overlap, got %v", res.Breakdown[FactorTagOverlap])
	}
	// everything else aligned: 100 minus the full 45% tag share
	if math.Abs(res.Score-55) > 1e-9 {
		t.Fatalf("expected 55, got %v", res.Score)
	}
}

func TestScoreCapacityExhausted(t *testing.T) {
	scorer := newTestScorer(&stubCapacity{counts: map[string]int{"adv1": 1}})

	advocate := testAdvocate()
	advocate.MaxCaseload = 1

	res, err := scorer.Score(context.Background(), testStudent(), advocate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Breakdown[FactorCapacityAvailable] != 0 {
		t.Fatalf("expected zero capacity factor, got %v", res.Breakdown[FactorCapacityAvailable])
	}
	if math.Abs(res.Score-85) > 1e-9 {
		t.Fatalf("expected 85 with capacity exhausted, got %v", res.Score)
	}
}

func TestScorePriceTiers(t *testing.T) {
	scorer := newTestScorer(&stubCapacity{})

	cases := []struct {
		rate float64
		want float64 // unweighted price factor
	}{
		{rate: 150, want: 1.0},  // at budget
		{rate: 170, want: 0.7},  // within 120%
		{rate: 200, want: 0.3},  // beyond 120%
	}
	for _, c := range cases {
		advocate := testAdvocate()
		advocate.HourlyRate = c.rate
		res, err := scorer.Score(context.Background(), testStudent(), advocate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := res.Breakdown[FactorPriceFit] / DefaultWeights().PriceFit
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("rate %v: expected price factor %v, got %v", c.rate, c.want, got)
		}
	}
}

func TestScoreNoBudgetIsFullPriceFit(t *testing.T) {
	scorer := newTestScorer(&stubCapacity{})

	student := testStudent()
	student.Budget = nil
	advocate := testAdvocate()
	advocate.HourlyRate = 500

	res, err := scorer.Score(context.Background(), student, advocate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := res.Breakdown[FactorPriceFit] / DefaultWeights().PriceFit
	if math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("no budget should mean full price fit, got %v", got)
	}
}

func TestScoreTimezoneMismatchHalves(t *testing.T) {
	scorer := newTestScorer(&stubCapacity{})

	advocate := testAdvocate()
	advocate.Timezone = "America/Los_Angeles"

	res, err := scorer.Score(context.Background(), testStudent(), advocate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := res.Breakdown[FactorTimezoneCompatibility] / DefaultWeights().TimezoneCompatibility
	if math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("expected 0.5 timezone factor on mismatch, got %v", got)
	}
}

func TestScoreBreakdownSumsToScore(t *testing.T) {
	scorer := newTestScorer(&stubCapacity{counts: map[string]int{"adv1": 3}})

	student := testStudent()
	student.Needs = datatypes.NewJSONSlice([]string{"autism", "adhd", "speech"})
	advocate := testAdvocate()
	advocate.Tags = datatypes.NewJSONSlice([]string{"autism", "gifted"})
	advocate.Timezone = "Europe/Berlin"
	advocate.HourlyRate = 180

	res, err := scorer.Score(context.Background(), student, advocate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum := 0.0
	for _, v := range res.Breakdown {
		sum += v
	}
	if math.Abs(sum*100-res.Score) > 1e-9 {
		t.Fatalf("breakdown sum %v does not match score %v", sum*100, res.Score)
	}
	if res.Score < 0 || res.Score > 100 {
		t.Fatalf("score %v out of [0,100]", res.Score)
	}
	if len(res.Breakdown) != 6 {
		t.Fatalf("expected 6 factors, got %d", len(res.Breakdown))
	}
}

func TestScoreTagOverlapMonotonic(t *testing.T) {
	scorer := newTestScorer(&stubCapacity{})

	student := testStudent()
	student.Needs = datatypes.NewJSONSlice([]string{"autism", "speech", "behavioral"})

	prev := -1.0
	overlaps := [][]string{
		{"gifted"},
		{"autism", "gifted"},
		{"autism", "speech", "gifted"},
		{"autism", "speech", "behavioral"},
	}
	for _, tags := range overlaps {
		advocate := testAdvocate()
		advocate.Tags = datatypes.NewJSONSlice(tags)
		res, err := scorer.Score(context.Background(), student, advocate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Score < prev {
			t.Fatalf("score decreased from %v to %v as overlap grew (tags %v)", prev, res.Score, tags)
		}
		prev = res.Score
	}
}

func TestScoreCapacityReadFailure(t *testing.T) {
	scorer := newTestScorer(&stubCapacity{err: errors.New("db down")})

	if _, err := scorer.Score(context.Background(), testStudent(), testAdvocate()); err == nil {
		t.Fatalf("expected error when capacity read fails")
	}
}
