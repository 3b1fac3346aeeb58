package matching

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/myiephero/matchengine/models"
)

// CapacityCounter reports an advocate's current active caseload: proposals in
// accepted or scheduled status. Always queried fresh, never cached, so the
// score reflects committed state at call time. The count can go stale between
// scoring and persisting under concurrent propose calls; acceptable for a
// recommendation signal, never to be treated as a hard caseload cap.
type CapacityCounter interface {
	ActiveProposalCount(ctx context.Context, advocateID string) (int, error)
}

// ScoreResult is a 0-100 compatibility score plus the per-factor breakdown
// that produced it. Breakdown values are already weighted; they sum to
// score/100.
type ScoreResult struct {
	Score     float64
	Breakdown map[string]float64
}

// Scorer combines six weighted sub-scores into one compatibility score.
type Scorer struct {
	weights  Weights
	capacity CapacityCounter
	log      *zap.Logger
}

func NewScorer(weights Weights, capacity CapacityCounter, log *zap.Logger) *Scorer {
	return &Scorer{weights: weights, capacity: capacity, log: log}
}

// Score evaluates one student/advocate pair. The capacity read is the only
// I/O; everything else is pure arithmetic on the two records.
func (s *Scorer) Score(ctx context.Context, student *models.Student, advocate *models.AdvocateProfile) (ScoreResult, error) {
	breakdown := make(map[string]float64, 6)

	breakdown[FactorTagOverlap] = Jaccard(student.Needs, advocate.Tags) * s.weights.TagOverlap

	breakdown[FactorLanguageMatch] = Jaccard(student.Languages, advocate.Languages) * s.weights.LanguageMatch

	// Current policy: all advocates are assumed capable of all grade levels.
	breakdown[FactorGradeAreaFit] = 1.0 * s.weights.GradeAreaFit

	active, err := s.capacity.ActiveProposalCount(ctx, advocate.ID)
	if err != nil {
		return ScoreResult{}, fmt.Errorf("count active proposals for advocate %s: %w", advocate.ID, err)
	}
	breakdown[FactorCapacityAvailable] = capacityRatio(advocate.MaxCaseload, active) * s.weights.CapacityAvailable

	breakdown[FactorPriceFit] = priceFit(student.Budget, advocate.HourlyRate) * s.weights.PriceFit

	tz := 0.5
	if student.Timezone == advocate.Timezone {
		tz = 1.0
	}
	breakdown[FactorTimezoneCompatibility] = tz * s.weights.TimezoneCompatibility

	total := 0.0
	for _, v := range breakdown {
		total += v
	}
	score := math.Min(100, math.Max(0, total*100))

	s.log.Debug("scored pair",
		zap.String("student_id", student.ID),
		zap.String("advocate_id", advocate.ID),
		zap.Float64("score", score),
		zap.Int("active_proposals", active),
	)

	return ScoreResult{Score: score, Breakdown: breakdown}, nil
}

// capacityRatio is the unused fraction of an advocate's caseload, floored
// at 0 when they are over capacity.
func capacityRatio(maxCaseload, active int) float64 {
	if maxCaseload <= 0 {
		return 0
	}
	return math.Max(0, float64(maxCaseload-active)/float64(maxCaseload))
}

// priceFit grades affordability: full marks at or under budget (or when no
// budget is set), 0.7 within 120% of budget, 0.3 beyond that.
func priceFit(budget *float64, hourlyRate float64) float64 {
	if budget == nil || *budget <= 0 || hourlyRate <= 0 {
		return 1.0
	}
	switch {
	case hourlyRate <= *budget:
		return 1.0
	case hourlyRate <= *budget*1.2:
		return 0.7
	default:
		return 0.3
	}
}
