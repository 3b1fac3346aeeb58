package matching

// Breakdown factor names, persisted verbatim in each proposal's reason so
// parents and advocates can contest a score after the fact.
const (
	FactorTagOverlap            = "tag_overlap"
	FactorGradeAreaFit          = "grade_area_fit"
	FactorCapacityAvailable     = "capacity_available"
	FactorLanguageMatch         = "language_match"
	FactorPriceFit              = "price_fit"
	FactorTimezoneCompatibility = "timezone_compatibility"
)

// Weights is an immutable scoring policy. It is passed into the scorer as a
// value rather than read from package state so a policy change is an explicit,
// testable configuration edit that can be versioned alongside stored
// breakdowns.
type Weights struct {
	TagOverlap            float64
	GradeAreaFit          float64
	CapacityAvailable     float64
	LanguageMatch         float64
	PriceFit              float64
	TimezoneCompatibility float64
}

// DefaultWeights is the production policy. Tag overlap dominates because
// specialization match is the primary driver of advocacy quality; capacity
// and price are secondary fit signals; timezone is a minor tiebreak.
// The six weights sum to 1.0.
func DefaultWeights() Weights {
	return Weights{
		TagOverlap:            0.45,
		GradeAreaFit:          0.15,
		CapacityAvailable:     0.15,
		LanguageMatch:         0.10,
		PriceFit:              0.10,
		TimezoneCompatibility: 0.05,
	}
}

// Sum returns the total weight mass, used by tests to pin the policy to 1.0.
func (w Weights) Sum() float64 {
	return w.TagOverlap + w.GradeAreaFit + w.CapacityAvailable +
		w.LanguageMatch + w.PriceFit + w.TimezoneCompatibility
}
