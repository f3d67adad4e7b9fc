// internal/scoring/scorer.go
package scoring

import (
	"fmt"
	"math"
	"time"

	"matchscore-engine/internal/common/config"
	stderrors "matchscore-engine/internal/common/errors"
	"matchscore-engine/internal/models"
)

// Weights is the per-component weight set for the overall score.
type Weights struct {
	Skills       float64
	Experience   float64
	Location     float64
	Availability float64
	Education    float64
	Cultural     float64
}

// DefaultWeights returns the production weight set.
func DefaultWeights() Weights {
	return Weights{
		Skills:       0.30,
		Experience:   0.25,
		Location:     0.15,
		Availability: 0.15,
		Education:    0.10,
		Cultural:     0.05,
	}
}

// WeightsFromConfig converts the configuration weight block.
func WeightsFromConfig(w config.WeightsConfig) Weights {
	return Weights{
		Skills:       w.Skills,
		Experience:   w.Experience,
		Location:     w.Location,
		Availability: w.Availability,
		Education:    w.Education,
		Cultural:     w.Cultural,
	}
}

// Get returns the weight for a component.
func (w Weights) Get(comp models.Component) float64 {
	switch comp {
	case models.ComponentSkills:
		return w.Skills
	case models.ComponentExperience:
		return w.Experience
	case models.ComponentLocation:
		return w.Location
	case models.ComponentAvailability:
		return w.Availability
	case models.ComponentEducation:
		return w.Education
	case models.ComponentCultural:
		return w.Cultural
	}
	return 0
}

// Validate enforces the sum-to-one invariant at configuration time.
func (w Weights) Validate() error {
	sum := 0.0
	for _, comp := range models.Components() {
		v := w.Get(comp)
		if v < 0 {
			return stderrors.NewWeightsInvalidError(fmt.Sprintf("weight for %s is negative", comp))
		}
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return stderrors.NewWeightsInvalidError(fmt.Sprintf("weights sum to %v, want 1.0", sum))
	}
	return nil
}

// Thresholds carries the bucket boundaries and strength/weakness cutoffs.
// These are undocumented business thresholds inherited from production data,
// kept configurable rather than assumed optimal.
type Thresholds struct {
	Excellent float64 // overall >= Excellent => "excellent"
	Good      float64
	Average   float64
	Strength  float64 // component >= Strength => listed as strength
	Weakness  float64 // component <= Weakness => listed as weakness
}

// DefaultThresholds returns the production bucket boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{Excellent: 90, Good: 75, Average: 60, Strength: 80, Weakness: 50}
}

// Bucket maps an overall score to its recommendation bucket. The same
// partition backs the statistics distribution, so every score in [0,100]
// lands in exactly one bucket.
func (t Thresholds) Bucket(overall float64) models.Recommendation {
	switch {
	case overall >= t.Excellent:
		return models.RecommendationExcellent
	case overall >= t.Good:
		return models.RecommendationGood
	case overall >= t.Average:
		return models.RecommendationAverage
	default:
		return models.RecommendationPoor
	}
}

// WeightedScorer combines the six component scores into one ScoreRecord.
// Pure computation over already-loaded profiles: safe to run in parallel
// across many pairs.
type WeightedScorer struct {
	calc       *Calculator
	weights    Weights
	thresholds Thresholds
	version    string
}

// NewWeightedScorer fails fast on a malformed weight set.
func NewWeightedScorer(calc *Calculator, weights Weights, thresholds Thresholds, version string) (*WeightedScorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if calc == nil {
		calc = DefaultCalculator()
	}
	return &WeightedScorer{
		calc:       calc,
		weights:    weights,
		thresholds: thresholds,
		version:    version,
	}, nil
}

// Score produces an unpersisted ScoreRecord for the pair. Identity and the
// active flag are assigned by the engine at write time.
func (s *WeightedScorer) Score(w *models.WorkerProfile, j *models.JobProfile) *models.ScoreRecord {
	components := s.calc.All(w, j)

	overall := 0.0
	for _, comp := range models.Components() {
		overall += components.Get(comp) * s.weights.Get(comp)
	}
	overall = round2(overall)

	strengths := []string{}
	weaknesses := []string{}
	for _, comp := range models.Components() {
		v := components.Get(comp)
		if v >= s.thresholds.Strength {
			strengths = append(strengths, fmt.Sprintf("Strong %s match", comp))
		}
		if v <= s.thresholds.Weakness {
			weaknesses = append(weaknesses, fmt.Sprintf("Room for improvement in %s", comp))
		}
	}

	return &models.ScoreRecord{
		WorkerID:       w.ID,
		JobID:          j.ID,
		Components:     components,
		OverallScore:   overall,
		Strengths:      strengths,
		Weaknesses:     weaknesses,
		Recommendation: s.thresholds.Bucket(overall),
		Version:        s.version,
		CalculatedAt:   time.Now().UTC(),
	}
}

// Thresholds exposes the bucket partition for the statistics engine.
func (s *WeightedScorer) Thresholds() Thresholds {
	return s.thresholds
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
