// internal/scoring/scorer_test.go
package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "matchscore-engine/internal/common/errors"
	"matchscore-engine/internal/models"
)

func TestWeights_Validate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())

	tests := []struct {
		name    string
		mutate  func(*Weights)
		wantErr bool
	}{
		{"sum above one", func(w *Weights) { w.Skills = 0.50 }, true},
		{"sum below one", func(w *Weights) { w.Cultural = 0 }, true},
		{"negative weight", func(w *Weights) { w.Location = -0.15; w.Skills = 0.60 }, true},
		{"redistribution still summing to one", func(w *Weights) { w.Skills = 0.35; w.Cultural = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := DefaultWeights()
			tt.mutate(&w)
			err := w.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, stderrors.IsCode(err, stderrors.ErrCodeWeightsInvalid))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewWeightedScorer_RejectsBadWeights(t *testing.T) {
	bad := DefaultWeights()
	bad.Skills = 0.99

	scorer, err := NewWeightedScorer(nil, bad, DefaultThresholds(), "1.0")
	assert.Error(t, err)
	assert.Nil(t, scorer)
}

func TestThresholds_Bucket(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		overall  float64
		expected models.Recommendation
	}{
		{100, models.RecommendationExcellent},
		{90, models.RecommendationExcellent},
		{89.99, models.RecommendationGood},
		{75, models.RecommendationGood},
		{74.99, models.RecommendationAverage},
		{60, models.RecommendationAverage},
		{59.99, models.RecommendationPoor},
		{0, models.RecommendationPoor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, th.Bucket(tt.overall), "overall %v", tt.overall)
	}
}

// TestWeightedScorer_Score_WorkedExample pins the end-to-end arithmetic for a
// realistic pair so weight or table changes cannot slip through unnoticed.
func TestWeightedScorer_Score_WorkedExample(t *testing.T) {
	scorer, err := NewWeightedScorer(DefaultCalculator(), DefaultWeights(), DefaultThresholds(), "1.0")
	require.NoError(t, err)

	worker := &models.WorkerProfile{
		ID:                 "w-1",
		Skills:             skillSet("python", "sql"),
		ExperienceYears:    3,
		PreferredLocations: []string{"Hamburg"},
		Availability:       models.AvailabilityAvailable,
		Education:          []models.Education{{Degree: "Bachelor of Science"}},
		Industry:           "Finance",
	}
	job := &models.JobProfile{
		ID:              "j-1",
		RequiredSkills:  []string{"python", "sql", "kubernetes"},
		ExperienceLevel: models.LevelMid,
		Location:        "Munich",
		Industry:        "Tech",
	}

	rec := scorer.Score(worker, job)

	// skills 66.67*.30 + experience 75*.25 + location 50*.15
	// + availability 100*.15 + education 80*.10 + cultural 70*.05
	assert.Equal(t, 72.75, rec.OverallScore)
	assert.Equal(t, models.RecommendationAverage, rec.Recommendation)

	assert.InDelta(t, 100*2.0/3.0, rec.Components.Skills, 1e-9)
	assert.Equal(t, 75.0, rec.Components.Experience)
	assert.Equal(t, 50.0, rec.Components.Location)
	assert.Equal(t, 100.0, rec.Components.Availability)
	assert.Equal(t, 80.0, rec.Components.Education)
	assert.Equal(t, 70.0, rec.Components.Cultural)

	assert.Equal(t, []string{"Strong availability match", "Strong education match"}, rec.Strengths)
	assert.Equal(t, []string{"Room for improvement in location"}, rec.Weaknesses)

	assert.Equal(t, "w-1", rec.WorkerID)
	assert.Equal(t, "j-1", rec.JobID)
	assert.Equal(t, "1.0", rec.Version)
	assert.False(t, rec.CalculatedAt.IsZero())
	assert.Empty(t, rec.ID, "identity is assigned at write time")
}

func TestWeightedScorer_Score_CutoffBoundaries(t *testing.T) {
	// Strength is inclusive at the cutoff, weakness too; a component sitting
	// exactly on both cutoffs must land on the right side of each.
	th := Thresholds{Excellent: 90, Good: 75, Average: 60, Strength: 80, Weakness: 50}
	scorer, err := NewWeightedScorer(DefaultCalculator(), DefaultWeights(), th, "1.0")
	require.NoError(t, err)

	worker := &models.WorkerProfile{
		ID: "w-2",
		// education 80 == strength cutoff, availability soon 80 as well
		Education:    []models.Education{{Degree: "bachelor"}},
		Availability: models.AvailabilitySoon,
	}
	job := &models.JobProfile{ID: "j-2", RequiredSkills: []string{"python"}}

	rec := scorer.Score(worker, job)

	assert.Contains(t, rec.Strengths, "Strong education match")
	assert.Contains(t, rec.Strengths, "Strong availability match")
	// skills 0 and location 50 both fall at or below the weakness cutoff
	assert.Contains(t, rec.Weaknesses, "Room for improvement in skills")
	assert.Contains(t, rec.Weaknesses, "Room for improvement in location")
	assert.NotContains(t, rec.Weaknesses, "Room for improvement in availability")
}

// TestWeightedScorer_Score_MonotonicPerComponent raises one component at a
// time through worker profile changes that leave every other component fixed,
// and checks the overall score never decreases.
func TestWeightedScorer_Score_MonotonicPerComponent(t *testing.T) {
	scorer, err := NewWeightedScorer(DefaultCalculator(), DefaultWeights(), DefaultThresholds(), "1.0")
	require.NoError(t, err)

	base := func() *models.WorkerProfile {
		return &models.WorkerProfile{
			ID:              "w-1",
			ExperienceYears: 2,
			Availability:    models.AvailabilitySoon,
		}
	}
	job := &models.JobProfile{
		ID:              "j-1",
		RequiredSkills:  []string{"python", "sql", "terraform"},
		ExperienceLevel: models.LevelSenior,
		Location:        "Berlin",
		Industry:        "Tech",
	}

	otherComponents := func(rec *models.ScoreRecord, comp models.Component) map[models.Component]float64 {
		others := make(map[models.Component]float64)
		for _, c := range models.Components() {
			if c != comp {
				others[c] = rec.Components.Get(c)
			}
		}
		return others
	}

	tests := []struct {
		comp  models.Component
		steps []func(*models.WorkerProfile)
	}{
		{models.ComponentSkills, []func(*models.WorkerProfile){
			func(w *models.WorkerProfile) {},
			func(w *models.WorkerProfile) { w.Skills = skillSet("python") },
			func(w *models.WorkerProfile) { w.Skills = skillSet("python", "sql") },
			func(w *models.WorkerProfile) { w.Skills = skillSet("python", "sql", "terraform") },
		}},
		{models.ComponentExperience, []func(*models.WorkerProfile){
			func(w *models.WorkerProfile) { w.ExperienceYears = 0 },
			func(w *models.WorkerProfile) { w.ExperienceYears = 2 },
			func(w *models.WorkerProfile) { w.ExperienceYears = 5 },
			func(w *models.WorkerProfile) { w.ExperienceYears = 7 },
		}},
		{models.ComponentLocation, []func(*models.WorkerProfile){
			func(w *models.WorkerProfile) { w.PreferredLocations = []string{"Munich"} },
			func(w *models.WorkerProfile) { w.PreferredLocations = []string{"Berlin"} },
		}},
		{models.ComponentAvailability, []func(*models.WorkerProfile){
			func(w *models.WorkerProfile) { w.Availability = models.AvailabilityUnavailable },
			func(w *models.WorkerProfile) { w.Availability = "" },
			func(w *models.WorkerProfile) { w.Availability = models.AvailabilitySoon },
			func(w *models.WorkerProfile) { w.Availability = models.AvailabilityAvailable },
		}},
		{models.ComponentEducation, []func(*models.WorkerProfile){
			func(w *models.WorkerProfile) { w.Education = []models.Education{{Degree: "Trade Certificate"}} },
			func(w *models.WorkerProfile) { w.Education = []models.Education{{Degree: "Associate Degree"}} },
			func(w *models.WorkerProfile) { w.Education = []models.Education{{Degree: "Bachelor of Arts"}} },
			func(w *models.WorkerProfile) { w.Education = []models.Education{{Degree: "Master of Science"}} },
			func(w *models.WorkerProfile) { w.Education = []models.Education{{Degree: "PhD"}} },
		}},
		{models.ComponentCultural, []func(*models.WorkerProfile){
			func(w *models.WorkerProfile) { w.Industry = "Retail" },
			func(w *models.WorkerProfile) { w.Industry = "Tech" },
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.comp), func(t *testing.T) {
			prevComponent := -1.0
			prevOverall := -1.0
			var prevOthers map[models.Component]float64

			for i, mutate := range tt.steps {
				worker := base()
				mutate(worker)
				rec := scorer.Score(worker, job)

				v := rec.Components.Get(tt.comp)
				assert.GreaterOrEqual(t, v, prevComponent, "step %d: component must not decrease", i)
				assert.GreaterOrEqual(t, rec.OverallScore, prevOverall, "step %d: overall must not decrease", i)

				others := otherComponents(rec, tt.comp)
				if i > 0 {
					assert.Equal(t, prevOthers, others, "step %d: other components must stay fixed", i)
				}

				prevComponent = v
				prevOverall = rec.OverallScore
				prevOthers = others
			}
		})
	}
}

func TestWeightedScorer_Score_NeverNilSlices(t *testing.T) {
	scorer, err := NewWeightedScorer(DefaultCalculator(), DefaultWeights(), DefaultThresholds(), "1.0")
	require.NoError(t, err)

	rec := scorer.Score(&models.WorkerProfile{ID: "w"}, &models.JobProfile{ID: "j", Remote: true})

	assert.NotNil(t, rec.Strengths)
	assert.NotNil(t, rec.Weaknesses)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 72.75, round2(72.75000001))
	assert.Equal(t, 66.67, round2(100*2.0/3.0))
	assert.Equal(t, 0.0, round2(0.004))
}
