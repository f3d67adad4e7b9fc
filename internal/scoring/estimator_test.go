// internal/scoring/estimator_test.go
package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchscore-engine/internal/models"
)

func TestEstimator_Estimate_Bonuses(t *testing.T) {
	est := NewEstimator(DefaultCalculator(), DefaultEstimatorConfig())

	worker := &models.WorkerProfile{
		ID:                 "w-1",
		Skills:             skillSet("python", "sql"),
		PreferredLocations: []string{"Berlin"},
		RemotePreferred:    true,
	}
	history := []models.JobProfile{
		{Category: "engineering", ExperienceLevel: models.LevelMid, JobType: "FULL_TIME"},
	}

	tests := []struct {
		name     string
		job      models.JobProfile
		expected float64
		reasons  []string
	}{
		{
			"base only",
			models.JobProfile{ID: "j-1", RequiredSkills: []string{"cobol"}},
			50,
			[]string{},
		},
		{
			"similarity bonus",
			models.JobProfile{
				ID: "j-2", Category: "engineering",
				ExperienceLevel: models.LevelMid, JobType: "FULL_TIME",
				RequiredSkills: []string{"cobol"},
			},
			70,
			[]string{"Similar to jobs you matched strongly with"},
		},
		{
			"partial skill bonus",
			models.JobProfile{ID: "j-3", RequiredSkills: []string{"python", "cobol"}},
			60,
			[]string{"Matches 1 required skills"},
		},
		{
			"location bonus on site",
			models.JobProfile{ID: "j-4", RequiredSkills: []string{"cobol"}, Location: "Berlin, Germany"},
			60,
			[]string{"Location match"},
		},
		{
			"remote bonus without location match",
			models.JobProfile{ID: "j-5", RequiredSkills: []string{"cobol"}, Remote: true},
			60,
			[]string{"Remote work match"},
		},
		{
			"location and remote bonuses stack",
			models.JobProfile{ID: "j-7", RequiredSkills: []string{"cobol"}, Location: "Berlin", Remote: true},
			70,
			[]string{"Location match", "Remote work match"},
		},
		{
			"all bonuses clamp at 100",
			models.JobProfile{
				ID: "j-6", Category: "engineering",
				ExperienceLevel: models.LevelMid, JobType: "FULL_TIME",
				RequiredSkills: []string{"python", "sql"},
				Location:       "Berlin",
				Remote:         true,
			},
			100,
			[]string{
				"Similar to jobs you matched strongly with",
				"Matches 2 required skills",
				"Location match",
				"Remote work match",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := est.Estimate(worker, []models.JobProfile{tt.job}, history)
			require.Len(t, out, 1)
			assert.Equal(t, tt.job.ID, out[0].Job.ID)
			assert.Equal(t, tt.expected, out[0].EstimatedScore)
			assert.Equal(t, tt.reasons, out[0].MatchReasons)
		})
	}
}

func TestEstimator_Estimate_NoCandidates(t *testing.T) {
	est := NewEstimator(nil, DefaultEstimatorConfig())
	out := est.Estimate(&models.WorkerProfile{}, nil, nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestEstimator_Estimate_VocabularySkillsCount(t *testing.T) {
	est := NewEstimator(DefaultCalculator(), DefaultEstimatorConfig())

	worker := &models.WorkerProfile{Skills: skillSet("forklift", "warehouse")}
	job := models.JobProfile{
		ID:          "j-1",
		Title:       "Forklift Operator",
		Description: "Warehouse shifts",
	}

	out := est.Estimate(worker, []models.JobProfile{job}, nil)
	require.Len(t, out, 1)
	// Vocabulary extraction finds forklift and warehouse; both match.
	assert.Equal(t, 70.0, out[0].EstimatedScore)
	assert.Contains(t, out[0].MatchReasons, "Matches 2 required skills")
}
