// internal/scoring/estimator.go
package scoring

import (
	"fmt"
	"strings"

	"matchscore-engine/internal/common/metrics"
	"matchscore-engine/internal/models"
)

// EstimatorConfig holds the additive bonuses of the estimation heuristic.
type EstimatorConfig struct {
	Base            float64 // starting score for every candidate
	SimilarityBonus float64 // shares category, level and type with a high-scoring job
	SkillBonusMax   float64 // scaled by the fraction of job skills the worker has
	LocationBonus   float64
	RemoteBonus     float64
}

// DefaultEstimatorConfig returns the production bonus set.
func DefaultEstimatorConfig() EstimatorConfig {
	return EstimatorConfig{
		Base:            50,
		SimilarityBonus: 20,
		SkillBonusMax:   20,
		LocationBonus:   10,
		RemoteBonus:     10,
	}
}

// EstimatedJob is a candidate job annotated with its estimated score and the
// reasons the bonuses fired. Reasons are explanatory only.
type EstimatedJob struct {
	Job            models.JobProfile `json:"job"`
	EstimatedScore float64           `json:"estimatedScore"`
	MatchReasons   []string          `json:"matchReasons"`
}

// Estimator approximates a match score for unscored pairs from historical
// high-scoring jobs with similar attributes. It is a cheap ranking heuristic,
// deliberately weaker than the full weighted scorer, and its output is never
// written to the score store.
type Estimator struct {
	calc *Calculator
	cfg  EstimatorConfig
}

func NewEstimator(calc *Calculator, cfg EstimatorConfig) *Estimator {
	if calc == nil {
		calc = DefaultCalculator()
	}
	return &Estimator{calc: calc, cfg: cfg}
}

// Estimate annotates every candidate job with an estimated score in [0,100].
func (e *Estimator) Estimate(
	worker *models.WorkerProfile,
	candidates []models.JobProfile,
	highScoreJobs []models.JobProfile,
) []EstimatedJob {
	workerSkills := make(map[string]bool, len(worker.Skills))
	for _, s := range worker.Skills {
		workerSkills[normalizeSkill(s.Name)] = true
	}

	out := make([]EstimatedJob, 0, len(candidates))
	for i := range candidates {
		job := candidates[i]
		score := e.cfg.Base
		reasons := []string{}

		if similarToAny(&job, highScoreJobs) {
			score += e.cfg.SimilarityBonus
			reasons = append(reasons, "Similar to jobs you matched strongly with")
		}

		jobSkills := e.calc.ExtractJobSkills(&job)
		if len(jobSkills) > 0 {
			matched := 0
			for skill := range jobSkills {
				if workerSkills[skill] {
					matched++
				}
			}
			score += float64(matched) / float64(len(jobSkills)) * e.cfg.SkillBonusMax
			if matched > 0 {
				reasons = append(reasons, fmt.Sprintf("Matches %d required skills", matched))
			}
		}

		if locationMatches(worker.PreferredLocations, job.Location) {
			score += e.cfg.LocationBonus
			reasons = append(reasons, "Location match")
		}

		if job.Remote && worker.RemotePreferred {
			score += e.cfg.RemoteBonus
			reasons = append(reasons, "Remote work match")
		}

		out = append(out, EstimatedJob{
			Job:            job,
			EstimatedScore: round2(clamp(score, 0, 100)),
			MatchReasons:   reasons,
		})
		metrics.EstimatesProduced.Inc()
	}
	return out
}

// similarToAny applies the attribute-similarity heuristic: same category,
// experience level and job type as any historical high-scoring job.
func similarToAny(job *models.JobProfile, history []models.JobProfile) bool {
	for _, h := range history {
		if h.Category == job.Category &&
			h.ExperienceLevel == job.ExperienceLevel &&
			h.JobType == job.JobType {
			return true
		}
	}
	return false
}

func locationMatches(preferred []string, location string) bool {
	loc := strings.ToLower(strings.TrimSpace(location))
	if loc == "" {
		return false
	}
	for _, pref := range preferred {
		p := strings.ToLower(strings.TrimSpace(pref))
		if p == "" {
			continue
		}
		if strings.Contains(loc, p) || strings.Contains(p, loc) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
