// internal/workers/scoring/calculate-match-score/models.go
package calculatematchscore

import "matchscore-engine/internal/models"

type Input struct {
	WorkerID         string `json:"workerId"`
	JobID            string `json:"jobId"`
	ForceRecalculate bool   `json:"forceRecalculate,omitempty"`
}

type Output struct {
	ScoreID        string                 `json:"scoreId"`
	WorkerID       string                 `json:"workerId"`
	JobID          string                 `json:"jobId"`
	OverallScore   float64                `json:"overallScore"`
	Components     models.ComponentScores `json:"componentScores"`
	Strengths      []string               `json:"strengths"`
	Weaknesses     []string               `json:"weaknesses"`
	Recommendation models.Recommendation  `json:"recommendation"`
	Version        string                 `json:"scoreVersion"`
	CalculatedAt   string                 `json:"calculatedAt"`
}
