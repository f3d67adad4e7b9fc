// internal/workers/scoring/batch-score/models.go
package batchscore

import "matchscore-engine/internal/scoring"

type Input struct {
	Pairs            []scoring.Pair `json:"pairs"`
	ForceRecalculate bool           `json:"forceRecalculate,omitempty"`
}

type Output struct {
	Total     int                  `json:"total"`
	Succeeded int                  `json:"succeeded"`
	Failed    int                  `json:"failed"`
	Results   []scoring.PairResult `json:"results"`
}
