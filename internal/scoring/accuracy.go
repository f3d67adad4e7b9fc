// internal/scoring/accuracy.go
package scoring

import (
	"context"

	"matchscore-engine/internal/common/logger"
	"matchscore-engine/internal/models"
	"matchscore-engine/internal/store"
)

// ConfusionMatrix counts the four prediction/outcome combinations.
type ConfusionMatrix struct {
	TruePositives  int `json:"truePositives"`
	FalsePositives int `json:"falsePositives"`
	TrueNegatives  int `json:"trueNegatives"`
	FalseNegatives int `json:"falseNegatives"`
}

// AccuracyReport evaluates stored predictions against hiring outcomes.
// Accuracy, Precision, Recall and F1Score are percentages on the [0,100]
// scale, matching the score scale, not [0,1] ratios. All of them are zero
// when their denominator is zero; an empty join produces the zero report,
// not an error.
type AccuracyReport struct {
	Accuracy  float64         `json:"accuracy"`
	Precision float64         `json:"precision"`
	Recall    float64         `json:"recall"`
	F1Score   float64         `json:"f1Score"`
	Matrix    ConfusionMatrix `json:"confusionMatrix"`
	Evaluated int             `json:"evaluated"`
}

// AccuracyEvaluator joins score records with application outcomes on the
// worker/job pair. A score at or above the hire threshold is the positive
// prediction; a HIRED outcome is the positive actual. Pairs with a score
// but no concluded outcome are excluded.
type AccuracyEvaluator struct {
	store         store.ScoreStore
	outcomes      store.OutcomeReader
	hireThreshold float64
	logger        logger.Logger
}

func NewAccuracyEvaluator(st store.ScoreStore, outcomes store.OutcomeReader, hireThreshold float64, log logger.Logger) *AccuracyEvaluator {
	if hireThreshold <= 0 {
		hireThreshold = 75
	}
	return &AccuracyEvaluator{
		store:         st,
		outcomes:      outcomes,
		hireThreshold: hireThreshold,
		logger:        log.WithFields(map[string]interface{}{"component": "score-accuracy"}),
	}
}

// Evaluate builds the accuracy report over all pairs matching the filter.
func (a *AccuracyEvaluator) Evaluate(ctx context.Context, f store.Filter) (*AccuracyReport, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	records, err := a.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	outcomes, err := a.outcomes.Outcomes(ctx, f)
	if err != nil {
		return nil, err
	}

	outcomeByPair := make(map[string]models.OutcomeStatus, len(outcomes))
	for _, o := range outcomes {
		outcomeByPair[o.WorkerID+"|"+o.JobID] = o.FinalStatus
	}

	report := &AccuracyReport{}
	for _, rec := range records {
		status, ok := outcomeByPair[rec.WorkerID+"|"+rec.JobID]
		if !ok {
			continue
		}

		predicted := rec.OverallScore >= a.hireThreshold
		actual := status == models.OutcomeHired
		switch {
		case predicted && actual:
			report.Matrix.TruePositives++
		case predicted && !actual:
			report.Matrix.FalsePositives++
		case !predicted && actual:
			report.Matrix.FalseNegatives++
		default:
			report.Matrix.TrueNegatives++
		}
		report.Evaluated++
	}

	m := report.Matrix
	if report.Evaluated > 0 {
		report.Accuracy = round2(float64(m.TruePositives+m.TrueNegatives) / float64(report.Evaluated) * 100)
	}
	if m.TruePositives+m.FalsePositives > 0 {
		report.Precision = round2(float64(m.TruePositives) / float64(m.TruePositives+m.FalsePositives) * 100)
	}
	if m.TruePositives+m.FalseNegatives > 0 {
		report.Recall = round2(float64(m.TruePositives) / float64(m.TruePositives+m.FalseNegatives) * 100)
	}
	if report.Precision+report.Recall > 0 {
		report.F1Score = round2(2 * report.Precision * report.Recall / (report.Precision + report.Recall))
	}

	a.logger.Info("accuracy evaluated", map[string]interface{}{
		"evaluated": report.Evaluated,
		"accuracy":  report.Accuracy,
	})
	return report, nil
}
