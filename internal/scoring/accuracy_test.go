// internal/scoring/accuracy_test.go
package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchscore-engine/internal/common/logger"
	"matchscore-engine/internal/models"
	"matchscore-engine/internal/store"
)

type fakeOutcomes struct {
	outcomes []models.ApplicationOutcome
	err      error
}

func (f *fakeOutcomes) Outcomes(_ context.Context, _ store.Filter) ([]models.ApplicationOutcome, error) {
	return f.outcomes, f.err
}

func outcome(workerID, jobID string, status models.OutcomeStatus) models.ApplicationOutcome {
	return models.ApplicationOutcome{WorkerID: workerID, JobID: jobID, FinalStatus: status}
}

func TestAccuracyEvaluator_Evaluate(t *testing.T) {
	st := newFakeScoreStore()
	now := time.Now().UTC()

	// predicted hire (>= 75): w-1, w-2; predicted no-hire: w-3, w-4.
	require.NoError(t, st.Create(context.Background(), scoreAt("w-1", "j-1", 90, now)))
	require.NoError(t, st.Create(context.Background(), scoreAt("w-2", "j-2", 80, now)))
	require.NoError(t, st.Create(context.Background(), scoreAt("w-3", "j-3", 60, now)))
	require.NoError(t, st.Create(context.Background(), scoreAt("w-4", "j-4", 50, now)))

	outcomes := &fakeOutcomes{outcomes: []models.ApplicationOutcome{
		outcome("w-1", "j-1", models.OutcomeHired),     // TP
		outcome("w-2", "j-2", models.OutcomeRejected),  // FP
		outcome("w-3", "j-3", models.OutcomeHired),     // FN
		outcome("w-4", "j-4", models.OutcomeWithdrawn), // TN
	}}

	evaluator := NewAccuracyEvaluator(st, outcomes, 75, logger.NewTestLogger(t))
	report, err := evaluator.Evaluate(context.Background(), store.Filter{})
	require.NoError(t, err)

	assert.Equal(t, 4, report.Evaluated)
	assert.Equal(t, ConfusionMatrix{
		TruePositives:  1,
		FalsePositives: 1,
		TrueNegatives:  1,
		FalseNegatives: 1,
	}, report.Matrix)

	assert.Equal(t, 50.0, report.Accuracy)
	assert.Equal(t, 50.0, report.Precision)
	assert.Equal(t, 50.0, report.Recall)
	assert.Equal(t, 50.0, report.F1Score)
}

func TestAccuracyEvaluator_SkipsPairsWithoutOutcome(t *testing.T) {
	st := newFakeScoreStore()
	now := time.Now().UTC()
	require.NoError(t, st.Create(context.Background(), scoreAt("w-1", "j-1", 90, now)))
	require.NoError(t, st.Create(context.Background(), scoreAt("w-2", "j-2", 90, now)))

	outcomes := &fakeOutcomes{outcomes: []models.ApplicationOutcome{
		outcome("w-1", "j-1", models.OutcomeHired),
	}}

	evaluator := NewAccuracyEvaluator(st, outcomes, 75, logger.NewTestLogger(t))
	report, err := evaluator.Evaluate(context.Background(), store.Filter{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Evaluated)
	assert.Equal(t, 1, report.Matrix.TruePositives)
}

func TestAccuracyEvaluator_EmptyJoinIsZeroReport(t *testing.T) {
	evaluator := NewAccuracyEvaluator(newFakeScoreStore(), &fakeOutcomes{}, 75, logger.NewTestLogger(t))

	report, err := evaluator.Evaluate(context.Background(), store.Filter{})
	require.NoError(t, err)

	assert.Equal(t, 0, report.Evaluated)
	assert.Equal(t, 0.0, report.Accuracy)
	assert.Equal(t, 0.0, report.Precision)
	assert.Equal(t, 0.0, report.Recall)
	assert.Equal(t, 0.0, report.F1Score)
}

func TestAccuracyEvaluator_NoPositivePredictions(t *testing.T) {
	st := newFakeScoreStore()
	now := time.Now().UTC()
	require.NoError(t, st.Create(context.Background(), scoreAt("w-1", "j-1", 40, now)))
	require.NoError(t, st.Create(context.Background(), scoreAt("w-2", "j-2", 50, now)))

	outcomes := &fakeOutcomes{outcomes: []models.ApplicationOutcome{
		outcome("w-1", "j-1", models.OutcomeRejected),
		outcome("w-2", "j-2", models.OutcomeHired),
	}}

	evaluator := NewAccuracyEvaluator(st, outcomes, 75, logger.NewTestLogger(t))
	report, err := evaluator.Evaluate(context.Background(), store.Filter{})
	require.NoError(t, err)

	// Precision has a zero denominator and stays zero instead of NaN.
	assert.Equal(t, 0.0, report.Precision)
	assert.Equal(t, 0.0, report.Recall)
	assert.Equal(t, 0.0, report.F1Score)
	assert.Equal(t, 50.0, report.Accuracy)
}

func TestAccuracyEvaluator_ThresholdBoundary(t *testing.T) {
	st := newFakeScoreStore()
	now := time.Now().UTC()
	// Exactly at the threshold counts as a positive prediction.
	require.NoError(t, st.Create(context.Background(), scoreAt("w-1", "j-1", 75, now)))

	outcomes := &fakeOutcomes{outcomes: []models.ApplicationOutcome{
		outcome("w-1", "j-1", models.OutcomeHired),
	}}

	evaluator := NewAccuracyEvaluator(st, outcomes, 75, logger.NewTestLogger(t))
	report, err := evaluator.Evaluate(context.Background(), store.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Matrix.TruePositives)
}

func TestAccuracyEvaluator_InvalidFilter(t *testing.T) {
	evaluator := NewAccuracyEvaluator(newFakeScoreStore(), &fakeOutcomes{}, 75, logger.NewTestLogger(t))

	f := store.Filter{From: time.Now(), To: time.Now().Add(-time.Hour)}
	_, err := evaluator.Evaluate(context.Background(), f)
	assert.Error(t, err)
}
