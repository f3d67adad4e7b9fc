// internal/scoring/statistics_test.go
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

func newTestStatisticsEngine(t *testing.T, st *fakeScoreStore, profiles *fakeProfiles, cfg StatisticsConfig) *StatisticsEngine {
	t.Helper()
	return NewStatisticsEngine(st, profiles, DefaultThresholds(), cfg, logger.NewTestLogger(t))
}

func scoreAt(workerID, jobID string, overall float64, at time.Time) *models.ScoreRecord {
	return &models.ScoreRecord{
		ID:           workerID + "-" + jobID,
		WorkerID:     workerID,
		JobID:        jobID,
		OverallScore: overall,
		Components: models.ComponentScores{
			Skills: overall, Experience: overall, Location: overall,
			Availability: overall, Education: overall, Cultural: overall,
		},
		Active:       true,
		CalculatedAt: at,
	}
}

func TestStatisticsEngine_EmptyPopulation(t *testing.T) {
	engine := newTestStatisticsEngine(t, newFakeScoreStore(), newFakeProfiles(), StatisticsConfig{})

	stats, err := engine.Statistics(context.Background(), store.Filter{}, PeriodDaily)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Count)
	assert.Equal(t, TrendStable, stats.TrendDirection)
	assert.NotNil(t, stats.Trend)
	assert.Empty(t, stats.Trend)
	assert.NotNil(t, stats.TopMatches)
	assert.Len(t, stats.ByComponent, len(models.Components()))
}

func TestStatisticsEngine_RejectsInvalidFilter(t *testing.T) {
	engine := newTestStatisticsEngine(t, newFakeScoreStore(), newFakeProfiles(), StatisticsConfig{})

	lo, hi := 80.0, 20.0
	_, err := engine.Statistics(context.Background(), store.Filter{MinScore: &lo, MaxScore: &hi}, PeriodDaily)
	assert.Error(t, err)
}

func TestStatisticsEngine_DistributionAndAverages(t *testing.T) {
	st := newFakeScoreStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, rec := range []*models.ScoreRecord{
		scoreAt("w-1", "j-1", 95, now),
		scoreAt("w-2", "j-2", 80, now),
		scoreAt("w-3", "j-3", 65, now),
		scoreAt("w-4", "j-4", 40, now),
	} {
		require.NoError(t, st.Create(context.Background(), rec))
	}

	engine := newTestStatisticsEngine(t, st, newFakeProfiles(), StatisticsConfig{})
	stats, err := engine.Statistics(context.Background(), store.Filter{}, PeriodDaily)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Count)
	assert.Equal(t, 70.0, stats.Average.Overall)

	assert.Equal(t, 1, stats.Distribution.Excellent.Count)
	assert.Equal(t, 1, stats.Distribution.Good.Count)
	assert.Equal(t, 1, stats.Distribution.Average.Count)
	assert.Equal(t, 1, stats.Distribution.Poor.Count)
	assert.Equal(t, 25.0, stats.Distribution.Excellent.Percent)

	total := stats.Distribution.Excellent.Count + stats.Distribution.Good.Count +
		stats.Distribution.Average.Count + stats.Distribution.Poor.Count
	assert.Equal(t, stats.Count, total, "every record lands in exactly one bucket")
}

func TestStatisticsEngine_ComponentBreakdown(t *testing.T) {
	st := newFakeScoreStore()
	now := time.Now().UTC()
	// Component scores 60, 80, 100: mean 80, population stddev sqrt(800/3).
	require.NoError(t, st.Create(context.Background(), scoreAt("w-1", "j-1", 60, now)))
	require.NoError(t, st.Create(context.Background(), scoreAt("w-2", "j-2", 80, now)))
	require.NoError(t, st.Create(context.Background(), scoreAt("w-3", "j-3", 100, now)))

	engine := newTestStatisticsEngine(t, st, newFakeProfiles(), StatisticsConfig{})
	stats, err := engine.Statistics(context.Background(), store.Filter{}, PeriodDaily)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Sampled)
	for _, comp := range models.Components() {
		cs := stats.ByComponent[comp]
		assert.Equal(t, 80.0, cs.Mean, "component %s", comp)
		assert.Equal(t, 60.0, cs.Min, "component %s", comp)
		assert.Equal(t, 100.0, cs.Max, "component %s", comp)
		assert.Equal(t, 16.33, cs.StdDev, "component %s", comp)
	}
}

func TestStatisticsEngine_SampleCap(t *testing.T) {
	st := newFakeScoreStore()
	now := time.Now().UTC()
	for i := 0; i < 10; i++ {
		rec := scoreAt("w", string(rune('a'+i)), 70, now)
		require.NoError(t, st.Create(context.Background(), rec))
	}

	engine := newTestStatisticsEngine(t, st, newFakeProfiles(), StatisticsConfig{ComponentSampleCap: 4})
	stats, err := engine.Statistics(context.Background(), store.Filter{}, PeriodDaily)
	require.NoError(t, err)

	assert.Equal(t, 10, stats.Count)
	assert.Equal(t, 4, stats.Sampled)
}

func TestPeriodKey(t *testing.T) {
	// Jan 1st 2026 falls in ISO week 1 of 2026; Dec 29th 2025 does too.
	rec := models.ScoreRecord{CalculatedAt: time.Date(2025, 12, 29, 10, 0, 0, 0, time.UTC)}

	assert.Equal(t, "2025-12-29", periodKey(rec, PeriodDaily))
	assert.Equal(t, "2026-W01", periodKey(rec, PeriodWeekly))
	assert.Equal(t, "2025-12", periodKey(rec, PeriodMonthly))
}

func TestStatisticsEngine_TrendSeries(t *testing.T) {
	st := newFakeScoreStore()
	day1 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, st.Create(context.Background(), scoreAt("w-1", "j-1", 60, day1)))
	require.NoError(t, st.Create(context.Background(), scoreAt("w-2", "j-2", 70, day1)))
	require.NoError(t, st.Create(context.Background(), scoreAt("w-3", "j-3", 90, day2)))

	engine := newTestStatisticsEngine(t, st, newFakeProfiles(), StatisticsConfig{})
	stats, err := engine.Statistics(context.Background(), store.Filter{}, PeriodDaily)
	require.NoError(t, err)

	require.Len(t, stats.Trend, 2)
	assert.Equal(t, TrendPoint{Period: "2025-06-01", Count: 2, AverageScore: 65}, stats.Trend[0])
	assert.Equal(t, TrendPoint{Period: "2025-06-02", Count: 1, AverageScore: 90}, stats.Trend[1])
}

func TestStatisticsEngine_TrendDirection(t *testing.T) {
	tests := []struct {
		name     string
		overall  []float64
		expected TrendDirection
	}{
		{"improving", []float64{50, 50, 70, 70}, TrendImproving},
		{"declining", []float64{80, 80, 60, 60}, TrendDeclining},
		{"stable within threshold", []float64{70, 70, 72, 72}, TrendStable},
		{"single record", []float64{70}, TrendStable},
		{"zero first half with activity after", []float64{0, 0, 50, 50}, TrendImproving},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newFakeScoreStore()
			base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
			for i, overall := range tt.overall {
				rec := scoreAt("w", string(rune('a'+i)), overall, base.Add(time.Duration(i)*time.Hour))
				require.NoError(t, st.Create(context.Background(), rec))
			}

			engine := newTestStatisticsEngine(t, st, newFakeProfiles(), StatisticsConfig{TrendThreshold: 0.10})
			stats, err := engine.Statistics(context.Background(), store.Filter{}, PeriodDaily)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stats.TrendDirection)
		})
	}
}

func TestStatisticsEngine_TopMatches(t *testing.T) {
	st := newFakeScoreStore()
	profiles := newFakeProfiles()
	now := time.Now().UTC()

	require.NoError(t, st.Create(context.Background(), scoreAt("w-1", "j-1", 95, now)))
	require.NoError(t, st.Create(context.Background(), scoreAt("w-2", "j-2", 85, now)))
	require.NoError(t, st.Create(context.Background(), scoreAt("w-3", "j-3", 75, now)))

	// Only w-1/j-1 still has live profiles.
	profiles.workers["w-1"] = &models.WorkerProfile{ID: "w-1"}
	profiles.jobs["j-1"] = &models.JobProfile{ID: "j-1", Title: "Data Engineer"}

	engine := newTestStatisticsEngine(t, st, profiles, StatisticsConfig{TopMatches: 2})
	stats, err := engine.Statistics(context.Background(), store.Filter{}, PeriodDaily)
	require.NoError(t, err)

	require.Len(t, stats.TopMatches, 2)
	assert.Equal(t, 95.0, stats.TopMatches[0].Record.OverallScore)
	assert.Equal(t, 85.0, stats.TopMatches[1].Record.OverallScore)

	require.NotNil(t, stats.TopMatches[0].Worker)
	assert.Equal(t, "Data Engineer", stats.TopMatches[0].Job.Title)

	// Deleted profiles leave the record intact with nil context.
	assert.Nil(t, stats.TopMatches[1].Worker)
	assert.Nil(t, stats.TopMatches[1].Job)
}
