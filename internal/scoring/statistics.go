// internal/scoring/statistics.go
package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"

	"matchscore-engine/internal/common/logger"
	"matchscore-engine/internal/models"
	"matchscore-engine/internal/store"
)

// Period selects the calendar bucketing for trend series.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// TrendDirection is the half-split classification of a score series.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

// StatisticsConfig carries the aggregation tunables.
type StatisticsConfig struct {
	// ComponentSampleCap bounds the per-component breakdown sample. The cap
	// biases results on very large populations; the Sampled field of the
	// result makes it visible rather than silent.
	ComponentSampleCap int
	// TrendThreshold is the relative half-split change beyond which a series
	// is classified improving or declining. A business threshold, not a
	// derived statistic.
	TrendThreshold float64
	TopMatches     int
}

// Averages holds arithmetic means over the matched records.
type Averages struct {
	Overall    float64                `json:"overall"`
	Components models.ComponentScores `json:"components"`
}

// BucketCount is one slice of the four-way distribution.
type BucketCount struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Distribution partitions the matched records by recommendation bucket. The
// partition is exhaustive and non-overlapping: every record lands in exactly
// one bucket.
type Distribution struct {
	Excellent BucketCount `json:"excellent"`
	Good      BucketCount `json:"good"`
	Average   BucketCount `json:"average"`
	Poor      BucketCount `json:"poor"`
}

// ComponentStats is the per-component breakdown over the capped sample.
// StdDev uses the population formula.
type ComponentStats struct {
	Mean   float64 `json:"mean"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
	StdDev float64 `json:"stdDev"`
}

// TrendPoint is one calendar bucket of the trend series.
type TrendPoint struct {
	Period       string  `json:"period"`
	Count        int     `json:"count"`
	AverageScore float64 `json:"averageScore"`
}

// TopMatch is a high-scoring record with display context attached. Worker or
// Job may be nil when the profile has since been deleted.
type TopMatch struct {
	Record models.ScoreRecord    `json:"record"`
	Worker *models.WorkerProfile `json:"worker,omitempty"`
	Job    *models.JobProfile    `json:"job,omitempty"`
}

// Statistics is the full aggregation result. An empty population yields the
// zero value with Count 0: empty statistics are a normal state, not an error.
type Statistics struct {
	Count          int                                 `json:"count"`
	Average        Averages                            `json:"average"`
	Distribution   Distribution                        `json:"distribution"`
	ByComponent    map[models.Component]ComponentStats `json:"byComponent"`
	Sampled        int                                 `json:"sampled"`
	Trend          []TrendPoint                        `json:"trend"`
	TrendDirection TrendDirection                      `json:"trendDirection"`
	TopMatches     []TopMatch                          `json:"topMatches"`
}

// StatisticsEngine aggregates stored scores in memory over a store read,
// keeping the engine's contract free of SQL dialect specifics.
type StatisticsEngine struct {
	store      store.ScoreStore
	profiles   store.ProfileReader
	thresholds Thresholds
	cfg        StatisticsConfig
	logger     logger.Logger
}

func NewStatisticsEngine(
	st store.ScoreStore,
	profiles store.ProfileReader,
	thresholds Thresholds,
	cfg StatisticsConfig,
	log logger.Logger,
) *StatisticsEngine {
	if cfg.ComponentSampleCap <= 0 {
		cfg.ComponentSampleCap = 1000
	}
	if cfg.TrendThreshold <= 0 {
		cfg.TrendThreshold = 0.10
	}
	if cfg.TopMatches <= 0 {
		cfg.TopMatches = 10
	}
	return &StatisticsEngine{
		store:      st,
		profiles:   profiles,
		thresholds: thresholds,
		cfg:        cfg,
		logger:     log.WithFields(map[string]interface{}{"component": "score-statistics"}),
	}
}

// Statistics aggregates all records matching the filter.
func (s *StatisticsEngine) Statistics(ctx context.Context, f store.Filter, period Period) (*Statistics, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if period == "" {
		period = PeriodDaily
	}

	records, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}

	result := emptyStatistics()
	if len(records) == 0 {
		return result, nil
	}

	result.Count = len(records)
	result.Average = averages(records)
	result.Distribution = s.distribution(records)

	sample := records
	if len(sample) > s.cfg.ComponentSampleCap {
		sample = sample[:s.cfg.ComponentSampleCap]
	}
	result.Sampled = len(sample)
	result.ByComponent = componentBreakdown(sample)

	result.Trend = trendSeries(records, period)
	result.TrendDirection = s.trendDirection(records)
	result.TopMatches = s.topMatches(ctx, records)

	return result, nil
}

func emptyStatistics() *Statistics {
	byComponent := make(map[models.Component]ComponentStats, len(models.Components()))
	for _, comp := range models.Components() {
		byComponent[comp] = ComponentStats{}
	}
	return &Statistics{
		ByComponent:    byComponent,
		Trend:          []TrendPoint{},
		TrendDirection: TrendStable,
		TopMatches:     []TopMatch{},
	}
}

func averages(records []models.ScoreRecord) Averages {
	var avg Averages
	n := float64(len(records))
	for _, rec := range records {
		avg.Overall += rec.OverallScore
		for _, comp := range models.Components() {
			avg.Components.Set(comp, avg.Components.Get(comp)+rec.Components.Get(comp))
		}
	}
	avg.Overall = round2(avg.Overall / n)
	for _, comp := range models.Components() {
		avg.Components.Set(comp, round2(avg.Components.Get(comp)/n))
	}
	return avg
}

func (s *StatisticsEngine) distribution(records []models.ScoreRecord) Distribution {
	var d Distribution
	for _, rec := range records {
		switch s.thresholds.Bucket(rec.OverallScore) {
		case models.RecommendationExcellent:
			d.Excellent.Count++
		case models.RecommendationGood:
			d.Good.Count++
		case models.RecommendationAverage:
			d.Average.Count++
		default:
			d.Poor.Count++
		}
	}

	total := float64(len(records))
	d.Excellent.Percent = round2(float64(d.Excellent.Count) / total * 100)
	d.Good.Percent = round2(float64(d.Good.Count) / total * 100)
	d.Average.Percent = round2(float64(d.Average.Count) / total * 100)
	d.Poor.Percent = round2(float64(d.Poor.Count) / total * 100)
	return d
}

func componentBreakdown(sample []models.ScoreRecord) map[models.Component]ComponentStats {
	out := make(map[models.Component]ComponentStats, len(models.Components()))
	n := float64(len(sample))

	for _, comp := range models.Components() {
		stats := ComponentStats{Min: math.MaxFloat64}
		sum := 0.0
		for _, rec := range sample {
			v := rec.Components.Get(comp)
			sum += v
			if v > stats.Max {
				stats.Max = v
			}
			if v < stats.Min {
				stats.Min = v
			}
		}
		mean := sum / n

		variance := 0.0
		for _, rec := range sample {
			d := rec.Components.Get(comp) - mean
			variance += d * d
		}

		stats.Mean = round2(mean)
		stats.StdDev = round2(math.Sqrt(variance / n))
		stats.Max = round2(stats.Max)
		stats.Min = round2(stats.Min)
		out[comp] = stats
	}
	return out
}

// trendSeries buckets records by calendar period; records arrive oldest
// first so the series is already chronological.
func trendSeries(records []models.ScoreRecord, period Period) []TrendPoint {
	type bucket struct {
		count int
		sum   float64
	}
	buckets := make(map[string]*bucket)

	for _, rec := range records {
		key := periodKey(rec, period)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.count++
		b.sum += rec.OverallScore
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	series := make([]TrendPoint, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		series = append(series, TrendPoint{
			Period:       k,
			Count:        b.count,
			AverageScore: round2(b.sum / float64(b.count)),
		})
	}
	return series
}

func periodKey(rec models.ScoreRecord, period Period) string {
	t := rec.CalculatedAt.UTC()
	switch period {
	case PeriodWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case PeriodMonthly:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// trendDirection compares the mean of the chronological first half against
// the second half; change beyond the configured threshold classifies the
// series.
func (s *StatisticsEngine) trendDirection(records []models.ScoreRecord) TrendDirection {
	if len(records) < 2 {
		return TrendStable
	}

	half := len(records) / 2
	firstMean := meanOverall(records[:half])
	secondMean := meanOverall(records[half:])

	if firstMean == 0 {
		if secondMean > 0 {
			return TrendImproving
		}
		return TrendStable
	}

	change := (secondMean - firstMean) / firstMean
	switch {
	case change > s.cfg.TrendThreshold:
		return TrendImproving
	case change < -s.cfg.TrendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func meanOverall(records []models.ScoreRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0.0
	for _, rec := range records {
		sum += rec.OverallScore
	}
	return sum / float64(len(records))
}

func (s *StatisticsEngine) topMatches(ctx context.Context, records []models.ScoreRecord) []TopMatch {
	sorted := make([]models.ScoreRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OverallScore > sorted[j].OverallScore
	})
	if len(sorted) > s.cfg.TopMatches {
		sorted = sorted[:s.cfg.TopMatches]
	}

	matches := make([]TopMatch, 0, len(sorted))
	for _, rec := range sorted {
		match := TopMatch{Record: rec}
		if worker, err := s.profiles.WorkerProfile(ctx, rec.WorkerID); err == nil {
			match.Worker = worker
		}
		if job, err := s.profiles.JobProfile(ctx, rec.JobID); err == nil {
			match.Job = job
		}
		matches = append(matches, match)
	}
	return matches
}
