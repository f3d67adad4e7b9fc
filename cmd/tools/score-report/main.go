// cmd/tools/score-report/main.go
//
// score-report is an operator CLI for inspecting the score store without
// going through the workflow engine: aggregate statistics, prediction
// accuracy, and per-pair history.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"matchscore-engine/internal/common/config"
	"matchscore-engine/internal/common/database"
	"matchscore-engine/internal/common/logger"
	"matchscore-engine/internal/models"
	"matchscore-engine/internal/scoring"
	"matchscore-engine/internal/store"
)

var (
	flagWorkerID string
	flagJobID    string
	flagFrom     string
	flagTo       string
	flagPeriod   string
	flagJSON     bool
)

var rootCmd = &cobra.Command{
	Use:   "score-report",
	Short: "Inspect candidate-job match scores",
	Long: `score-report reads the score store directly and prints aggregate
statistics, prediction accuracy against hiring outcomes, and per-pair
score history.`,
	SilenceUsage: true,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate score statistics",
	RunE:  runStats,
}

var accuracyCmd = &cobra.Command{
	Use:   "accuracy",
	Short: "Evaluate score predictions against hiring outcomes",
	RunE:  runAccuracy,
}

var historyCmd = &cobra.Command{
	Use:   "history <workerId> <jobId>",
	Short: "Show the full score history for a pair",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistory,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagWorkerID, "worker", "", "restrict to one worker")
	rootCmd.PersistentFlags().StringVar(&flagJobID, "job", "", "restrict to one job")
	rootCmd.PersistentFlags().StringVar(&flagFrom, "from", "", "start of date range (RFC3339)")
	rootCmd.PersistentFlags().StringVar(&flagTo, "to", "", "end of date range (RFC3339)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "print raw JSON instead of tables")
	statsCmd.Flags().StringVar(&flagPeriod, "period", "daily", "trend bucketing (daily, weekly, monthly)")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(accuracyCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openStore connects using the same configuration the worker manager reads.
func openStore(ctx context.Context) (*config.Config, *store.PostgresStore, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := pg.Ping(ctx); err != nil {
		pg.Close()
		return nil, nil, nil, fmt.Errorf("postgres unreachable: %w", err)
	}

	return cfg, store.NewPostgresStore(pg.DB, logger.NewNoOpLogger()), func() { pg.Close() }, nil
}

func buildFilter() (store.Filter, error) {
	f := store.Filter{WorkerID: flagWorkerID, JobID: flagJobID}
	if flagFrom != "" {
		from, err := time.Parse(time.RFC3339, flagFrom)
		if err != nil {
			return f, fmt.Errorf("--from: %w", err)
		}
		f.From = from
	}
	if flagTo != "" {
		to, err := time.Parse(time.RFC3339, flagTo)
		if err != nil {
			return f, fmt.Errorf("--to: %w", err)
		}
		f.To = to
	}
	return f, f.Validate()
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	f, err := buildFilter()
	if err != nil {
		return err
	}

	cfg, scoreStore, closeFn, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	// The CLI reads scores only; profile lookups for top matches go straight
	// to postgres with no cache in front.
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()
	profiles := store.NewProfileStore(pg.DB, nil, 0, logger.NewNoOpLogger())

	engine := scoring.NewStatisticsEngine(scoreStore, profiles, scoring.Thresholds{
		Excellent: cfg.Scoring.ExcellentCutoff,
		Good:      cfg.Scoring.GoodCutoff,
		Average:   cfg.Scoring.AverageCutoff,
		Strength:  cfg.Scoring.StrengthCutoff,
		Weakness:  cfg.Scoring.WeaknessCutoff,
	}, scoring.StatisticsConfig{
		ComponentSampleCap: cfg.Scoring.ComponentSample,
		TrendThreshold:     cfg.Scoring.TrendThreshold,
		TopMatches:         cfg.Scoring.TopMatches,
	}, logger.NewNoOpLogger())

	stats, err := engine.Statistics(ctx, f, scoring.Period(flagPeriod))
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(stats)
	}

	fmt.Printf("Match Score Statistics (%d records, trend %s)\n\n", stats.Count, stats.TrendDirection)

	dist := tablewriter.NewWriter(os.Stdout)
	dist.Header("Bucket", "Count", "Percent")
	dist.Append("excellent", fmt.Sprint(stats.Distribution.Excellent.Count), fmt.Sprintf("%.2f%%", stats.Distribution.Excellent.Percent))
	dist.Append("good", fmt.Sprint(stats.Distribution.Good.Count), fmt.Sprintf("%.2f%%", stats.Distribution.Good.Percent))
	dist.Append("average", fmt.Sprint(stats.Distribution.Average.Count), fmt.Sprintf("%.2f%%", stats.Distribution.Average.Percent))
	dist.Append("poor", fmt.Sprint(stats.Distribution.Poor.Count), fmt.Sprintf("%.2f%%", stats.Distribution.Poor.Percent))
	dist.Render()

	fmt.Printf("\nComponent breakdown (sample of %d)\n", stats.Sampled)
	comps := tablewriter.NewWriter(os.Stdout)
	comps.Header("Component", "Mean", "Min", "Max", "StdDev")
	for _, comp := range models.Components() {
		cs := stats.ByComponent[comp]
		comps.Append(string(comp),
			fmt.Sprintf("%.2f", cs.Mean),
			fmt.Sprintf("%.2f", cs.Min),
			fmt.Sprintf("%.2f", cs.Max),
			fmt.Sprintf("%.2f", cs.StdDev))
	}
	comps.Render()

	if len(stats.Trend) > 0 {
		fmt.Printf("\nTrend (%s, overall average %.2f)\n", flagPeriod, stats.Average.Overall)
		trend := tablewriter.NewWriter(os.Stdout)
		trend.Header("Period", "Count", "Average")
		for _, p := range stats.Trend {
			trend.Append(p.Period, fmt.Sprint(p.Count), fmt.Sprintf("%.2f", p.AverageScore))
		}
		trend.Render()
	}

	return nil
}

func runAccuracy(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	f, err := buildFilter()
	if err != nil {
		return err
	}

	cfg, scoreStore, closeFn, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	evaluator := scoring.NewAccuracyEvaluator(scoreStore, scoreStore, cfg.Scoring.HireThreshold, logger.NewNoOpLogger())
	report, err := evaluator.Evaluate(ctx, f)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(report)
	}

	fmt.Printf("Prediction Accuracy (%d pairs evaluated, hire threshold %.0f)\n\n",
		report.Evaluated, cfg.Scoring.HireThreshold)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Metric", "Value")
	table.Append("accuracy", fmt.Sprintf("%.2f%%", report.Accuracy))
	table.Append("precision", fmt.Sprintf("%.2f%%", report.Precision))
	table.Append("recall", fmt.Sprintf("%.2f%%", report.Recall))
	table.Append("f1", fmt.Sprintf("%.2f", report.F1Score))
	table.Append("true positives", fmt.Sprint(report.Matrix.TruePositives))
	table.Append("false positives", fmt.Sprint(report.Matrix.FalsePositives))
	table.Append("true negatives", fmt.Sprint(report.Matrix.TrueNegatives))
	table.Append("false negatives", fmt.Sprint(report.Matrix.FalseNegatives))
	table.Render()

	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	workerID, jobID := args[0], args[1]

	_, scoreStore, closeFn, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	records, err := scoreStore.History(ctx, workerID, jobID)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(records)
	}

	if len(records) == 0 {
		fmt.Printf("No score records for worker %s / job %s\n", workerID, jobID)
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Calculated", "Overall", "Recommendation", "Version", "Active")
	for _, rec := range records {
		table.Append(
			rec.CalculatedAt.UTC().Format(time.RFC3339),
			fmt.Sprintf("%.2f", rec.OverallScore),
			string(rec.Recommendation),
			rec.Version,
			fmt.Sprint(rec.Active))
	}
	table.Render()

	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
