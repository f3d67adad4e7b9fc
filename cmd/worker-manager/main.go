// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"matchscore-engine/internal/common/config"
	"matchscore-engine/internal/common/database"
	"matchscore-engine/internal/common/logger"
	"matchscore-engine/internal/common/observability"
	"matchscore-engine/internal/models"
	"matchscore-engine/internal/scoring"
	"matchscore-engine/internal/store"

	// Scoring Workers (3)
	bs "matchscore-engine/internal/workers/scoring/batch-score"
	cms "matchscore-engine/internal/workers/scoring/calculate-match-score"
	sr "matchscore-engine/internal/workers/scoring/score-recommendations"

	// Reporting Workers (2)
	sa "matchscore-engine/internal/workers/reporting/score-accuracy"
	ss "matchscore-engine/internal/workers/reporting/score-statistics"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting score worker manager...",
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Build Scoring Stack ---
	calculator := scoring.DefaultCalculator()

	thresholds := scoring.Thresholds{
		Excellent: cfg.Scoring.ExcellentCutoff,
		Good:      cfg.Scoring.GoodCutoff,
		Average:   cfg.Scoring.AverageCutoff,
		Strength:  cfg.Scoring.StrengthCutoff,
		Weakness:  cfg.Scoring.WeaknessCutoff,
	}

	scorer, err := scoring.NewWeightedScorer(
		calculator,
		scoring.WeightsFromConfig(cfg.Scoring.Weights),
		thresholds,
		cfg.Scoring.Version,
	)
	if err != nil {
		zapLog.Fatal("scorer configuration invalid", zap.Error(err))
	}

	scoreStore := store.NewPostgresStore(pg.DB, log)
	profileStore := store.NewProfileStore(
		pg.DB,
		redis.Client,
		time.Duration(cfg.Scoring.ProfileCacheTTL)*time.Second,
		log,
	)

	estimator := scoring.NewEstimator(calculator, scoring.DefaultEstimatorConfig())

	engine := scoring.NewEngine(scorer, scoreStore, profileStore, estimator, scoring.EngineConfig{
		BatchConcurrency:   cfg.Scoring.BatchConcurrency,
		HighScoreThreshold: cfg.Scoring.GoodCutoff,
	}, log)

	// Downstream side effect: the application-management side refreshes its
	// cached matchScore off this event. No publisher is wired here yet, so the
	// manager records the emission itself.
	engine.OnScoreRecorded(func(rec *models.ScoreRecord) {
		log.Info("score recorded", map[string]interface{}{
			"scoreId":      rec.ID,
			"workerId":     rec.WorkerID,
			"jobId":        rec.JobID,
			"overallScore": rec.OverallScore,
		})
	})

	statsEngine := scoring.NewStatisticsEngine(scoreStore, profileStore, thresholds, scoring.StatisticsConfig{
		ComponentSampleCap: cfg.Scoring.ComponentSample,
		TrendThreshold:     cfg.Scoring.TrendThreshold,
		TopMatches:         cfg.Scoring.TopMatches,
	}, log)

	evaluator := scoring.NewAccuracyEvaluator(scoreStore, scoreStore, cfg.Scoring.HireThreshold, log)

	zapLog.Info("Scoring stack initialized",
		zap.String("scoreVersion", cfg.Scoring.Version),
		zap.Float64("hireThreshold", cfg.Scoring.HireThreshold),
	)

	// --- Register Workers ---

	// --- 1. Scoring Workers (3) ---
	if cfg.Workers[cms.TaskType].Enabled {
		handler := cms.NewHandler(
			&cms.Config{
				Timeout: time.Duration(cfg.Workers[cms.TaskType].Timeout) * time.Millisecond,
			},
			engine, log,
		)
		startWorker(zeebeClient, cms.TaskType, cfg.Workers[cms.TaskType], handler.Handle, obs, zapLog)
	}

	if cfg.Workers[bs.TaskType].Enabled {
		handler := bs.NewHandler(
			&bs.Config{
				Timeout:  time.Duration(cfg.Workers[bs.TaskType].Timeout) * time.Millisecond,
				MaxPairs: 10000,
			},
			engine, log,
		)
		startWorker(zeebeClient, bs.TaskType, cfg.Workers[bs.TaskType], handler.Handle, obs, zapLog)
	}

	if cfg.Workers[sr.TaskType].Enabled {
		handler := sr.NewHandler(
			&sr.Config{
				Timeout:      time.Duration(cfg.Workers[sr.TaskType].Timeout) * time.Millisecond,
				DefaultLimit: cfg.Scoring.TopMatches,
			},
			engine, log,
		)
		startWorker(zeebeClient, sr.TaskType, cfg.Workers[sr.TaskType], handler.Handle, obs, zapLog)
	}

	// --- 2. Reporting Workers (2) ---
	if cfg.Workers[ss.TaskType].Enabled {
		handler := ss.NewHandler(
			&ss.Config{
				Timeout: time.Duration(cfg.Workers[ss.TaskType].Timeout) * time.Millisecond,
			},
			statsEngine, log,
		)
		startWorker(zeebeClient, ss.TaskType, cfg.Workers[ss.TaskType], handler.Handle, obs, zapLog)
	}

	if cfg.Workers[sa.TaskType].Enabled {
		handler := sa.NewHandler(
			&sa.Config{
				Timeout: time.Duration(cfg.Workers[sa.TaskType].Timeout) * time.Millisecond,
			},
			evaluator, log,
		)
		startWorker(zeebeClient, sa.TaskType, cfg.Workers[sa.TaskType], handler.Handle, obs, zapLog)
	}

	zapLog.Info("All 5 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), obs *observability.Observability, log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	// Every job activation is recorded on the otel instruments in addition to
	// the per-handler prometheus metrics.
	instrumented := func(jobClient worker.JobClient, job entities.Job) {
		start := time.Now()
		handlerFunc(jobClient, job)
		obs.RecordJobProcessed(context.Background(), taskType)
		obs.RecordJobDuration(context.Background(), time.Since(start), taskType)
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(instrumented).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
