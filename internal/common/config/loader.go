// internal/common/config/loader.go
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like SCORING_HIRE_THRESHOLD
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored when absent
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile tries .env in the working directory and at the project root,
// so tests running from package directories pick it up too.
func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "match-score-engine"
	}
	if cfg.Camunda.BrokerAddress == "" {
		cfg.Camunda.BrokerAddress = "localhost:26500"
	}
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	s := &cfg.Scoring
	if s.Version == "" {
		s.Version = "v1"
	}
	if s.Weights == (WeightsConfig{}) {
		s.Weights = WeightsConfig{
			Skills:       0.30,
			Experience:   0.25,
			Location:     0.15,
			Availability: 0.15,
			Education:    0.10,
			Cultural:     0.05,
		}
	}
	if s.ExcellentCutoff == 0 {
		s.ExcellentCutoff = 90
	}
	if s.GoodCutoff == 0 {
		s.GoodCutoff = 75
	}
	if s.AverageCutoff == 0 {
		s.AverageCutoff = 60
	}
	if s.StrengthCutoff == 0 {
		s.StrengthCutoff = 80
	}
	if s.WeaknessCutoff == 0 {
		s.WeaknessCutoff = 50
	}
	if s.HireThreshold == 0 {
		s.HireThreshold = 75
	}
	if s.TrendThreshold == 0 {
		s.TrendThreshold = 0.10
	}
	if s.ComponentSample == 0 {
		s.ComponentSample = 1000
	}
	if s.TopMatches == 0 {
		s.TopMatches = 10
	}
	if s.ProfileCacheTTL == 0 {
		s.ProfileCacheTTL = 300
	}
}

// validateConfig fails fast on a malformed weight set; a scorer must never be
// constructed from weights that do not sum to 1.0.
func validateConfig(cfg *Config) error {
	w := cfg.Scoring.Weights
	sum := w.Skills + w.Experience + w.Location + w.Availability + w.Education + w.Cultural
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %v", sum)
	}
	for name, v := range map[string]float64{
		"skills": w.Skills, "experience": w.Experience, "location": w.Location,
		"availability": w.Availability, "education": w.Education, "cultural": w.Cultural,
	} {
		if v < 0 {
			return fmt.Errorf("scoring weight %q must not be negative", name)
		}
	}
	if cfg.Scoring.ExcellentCutoff <= cfg.Scoring.GoodCutoff ||
		cfg.Scoring.GoodCutoff <= cfg.Scoring.AverageCutoff {
		return fmt.Errorf("score bucket cutoffs must be strictly decreasing: excellent > good > average")
	}
	return nil
}
