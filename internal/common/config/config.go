// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Database DatabaseConfig          `mapstructure:"database"`
	Scoring  ScoringConfig           `mapstructure:"scoring"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Logging  LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Scoring Configuration ---

// ScoringConfig carries the named tunables of the scoring algorithm. They
// live here, not inline in the calculators, so the accuracy-driven retuning
// workflow has a single place to adjust.
type ScoringConfig struct {
	Version          string        `mapstructure:"version"`
	Weights          WeightsConfig `mapstructure:"weights"`
	ExcellentCutoff  float64       `mapstructure:"excellent_cutoff"`
	GoodCutoff       float64       `mapstructure:"good_cutoff"`
	AverageCutoff    float64       `mapstructure:"average_cutoff"`
	StrengthCutoff   float64       `mapstructure:"strength_cutoff"`
	WeaknessCutoff   float64       `mapstructure:"weakness_cutoff"`
	HireThreshold    float64       `mapstructure:"hire_threshold"`
	TrendThreshold   float64       `mapstructure:"trend_threshold"`   // relative change, e.g. 0.10
	ComponentSample  int           `mapstructure:"component_sample"`  // per-component stats cap
	TopMatches       int           `mapstructure:"top_matches"`       // top-N in statistics
	BatchConcurrency int           `mapstructure:"batch_concurrency"` // 0 = cores*2
	ProfileCacheTTL  int           `mapstructure:"profile_cache_ttl"` // seconds
}

// WeightsConfig is the per-component weight set; it must sum to 1.0.
type WeightsConfig struct {
	Skills       float64 `mapstructure:"skills"`
	Experience   float64 `mapstructure:"experience"`
	Location     float64 `mapstructure:"location"`
	Availability float64 `mapstructure:"availability"`
	Education    float64 `mapstructure:"education"`
	Cultural     float64 `mapstructure:"cultural"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
