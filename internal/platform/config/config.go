// Package config carries process wiring (env) and the scoring policy file.
// Policy validation fails fast at load time: a bad weight table must never
// surface mid-scoring.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"dealaudit/internal/audit"
	"dealaudit/internal/triangulate"
)

// Server captures process-level configuration sourced from the environment.
type Server struct {
	Addr           string
	PolicyPath     string
	DatabaseURL    string
	RedisAddr      string
	KafkaBrokers   []string
	KafkaTopic     string
	RecordsBaseURL string
	RecordsToken   string
	ParcelCacheTTL time.Duration
}

// FromEnv builds a Server config from environment variables so main stays
// lean. Empty DatabaseURL/RedisAddr/KafkaBrokers select the in-memory and
// no-op fallbacks for local development.
func FromEnv() Server {
	cfg := Server{
		Addr:           envOr("DEALAUDIT_ADDR", ":8080"),
		PolicyPath:     os.Getenv("DEALAUDIT_POLICY_FILE"),
		DatabaseURL:    os.Getenv("DEALAUDIT_DATABASE_URL"),
		RedisAddr:      os.Getenv("DEALAUDIT_REDIS_ADDR"),
		KafkaTopic:     envOr("DEALAUDIT_KAFKA_TOPIC", "dealaudit.reports"),
		RecordsBaseURL: envOr("DEALAUDIT_RECORDS_URL", "https://app.regrid.com/api/v2"),
		RecordsToken:   os.Getenv("DEALAUDIT_RECORDS_TOKEN"),
		ParcelCacheTTL: 24 * time.Hour,
	}
	if brokers := os.Getenv("DEALAUDIT_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	if ttl := os.Getenv("DEALAUDIT_PARCEL_CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			cfg.ParcelCacheTTL = d
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ConfigurationError marks an invalid policy. It is raised at load time,
// never at scoring time.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Policy is the single configuration object both scoring components consume:
// comparison tolerances, the field weight table, the sub-score blend, and the
// alert/pass thresholds.
type Policy struct {
	Scoring triangulate.Policy `yaml:"scoring"`
	Audit   audit.Policy       `yaml:"audit"`
}

// DefaultPolicy returns the stock policy used when no policy file is set.
func DefaultPolicy() Policy {
	return Policy{
		Scoring: triangulate.DefaultPolicy(),
		Audit:   audit.DefaultPolicy(),
	}
}

// LoadPolicy reads and validates a policy file. The file overlays the
// defaults, so a partial file only overrides what it names. An empty path
// returns the validated defaults.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Policy{}, fmt.Errorf("read policy file: %w", err)
		}
		if err := yaml.Unmarshal(data, &policy); err != nil {
			return Policy{}, fmt.Errorf("parse policy file: %w", err)
		}
	}
	if err := policy.Validate(); err != nil {
		return Policy{}, err
	}
	return policy, nil
}

// Validate checks the whole policy surface and returns a *ConfigurationError
// on the first violation.
func (p Policy) Validate() error {
	if sum := p.Audit.Weights.Sum(); !approxOne(sum) {
		return &ConfigurationError{
			Field:  "audit.weights",
			Reason: fmt.Sprintf("sub-score weights must sum to 1, got %.4f", sum),
		}
	}
	for field, w := range map[string]float64{
		"audit.weights.integrity":  p.Audit.Weights.Integrity,
		"audit.weights.structural": p.Audit.Weights.Structural,
		"audit.weights.relevance":  p.Audit.Weights.Relevance,
		"audit.weights.crosscheck": p.Audit.Weights.Crosscheck,
	} {
		if w < 0 || w > 1 {
			return &ConfigurationError{Field: field, Reason: "weight must be within [0,1]"}
		}
	}

	for field, v := range map[string]int{
		"audit.thresholds.pass":            p.Audit.Thresholds.Pass,
		"audit.thresholds.critical":        p.Audit.Thresholds.Critical,
		"audit.thresholds.listing_floor":   p.Audit.Thresholds.ListingFloor,
		"audit.thresholds.relevance_floor": p.Audit.Thresholds.RelevanceFloor,
	} {
		if v < 0 || v > 100 {
			return &ConfigurationError{Field: field, Reason: "threshold must be within [0,100]"}
		}
	}

	for field, w := range p.Scoring.Weights {
		if w < 0 || w > 100 {
			return &ConfigurationError{
				Field:  "scoring.weights." + field,
				Reason: "field weight must be within [0,100]",
			}
		}
	}

	tol := p.Scoring.Tolerances
	for field, v := range map[string]float64{
		"scoring.tolerances.price_abs":     tol.PriceAbs,
		"scoring.tolerances.sqft_pct":      tol.SqftPct,
		"scoring.tolerances.lot_size_pct":  tol.LotSizePct,
		"scoring.tolerances.bathrooms_abs": tol.BathroomsAbs,
	} {
		if v < 0 {
			return &ConfigurationError{Field: field, Reason: "tolerance cannot be negative"}
		}
	}

	return nil
}

func approxOne(v float64) bool {
	const epsilon = 1e-6
	return v > 1-epsilon && v < 1+epsilon
}
