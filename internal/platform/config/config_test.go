package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePolicy(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadPolicyDefaults(t *testing.T) {
	policy, err := LoadPolicy("")
	require.NoError(t, err)

	assert.Equal(t, DefaultPolicy(), policy)
	assert.Equal(t, 60, policy.Audit.Thresholds.Pass)
	assert.InDelta(t, 1.0, policy.Audit.Weights.Sum(), 1e-9)
}

func TestLoadPolicyOverlaysPartialFile(t *testing.T) {
	path := writePolicy(t, `
audit:
  thresholds:
    pass: 75
scoring:
  tolerances:
    price_abs: 1000
`)

	policy, err := LoadPolicy(path)
	require.NoError(t, err)

	assert.Equal(t, 75, policy.Audit.Thresholds.Pass)
	assert.Equal(t, 1000.0, policy.Scoring.Tolerances.PriceAbs)

	// untouched knobs keep their defaults
	defaults := DefaultPolicy()
	assert.Equal(t, defaults.Audit.Thresholds.Critical, policy.Audit.Thresholds.Critical)
	assert.Equal(t, defaults.Audit.Weights, policy.Audit.Weights)
	assert.Equal(t, defaults.Scoring.Weights, policy.Scoring.Weights)
}

func TestLoadPolicyRejectsInvalidFiles(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "weights do not sum to one",
			body: `
audit:
  weights:
    integrity: 0.9
    structural: 0.9
    relevance: 0.1
    crosscheck: 0.1
`,
		},
		{
			name: "threshold out of range",
			body: `
audit:
  thresholds:
    pass: 250
`,
		},
		{
			name: "negative tolerance",
			body: `
scoring:
  tolerances:
    sqft_pct: -0.05
`,
		},
		{
			name: "field weight out of range",
			body: `
scoring:
  weights:
    price: 500
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPolicy(writePolicy(t, tt.body))
			require.Error(t, err)
			var cfgErr *ConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestLoadPolicyMissingFile(t *testing.T) {
	_, err := LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadPolicyMalformedYAML(t *testing.T) {
	_, err := LoadPolicy(writePolicy(t, "audit: ["))
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := FromEnv()
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, "dealaudit.reports", cfg.KafkaTopic)
		assert.Empty(t, cfg.KafkaBrokers)
		assert.Equal(t, 24*time.Hour, cfg.ParcelCacheTTL)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("DEALAUDIT_ADDR", ":9999")
		t.Setenv("DEALAUDIT_KAFKA_BROKERS", "broker1:9092,broker2:9092")
		t.Setenv("DEALAUDIT_PARCEL_CACHE_TTL", "15m")

		cfg := FromEnv()
		assert.Equal(t, ":9999", cfg.Addr)
		assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
		assert.Equal(t, 15*time.Minute, cfg.ParcelCacheTTL)
	})
}
