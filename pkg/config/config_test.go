package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.Outcomes.PersistSnapshots)
	assert.Equal(t, 6*time.Hour, cfg.Outcomes.BenchmarkCacheTTL)
	assert.Equal(t, "./reports", cfg.Reports.StorageDir)
	assert.Equal(t, []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"}, cfg.CORS.AllowedHeaders)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("BENCHMARK_CACHE_TTL", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", " https://app.example.com , ,https://admin.example.com")
	v.Set("REPORTS_WORKER_CONCURRENCY", 4)

	cfg := fromViper(v)

	assert.Equal(t, 6*time.Hour, cfg.Outcomes.BenchmarkCacheTTL)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 4, cfg.Reports.WorkerConcurrency)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, 90*time.Second, parseDuration("90s", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
}
