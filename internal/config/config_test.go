package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendFile, cfg.StorageBackend)
	assert.Equal(t, 1000, cfg.ServiceRateBps)
	assert.Equal(t, []int{10, 15, 20}, cfg.TipPresets)
	assert.True(t, cfg.TipAllowCustom)
	assert.False(t, cfg.SkipTip)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("STORAGE_BACKEND", BackendRedis)
	t.Setenv("TIP_PRESETS", "5, 12 ,18")
	t.Setenv("SERVICE_RATE_BPS", "1250")
	t.Setenv("SKIP_TIP", "true")
	t.Setenv("RATING_DELAY", "3s")

	cfg := Load()
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, BackendRedis, cfg.StorageBackend)
	assert.Equal(t, []int{5, 12, 18}, cfg.TipPresets)
	assert.Equal(t, 1250, cfg.ServiceRateBps)
	assert.True(t, cfg.SkipTip)
	assert.Equal(t, 3*time.Second, cfg.RatingDelay)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("SERVICE_RATE_BPS", "ten percent")
	t.Setenv("TIP_PRESETS", "a,b")
	t.Setenv("UPSTREAM_TIMEOUT", "soon")

	cfg := Load()
	assert.Equal(t, 1000, cfg.ServiceRateBps)
	assert.Equal(t, []int{10, 15, 20}, cfg.TipPresets)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
}
