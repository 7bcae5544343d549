package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LLM_API_KEY", "GEMINI_API_KEY", "LLM_TIMEOUT", "MAX_UPLOAD_BYTES", "SQL_SERVER", "SQL_DATABASE"} {
		t.Setenv(key, "")
	}

	cfg := GetConfig()
	assert.Equal(t, "9090", cfg.Port)
	assert.Empty(t, cfg.LLMAPIKey)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
	assert.Equal(t, int64(10485760), cfg.MaxUploadBytes)
	assert.Equal(t, 10, cfg.PreviewRows)
	assert.Equal(t, 5, cfg.SampleRows)
	assert.False(t, cfg.SQLServer.Enabled())
}

func TestGetConfigOverrides(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "legacy")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("LLM_RPS", "0.5")
	t.Setenv("PREVIEW_ROWS", "not-a-number")
	t.Setenv("SQL_SERVER", "db.local")
	t.Setenv("SQL_DATABASE", "sales")

	cfg := GetConfig()
	assert.Equal(t, "legacy", cfg.LLMAPIKey)
	assert.Equal(t, 5*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 0.5, cfg.LLMRPS)
	assert.Equal(t, 10, cfg.PreviewRows)
	assert.True(t, cfg.SQLServer.Enabled())

	t.Setenv("LLM_API_KEY", "primary")
	assert.Equal(t, "primary", GetConfig().LLMAPIKey)
}
