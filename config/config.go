package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	LLMAPIKey      string
	ModelName      string
	LLMAPIURL      string
	LLMTimeout     time.Duration
	LLMRPS         float64
	MaxUploadBytes int64
	PreviewRows    int
	SampleRows     int
	SQLServer      SQLServerConfig
}

type SQLServerConfig struct {
	Server   string
	Port     string
	Database string
	UserID   string
	Password string
	Encrypt  bool
}

// Enabled reports whether enough is set to attempt a connection.
func (c SQLServerConfig) Enabled() bool {
	return c.Server != "" && c.Database != ""
}

func GetConfig() Config {
	return Config{
		Port:           getEnv("PORT", "9090"),
		LLMAPIKey:      getEnv("LLM_API_KEY", os.Getenv("GEMINI_API_KEY")),
		ModelName:      getEnv("LLM_MODEL", "qwen-max"),
		LLMAPIURL:      getEnv("LLM_API_URL", "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"),
		LLMTimeout:     getEnvDuration("LLM_TIMEOUT", 30*time.Second),
		LLMRPS:         getEnvFloat("LLM_RPS", 2),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 10*1024*1024)),
		PreviewRows:    getEnvInt("PREVIEW_ROWS", 10),
		SampleRows:     getEnvInt("SAMPLE_ROWS", 5),
		SQLServer: SQLServerConfig{
			Server:   getEnv("SQL_SERVER", ""),
			Port:     getEnv("SQL_PORT", "1433"),
			Database: getEnv("SQL_DATABASE", ""),
			UserID:   getEnv("SQL_USER", ""),
			Password: getEnv("SQL_PASSWORD", ""),
			Encrypt:  getEnv("SQL_ENCRYPT", "true") == "true",
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f >= 0 {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
