// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds configuration knobs for the HTTP server, external services,
// and the dispatch workers.
type Config struct {
	HTTPAddr           string
	ShutdownTimeout    time.Duration
	APISecretKey       string
	RateLimitPerMinute int

	TelegramBotToken string
	TelegramAPIBase  string
	AdminUserIDs     []int64
	WebhookURL       string

	SupabaseURL string
	SupabaseKey string

	GLMAPIKey  string
	GLMBaseURL string
	GLMModel   string

	LLMTimeout     time.Duration
	CatalogTimeout time.Duration

	InitialWorkerCount      int
	WorkerMin               int
	WorkerMax               int
	ScaleInterval           time.Duration
	ScaleUpBacklogPerWorker int
	ScaleDownIdleTicks      int
	QueueHighWatermark      int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvms(key string, defMs int) time.Duration {
	ms := atoienv(key, defMs)
	return time.Duration(ms) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

func int64listenv(key string) []int64 {
	v := getenv(key, "")
	if v == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Load collects configuration from the environment with defaults. A .env file
// in the working directory is loaded first when present.
func Load() Config {
	_ = godotenv.Load()

	minWorkers := atoienv("WORKER_MIN", 3)
	maxWorkers := atoienv("WORKER_MAX", 8)
	initialWorkers := atoienv("WORKER_COUNT", minWorkers)
	return Config{
		HTTPAddr:           getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout:    durenvs("SHUTDOWN_TIMEOUT", 15),
		APISecretKey:       getenv("API_SECRET_KEY", ""),
		RateLimitPerMinute: atoienv("RATE_LIMIT_PER_MINUTE", 60),

		TelegramBotToken: getenv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAPIBase:  getenv("TELEGRAM_API_BASE", "https://api.telegram.org"),
		AdminUserIDs:     int64listenv("TELEGRAM_ADMIN_USER_IDS"),
		WebhookURL:       getenv("WEBHOOK_URL", ""),

		SupabaseURL: getenv("SUPABASE_URL", ""),
		SupabaseKey: getenv("SUPABASE_KEY", ""),

		GLMAPIKey:  getenv("GLM_API_KEY", ""),
		GLMBaseURL: getenv("GLM_BASE_URL", "https://open.bigmodel.cn/api/paas/v4"),
		GLMModel:   getenv("GLM_MODEL", "glm-4"),

		LLMTimeout:     durenvms("LLM_TIMEOUT_MS", 15000),
		CatalogTimeout: durenvms("CATALOG_TIMEOUT_MS", 10000),

		InitialWorkerCount:      initialWorkers,
		WorkerMin:               minWorkers,
		WorkerMax:               maxWorkers,
		ScaleInterval:           durenvms("SCALE_INTERVAL_MS", 500),
		ScaleUpBacklogPerWorker: atoienv("SCALE_UP_BACKLOG_PER_WORKER", 100),
		ScaleDownIdleTicks:      atoienv("SCALE_DOWN_IDLE_TICKS", 6),
		QueueHighWatermark:      atoienv("QUEUE_HIGH_WATERMARK", 5000),
	}
}

// IsAdminUser reports whether the given Telegram user may use the bot. An
// empty allow-list permits everyone (development mode).
func (c Config) IsAdminUser(userID int64) bool {
	if len(c.AdminUserIDs) == 0 {
		return true
	}
	for _, id := range c.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
