package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "")
	t.Setenv("TELEGRAM_API_BASE", "")
	t.Setenv("GLM_BASE_URL", "")
	t.Setenv("GLM_MODEL", "")
	t.Setenv("LLM_TIMEOUT_MS", "")
	t.Setenv("CATALOG_TIMEOUT_MS", "")
	t.Setenv("WORKER_MIN", "")
	t.Setenv("WORKER_MAX", "")
	t.Setenv("WORKER_COUNT", "")
	t.Setenv("TELEGRAM_ADMIN_USER_IDS", "")
	c := Load()
	if c.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr default")
	}
	if c.ShutdownTimeout != 15*time.Second {
		t.Fatalf("ShutdownTimeout default")
	}
	if c.RateLimitPerMinute != 60 {
		t.Fatalf("RateLimitPerMinute default")
	}
	if c.TelegramAPIBase != "https://api.telegram.org" {
		t.Fatalf("TelegramAPIBase default")
	}
	if c.GLMBaseURL != "https://open.bigmodel.cn/api/paas/v4" || c.GLMModel != "glm-4" {
		t.Fatalf("GLM defaults")
	}
	if c.LLMTimeout != 15*time.Second || c.CatalogTimeout != 10*time.Second {
		t.Fatalf("timeout defaults")
	}
	if c.WorkerMin != 3 || c.WorkerMax != 8 || c.InitialWorkerCount != 3 {
		t.Fatalf("worker bounds default")
	}
	if len(c.AdminUserIDs) != 0 {
		t.Fatalf("AdminUserIDs default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "2")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "10")
	t.Setenv("TELEGRAM_ADMIN_USER_IDS", "12, 34,notanumber,56")
	t.Setenv("LLM_TIMEOUT_MS", "250")
	t.Setenv("WORKER_MIN", "2")
	t.Setenv("WORKER_MAX", "3")
	t.Setenv("WORKER_COUNT", "2")
	c := Load()
	if c.HTTPAddr != ":9090" {
		t.Fatalf("HTTPAddr env")
	}
	if c.ShutdownTimeout != 2*time.Second {
		t.Fatalf("ShutdownTimeout env")
	}
	if c.RateLimitPerMinute != 10 {
		t.Fatalf("RateLimitPerMinute env")
	}
	if len(c.AdminUserIDs) != 3 || c.AdminUserIDs[0] != 12 || c.AdminUserIDs[1] != 34 || c.AdminUserIDs[2] != 56 {
		t.Fatalf("AdminUserIDs env: %v", c.AdminUserIDs)
	}
	if c.LLMTimeout != 250*time.Millisecond {
		t.Fatalf("LLMTimeout env")
	}
	if c.WorkerMin != 2 || c.WorkerMax != 3 || c.InitialWorkerCount != 2 {
		t.Fatalf("workers env")
	}
}

func TestIsAdminUser(t *testing.T) {
	open := Config{}
	if !open.IsAdminUser(99) {
		t.Fatalf("empty allow-list should permit everyone")
	}
	restricted := Config{AdminUserIDs: []int64{1, 2}}
	if !restricted.IsAdminUser(2) {
		t.Fatalf("listed user should be allowed")
	}
	if restricted.IsAdminUser(3) {
		t.Fatalf("unlisted user should be rejected")
	}
}
