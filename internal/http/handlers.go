package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fairyhunter13/warung-price-bot/internal/config"
	httpopenapi "github.com/fairyhunter13/warung-price-bot/internal/http/openapi"
	"github.com/fairyhunter13/warung-price-bot/internal/model"
	"github.com/fairyhunter13/warung-price-bot/internal/obs"
	"github.com/fairyhunter13/warung-price-bot/internal/queue"
	"github.com/fairyhunter13/warung-price-bot/internal/telegram"
)

// unauthorizedReply is sent to chats whose sender is not on the admin list.
const unauthorizedReply = "Maaf, Anda tidak diizinkan menggunakan bot ini."

// Transport is the Telegram surface the HTTP layer needs; satisfied by
// telegram.Client and by fakes in tests.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SetWebhook(ctx context.Context, url string) error
	WebhookInfo(ctx context.Context) (map[string]any, error)
}

// App holds the wiring for the HTTP layer.
type App struct {
	Cfg     config.Config
	Manager *queue.Manager
	TG      Transport

	limiter *RateLimiter
	closing bool
	started time.Time
}

// ack is the acknowledgement returned for an accepted webhook message.
type ack struct {
	Status      string `json:"status"`
	RequestID   string `json:"request_id"`
	Sequence    uint64 `json:"sequence"`
	ChatID      int64  `json:"chat_id"`
	ReceivedAt  string `json:"received_at"`
	QueueDepth  int    `json:"queue_depth"`
	BacklogSize int    `json:"backlog_size"`
	WorkerCount int    `json:"worker_count"`
}

// NewApp wires the HTTP layer.
func NewApp(cfg config.Config, mgr *queue.Manager, tg Transport) *App {
	return &App{
		Cfg:     cfg,
		Manager: mgr,
		TG:      tg,
		limiter: NewRateLimiter(cfg.RateLimitPerMinute),
		started: time.Now(),
	}
}

// StartShutdown closes intake so new webhook posts are rejected while the
// backlog drains.
func (a *App) StartShutdown() {
	a.closing = true
	a.Manager.CloseIntake()
}

func (a *App) webhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	if a.closing || a.Manager.IsShuttingDown() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return
	}
	var upd telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if upd.Message == nil || upd.Message.Chat == nil || upd.Message.From == nil || upd.Message.Text == "" {
		// Edits, stickers, join events and the like are acknowledged and
		// dropped.
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	chatID := upd.Message.Chat.ID
	userID := upd.Message.From.ID
	if !a.Cfg.IsAdminUser(userID) {
		if err := a.TG.SendMessage(r.Context(), chatID, unauthorizedReply); err != nil {
			obs.Logger.Error("unauthorized_notice_failed", "chat_id", chatID, "error", err)
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "unauthorized"})
		return
	}

	msg := model.Inbound{
		ChatID:   chatID,
		UserID:   strconv.FormatInt(userID, 10),
		Text:     upd.Message.Text,
		Sequence: a.Manager.NextSequence(),
	}
	if ok := a.Manager.Enqueue(msg); !ok {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	ac := ack{
		Status:      "accepted",
		RequestID:   RequestIDFromContext(r.Context()),
		Sequence:    msg.Sequence,
		ChatID:      chatID,
		ReceivedAt:  time.Now().UTC().Format(time.RFC3339),
		QueueDepth:  a.Manager.QueueDepth(),
		BacklogSize: a.Manager.BacklogSize(),
		WorkerCount: a.Manager.WorkerCount(),
	}
	writeJSON(w, http.StatusAccepted, ac)
	obs.Logger.Info("message_accepted",
		"request_id", ac.RequestID,
		"sequence", ac.Sequence,
		"chat_id", ac.ChatID,
		"queue_depth", ac.QueueDepth,
		"backlog_size", ac.BacklogSize,
		"worker_count", ac.WorkerCount,
	)
}

func (a *App) setWebhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	url := r.URL.Query().Get("webhook_url")
	if url == "" {
		url = a.Cfg.WebhookURL
	}
	if url == "" {
		WriteJSONError(w, http.StatusBadRequest, "missing_webhook_url", "webhook_url parameter is required")
		return
	}
	if err := a.TG.SetWebhook(r.Context(), url); err != nil {
		obs.Logger.Error("set_webhook_failed", "webhook_url", url, "error", err)
		WriteJSONError(w, http.StatusBadGateway, "set_webhook_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "webhook_url": url})
}

func (a *App) webhookInfoHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	info, err := a.TG.WebhookInfo(r.Context())
	if err != nil {
		obs.Logger.Error("webhook_info_failed", "error", err)
		WriteJSONError(w, http.StatusBadGateway, "webhook_info_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (a *App) rootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "warung-price-bot is running",
		"status":  "healthy",
	})
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	enq, proc, backlog, depth := a.Manager.QueueMetrics()
	m := map[string]any{
		"messages_enqueued":  enq,
		"messages_processed": proc,
		"backlog_size":       backlog,
		"queue_depth":        depth,
		"worker_count":       a.Manager.WorkerCount(),
		"uptime_sec":         time.Since(a.started).Seconds(),
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
