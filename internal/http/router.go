package httpapi

import (
	"expvar"
	"net/http"
)

// publicPaths lists endpoints exempt from the API-key guard: the webhook
// itself (Telegram cannot send custom headers) and liveness/docs endpoints.
var publicPaths = map[string]bool{
	"/":                 true,
	"/healthz":          true,
	"/webhook/telegram": true,
	"/openapi.yaml":     true,
	"/docs":             true,
}

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", app.rootHandler)
	mux.HandleFunc("/webhook/telegram", app.webhookHandler)
	mux.HandleFunc("/webhook/set", app.setWebhookHandler)
	mux.HandleFunc("/webhook/info", app.webhookInfoHandler)
	mux.HandleFunc("/healthz", app.healthHandler)
	mux.HandleFunc("/debug/metrics", app.metricsHandler)
	mux.Handle("/debug/vars", expvar.Handler())
	mux.HandleFunc("/openapi.yaml", app.openapiHandler)
	mux.HandleFunc("/docs", app.docsHandler)

	h := WithAPIKey(app.Cfg.APISecretKey, publicPaths, mux)
	h = WithRateLimit(app.limiter, h)
	return WithRequestID(WithLogging(h))
}
