// Package main boots the Warung Price Bot HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/warung-price-bot/internal/bot"
	"github.com/fairyhunter13/warung-price-bot/internal/catalog"
	"github.com/fairyhunter13/warung-price-bot/internal/config"
	httpapi "github.com/fairyhunter13/warung-price-bot/internal/http"
	"github.com/fairyhunter13/warung-price-bot/internal/llm"
	"github.com/fairyhunter13/warung-price-bot/internal/obs"
	"github.com/fairyhunter13/warung-price-bot/internal/queue"
	"github.com/fairyhunter13/warung-price-bot/internal/telegram"
)

func main() {
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Info("service_starting")

	var gw catalog.Gateway
	if cfg.SupabaseURL != "" {
		gw = catalog.NewSupabase(cfg.SupabaseURL, cfg.SupabaseKey, cfg.CatalogTimeout)
		obs.Logger.Info("catalog_backend", "kind", "supabase")
	} else {
		gw = catalog.NewMemory()
		obs.Logger.Warn("catalog_backend", "kind", "memory", "detail", "SUPABASE_URL not set, data is not persisted")
	}

	var completer bot.Completer
	if cfg.GLMAPIKey != "" {
		completer = llm.NewClient(llm.Config{
			APIKey:  cfg.GLMAPIKey,
			BaseURL: cfg.GLMBaseURL,
			Model:   cfg.GLMModel,
			Timeout: cfg.LLMTimeout,
		})
	} else {
		obs.Logger.Warn("llm_disabled", "detail", "GLM_API_KEY not set, using fallback parser only")
	}

	interp := bot.NewInterpreter(completer, bot.NewExecutor(gw), cfg.LLMTimeout)
	tg := telegram.NewClient(cfg.TelegramBotToken, cfg.TelegramAPIBase)

	q := queue.New(128)
	mgr := queue.NewManager(cfg, q, interp, tg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mgr.Start(ctx)

	app := httpapi.NewApp(cfg, mgr, tg)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	app.StartShutdown()
	obs.Logger.Info("shutdown_drain_begin", "backlog_size", mgr.BacklogSize(), "worker_count", mgr.WorkerCount())

	ctxDrain, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelDrain()
	if drained := mgr.DrainUntil(ctxDrain); !drained {
		obs.Logger.Warn("shutdown_drain_timeout")
	} else {
		obs.Logger.Info("shutdown_drain_complete")
	}

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	mgr.Stop()
	obs.Logger.Info("service_stopped")
}
