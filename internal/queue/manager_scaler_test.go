package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fairyhunter13/warung-price-bot/internal/config"
	"github.com/fairyhunter13/warung-price-bot/internal/model"
	"github.com/fairyhunter13/warung-price-bot/internal/obs"
)

func TestManagerScaler_UpAndDown(t *testing.T) {
	// Configure aggressive scaling
	t.Setenv("WORKER_MIN", "1")
	t.Setenv("WORKER_MAX", "3")
	t.Setenv("WORKER_COUNT", "1")
	t.Setenv("SCALE_INTERVAL_MS", "50")
	t.Setenv("SCALE_UP_BACKLOG_PER_WORKER", "1")
	t.Setenv("SCALE_DOWN_IDLE_TICKS", "1")

	cfg := config.Load()
	obs.InitLogger()
	interp := &echoInterpreter{delay: 5 * time.Millisecond}
	replier := newCaptureReplier()
	q := New(8)
	mgr := NewManager(cfg, q, interp, replier)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mgr.Start(ctx)
	defer mgr.Stop()

	// Enqueue backlog to trigger scale up
	for i := 0; i < 50; i++ {
		_ = mgr.Enqueue(model.Inbound{ChatID: 1, Text: fmt.Sprintf("cari %d", i), Sequence: mgr.NextSequence()})
	}

	// Wait until worker count increases
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if wc := mgr.WorkerCount(); wc > 1 {
			break
		}
		time.Sleep(25 * time.Millisecond)
	}
	if wc := mgr.WorkerCount(); wc <= 1 {
		t.Fatalf("expected scale up, worker_count=%d", wc)
	}

	// Wait for drain
	ctxDrain, cancelDrain := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancelDrain()
	if ok := mgr.DrainUntil(ctxDrain); !ok {
		t.Fatalf("drain timeout")
	}
	// Allow scaler to tick and scale down to min
	deadline2 := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline2) {
		if wc := mgr.WorkerCount(); wc == cfg.WorkerMin {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if wc := mgr.WorkerCount(); wc != cfg.WorkerMin {
		t.Fatalf("expected scale down to %d, got %d", cfg.WorkerMin, wc)
	}
}
