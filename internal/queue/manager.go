package queue

import (
	"context"
	"sync"
	"time"

	"github.com/fairyhunter13/warung-price-bot/internal/config"
	"github.com/fairyhunter13/warung-price-bot/internal/model"
	"github.com/fairyhunter13/warung-price-bot/internal/obs"
)

// Interpreter produces the reply for one inbound message. Satisfied by
// bot.Interpreter.
type Interpreter interface {
	Interpret(ctx context.Context, rawText, userID string) string
}

// Replier delivers a reply to the originating chat. Satisfied by
// telegram.Client.
type Replier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Manager coordinates workers processing queued messages and scaling. Each
// worker handles one message to completion: interpret, then send the reply.
type Manager struct {
	cfg     config.Config
	q       *Queue
	interp  Interpreter
	replier Replier
	seq     Sequencer
	ctx     context.Context
	cancel  context.CancelFunc

	mu            sync.Mutex
	workerCancels []context.CancelFunc
}

// NewManager constructs a Manager with the given config, queue, interpreter,
// and reply transport.
func NewManager(cfg config.Config, q *Queue, interp Interpreter, replier Replier) *Manager {
	return &Manager{cfg: cfg, q: q, interp: interp, replier: replier}
}

// Start begins processing and autoscaling in the background.
func (m *Manager) Start(parent context.Context) {
	m.ctx, m.cancel = context.WithCancel(parent)
	m.q.Start(m.ctx, m.cfg.QueueHighWatermark)
	m.addWorkers(m.cfg.InitialWorkerCount)
	go m.scaler()
}

// Stop cancels background routines and stops workers.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.mu.Lock()
	for _, c := range m.workerCancels {
		c()
	}
	m.workerCancels = nil
	m.mu.Unlock()
}

// scaler adjusts worker count based on backlog and configuration.
func (m *Manager) scaler() {
	t := time.NewTicker(m.cfg.ScaleInterval)
	defer t.Stop()
	idleTicks := 0
	for {
		select {
		case <-m.ctx.Done():
			return
		case <-t.C:
			backlog := m.q.BacklogSize()
			wc := m.WorkerCount()
			if backlog > wc*m.cfg.ScaleUpBacklogPerWorker && wc < m.cfg.WorkerMax {
				m.addWorkers(1)
				idleTicks = 0
				continue
			}
			if backlog == 0 {
				idleTicks++
				if idleTicks >= m.cfg.ScaleDownIdleTicks && wc > m.cfg.WorkerMin {
					m.removeWorkers(1)
					idleTicks = 0
				}
			} else {
				idleTicks = 0
			}
		}
	}
}

// addWorkers spawns n workers.
func (m *Manager) addWorkers(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < n; i++ {
		wctx, cancel := context.WithCancel(m.ctx)
		m.workerCancels = append(m.workerCancels, cancel)
		go m.worker(wctx)
	}
	obs.Logger.Info("workers scaled", "worker_count", len(m.workerCancels))
}

// removeWorkers stops up to n workers.
func (m *Manager) removeWorkers(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > len(m.workerCancels) {
		n = len(m.workerCancels)
	}
	for i := 0; i < n; i++ {
		c := m.workerCancels[len(m.workerCancels)-1]
		m.workerCancels = m.workerCancels[:len(m.workerCancels)-1]
		c()
	}
	obs.Logger.Info("workers scaled", "worker_count", len(m.workerCancels))
}

// worker drains messages from the queue and processes each to completion.
func (m *Manager) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-m.q.Out():
			m.process(ctx, msg)
			m.q.MarkProcessed()
		}
	}
}

// process interprets one message and delivers the reply. Send failures are
// logged and dropped; there is no retry into the chat.
func (m *Manager) process(ctx context.Context, msg model.Inbound) {
	reply := m.interp.Interpret(ctx, msg.Text, msg.UserID)
	if err := m.replier.SendMessage(ctx, msg.ChatID, reply); err != nil {
		obs.Logger.Error("reply_send_failed",
			"chat_id", msg.ChatID,
			"sequence", msg.Sequence,
			"error", err,
		)
	}
}

// Enqueue proxies to the underlying queue.
func (m *Manager) Enqueue(msg model.Inbound) bool { return m.q.Enqueue(msg) }

// BacklogSize returns pending items in the queue.
func (m *Manager) BacklogSize() int { return m.q.BacklogSize() }

// QueueDepth returns backlog plus buffered output items.
func (m *Manager) QueueDepth() int { return m.q.QueueDepth() }

// WorkerCount returns the current number of workers.
func (m *Manager) WorkerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workerCancels)
}

// NextSequence returns the next sequence number.
func (m *Manager) NextSequence() uint64 { return m.seq.Next() }

// IsShuttingDown reports whether new enqueues are rejected.
func (m *Manager) IsShuttingDown() bool { return m.q.IsShuttingDown() }

// CloseIntake disallows future enqueues.
func (m *Manager) CloseIntake() { m.q.CloseIntake() }

// QueueMetrics exposes the underlying queue metrics.
func (m *Manager) QueueMetrics() (enq, proc uint64, backlog, depth int) {
	return m.q.Metrics()
}

// DrainUntil blocks until the queue is fully drained or ctx is done.
func (m *Manager) DrainUntil(ctx context.Context) bool {
	for {
		enq, proc, backlog, depth := m.q.Metrics()
		if backlog == 0 && depth == 0 && enq == proc {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
}
