package bot

import (
	"context"
	"time"

	"github.com/fairyhunter13/warung-price-bot/internal/obs"
)

// Completer is the language-model capability the interpreter depends on. It
// is satisfied by llm.Client and by deterministic stubs in tests.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Interpreter turns free-form chat text into an executed catalog operation.
// The language model is the primary interpreter because it tolerates free
// phrasing; the deterministic fallback covers model outages and malformed
// output so a chat never hangs or errors out silently.
type Interpreter struct {
	llm     Completer
	exec    *Executor
	timeout time.Duration
}

// NewInterpreter wires the completer and executor. llm may be nil, in which
// case only the fallback path runs. timeout bounds the single model attempt.
func NewInterpreter(llm Completer, exec *Executor, timeout time.Duration) *Interpreter {
	return &Interpreter{llm: llm, exec: exec, timeout: timeout}
}

// Interpret produces the reply for one inbound message. It never panics and
// always returns a non-empty string: every failure path degrades to the
// fallback parser and ultimately to the help message.
func (i *Interpreter) Interpret(ctx context.Context, rawText, userID string) string {
	if i.llm != nil {
		if reply, ok := i.interpretWithModel(ctx, rawText, userID); ok {
			return reply
		}
	}
	return i.exec.Execute(ctx, ParseFallback(rawText), userID)
}

// interpretWithModel performs the single model attempt. Any miss (call
// failure, timeout, unparseable output) reports ok=false; the model is never
// retried.
func (i *Interpreter) interpretWithModel(ctx context.Context, rawText, userID string) (string, bool) {
	cctx := ctx
	if i.timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	out, err := i.llm.Complete(cctx, systemPrompt, rawText)
	if err != nil {
		obs.Logger.Warn("llm_attempt_failed", "error", err)
		return "", false
	}
	action, err := DecodeAction(out)
	if err != nil {
		obs.Logger.Warn("llm_output_not_json", "output", out, "error", err)
		return "", false
	}
	return i.exec.Execute(ctx, action, userID), true
}
