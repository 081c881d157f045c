// Package notify carries recoverable-failure reports out of the extraction
// pipeline. The pipeline's contract is that a failed fetch degrades the
// record instead of raising, so somebody still has to hear about the
// failure; that somebody is a Notifier.
package notify

import (
	"log/slog"
	"sync"

	"github.com/openefiling/efmkit/internal/efm"
)

// Notifier receives a free-text context string and, when available, the
// proxy response that failed. Implementations must not block the calling
// pipeline and must not panic.
type Notifier interface {
	Error(context string, resp *efm.Response)
}

// report is one queued failure.
type report struct {
	context string
	resp    *efm.Response
}

// Logger is a Notifier that writes reports through slog on a background
// goroutine. Reports are dropped, not queued unboundedly, if the consumer
// falls behind; losing a diagnostic beats stalling a case search.
type Logger struct {
	logger *slog.Logger
	queue  chan report

	mu     sync.RWMutex
	closed bool
}

// NewLogger creates a running Logger notifier.
func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Logger{
		logger: logger,
		queue:  make(chan report, 64),
	}
	go l.run()
	return l
}

func (l *Logger) run() {
	for r := range l.queue {
		if r.resp == nil {
			l.logger.Error(r.context)
			continue
		}
		l.logger.Error(r.context,
			"response_code", r.resp.ResponseCode,
			"error_msg", r.resp.ErrorMsg,
			"req_id", r.resp.ReqID,
		)
	}
}

// Error queues a failure report without blocking.
func (l *Logger) Error(context string, resp *efm.Response) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return
	}
	select {
	case l.queue <- report{context: context, resp: resp}:
	default:
	}
}

// Close stops the background consumer. Reports sent after Close are
// silently dropped.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	close(l.queue)
}

// Nop is a Notifier that discards everything. Useful in tests.
type Nop struct{}

func (Nop) Error(string, *efm.Response) {}
