package turnlog

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"ai-docchat-be/internal/entity"
)

const defaultQueueSize = 256

// Logger appends conversation turns to a JSONL audit file. Writes happen on a
// background worker behind a bounded queue: a chat request never waits on the
// audit disk, and when the queue is full the turn is dropped with a warning
// rather than applying backpressure.
type Logger struct {
	queue  chan entity.ConversationTurn
	done   chan struct{}
	out    io.WriteCloser
	logger *log.Logger

	mu     sync.Mutex
	closed bool
}

// New opens (or creates) the audit file in append mode and starts the worker.
func New(path string, logger *log.Logger) (*Logger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create turn log directory %q: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open turn log %q: %w", path, err)
	}
	return newWithWriter(f, defaultQueueSize, logger), nil
}

func newWithWriter(out io.WriteCloser, queueSize int, logger *log.Logger) *Logger {
	l := &Logger{
		queue:  make(chan entity.ConversationTurn, queueSize),
		done:   make(chan struct{}),
		out:    out,
		logger: logger,
	}
	go l.run()
	return l
}

// Log enqueues one turn. It never blocks: on a full queue or a closed logger
// the turn is dropped and counted against the audit trail, not the request.
func (l *Logger) Log(turn entity.ConversationTurn) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		l.logger.Printf("[WARN] Turn log closed, dropping turn for conversation %s", turn.ConversationId)
		return
	}

	select {
	case l.queue <- turn:
	default:
		l.logger.Printf("[WARN] Turn log queue full, dropping turn for conversation %s", turn.ConversationId)
	}
}

// Close drains the queued turns, stops the worker and closes the file.
func (l *Logger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.queue)
	l.mu.Unlock()

	<-l.done
	return l.out.Close()
}

func (l *Logger) run() {
	defer close(l.done)

	for turn := range l.queue {
		line, err := json.Marshal(turn)
		if err != nil {
			l.logger.Printf("[ERROR] Failed to encode turn: %v", err)
			continue
		}
		line = append(line, '\n')
		if _, err := l.out.Write(line); err != nil {
			l.logger.Printf("[ERROR] Failed to append turn: %v", err)
		}
	}
}
