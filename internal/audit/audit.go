package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sehatlink/sehat-mcp/internal/logger"
	"github.com/sehatlink/sehat-mcp/pkg/protocol"
)

var log = logger.ForComponent("audit")

// Entry is one tool invocation as it goes into the audit stream.
type Entry struct {
	Tool      string
	Arguments json.RawMessage
	Result    interface{}
	Error     *protocol.ErrorInfo
	Duration  time.Duration
}

// Logger appends one JSON line per tool invocation to its sink. A write
// failure is noted on the component log and never surfaces to the
// dispatcher, so auditing cannot make a successful call appear failed.
type Logger struct {
	mu      sync.Mutex
	sink    *slog.Logger
	tracker *errTracker
	closer  io.Closer
}

// errTracker remembers the last write error so Record can report it;
// slog handlers swallow writer errors otherwise.
type errTracker struct {
	w   io.Writer
	err error
}

func (t *errTracker) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil {
		t.err = err
	}
	return n, err
}

// Open appends to the audit file at path, creating parent directories as
// needed. The file is never truncated.
func Open(path string) (*Logger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create audit directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}

	l := NewWithWriter(f)
	l.closer = f
	return l, nil
}

// NewWithWriter audits into w; tests use it with an in-memory buffer.
func NewWithWriter(w io.Writer) *Logger {
	tracker := &errTracker{w: w}
	sink := slog.New(slog.NewJSONHandler(tracker, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return &Logger{sink: sink, tracker: tracker}
}

// Record appends exactly one entry for the invocation. It never returns
// an error.
func (l *Logger) Record(ctx context.Context, e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	attrs := []slog.Attr{
		slog.String("tool", e.Tool),
		slog.Any("arguments", normalizeArgs(e.Arguments)),
		slog.Int64("duration_ms", e.Duration.Milliseconds()),
	}
	if e.Error != nil {
		attrs = append(attrs, slog.Any("error", e.Error))
	} else {
		attrs = append(attrs, slog.Any("result", e.Result))
	}

	l.tracker.err = nil
	l.sink.LogAttrs(ctx, slog.LevelInfo, "tool_invocation", attrs...)
	if l.tracker.err != nil {
		log.Warn("audit write failed", "tool", e.Tool, "error", l.tracker.err)
	}
}

func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// normalizeArgs keeps the received arguments inspectable even when the
// raw payload is absent or not valid JSON.
func normalizeArgs(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	if !json.Valid(raw) {
		quoted, _ := json.Marshal(string(raw))
		return json.RawMessage(quoted)
	}
	return raw
}
