package logger

import (
	"bytes"
	"context"
	log "log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

func TestContextHandlerAddsTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&ContextHandler{log.NewJSONHandler(&buf, nil)}).With("component", "test")

	ctx := WithTraceID(context.Background(), "abc-123")
	l.InfoContext(ctx, "hello")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log line %q: %v", buf.String(), err)
	}
	if rec[TraceIDKey] != "abc-123" {
		t.Fatalf("trace_id = %v, want abc-123", rec[TraceIDKey])
	}
	if rec["component"] != "test" {
		t.Fatalf("component = %v, want test", rec["component"])
	}
}

func TestContextHandlerWithoutTrace(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&ContextHandler{log.NewJSONHandler(&buf, nil)})
	l.InfoContext(context.Background(), "hello")

	if strings.Contains(buf.String(), TraceIDKey) {
		t.Fatalf("unexpected trace_id in %q", buf.String())
	}
}

func TestNewTraceContext(t *testing.T) {
	ctx := NewTraceContext(context.Background(), "job-reconcile")
	id := TraceID(ctx)
	if !strings.HasPrefix(id, "job-reconcile-") || len(id) <= len("job-reconcile-") {
		t.Fatalf("trace id = %q, want job-reconcile-<uuid>", id)
	}
}

func TestRemoteFilterHandlerDropsUntraced(t *testing.T) {
	var buf bytes.Buffer
	h := &RemoteFilterHandler{next: log.NewJSONHandler(&buf, nil)}
	l := log.New(&ContextHandler{h})

	l.Info("no trace")
	if buf.Len() != 0 {
		t.Fatalf("untraced record forwarded: %q", buf.String())
	}

	l.InfoContext(WithTraceID(context.Background(), "t1"), "traced")
	if !strings.Contains(buf.String(), "traced") {
		t.Fatalf("traced record not forwarded: %q", buf.String())
	}
}

func TestTeeHandlerRespectsLevels(t *testing.T) {
	var info, errOnly bytes.Buffer
	h := NewTeeHandler(
		log.NewJSONHandler(&info, &log.HandlerOptions{Level: log.LevelInfo}),
		log.NewJSONHandler(&errOnly, &log.HandlerOptions{Level: log.LevelError}),
	)
	logger := log.New(h)
	logger.Info("hello")

	if !strings.Contains(info.String(), "hello") {
		t.Fatalf("info handler missed the record: %q", info.String())
	}
	if errOnly.Len() != 0 {
		t.Fatalf("error handler got an info record: %q", errOnly.String())
	}
}

func TestAccessLineCarriesTraceID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	req = req.WithContext(WithTraceID(req.Context(), "t-1"))

	line := accessLine(gin.LogFormatterParams{
		Request:    req,
		Method:     http.MethodPost,
		Path:       "/api/posts",
		StatusCode: http.StatusOK,
	})
	if !strings.Contains(line, `"trace_id":"t-1"`) {
		t.Fatalf("access line = %s, want trace id t-1", line)
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(line), &parsed); err != nil {
		t.Fatalf("access line is not json: %v", err)
	}
}
