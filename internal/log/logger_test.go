package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func bufferLogger(component string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return New(Config{Component: component, Handler: h}), &buf
}

func TestLoggerAddsComponent(t *testing.T) {
	l, buf := bufferLogger(ComponentLedger)
	l.Info("hello", FieldKind, "expense")
	out := buf.String()
	if !strings.Contains(out, "component=ledger") || !strings.Contains(out, "kind=expense") {
		t.Fatalf("unexpected output: %s", out)
	}

	buf.Reset()
	l.WithComponent(ComponentForecast).Warn("switch")
	out = buf.String()
	if strings.Count(out, "component=") != 1 || !strings.Contains(out, "component=forecast") {
		t.Fatalf("expected a single forecast component, got: %s", out)
	}
}

func TestFieldsToSliceIsSorted(t *testing.T) {
	got := NewFields().WithOperation(OpForecast).WithError(errors.New("boom")).WithError(nil).ToSlice()
	want := []any{FieldError, "boom", FieldOperation, OpForecast}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFromContextFallback(t *testing.T) {
	if l := FromContext(context.Background()); l.Component() != "unknown" {
		t.Fatalf("component = %q", l.Component())
	}
	base, _ := bufferLogger(ComponentHTTP)
	ctx := NewContext(context.Background(), base)
	if l := FromContext(ctx); l != base {
		t.Fatalf("expected stored logger")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	base, buf := bufferLogger(ComponentHTTP)
	mw := RequestIDMiddleware(base, func(*http.Request) string { return "req-1" })
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Info("inside")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(buf.String(), "request_id=req-1") {
		t.Fatalf("missing request id: %s", buf.String())
	}
}

func TestLogHTTPEndLevels(t *testing.T) {
	l, buf := bufferLogger(ComponentHTTP)
	sl := NewStructuredLogger(l)
	r := httptest.NewRequest(http.MethodGet, "/forecast?kind=expense", nil)

	sl.LogHTTPEnd(context.Background(), r, 503, 4, "id", "127.0.0.1")
	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Fatalf("expected error level: %s", buf.String())
	}
	buf.Reset()
	sl.LogHTTPEnd(context.Background(), r, 422, 4, "id", "127.0.0.1")
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Fatalf("expected warn level: %s", buf.String())
	}
}
