package log

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNew_WritesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentLedger, Output: &buf})

	logger.Info("added", FieldCategory, "Food")

	out := buf.String()
	if !strings.Contains(out, "component=ledger") {
		t.Errorf("expected component in output, got %q", out)
	}
	if strings.Count(out, "component=") != 1 {
		t.Errorf("component should appear once, got %q", out)
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Output: &buf})

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %q", buf.String())
	}
}

func TestFromContext_Default(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext should never return nil")
	}
}

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Component: ComponentHTTP, Output: &buf})

	var seen *Logger
	h := Middleware(logger, func(*http.Request) string { return "10.0.0.1" })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/expenses?category=Food", nil))

	if seen != logger {
		t.Error("handler should see the middleware logger in its context")
	}
	out := buf.String()
	for _, want := range []string{"level=WARN", "status_code=404", "path=/expenses", "client_ip=10.0.0.1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %q", want, out)
		}
	}
}
