package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hashchat-ai/ledger-assistant/pkg/logger"
)

func TestLoggingRecordsConversationHeader(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := &logger.Logger{Logger: zap.New(core)}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.Header.Set(ConversationIDHeader, "session-3")
	Logging(log)(next).ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["conversation_id"] != "session-3" {
		t.Fatalf(`conversation_id = %v, want "session-3"`, fields["conversation_id"])
	}
	if fields["correlation_id"] == "" {
		t.Fatal("correlation_id not set")
	}
}

func TestLoggingGeneratesCorrelationID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := &logger.Logger{Logger: zap.New(core)}

	var fromContext string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromContext = GetCorrelationID(r.Context())
	})

	rec := httptest.NewRecorder()
	Logging(log)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if fromContext == "" {
		t.Fatal("correlation id not propagated through context")
	}
	if got := rec.Header().Get("X-Correlation-ID"); got != fromContext {
		t.Fatalf("response header %q does not match context value %q", got, fromContext)
	}
	if len(logs.All()) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(logs.All()))
	}
}
