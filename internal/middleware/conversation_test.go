package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestConversationIDDefault(t *testing.T) {
	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetConversationID(r.Context())
	})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	ConversationID("general-chat-session")(next).ServeHTTP(httptest.NewRecorder(), req)

	if got != "general-chat-session" {
		t.Fatalf("expected default id, got %q", got)
	}
}

func TestConversationIDFromHeader(t *testing.T) {
	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetConversationID(r.Context())
	})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.Header.Set(ConversationIDHeader, "session-9")
	ConversationID("general-chat-session")(next).ServeHTTP(httptest.NewRecorder(), req)

	if got != "session-9" {
		t.Fatalf("expected header id, got %q", got)
	}
}

func TestGetConversationIDEmptyContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := GetConversationID(req.Context()); id != "" {
		t.Fatalf("expected empty id, got %q", id)
	}
}

func TestValidateChatMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		wantErr bool
	}{
		{"ok", "check my balance", false},
		{"empty", "", true},
		{"max length", strings.Repeat("a", 8192), false},
		{"too long", strings.Repeat("a", 8193), true},
		{"invalid utf8", string([]byte{0xff, 0xfe}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChatMessage(tt.message)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateChatMessage(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUserID(t *testing.T) {
	if err := ValidateUserID("user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateUserID(""); err == nil {
		t.Fatal("expected error for empty id")
	}
	if err := ValidateUserID(strings.Repeat("u", 65)); err == nil {
		t.Fatal("expected error for oversized id")
	}
}
