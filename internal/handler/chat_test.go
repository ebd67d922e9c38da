package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hashchat-ai/ledger-assistant/internal/middleware"
	"github.com/hashchat-ai/ledger-assistant/internal/model"
	"github.com/hashchat-ai/ledger-assistant/pkg/logger"
)

type fakeRouter struct {
	lastConversationID string
	lastMessage        string
	resp               model.ChatResponse
}

func (f *fakeRouter) Chat(ctx context.Context, conversationID, message string) model.ChatResponse {
	f.lastConversationID = conversationID
	f.lastMessage = message
	return f.resp
}

type fakeLoanClient struct {
	lastUserID string
	resp       *model.LoanChatResponse
	err        error
}

func (f *fakeLoanClient) HandleQuery(ctx context.Context, userID, message string) (*model.LoanChatResponse, error) {
	f.lastUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func newTestServer(router ChatRouter, loanClient LoanClient) *chi.Mux {
	h := NewChatHandler(router, loanClient, logger.NewNop())
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.ConversationID("general-chat-session"))
		r.Post("/chat", h.Chat)
		r.Post("/chat/loan/{userId}", h.LoanChat)
	})
	return r
}

func postJSON(t *testing.T, mux http.Handler, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestChatReturnsRouterResponse(t *testing.T) {
	router := &fakeRouter{resp: model.ChatResponse{Response: "Account created successfully", Success: true}}
	mux := newTestServer(router, nil)

	rec := postJSON(t, mux, "/api/chat", `{"message":"create an account"}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp model.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success || resp.Response != "Account created successfully" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if router.lastMessage != "create an account" {
		t.Fatalf("message not forwarded: %q", router.lastMessage)
	}
}

func TestChatUsesDefaultConversationID(t *testing.T) {
	router := &fakeRouter{resp: model.ChatResponse{Success: true}}
	mux := newTestServer(router, nil)

	postJSON(t, mux, "/api/chat", `{"message":"hi"}`, nil)

	if router.lastConversationID != "general-chat-session" {
		t.Fatalf("expected default conversation id, got %q", router.lastConversationID)
	}
}

func TestChatHonorsConversationHeader(t *testing.T) {
	router := &fakeRouter{resp: model.ChatResponse{Success: true}}
	mux := newTestServer(router, nil)

	postJSON(t, mux, "/api/chat", `{"message":"hi"}`, map[string]string{
		middleware.ConversationIDHeader: "session-42",
	})

	if router.lastConversationID != "session-42" {
		t.Fatalf("expected header conversation id, got %q", router.lastConversationID)
	}
}

func TestChatRejectsInvalidBody(t *testing.T) {
	router := &fakeRouter{}
	mux := newTestServer(router, nil)

	rec := postJSON(t, mux, "/api/chat", `{"message":`, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if router.lastMessage != "" {
		t.Fatal("router must not be invoked on invalid body")
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	mux := newTestServer(&fakeRouter{}, nil)

	rec := postJSON(t, mux, "/api/chat", `{"message":""}`, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestChatRejectsOversizedMessage(t *testing.T) {
	mux := newTestServer(&fakeRouter{}, nil)

	big := strings.Repeat("a", 8193)
	rec := postJSON(t, mux, "/api/chat", `{"message":"`+big+`"}`, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestErrorResponsesCarryEnvelope(t *testing.T) {
	mux := newTestServer(&fakeRouter{}, nil)

	rec := postJSON(t, mux, "/api/chat", `{"message":""}`, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var envelope struct {
		Error  string `json:"error"`
		Status int    `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding error envelope: %v", err)
	}
	if envelope.Error == "" {
		t.Fatal("error envelope missing message")
	}
	if envelope.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400", envelope.Status)
	}
}

func TestLoanChatForwardsToCollaborator(t *testing.T) {
	client := &fakeLoanClient{resp: &model.LoanChatResponse{UserID: "user-7", Response: "Your loan balance is 500"}}
	mux := newTestServer(&fakeRouter{}, client)

	rec := postJSON(t, mux, "/api/chat/loan/user-7", `{"message":"loan status?"}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if client.lastUserID != "user-7" {
		t.Fatalf("user id not forwarded: %q", client.lastUserID)
	}
	var resp model.LoanChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Response != "Your loan balance is 500" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLoanChatCollaboratorFailureIsOpaque(t *testing.T) {
	client := &fakeLoanClient{err: errors.New("connection refused to 10.0.0.5:8081")}
	mux := newTestServer(&fakeRouter{}, client)

	rec := postJSON(t, mux, "/api/chat/loan/user-7", `{"message":"loan status?"}`, nil)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Fatal("internal detail leaked to the client")
	}
}

func TestLoanChatUnavailableWithoutClient(t *testing.T) {
	mux := newTestServer(&fakeRouter{}, nil)

	rec := postJSON(t, mux, "/api/chat/loan/user-7", `{"message":"loan status?"}`, nil)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestLoanChatRejectsOversizedUserID(t *testing.T) {
	client := &fakeLoanClient{resp: &model.LoanChatResponse{}}
	mux := newTestServer(&fakeRouter{}, client)

	rec := postJSON(t, mux, "/api/chat/loan/"+strings.Repeat("u", 65), `{"message":"hi"}`, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if client.lastUserID != "" {
		t.Fatal("collaborator must not be invoked for invalid user id")
	}
}
