package model

import "time"

// Role represents the role of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is a single entry in a conversation window.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply to a chat request. Success is false only when
// the router itself failed; gateway failures come back as text with
// Success still true, matching the transparency rule for operation errors.
type ChatResponse struct {
	Response string `json:"response"`
	Success  bool   `json:"success"`
}

// LoanChatResponse is the structured reply from the loan collaborator.
type LoanChatResponse struct {
	UserID   string `json:"userId"`
	Response string `json:"response"`
	Intent   string `json:"intent,omitempty"`
}

// AuditEvent records an executed gateway operation on the audit stream.
type AuditEvent struct {
	ID             string        `json:"id"`
	Kind           OperationKind `json:"kind"`
	Outcome        string        `json:"outcome"`
	Message        string        `json:"message"`
	TransactionID  string        `json:"transaction_id,omitempty"`
	ConversationID string        `json:"conversation_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}
