package middleware

import (
	"context"
	"net/http"
)

const (
	// ConversationIDKey is the context key for conversation ID.
	ConversationIDKey ContextKey = "conversation_id"

	// ConversationIDHeader is the header callers use to scope their own
	// conversational context.
	ConversationIDHeader = "X-Conversation-ID"
)

// ConversationID resolves the conversation id for a request: the
// X-Conversation-ID header when present, the configured default otherwise.
// The default preserves the shared-session behavior of the original
// deployment.
func ConversationID(defaultID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(ConversationIDHeader)
			if id == "" {
				id = defaultID
			}
			ctx := context.WithValue(r.Context(), ConversationIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithConversationID returns a context carrying the conversation id.
func WithConversationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ConversationIDKey, id)
}

// GetConversationID gets the conversation id from context.
func GetConversationID(ctx context.Context) string {
	if v := ctx.Value(ConversationIDKey); v != nil {
		return v.(string)
	}
	return ""
}
