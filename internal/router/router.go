// Package router maps free-text chat onto ledger operations. Each request
// is classified into exactly one tool call or a conversational reply.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hashchat-ai/ledger-assistant/internal/llm"
	"github.com/hashchat-ai/ledger-assistant/internal/memory"
	"github.com/hashchat-ai/ledger-assistant/internal/model"
	"github.com/hashchat-ai/ledger-assistant/pkg/logger"
	"github.com/hashchat-ai/ledger-assistant/pkg/metrics"
)

// systemPrompt constrains the model: blockchain intents must resolve to a
// tool call; ordinary conversation is allowed only for greetings and
// identity questions.
const systemPrompt = `You are a Hedera blockchain assistant. You MUST use the available tools for ALL blockchain operations.

IMPORTANT: When users ask about blockchain operations, you MUST call the appropriate tool:

1. For balance checking: ALWAYS call checkBalance with the account ID
2. For token creation: ALWAYS call createToken
3. For token transfers: ALWAYS call transferTokens
4. For HBAR transfers: ALWAYS call transferHbar
5. For account creation: ALWAYS call createAccount

DO NOT provide generic responses. ALWAYS use the tools to get real data.
If a tool returns an error, show the user the exact error message.

You are allowed to answer simple conversational questions (like names and greetings) using the conversation history, but avoid complex topics outside the scope of Hedera services. Do not answer any questions out of the scope of the application, which is handling Hedera services.`

// Gateway is the operation surface the router dispatches to.
type Gateway interface {
	CreateAccount(ctx context.Context) model.OperationResult
	CreateToken(ctx context.Context, req model.CreateTokenRequest) model.OperationResult
	TransferTokens(ctx context.Context, req model.TransferTokenRequest) model.OperationResult
	TransferHbar(ctx context.Context, req model.TransferHbarRequest) model.OperationResult
	GetAccountBalance(ctx context.Context, query model.BalanceQuery) model.OperationResult
}

// Router classifies chat input and executes at most one gateway operation
// per request.
type Router struct {
	llmClient llm.Client
	gateway   Gateway
	memory    *memory.Store
	chatModel string
	logger    *logger.Logger
}

// New creates a router. chatModel may be empty to use the provider default.
func New(llmClient llm.Client, gw Gateway, mem *memory.Store, chatModel string, log *logger.Logger) *Router {
	return &Router{
		llmClient: llmClient,
		gateway:   gw,
		memory:    mem,
		chatModel: chatModel,
		logger:    log,
	}
}

// Chat handles one conversational request. Faults never propagate: every
// path returns a ChatResponse, with Success false only for router-level
// failures (classification errors, malformed tool arguments).
func (r *Router) Chat(ctx context.Context, conversationID, message string) (resp model.ChatResponse) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("chat request panicked", zap.Any("panic", rec))
			resp = model.ChatResponse{
				Response: fmt.Sprintf("Sorry, I encountered an error: %v", rec),
				Success:  false,
			}
			metrics.ChatRequestsTotal.WithLabelValues("error").Inc()
		}
	}()

	r.logger.Info("received chat request",
		zap.String("conversation_id", conversationID),
	)

	messages := r.buildMessages(conversationID, message)

	completion, err := r.llmClient.Complete(ctx, &llm.CompletionRequest{
		Model:    r.chatModel,
		Messages: messages,
		Tools:    toolDefinitions,
	})
	if err != nil {
		r.logger.Error("classification failed", zap.Error(err))
		metrics.ChatRequestsTotal.WithLabelValues("error").Inc()
		return model.ChatResponse{
			Response: fmt.Sprintf("Sorry, I encountered an error: %s", err.Error()),
			Success:  false,
		}
	}
	metrics.RecordLLMRequest(completion.Model, "success", float64(completion.LatencyMs)/1000.0, completion.TokensIn, completion.TokensOut)

	var reply string
	if len(completion.ToolCalls) > 0 {
		call := completion.ToolCalls[0]
		metrics.ToolCallsTotal.WithLabelValues(call.Name).Inc()
		r.logger.Info("executing operation",
			zap.String("tool", call.Name),
			zap.String("conversation_id", conversationID),
		)

		result, err := r.execute(ctx, call)
		if err != nil {
			r.logger.Error("tool dispatch failed", zap.String("tool", call.Name), zap.Error(err))
			metrics.ChatRequestsTotal.WithLabelValues("error").Inc()
			return model.ChatResponse{
				Response: fmt.Sprintf("Sorry, I encountered an error: %s", err.Error()),
				Success:  false,
			}
		}

		// The operation's own message is the reply, verbatim, success or
		// not. Operation failures are not router failures.
		reply = result.Message
		metrics.ChatRequestsTotal.WithLabelValues("operation").Inc()
	} else {
		reply = completion.Content
		metrics.ChatRequestsTotal.WithLabelValues("conversation").Inc()
	}

	r.remember(conversationID, message, reply)

	return model.ChatResponse{Response: reply, Success: true}
}

// execute dispatches a tool call to the gateway. An error here means the
// arguments did not parse or the tool is unknown, both routing failures.
func (r *Router) execute(ctx context.Context, call llm.ToolCall) (model.OperationResult, error) {
	switch model.OperationKind(call.Name) {
	case model.OpCreateAccount:
		return r.gateway.CreateAccount(ctx), nil

	case model.OpCreateToken:
		var req model.CreateTokenRequest
		if err := unmarshalArgs(call.Arguments, &req); err != nil {
			return model.OperationResult{}, err
		}
		return r.gateway.CreateToken(ctx, req), nil

	case model.OpTransferTokens:
		var req model.TransferTokenRequest
		if err := unmarshalArgs(call.Arguments, &req); err != nil {
			return model.OperationResult{}, err
		}
		return r.gateway.TransferTokens(ctx, req), nil

	case model.OpTransferNative:
		var req model.TransferHbarRequest
		if err := unmarshalArgs(call.Arguments, &req); err != nil {
			return model.OperationResult{}, err
		}
		return r.gateway.TransferHbar(ctx, req), nil

	case model.OpCheckBalance:
		var query model.BalanceQuery
		if err := unmarshalArgs(call.Arguments, &query); err != nil {
			return model.OperationResult{}, err
		}
		return r.gateway.GetAccountBalance(ctx, query), nil

	default:
		return model.OperationResult{}, fmt.Errorf("unknown tool %q", call.Name)
	}
}

func (r *Router) buildMessages(conversationID, message string) []llm.ChatMessage {
	window := r.memory.Window(conversationID)

	messages := make([]llm.ChatMessage, 0, len(window)+2)
	messages = append(messages, llm.ChatMessage{Role: "system", Content: systemPrompt})
	for _, turn := range window {
		messages = append(messages, llm.ChatMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}
	messages = append(messages, llm.ChatMessage{Role: "user", Content: message})
	return messages
}

func (r *Router) remember(conversationID, message, reply string) {
	now := time.Now()
	r.memory.Append(conversationID, model.Turn{
		ID:        uuid.New().String(),
		Role:      model.RoleUser,
		Content:   message,
		CreatedAt: now,
	})
	r.memory.Append(conversationID, model.Turn{
		ID:        uuid.New().String(),
		Role:      model.RoleAssistant,
		Content:   reply,
		CreatedAt: now,
	})
}

func unmarshalArgs(args json.RawMessage, v any) error {
	if len(args) == 0 {
		return fmt.Errorf("missing tool arguments")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("malformed tool arguments: %w", err)
	}
	return nil
}
