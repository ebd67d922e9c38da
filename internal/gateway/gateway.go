// Package gateway executes ledger operations and folds every outcome into
// a uniform OperationResult.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hashchat-ai/ledger-assistant/internal/audit"
	"github.com/hashchat-ai/ledger-assistant/internal/ledger"
	"github.com/hashchat-ai/ledger-assistant/internal/middleware"
	"github.com/hashchat-ai/ledger-assistant/internal/model"
	"github.com/hashchat-ai/ledger-assistant/pkg/logger"
	"github.com/hashchat-ai/ledger-assistant/pkg/metrics"
)

const (
	defaultDecimals = 2
	maxDecimals     = 18
)

// Gateway maps each operation onto exactly one ledger transaction or
// query. It never retries and never composes transactions, so a failure is
// reported as-is with the adapter's own diagnostic text.
type Gateway struct {
	ledger         ledger.Client
	auditPublisher *audit.Publisher
	initialTinybar int64
	logger         *logger.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithInitialBalance sets the tinybar funding for new accounts.
func WithInitialBalance(tinybar int64) Option {
	return func(g *Gateway) {
		if tinybar > 0 {
			g.initialTinybar = tinybar
		}
	}
}

// WithAuditPublisher attaches an audit trail publisher.
func WithAuditPublisher(p *audit.Publisher) Option {
	return func(g *Gateway) {
		g.auditPublisher = p
	}
}

// New creates a gateway over the given ledger client.
func New(client ledger.Client, log *logger.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		ledger:         client,
		initialTinybar: 1000,
		logger:         log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CreateAccount generates a fresh keypair and submits an account creation
// funded by the operator. The private key exists only in the returned
// result; nothing here writes it anywhere durable.
func (g *Gateway) CreateAccount(ctx context.Context) model.OperationResult {
	g.logger.Info("creating new ledger account")
	start := time.Now()

	keyPair, err := g.ledger.GenerateKeyPair()
	if err != nil {
		return g.fail(ctx, model.OpCreateAccount, start, fmt.Sprintf("Failed to create account: %s", err.Error()))
	}

	receipt, err := g.ledger.SubmitAccountCreate(ctx, keyPair.PublicKey, g.initialTinybar)
	if err != nil {
		return g.fail(ctx, model.OpCreateAccount, start, fmt.Sprintf("Failed to create account: %s", err.Error()))
	}

	g.logger.Info("account created", zap.String("account_id", receipt.AccountID))

	result := model.SuccessWithAccount(
		fmt.Sprintf("Account created successfully: %s", receipt.AccountID),
		model.AccountInfo{
			AccountID:  receipt.AccountID,
			PublicKey:  keyPair.PublicKey,
			PrivateKey: keyPair.PrivateKey,
		},
	)
	g.record(ctx, model.OpCreateAccount, start, result, receipt.TransactionID)
	return result
}

// CreateToken submits a token creation with the operator as treasury,
// admin key and supply key. Decimals defaults to 2 when absent.
func (g *Gateway) CreateToken(ctx context.Context, req model.CreateTokenRequest) model.OperationResult {
	g.logger.Info("creating token",
		zap.String("name", req.Name),
		zap.String("symbol", req.Symbol),
	)
	start := time.Now()

	if req.Name == "" || req.Symbol == "" {
		return g.fail(ctx, model.OpCreateToken, start, "Failed to create token: name and symbol are required")
	}
	if req.InitialSupply < 0 {
		return g.fail(ctx, model.OpCreateToken, start, "Failed to create token: initial supply cannot be negative")
	}

	decimals := defaultDecimals
	if req.Decimals != nil {
		decimals = *req.Decimals
	}
	if decimals < 0 || decimals > maxDecimals {
		return g.fail(ctx, model.OpCreateToken, start, fmt.Sprintf("Failed to create token: decimals must be between 0 and %d", maxDecimals))
	}

	receipt, err := g.ledger.SubmitTokenCreate(ctx, ledger.TokenParams{
		Name:          req.Name,
		Symbol:        req.Symbol,
		InitialSupply: req.InitialSupply,
		Decimals:      decimals,
	})
	if err != nil {
		return g.fail(ctx, model.OpCreateToken, start, fmt.Sprintf("Failed to create token: %s", err.Error()))
	}

	g.logger.Info("token created",
		zap.String("token_id", receipt.TokenID),
		zap.String("transaction_id", receipt.TransactionID),
	)

	result := model.SuccessWithTransaction(
		fmt.Sprintf("Token '%s' created successfully with id: %s", req.Name, receipt.TokenID),
		receipt.TransactionID,
	)
	g.record(ctx, model.OpCreateToken, start, result, receipt.TransactionID)
	return result
}

// TransferTokens moves token units from the operator to the recipient as a
// single debit/credit transfer. No local balance pre-check; insufficient
// balance is the adapter's diagnosis to make.
func (g *Gateway) TransferTokens(ctx context.Context, req model.TransferTokenRequest) model.OperationResult {
	g.logger.Info("transferring tokens",
		zap.String("token_id", req.TokenID),
		zap.String("to_account", req.ToAccountID),
		zap.Int64("amount", req.Amount),
	)
	start := time.Now()

	if req.Amount <= 0 {
		return g.fail(ctx, model.OpTransferTokens, start, "Failed to transfer tokens: amount must be positive")
	}

	receipt, err := g.ledger.SubmitTokenTransfer(ctx, req.TokenID, req.ToAccountID, req.Amount)
	if err != nil {
		return g.fail(ctx, model.OpTransferTokens, start, fmt.Sprintf("Failed to transfer tokens: %s", err.Error()))
	}

	g.logger.Info("transfer completed", zap.String("transaction_id", receipt.TransactionID))

	result := model.SuccessWithTransaction(
		fmt.Sprintf("Successfully transferred %d tokens to %s", req.Amount, req.ToAccountID),
		receipt.TransactionID,
	)
	g.record(ctx, model.OpTransferTokens, start, result, receipt.TransactionID)
	return result
}

// TransferHbar moves native currency, amount in tinybar.
func (g *Gateway) TransferHbar(ctx context.Context, req model.TransferHbarRequest) model.OperationResult {
	g.logger.Info("transferring hbar",
		zap.String("to_account", req.ToAccountID),
		zap.Int64("amount_tinybar", req.Amount),
	)
	start := time.Now()

	if req.Amount <= 0 {
		return g.fail(ctx, model.OpTransferNative, start, "Failed to transfer HBAR: amount must be positive")
	}

	receipt, err := g.ledger.SubmitHbarTransfer(ctx, req.ToAccountID, req.Amount)
	if err != nil {
		return g.fail(ctx, model.OpTransferNative, start, fmt.Sprintf("Failed to transfer HBAR: %s", err.Error()))
	}

	g.logger.Info("hbar transfer completed", zap.String("transaction_id", receipt.TransactionID))

	result := model.SuccessWithTransaction(
		fmt.Sprintf("Successfully transferred %d HBAR to %s", req.Amount, req.ToAccountID),
		receipt.TransactionID,
	)
	g.record(ctx, model.OpTransferNative, start, result, receipt.TransactionID)
	return result
}

// GetAccountBalance is a read-only query; no transaction, no receipt wait.
func (g *Gateway) GetAccountBalance(ctx context.Context, query model.BalanceQuery) model.OperationResult {
	g.logger.Info("checking balance", zap.String("account_id", query.AccountID))
	start := time.Now()

	if query.AccountID == "" {
		return g.fail(ctx, model.OpCheckBalance, start, "Failed to get balance: account id is required")
	}

	balance, err := g.ledger.QueryBalance(ctx, query.AccountID)
	if err != nil {
		return g.fail(ctx, model.OpCheckBalance, start, fmt.Sprintf("Failed to get balance: %s", err.Error()))
	}

	result := model.SuccessWithBalance(
		fmt.Sprintf("Account %s has %s", query.AccountID, balance.Hbars),
		model.BalanceInfo{
			HbarBalance:   balance.Hbars,
			TokenBalances: balance.Tokens,
		},
	)
	g.record(ctx, model.OpCheckBalance, start, result, "")
	return result
}

func (g *Gateway) fail(ctx context.Context, kind model.OperationKind, start time.Time, message string) model.OperationResult {
	g.logger.Error("operation failed",
		zap.String("kind", string(kind)),
		zap.String("message", message),
	)
	result := model.Failure(message)
	g.record(ctx, kind, start, result, "")
	return result
}

func (g *Gateway) record(ctx context.Context, kind model.OperationKind, start time.Time, result model.OperationResult, transactionID string) {
	outcome := "success"
	if !result.Success {
		outcome = "failure"
	}
	metrics.RecordOperation(string(kind), outcome, time.Since(start).Seconds())

	g.auditPublisher.Publish(ctx, &model.AuditEvent{
		ID:             uuid.New().String(),
		Kind:           kind,
		Outcome:        outcome,
		Message:        result.Message,
		TransactionID:  transactionID,
		ConversationID: middleware.GetConversationID(ctx),
		CreatedAt:      time.Now(),
	})
}
