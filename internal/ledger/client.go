// Package ledger defines the adapter boundary to the ledger network and
// its Hedera implementation.
package ledger

import "context"

// FaultKind classifies an adapter failure.
type FaultKind string

const (
	FaultInvalidID           FaultKind = "invalid_id"
	FaultInsufficientBalance FaultKind = "insufficient_balance"
	FaultUnauthorized        FaultKind = "unauthorized"
	FaultTimeout             FaultKind = "timeout"
	FaultNetwork             FaultKind = "network"
)

// Fault wraps an underlying SDK error with a classification. Error() returns
// the raw diagnostic text; callers surface it unmodified.
type Fault struct {
	Kind FaultKind
	Err  error
}

func (f *Fault) Error() string { return f.Err.Error() }

func (f *Fault) Unwrap() error { return f.Err }

// NewFault builds a classified fault around err.
func NewFault(kind FaultKind, err error) *Fault {
	return &Fault{Kind: kind, Err: err}
}

// KeyPair is a freshly generated signing key in string form.
type KeyPair struct {
	PublicKey  string
	PrivateKey string
}

// Receipt is the confirmation of a submitted transaction. AccountID and
// TokenID are set only for the transaction kinds that produce them.
type Receipt struct {
	TransactionID string
	AccountID     string
	TokenID       string
}

// TokenParams describes a fungible token creation.
type TokenParams struct {
	Name          string
	Symbol        string
	InitialSupply int64
	Decimals      int
}

// Balance holds display-form balances for an account.
type Balance struct {
	Hbars  string
	Tokens string
}

// Client is the boundary to the ledger network. Implementations own the
// operator identity and all SDK-level timeout and retry policy; callers
// perform no retries of their own.
type Client interface {
	// OperatorID returns the configured operator account id.
	OperatorID() string

	// OperatorPublicKey returns the operator public key in string form.
	OperatorPublicKey() string

	// GenerateKeyPair creates a fresh Ed25519 keypair. No network call.
	GenerateKeyPair() (KeyPair, error)

	// SubmitAccountCreate submits an account creation funded by the
	// operator and waits for the receipt.
	SubmitAccountCreate(ctx context.Context, publicKey string, initialTinybar int64) (*Receipt, error)

	// SubmitTokenCreate submits a token creation with the operator as
	// treasury, admin key and supply key, freeze disabled.
	SubmitTokenCreate(ctx context.Context, params TokenParams) (*Receipt, error)

	// SubmitTokenTransfer submits a single transfer debiting the operator
	// and crediting the recipient.
	SubmitTokenTransfer(ctx context.Context, tokenID, toAccountID string, amount int64) (*Receipt, error)

	// SubmitHbarTransfer is SubmitTokenTransfer for the native currency,
	// amount in tinybar.
	SubmitHbarTransfer(ctx context.Context, toAccountID string, amountTinybar int64) (*Receipt, error)

	// QueryBalance reads current balances. No transaction, no receipt.
	QueryBalance(ctx context.Context, accountID string) (*Balance, error)

	// Ping reports whether the network is reachable.
	Ping(ctx context.Context) error

	// Close releases network connections held by the client.
	Close() error
}
