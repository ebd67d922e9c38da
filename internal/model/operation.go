// Package model defines data structures for the ledger assistant.
package model

// OperationKind identifies one of the gateway operations.
type OperationKind string

const (
	OpCreateAccount  OperationKind = "createAccount"
	OpCreateToken    OperationKind = "createToken"
	OpTransferTokens OperationKind = "transferTokens"
	OpTransferNative OperationKind = "transferHbar"
	OpCheckBalance   OperationKind = "checkBalance"
)

// CreateAccountRequest requests creation of a fresh ledger account.
type CreateAccountRequest struct{}

// CreateTokenRequest requests creation of a fungible token with the
// operator as treasury. Decimals defaults to 2 when nil.
type CreateTokenRequest struct {
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	InitialSupply int64  `json:"initialSupply"`
	Decimals      *int   `json:"decimals,omitempty"`
}

// TransferTokenRequest moves token units from the operator to a recipient.
type TransferTokenRequest struct {
	TokenID     string `json:"tokenId"`
	ToAccountID string `json:"toAccountId"`
	Amount      int64  `json:"amount"`
}

// TransferHbarRequest moves native currency, amount in tinybar.
type TransferHbarRequest struct {
	ToAccountID string `json:"toAccountId"`
	Amount      int64  `json:"amount"`
}

// BalanceQuery asks for the current balances of an account.
type BalanceQuery struct {
	AccountID string `json:"accountId"`
}

// BalanceInfo carries pre-formatted display balances. The system never does
// arithmetic on these, so they stay strings.
type BalanceInfo struct {
	HbarBalance   string `json:"hbarBalance"`
	TokenBalances string `json:"tokenBalances"`
}

// AccountInfo is returned exactly once at account creation. The private key
// is never persisted; custody is the caller's problem from here on.
type AccountInfo struct {
	AccountID  string `json:"accountId"`
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
}

// OperationResult is the uniform outcome of every gateway operation.
// Exactly one of the payload fields is set on success; none on failure.
// Construct through Success*/Failure so the invariant holds by construction.
type OperationResult struct {
	Success       bool         `json:"success"`
	Message       string       `json:"message"`
	TransactionID string       `json:"transactionId,omitempty"`
	Balance       *BalanceInfo `json:"balance,omitempty"`
	Account       *AccountInfo `json:"account,omitempty"`
}

// SuccessWithTransaction builds a success result carrying a transaction id.
func SuccessWithTransaction(message, transactionID string) OperationResult {
	return OperationResult{Success: true, Message: message, TransactionID: transactionID}
}

// SuccessWithBalance builds a success result carrying balance info.
func SuccessWithBalance(message string, balance BalanceInfo) OperationResult {
	return OperationResult{Success: true, Message: message, Balance: &balance}
}

// SuccessWithAccount builds a success result carrying new account info.
func SuccessWithAccount(message string, account AccountInfo) OperationResult {
	return OperationResult{Success: true, Message: message, Account: &account}
}

// Failure builds a failure result. Message carries the underlying
// diagnostic text unmodified; there is never a partial payload.
func Failure(message string) OperationResult {
	return OperationResult{Success: false, Message: message}
}
