package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

// Config describes how to construct a Hedera client.
type Config struct {
	Network     string
	OperatorID  string
	OperatorKey string
}

// HederaClient implements Client against the Hedera network.
type HederaClient struct {
	client     *hedera.Client
	operatorID hedera.AccountID
	publicKey  hedera.PublicKey
}

// NewHederaClient dials the named network and configures the operator.
func NewHederaClient(cfg Config) (*HederaClient, error) {
	if cfg.OperatorID == "" || cfg.OperatorKey == "" {
		return nil, errors.New("operator account id and private key are required")
	}

	client, err := hedera.ClientForName(cfg.Network)
	if err != nil {
		return nil, fmt.Errorf("unknown hedera network %q: %w", cfg.Network, err)
	}

	operatorID, err := hedera.AccountIDFromString(cfg.OperatorID)
	if err != nil {
		return nil, fmt.Errorf("invalid operator account id: %w", err)
	}

	operatorKey, err := hedera.PrivateKeyFromString(cfg.OperatorKey)
	if err != nil {
		return nil, fmt.Errorf("invalid operator private key: %w", err)
	}

	client.SetOperator(operatorID, operatorKey)

	return &HederaClient{
		client:     client,
		operatorID: operatorID,
		publicKey:  operatorKey.PublicKey(),
	}, nil
}

// OperatorID returns the configured operator account id.
func (c *HederaClient) OperatorID() string {
	return c.operatorID.String()
}

// OperatorPublicKey returns the operator public key in string form.
func (c *HederaClient) OperatorPublicKey() string {
	return c.publicKey.String()
}

// GenerateKeyPair creates a fresh Ed25519 keypair.
func (c *HederaClient) GenerateKeyPair() (KeyPair, error) {
	privateKey, err := hedera.PrivateKeyGenerateEd25519()
	if err != nil {
		return KeyPair{}, NewFault(FaultNetwork, err)
	}
	return KeyPair{
		PublicKey:  privateKey.PublicKey().String(),
		PrivateKey: privateKey.String(),
	}, nil
}

// SubmitAccountCreate submits an account creation funded by the operator.
func (c *HederaClient) SubmitAccountCreate(ctx context.Context, publicKey string, initialTinybar int64) (*Receipt, error) {
	key, err := hedera.PublicKeyFromString(publicKey)
	if err != nil {
		return nil, NewFault(FaultInvalidID, err)
	}

	response, err := hedera.NewAccountCreateTransaction().
		SetKey(key).
		SetInitialBalance(hedera.HbarFromTinybar(initialTinybar)).
		Execute(c.client)
	if err != nil {
		return nil, classify(err)
	}

	receipt, err := response.GetReceipt(c.client)
	if err != nil {
		return nil, classify(err)
	}

	out := &Receipt{TransactionID: response.TransactionID.String()}
	if receipt.AccountID != nil {
		out.AccountID = receipt.AccountID.String()
	}
	return out, nil
}

// SubmitTokenCreate submits a token creation with the operator as treasury.
func (c *HederaClient) SubmitTokenCreate(ctx context.Context, params TokenParams) (*Receipt, error) {
	response, err := hedera.NewTokenCreateTransaction().
		SetTokenName(params.Name).
		SetTokenSymbol(params.Symbol).
		SetInitialSupply(uint64(params.InitialSupply)).
		SetDecimals(uint(params.Decimals)).
		SetTreasuryAccountID(c.operatorID).
		SetAdminKey(c.publicKey).
		SetSupplyKey(c.publicKey).
		SetFreezeDefault(false).
		Execute(c.client)
	if err != nil {
		return nil, classify(err)
	}

	receipt, err := response.GetReceipt(c.client)
	if err != nil {
		return nil, classify(err)
	}

	out := &Receipt{TransactionID: response.TransactionID.String()}
	if receipt.TokenID != nil {
		out.TokenID = receipt.TokenID.String()
	}
	return out, nil
}

// SubmitTokenTransfer debits the operator and credits the recipient.
func (c *HederaClient) SubmitTokenTransfer(ctx context.Context, tokenID, toAccountID string, amount int64) (*Receipt, error) {
	token, err := hedera.TokenIDFromString(tokenID)
	if err != nil {
		return nil, NewFault(FaultInvalidID, err)
	}
	toAccount, err := hedera.AccountIDFromString(toAccountID)
	if err != nil {
		return nil, NewFault(FaultInvalidID, err)
	}

	response, err := c.tokenTransfer(token, toAccount, amount).Execute(c.client)
	if err != nil {
		return nil, classify(err)
	}

	if _, err := response.GetReceipt(c.client); err != nil {
		return nil, classify(err)
	}

	return &Receipt{TransactionID: response.TransactionID.String()}, nil
}

// SubmitHbarTransfer moves native currency, amount in tinybar.
func (c *HederaClient) SubmitHbarTransfer(ctx context.Context, toAccountID string, amountTinybar int64) (*Receipt, error) {
	toAccount, err := hedera.AccountIDFromString(toAccountID)
	if err != nil {
		return nil, NewFault(FaultInvalidID, err)
	}

	response, err := c.hbarTransfer(toAccount, amountTinybar).Execute(c.client)
	if err != nil {
		return nil, classify(err)
	}

	if _, err := response.GetReceipt(c.client); err != nil {
		return nil, classify(err)
	}

	return &Receipt{TransactionID: response.TransactionID.String()}, nil
}

// tokenTransfer builds the two-leg transfer: the operator is debited and
// the recipient credited, so the legs net to zero.
func (c *HederaClient) tokenTransfer(token hedera.TokenID, to hedera.AccountID, amount int64) *hedera.TransferTransaction {
	return hedera.NewTransferTransaction().
		AddTokenTransfer(token, c.operatorID, -amount).
		AddTokenTransfer(token, to, amount)
}

// hbarTransfer builds the two-leg native transfer, amounts in tinybar.
func (c *HederaClient) hbarTransfer(to hedera.AccountID, amountTinybar int64) *hedera.TransferTransaction {
	return hedera.NewTransferTransaction().
		AddHbarTransfer(c.operatorID, hedera.HbarFromTinybar(-amountTinybar)).
		AddHbarTransfer(to, hedera.HbarFromTinybar(amountTinybar))
}

// QueryBalance reads current balances for an account.
func (c *HederaClient) QueryBalance(ctx context.Context, accountID string) (*Balance, error) {
	account, err := hedera.AccountIDFromString(accountID)
	if err != nil {
		return nil, NewFault(FaultInvalidID, err)
	}

	balance, err := hedera.NewAccountBalanceQuery().
		SetAccountID(account).
		Execute(c.client)
	if err != nil {
		return nil, classify(err)
	}

	return &Balance{
		Hbars:  balance.Hbars.String(),
		Tokens: formatTokenBalances(balance.Token),
	}, nil
}

// formatTokenBalances renders token balances as "{tokenId=amount, ...}",
// sorted by token id so the output is stable.
func formatTokenBalances(tokens map[hedera.TokenID]uint64) string {
	ids := make([]string, 0, len(tokens))
	amounts := make(map[string]uint64, len(tokens))
	for id, amount := range tokens {
		s := id.String()
		ids = append(ids, s)
		amounts[s] = amount
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteByte('{')
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%d", id, amounts[id])
	}
	b.WriteByte('}')
	return b.String()
}

// Ping queries the operator's own balance as a cheap reachability check.
func (c *HederaClient) Ping(ctx context.Context) error {
	_, err := hedera.NewAccountBalanceQuery().
		SetAccountID(c.operatorID).
		Execute(c.client)
	if err != nil {
		return classify(err)
	}
	return nil
}

// Close releases network connections held by the client.
func (c *HederaClient) Close() error {
	return c.client.Close()
}

// classify maps an SDK error onto a fault kind. The raw message is kept;
// only the kind is derived.
func classify(err error) *Fault {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewFault(FaultTimeout, err)
	}

	text := strings.ToUpper(err.Error())
	switch {
	case strings.Contains(text, "INSUFFICIENT"):
		return NewFault(FaultInsufficientBalance, err)
	case strings.Contains(text, "INVALID_SIGNATURE") || strings.Contains(text, "UNAUTHORIZED"):
		return NewFault(FaultUnauthorized, err)
	case strings.Contains(text, "INVALID_ACCOUNT_ID") || strings.Contains(text, "INVALID_TOKEN_ID") || strings.Contains(text, "ACCOUNT_ID_DOES_NOT_EXIST"):
		return NewFault(FaultInvalidID, err)
	case strings.Contains(text, "TIMEOUT") || strings.Contains(text, "DEADLINE"):
		return NewFault(FaultTimeout, err)
	default:
		return NewFault(FaultNetwork, err)
	}
}
