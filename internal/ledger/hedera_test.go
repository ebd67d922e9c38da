package ledger

import (
	"context"
	"errors"
	"testing"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

func TestTokenTransferLegsNetToZero(t *testing.T) {
	c := &HederaClient{operatorID: hedera.AccountID{Account: 2}}
	token := hedera.TokenID{Token: 1234}
	to := hedera.AccountID{Account: 5678}

	tx := c.tokenTransfer(token, to, 500)

	transfers := tx.GetTokenTransfers()[token]
	if len(transfers) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(transfers))
	}

	var sum int64
	amounts := make(map[string]int64)
	for _, leg := range transfers {
		sum += leg.Amount
		amounts[leg.AccountID.String()] = leg.Amount
	}
	if sum != 0 {
		t.Fatalf("legs must net to zero, got %d", sum)
	}
	if amounts[c.operatorID.String()] != -500 {
		t.Fatalf("operator leg = %d, want -500", amounts[c.operatorID.String()])
	}
	if amounts[to.String()] != 500 {
		t.Fatalf("recipient leg = %d, want 500", amounts[to.String()])
	}
}

func TestHbarTransferLegsNetToZero(t *testing.T) {
	c := &HederaClient{operatorID: hedera.AccountID{Account: 2}}
	to := hedera.AccountID{Account: 5678}

	tx := c.hbarTransfer(to, 1000)

	transfers := tx.GetHbarTransfers()
	if len(transfers) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(transfers))
	}

	operatorLeg := transfers[c.operatorID].AsTinybar()
	recipientLeg := transfers[to].AsTinybar()
	if operatorLeg+recipientLeg != 0 {
		t.Fatalf("legs must net to zero, got %d", operatorLeg+recipientLeg)
	}
	if operatorLeg != -1000 {
		t.Fatalf("operator leg = %d, want -1000", operatorLeg)
	}
	if recipientLeg != 1000 {
		t.Fatalf("recipient leg = %d, want 1000", recipientLeg)
	}
}

func TestFormatTokenBalances(t *testing.T) {
	tokens := map[hedera.TokenID]uint64{
		{Token: 1234}: 500,
		{Token: 7}:    1,
	}

	if got := formatTokenBalances(tokens); got != "{0.0.1234=500, 0.0.7=1}" {
		t.Fatalf("unexpected balance string: %q", got)
	}
	if got := formatTokenBalances(nil); got != "{}" {
		t.Fatalf("empty balances should render as {}, got %q", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FaultKind
	}{
		{"insufficient payer balance", errors.New("exceptional precheck status INSUFFICIENT_PAYER_BALANCE"), FaultInsufficientBalance},
		{"insufficient token balance", errors.New("receipt status: INSUFFICIENT_TOKEN_BALANCE"), FaultInsufficientBalance},
		{"invalid signature", errors.New("exceptional precheck status INVALID_SIGNATURE"), FaultUnauthorized},
		{"invalid account", errors.New("receipt status: INVALID_ACCOUNT_ID"), FaultInvalidID},
		{"invalid token", errors.New("receipt status: INVALID_TOKEN_ID"), FaultInvalidID},
		{"missing account", errors.New("ACCOUNT_ID_DOES_NOT_EXIST"), FaultInvalidID},
		{"deadline exceeded", context.DeadlineExceeded, FaultTimeout},
		{"grpc timeout text", errors.New("rpc error: deadline exceeded while awaiting connection"), FaultTimeout},
		{"anything else", errors.New("connection reset by peer"), FaultNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fault := classify(tt.err)
			if fault.Kind != tt.want {
				t.Fatalf("classify(%v) = %s, want %s", tt.err, fault.Kind, tt.want)
			}
			if !errors.Is(fault, tt.err) {
				t.Fatal("fault must wrap the original error")
			}
		})
	}
}

func TestFaultErrorText(t *testing.T) {
	underlying := errors.New("receipt status: INVALID_ACCOUNT_ID")
	fault := NewFault(FaultInvalidID, underlying)

	if fault.Error() != underlying.Error() {
		t.Fatalf("fault must surface the underlying text, got %q", fault.Error())
	}
	if !errors.Is(fault, underlying) {
		t.Fatal("errors.Is must see through the fault")
	}
}
