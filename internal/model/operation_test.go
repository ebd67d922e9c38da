package model

import "testing"

func TestResultConstructors(t *testing.T) {
	t.Run("failure has no payload", func(t *testing.T) {
		result := Failure("INSUFFICIENT_PAYER_BALANCE")
		if result.Success {
			t.Fatal("failure result must not be successful")
		}
		if result.Message != "INSUFFICIENT_PAYER_BALANCE" {
			t.Fatalf("unexpected message: %q", result.Message)
		}
		if result.TransactionID != "" || result.Balance != nil || result.Account != nil {
			t.Fatalf("failure result carries a payload: %+v", result)
		}
	})

	t.Run("transaction success", func(t *testing.T) {
		result := SuccessWithTransaction("done", "0.0.2@1700000000.000000001")
		if !result.Success {
			t.Fatal("expected success")
		}
		if result.TransactionID == "" {
			t.Fatal("expected transaction id")
		}
		if result.Balance != nil || result.Account != nil {
			t.Fatalf("unexpected extra payload: %+v", result)
		}
	})

	t.Run("balance success", func(t *testing.T) {
		result := SuccessWithBalance("ok", BalanceInfo{HbarBalance: "10 ℏ"})
		if !result.Success || result.Balance == nil {
			t.Fatalf("expected balance payload: %+v", result)
		}
		if result.TransactionID != "" || result.Account != nil {
			t.Fatalf("unexpected extra payload: %+v", result)
		}
	})

	t.Run("account success", func(t *testing.T) {
		result := SuccessWithAccount("ok", AccountInfo{AccountID: "0.0.1001"})
		if !result.Success || result.Account == nil {
			t.Fatalf("expected account payload: %+v", result)
		}
		if result.TransactionID != "" || result.Balance != nil {
			t.Fatalf("unexpected extra payload: %+v", result)
		}
	})
}
