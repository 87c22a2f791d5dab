package domain

import (
	"errors"
	"testing"
)

func TestAccountTypeFromCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want AccountType
		ok   bool
	}{
		{"1001", AccountTypeAssets, true},
		{"2100", AccountTypeLiabilities, true},
		{"3301", AccountTypeEquity, true},
		{"4001", AccountTypeRevenue, true},
		{"5001", AccountTypeExpenses, true},
		{"9001", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := AccountTypeFromCode(tt.code)
		if got != tt.want || ok != tt.ok {
			t.Errorf("AccountTypeFromCode(%q) = (%s, %v), want (%s, %v)", tt.code, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAccountType_Classification(t *testing.T) {
	t.Parallel()

	for _, typ := range []AccountType{AccountTypeLiabilities, AccountTypeEquity, AccountTypeRevenue} {
		if !typ.IsCreditNormal() {
			t.Errorf("%s should be credit-normal", typ)
		}
	}
	for _, typ := range []AccountType{AccountTypeAssets, AccountTypeExpenses} {
		if typ.IsCreditNormal() {
			t.Errorf("%s should be debit-normal", typ)
		}
	}

	if AccountTypeRevenue.IsBalanceSheet() || !AccountTypeRevenue.IsTemporary() {
		t.Error("revenue is temporary")
	}
	if !AccountTypeEquity.IsBalanceSheet() || AccountTypeEquity.IsTemporary() {
		t.Error("equity is a balance sheet type")
	}
	if AccountType("other").Valid() {
		t.Error("unknown type reported valid")
	}
}

func TestAccountIndex_OfTypeOrdersByCode(t *testing.T) {
	t.Parallel()

	idx := NewAccountIndex([]*Account{
		{ID: "b", Code: "1200", Type: AccountTypeAssets},
		{ID: "a", Code: "1100", Type: AccountTypeAssets},
		{ID: "c", Code: "2100", Type: AccountTypeLiabilities},
		{ID: "d", Code: "4100", Type: AccountTypeRevenue},
	})

	got := idx.OfType(AccountTypeAssets, AccountTypeLiabilities)
	if len(got) != 3 || got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Fatalf("unexpected order: %v, %v, %v", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestAccountIndex_FindRetainedEarnings(t *testing.T) {
	t.Parallel()

	chart := testChart()

	t.Run("configured account wins", func(t *testing.T) {
		id := "capital"
		acc, err := chart.FindRetainedEarnings(&id, "33")
		if err != nil || acc.ID != "capital" {
			t.Fatalf("got (%v, %v)", acc, err)
		}
	})

	t.Run("configured account missing", func(t *testing.T) {
		id := "gone"
		_, err := chart.FindRetainedEarnings(&id, "33")
		if !errors.Is(err, ErrRetainedEarningsNotConfigured) {
			t.Fatalf("expected ErrRetainedEarningsNotConfigured, got %v", err)
		}
	})

	t.Run("prefix fallback", func(t *testing.T) {
		acc, err := chart.FindRetainedEarnings(nil, "33")
		if err != nil || acc.ID != "retained" {
			t.Fatalf("got (%v, %v)", acc, err)
		}
	})

	t.Run("prefix ignores non-equity", func(t *testing.T) {
		idx := NewAccountIndex([]*Account{{ID: "x", Code: "3301", Type: AccountTypeAssets}})
		_, err := idx.FindRetainedEarnings(nil, "33")
		if !errors.Is(err, ErrRetainedEarningsNotConfigured) {
			t.Fatalf("expected ErrRetainedEarningsNotConfigured, got %v", err)
		}
	})
}
