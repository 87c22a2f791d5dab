package domain

import (
	"sort"
	"strings"
	"time"
)

// AccountType classifies a chart-of-accounts entry.
type AccountType string

const (
	AccountTypeAssets      AccountType = "assets"
	AccountTypeLiabilities AccountType = "liabilities"
	AccountTypeEquity      AccountType = "equity"
	AccountTypeRevenue     AccountType = "revenue"
	AccountTypeExpenses    AccountType = "expenses"
)

var validAccountTypes = map[AccountType]bool{
	AccountTypeAssets:      true,
	AccountTypeLiabilities: true,
	AccountTypeEquity:      true,
	AccountTypeRevenue:     true,
	AccountTypeExpenses:    true,
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	return validAccountTypes[t]
}

// IsCreditNormal reports whether the account grows on the credit side.
func (t AccountType) IsCreditNormal() bool {
	return t == AccountTypeLiabilities || t == AccountTypeEquity || t == AccountTypeRevenue
}

// IsBalanceSheet reports whether balances carry across fiscal years.
func (t AccountType) IsBalanceSheet() bool {
	return t == AccountTypeAssets || t == AccountTypeLiabilities || t == AccountTypeEquity
}

// IsTemporary reports whether the account is zeroed at year end.
func (t AccountType) IsTemporary() bool {
	return t == AccountTypeRevenue || t == AccountTypeExpenses
}

// AccountTypeFromCode derives the type from the leading digit of a code.
func AccountTypeFromCode(code string) (AccountType, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", false
	}

	switch code[0] {
	case '1':
		return AccountTypeAssets, true
	case '2':
		return AccountTypeLiabilities, true
	case '3':
		return AccountTypeEquity, true
	case '4':
		return AccountTypeRevenue, true
	case '5':
		return AccountTypeExpenses, true
	default:
		return "", false
	}
}

// Account is a chart-of-accounts entry of a company.
type Account struct {
	ID        string
	CompanyID string
	Code      string
	Name      string
	Type      AccountType
	ParentID  *string
	IsSystem  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccountIndex maps account IDs to accounts.
type AccountIndex map[string]*Account

// NewAccountIndex indexes accounts by ID.
func NewAccountIndex(accounts []*Account) AccountIndex {
	idx := make(AccountIndex, len(accounts))
	for _, a := range accounts {
		idx[a.ID] = a
	}
	return idx
}

// OfType returns the accounts of the given types ordered by code.
func (idx AccountIndex) OfType(types ...AccountType) []*Account {
	want := make(map[AccountType]bool, len(types))
	for _, t := range types {
		want[t] = true
	}

	var out []*Account
	for _, a := range idx {
		if want[a.Type] {
			out = append(out, a)
		}
	}
	sortAccountsByCode(out)

	return out
}

// FindRetainedEarnings resolves the retained earnings account. An explicit
// configured ID wins; otherwise the lowest equity code with the given prefix.
func (idx AccountIndex) FindRetainedEarnings(configuredID *string, codePrefix string) (*Account, error) {
	if configuredID != nil && *configuredID != "" {
		acc, ok := idx[*configuredID]
		if !ok {
			return nil, ErrRetainedEarningsNotConfigured
		}
		return acc, nil
	}

	if codePrefix == "" {
		return nil, ErrRetainedEarningsNotConfigured
	}

	for _, a := range idx.OfType(AccountTypeEquity) {
		if strings.HasPrefix(a.Code, codePrefix) {
			return a, nil
		}
	}

	return nil, ErrRetainedEarningsNotConfigured
}

func sortAccountsByCode(accounts []*Account) {
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Code != accounts[j].Code {
			return accounts[i].Code < accounts[j].Code
		}
		return accounts[i].ID < accounts[j].ID
	})
}
