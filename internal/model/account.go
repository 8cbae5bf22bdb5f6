package model

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// Account is a row in chart-of-accounts.csv. Imported transactions are
// categorized against these IDs.
type Account struct {
	ID          int
	Name        string
	Type        AccountType
	ParentID    int // 0 = top-level
	TaxLine     string
	Description string
	Travel      ExpenseType // trip members of this type are booked here
}

// Categorizable reports whether bank transactions may be booked to the account.
func (a Account) Categorizable() bool {
	return a.Type == AccountTypeExpense || a.Type == AccountTypeRevenue || a.Type == AccountTypeLiability
}
