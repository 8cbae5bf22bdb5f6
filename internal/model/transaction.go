package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the canonical calendar date layout.
const DateFormat = "2006-01-02"

// Direction says whether money came in or went out.
type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

// RawRow is one tokenized line with cells in file order.
type RawRow []string

// Candidate is a normalized transaction built from one CSV row.
type Candidate struct {
	Date        time.Time       // UTC midnight
	Description string
	Amount      decimal.Decimal // never negative; sign lives in Direction
	Direction   Direction
	Reference   string
	Line        int // 1-indexed line in the source file (header = 1)
}

// Signed returns the amount negated for expenses.
func (c Candidate) Signed() decimal.Decimal {
	if c.Direction == DirectionExpense {
		return c.Amount.Neg()
	}
	return c.Amount
}

// PersistedTransaction is a Candidate that was written to the store.
type PersistedTransaction struct {
	Candidate
	ID            string
	UserID        string
	AccountID     int
	ImportBatchID string // empty when batch creation failed
	CategoryID    int    // 0 = uncategorized
	Notes         string
}

// ImportBatch records one uploaded file.
type ImportBatch struct {
	ID        string
	UserID    string
	Filename  string
	RowCount  int
	CreatedAt time.Time
}
