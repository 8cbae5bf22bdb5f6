package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseType classifies travel-related spend.
type ExpenseType string

const (
	ExpenseAccommodation ExpenseType = "accommodation"
	ExpenseSubsistence   ExpenseType = "subsistence"
	ExpenseTransport     ExpenseType = "transport"
	ExpenseOther         ExpenseType = "other"
)

// TripTransaction is one member of a DetectedTrip.
type TripTransaction struct {
	Transaction PersistedTransaction
	Type        ExpenseType
	Place       string // inferred place name; empty when attached by date only
}

// DetectedTrip is a cluster of spend away from base. It is derived, never stored.
type DetectedTrip struct {
	ID           string
	Location     string
	County       string
	StartDate    time.Time
	EndDate      time.Time
	Transactions []TripTransaction
	TotalSpend   decimal.Decimal
}

// Days returns the inclusive number of calendar days the trip spans.
func (t DetectedTrip) Days() int {
	return int(t.EndDate.Sub(t.StartDate).Hours()/24) + 1
}

// SpendByType totals member amounts per expense type.
func (t DetectedTrip) SpendByType() map[ExpenseType]decimal.Decimal {
	totals := make(map[ExpenseType]decimal.Decimal)
	for _, m := range t.Transactions {
		totals[m.Type] = totals[m.Type].Add(m.Transaction.Amount)
	}
	return totals
}

// Invoice is a billed job at a customer site.
type Invoice struct {
	ID       string
	Customer string
	Address  string
	JobStart time.Time
	JobEnd   time.Time // zero = single-day job
}

// InvoiceTripLink ties an invoice to at most one trip and the allowances it earns.
type InvoiceTripLink struct {
	Invoice               Invoice
	Trip                  *DetectedTrip
	Subsistence           decimal.Decimal
	Mileage               decimal.Decimal
	TotalRevenueAllowance decimal.Decimal
	TotalExpensesFromCSV  decimal.Decimal
	DirectorsLoanBalance  decimal.Decimal // positive = company owes director
}
