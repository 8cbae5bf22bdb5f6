package testutil

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bankfeed/internal/model"
)

// Date returns UTC midnight for an ISO date, failing the test on bad input.
func Date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(model.DateFormat, s)
	if err != nil {
		t.Fatalf("bad fixture date %q: %v", s, err)
	}
	return d
}

// Expense builds a persisted expense for trip and allowance tests.
func Expense(t *testing.T, id, date, desc, amount string) model.PersistedTransaction {
	t.Helper()
	return model.PersistedTransaction{
		ID: id,
		Candidate: model.Candidate{
			Date:        Date(t, date),
			Description: desc,
			Amount:      decimal.RequireFromString(amount),
			Direction:   model.DirectionExpense,
		},
	}
}

// Candidate builds an import candidate.
func Candidate(t *testing.T, date, desc, amount string, dir model.Direction) model.Candidate {
	t.Helper()
	return model.Candidate{
		Date:        Date(t, date),
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Direction:   dir,
	}
}
