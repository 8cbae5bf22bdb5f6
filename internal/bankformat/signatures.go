package bankformat

import (
	"strings"

	"github.com/cleared-dev/bankfeed/internal/model"
)

// AIB matches exports with "Posted Transactions Date" / "Posted Account"
// headers and split debit/credit columns.
type AIB struct{}

// ID implements Signature.
func (AIB) ID() string { return "aib" }

// Match implements Signature.
func (AIB) Match(h Headers) (model.ColumnMapping, bool) {
	if h.Containing("posted transactions date") == "" && h.Containing("posted account") == "" {
		return model.ColumnMapping{}, false
	}
	m := model.ColumnMapping{
		Date:        firstOf(h.Containing("posted transactions date"), h.Containing("date")),
		Description: firstOf(h.Exact("description1"), h.Containing("description")),
		Credit:      h.Containing("credit"),
		Debit:       h.Containing("debit"),
		Reference:   reference(h),
	}
	if m.Credit == "" && m.Debit == "" {
		return model.ColumnMapping{}, false
	}
	return m, m.Complete()
}

// Revolut matches exports with "Completed Date"/"Started Date" and a single
// signed Amount column.
type Revolut struct{}

// ID implements Signature.
func (Revolut) ID() string { return "revolut" }

// Match implements Signature.
func (Revolut) Match(h Headers) (model.ColumnMapping, bool) {
	date := firstOf(h.Containing("completed", "date"), h.Containing("started", "date"))
	if date == "" {
		return model.ColumnMapping{}, false
	}
	m := model.ColumnMapping{
		Date:        date,
		Description: h.Exact("description"),
		Amount:      h.Exact("amount"),
		Reference:   reference(h),
	}
	return m, m.Complete()
}

// Generic is the fallback for unrecognized banks.
type Generic struct{}

// ID implements Signature.
func (Generic) ID() string { return "generic" }

// Match implements Signature.
func (Generic) Match(h Headers) (model.ColumnMapping, bool) {
	m := model.ColumnMapping{
		Date: h.Find(func(l string) bool {
			return strings.Contains(l, "date") && !strings.Contains(l, "balance")
		}),
		Description: firstOf(
			h.Containing("description"),
			h.Containing("narrative"),
			h.Containing("details"),
		),
		Amount:    h.Exact("amount"),
		Reference: reference(h),
	}
	if m.Amount == "" {
		m.Credit = h.Find(func(l string) bool {
			return strings.Contains(l, "credit") && !strings.Contains(l, "card")
		})
		m.Debit = h.Containing("debit")
	}
	return m, m.Complete()
}
