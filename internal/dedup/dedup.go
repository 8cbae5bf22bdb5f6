// Package dedup flags candidates that already exist in the store.
package dedup

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bankfeed/internal/model"
)

// Fingerprint returns the content key for a transaction. It ignores
// description case, surrounding whitespace and the sign of amount.
func Fingerprint(description string, date time.Time, amount decimal.Decimal) string {
	return strings.ToLower(strings.TrimSpace(description)) + "|" +
		date.Format(model.DateFormat) + "|" +
		amount.Abs().StringFixed(2)
}

// FingerprintOf returns the fingerprint of a candidate.
func FingerprintOf(c model.Candidate) string {
	return Fingerprint(c.Description, c.Date, c.Amount)
}

// FingerprintOfTransaction fingerprints a stored transaction.
func FingerprintOfTransaction(tx model.PersistedTransaction) string {
	return FingerprintOf(tx.Candidate)
}

// Set is a set of fingerprints fetched from the store.
type Set map[string]struct{}

// NewSet fingerprints previously persisted transactions.
func NewSet(existing []model.PersistedTransaction) Set {
	s := make(Set, len(existing))
	for _, tx := range existing {
		s[FingerprintOfTransaction(tx)] = struct{}{}
	}
	return s
}

// Contains reports whether c matches a stored transaction.
func (s Set) Contains(c model.Candidate) bool {
	_, ok := s[FingerprintOf(c)]
	return ok
}

// Result splits candidates into unique and duplicate lists, keeping input order.
type Result struct {
	Unique     []model.Candidate
	Duplicates []model.Candidate
	// Flags[i] is true when candidate i was a duplicate.
	Flags []bool
}

// Check compares candidates against the set. Two identical candidates in
// the same file are both unique unless the store already has them.
func (s Set) Check(candidates []model.Candidate) Result {
	res := Result{Flags: make([]bool, len(candidates))}
	for i, c := range candidates {
		if s.Contains(c) {
			res.Flags[i] = true
			res.Duplicates = append(res.Duplicates, c)
			continue
		}
		res.Unique = append(res.Unique, c)
	}
	return res
}

// Filter returns the candidates to import. With skip false duplicates are
// imported too.
func (r Result) Filter(skip bool, all []model.Candidate) []model.Candidate {
	if skip {
		return r.Unique
	}
	return all
}

// Window returns the date range to fetch existing fingerprints for,
// widened backwards by lookbackDays. ok is false for no candidates.
func Window(candidates []model.Candidate, lookbackDays int) (from, to time.Time, ok bool) {
	for i, c := range candidates {
		if i == 0 || c.Date.Before(from) {
			from = c.Date
		}
		if i == 0 || c.Date.After(to) {
			to = c.Date
		}
	}
	if len(candidates) == 0 {
		return from, to, false
	}
	return from.AddDate(0, 0, -lookbackDays), to, true
}
