package categorize

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/bankfeed/internal/logger"
	"github.com/cleared-dev/bankfeed/internal/model"
	"github.com/cleared-dev/bankfeed/internal/store"
)

// DefaultGroupSize is how many items are categorized concurrently.
const DefaultGroupSize = 5

// Decision is a categorizer's verdict for one transaction.
type Decision struct {
	AccountID int
	Notes     string
	Matched   bool
}

// Categorizer decides a category for one transaction.
type Categorizer interface {
	Categorize(ctx context.Context, tx model.PersistedTransaction) (Decision, error)
}

// RuleCategorizer categorizes by the first matching rule.
type RuleCategorizer struct {
	Rules *Rules
}

// Categorize implements Categorizer.
func (rc RuleCategorizer) Categorize(_ context.Context, tx model.PersistedTransaction) (Decision, error) {
	r, ok := rc.Rules.Match(tx)
	if !ok {
		return Decision{}, nil
	}
	return Decision{AccountID: r.AccountID, Notes: r.Note, Matched: true}, nil
}

// ItemResult is the outcome for one transaction.
type ItemResult struct {
	TransactionID string
	Decision      Decision
	Err           error
}

// Runner categorizes transactions in fixed-size concurrent groups, pausing
// between groups. One item failing never affects its siblings.
type Runner struct {
	Store       store.Store
	Categorizer Categorizer
	GroupSize   int
	Pace        time.Duration
}

// Run processes txns and returns one result per input, in input order.
// The returned error combines every item failure. Items not started
// before ctx is cancelled fail with the context error.
func (r *Runner) Run(ctx context.Context, txns []model.PersistedTransaction) ([]ItemResult, error) {
	size := r.GroupSize
	if size <= 0 {
		size = DefaultGroupSize
	}
	log := logger.Get()

	results := make([]ItemResult, len(txns))
	for i, tx := range txns {
		results[i].TransactionID = tx.ID
	}

	for start := 0; start < len(txns); start += size {
		if start > 0 && !r.wait(ctx) {
			for i := start; i < len(txns); i++ {
				results[i].Err = ctx.Err()
			}
			break
		}

		end := min(start+size, len(txns))
		// Failures stay in results so a failed item never cancels its siblings.
		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i].Decision, results[i].Err = r.one(ctx, txns[i])
				return nil
			})
		}
		_ = g.Wait()

		for i := start; i < end; i++ {
			if results[i].Err != nil {
				log.Warnw("categorization failed",
					"transaction", results[i].TransactionID,
					"error", results[i].Err,
				)
			}
		}
	}

	var err error
	for _, res := range results {
		if res.Err != nil {
			err = multierr.Append(err, fmt.Errorf("transaction %s: %w", res.TransactionID, res.Err))
		}
	}
	return results, err
}

func (r *Runner) one(ctx context.Context, tx model.PersistedTransaction) (d Decision, err error) {
	defer func() {
		if p := recover(); p != nil {
			d, err = Decision{}, fmt.Errorf("categorizer panicked: %v", p)
		}
	}()
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}
	d, err = r.Categorizer.Categorize(ctx, tx)
	if err != nil {
		return Decision{}, fmt.Errorf("categorizing: %w", err)
	}
	if !d.Matched {
		return d, nil
	}
	if err := r.Store.UpdateCategory(ctx, tx.ID, d.AccountID, d.Notes); err != nil {
		return Decision{}, fmt.Errorf("saving category: %w", err)
	}
	return d, nil
}

// wait sleeps for Pace and reports false if ctx ended first.
func (r *Runner) wait(ctx context.Context) bool {
	if r.Pace <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(r.Pace)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Uncategorized filters txns down to those without a category.
func Uncategorized(txns []model.PersistedTransaction) []model.PersistedTransaction {
	var out []model.PersistedTransaction
	for _, tx := range txns {
		if tx.CategoryID == 0 {
			out = append(out, tx)
		}
	}
	return out
}

// Summary counts matched, unmatched and failed items.
func Summary(results []ItemResult) (matched, unmatched, failed int) {
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
		case r.Decision.Matched:
			matched++
		default:
			unmatched++
		}
	}
	return matched, unmatched, failed
}
