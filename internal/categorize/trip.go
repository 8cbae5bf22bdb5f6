package categorize

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/cleared-dev/bankfeed/internal/accounts"
	"github.com/cleared-dev/bankfeed/internal/model"
	"github.com/cleared-dev/bankfeed/internal/store"
)

// ConfirmTrip books every member of a detected trip to the chart account
// tagged for its expense type. Detection never writes; this is the explicit
// write. Members are updated independently and all failures are returned
// together.
func ConfirmTrip(ctx context.Context, st store.Store, chart *accounts.Service, trip model.DetectedTrip) (int, error) {
	var (
		updated int
		errs    error
	)
	for _, m := range trip.Transactions {
		notes := fmt.Sprintf("trip %s: %s", trip.ID, trip.Location)
		if m.Transaction.Notes != "" {
			notes = m.Transaction.Notes + "; " + notes
		}
		acct, err := chart.TravelAccount(m.Type)
		if err == nil {
			err = st.UpdateCategory(ctx, m.Transaction.ID, acct, notes)
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("transaction %s: %w", m.Transaction.ID, err))
			continue
		}
		updated++
	}
	return updated, errs
}
