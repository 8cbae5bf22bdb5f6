package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/cleared-dev/bankfeed/internal/allowance"
	"github.com/cleared-dev/bankfeed/internal/categorize"
	"github.com/cleared-dev/bankfeed/internal/id"
	"github.com/cleared-dev/bankfeed/internal/logger"
	"github.com/cleared-dev/bankfeed/internal/model"
	"github.com/cleared-dev/bankfeed/internal/trips"
)

type tripsOptions struct {
	repoDir string
	from    string
	to      string
	confirm []string
}

func newTripsCommand() *cobra.Command {
	var opts tripsOptions

	cmd := &cobra.Command{
		Use:   "trips",
		Short: "Detect trips away from base and compute allowances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrips(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.repoDir, "repo", ".", "workspace directory")
	f.StringVar(&opts.from, "from", "", "first date to consider (YYYY-MM-DD)")
	f.StringVar(&opts.to, "to", "", "last date to consider (YYYY-MM-DD)")
	f.StringSliceVar(&opts.confirm, "confirm", nil, "trip IDs to book to travel accounts")

	cmd.AddCommand(newTripsLinkCommand())
	return cmd
}

func parseDateFlag(name, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(model.DateFormat, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: expected YYYY-MM-DD, got %q", name, v)
	}
	return d, nil
}

// detectTrips loads the user's transactions in [from, to] and clusters them.
func detectTrips(ctx context.Context, ws *workspace, from, to time.Time, jobs []trips.Window) ([]model.DetectedTrip, error) {
	base, err := ws.base()
	if err != nil {
		return nil, err
	}
	txns, err := ws.store.ListTransactions(ctx, ws.cfg.Import.UserID, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	detected := trips.Detect(txns, base, trips.Options{
		Gazetteer:  ws.places,
		Jobs:       jobs,
		MaxGapDays: ws.cfg.Trips.MaxGapDays,
	})
	logger.Get().Infow("trips detected", "transactions", len(txns), "trips", len(detected))
	return detected, nil
}

func runTrips(ctx context.Context, out io.Writer, opts tripsOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	from, err := parseDateFlag("from", opts.from)
	if err != nil {
		return err
	}
	to, err := parseDateFlag("to", opts.to)
	if err != nil {
		return err
	}

	ws, err := openWorkspace(opts.repoDir)
	if err != nil {
		return err
	}
	defer ws.Close()

	detected, err := detectTrips(ctx, ws, from, to, nil)
	if err != nil {
		return err
	}
	calc, err := ws.calculator()
	if err != nil {
		return err
	}

	if len(detected) == 0 {
		fmt.Fprintln(out, "No trips detected")
	}
	for _, t := range detected {
		printTrip(out, t, calc.ForTrip(t))
	}

	return confirmTrips(ctx, out, ws, detected, opts.confirm)
}

func confirmTrips(ctx context.Context, out io.Writer, ws *workspace, detected []model.DetectedTrip, tripIDs []string) error {
	var errs error
	for _, tripID := range tripIDs {
		if _, _, _, err := id.ParseTripID(tripID); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		var found *model.DetectedTrip
		for i := range detected {
			if detected[i].ID == tripID {
				found = &detected[i]
				break
			}
		}
		if found == nil {
			errs = multierr.Append(errs, fmt.Errorf("trip %s not found", tripID))
			continue
		}
		n, err := categorize.ConfirmTrip(ctx, ws.store, ws.chart, *found)
		fmt.Fprintf(out, "Confirmed trip %s: %d transactions booked\n", tripID, n)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("confirming trip %s: %w", tripID, err))
		}
	}
	return errs
}

func printTrip(out io.Writer, t model.DetectedTrip, r allowance.Result) {
	fmt.Fprintf(out, "%s  %s, Co. %s  %s to %s (%d days)\n",
		t.ID, t.Location, t.County,
		t.StartDate.Format(model.DateFormat), t.EndDate.Format(model.DateFormat), t.Days())
	b := trips.ExpenseBreakdown(t)
	fmt.Fprintf(out, "  spend:        %s (accommodation %s, subsistence %s, transport %s, other %s)\n",
		t.TotalSpend.StringFixed(2), b.Accommodation.StringFixed(2), b.Subsistence.StringFixed(2),
		b.Transport.StringFixed(2), b.Other.StringFixed(2))
	fmt.Fprintf(out, "  subsistence:  %s (%s, %d nights)\n", r.Subsistence.StringFixed(2), r.Method, r.Nights)
	fmt.Fprintf(out, "  mileage:      %s (%s km)\n", r.Mileage.StringFixed(2), r.DistanceKm.StringFixed(1))
	fmt.Fprintf(out, "  director's loan: %s\n", r.DirectorsLoan.StringFixed(2))
}

type linkOptions struct {
	repoDir  string
	invoice  string
	customer string
	address  string
	start    string
	end      string
}

func newTripsLinkCommand() *cobra.Command {
	var opts linkOptions

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Link an invoiced job to the trip that served it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTripsLink(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.repoDir, "repo", ".", "workspace directory")
	f.StringVar(&opts.invoice, "invoice", "", "invoice number (required)")
	f.StringVar(&opts.customer, "customer", "", "customer name")
	f.StringVar(&opts.address, "address", "", "job site address (required)")
	f.StringVar(&opts.start, "start", "", "job start date YYYY-MM-DD (required)")
	f.StringVar(&opts.end, "end", "", "job end date YYYY-MM-DD (default: start)")
	_ = cmd.MarkFlagRequired("invoice")
	_ = cmd.MarkFlagRequired("address")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func runTripsLink(ctx context.Context, out io.Writer, opts linkOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	start, err := parseDateFlag("start", opts.start)
	if err != nil {
		return err
	}
	end, err := parseDateFlag("end", opts.end)
	if err != nil {
		return err
	}
	if !end.IsZero() && end.Before(start) {
		return fmt.Errorf("--end %s is before --start %s", opts.end, opts.start)
	}

	ws, err := openWorkspace(opts.repoDir)
	if err != nil {
		return err
	}
	defer ws.Close()

	// Trips that could overlap the job: a day either side for travel.
	job := trips.Window{Start: start, End: lastDay(start, end)}
	detected, err := detectTrips(ctx, ws, start.AddDate(0, 0, -1), job.End.AddDate(0, 0, 1), []trips.Window{job})
	if err != nil {
		return err
	}
	calc, err := ws.calculator()
	if err != nil {
		return err
	}

	link, err := calc.LinkInvoice(model.Invoice{
		ID:       opts.invoice,
		Customer: opts.customer,
		Address:  opts.address,
		JobStart: start,
		JobEnd:   end,
	}, detected)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Invoice %s\n", link.Invoice.ID)
	if link.Trip != nil {
		fmt.Fprintf(out, "  trip:         %s (%s, Co. %s)\n", link.Trip.ID, link.Trip.Location, link.Trip.County)
	} else {
		fmt.Fprintln(out, "  trip:         none")
	}
	fmt.Fprintf(out, "  subsistence:  %s\n", link.Subsistence.StringFixed(2))
	fmt.Fprintf(out, "  mileage:      %s\n", link.Mileage.StringFixed(2))
	fmt.Fprintf(out, "  allowance:    %s\n", link.TotalRevenueAllowance.StringFixed(2))
	fmt.Fprintf(out, "  expenses:     %s\n", link.TotalExpensesFromCSV.StringFixed(2))
	fmt.Fprintf(out, "  director's loan: %s\n", link.DirectorsLoanBalance.StringFixed(2))
	return nil
}

func lastDay(start, end time.Time) time.Time {
	if end.IsZero() {
		return start
	}
	return end
}
