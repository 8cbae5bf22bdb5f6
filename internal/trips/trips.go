// Package trips derives work trips away from base from persisted expenses.
// Detection is a pure function of its inputs; confirming a trip is a
// separate write done by the caller.
package trips

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bankfeed/internal/id"
	"github.com/cleared-dev/bankfeed/internal/model"
	"github.com/cleared-dev/bankfeed/internal/places"
)

// DefaultMaxGapDays is how many days may pass between located spends of one trip.
const DefaultMaxGapDays = 1

// Base is where the director normally works from.
type Base struct {
	Place         places.Place
	LocalRadiusKm float64
}

// Away reports whether p is outside the base's local area.
func (b Base) Away(p places.Place) bool {
	if p.Name == b.Place.Name {
		return false
	}
	if p.County != b.Place.County {
		return true
	}
	return places.DistanceKm(p.Point, b.Place.Point) > b.LocalRadiusKm
}

// Options tunes Detect.
type Options struct {
	Gazetteer  *places.Gazetteer // defaults to places.Default()
	Jobs       []Window
	MaxGapDays int // 0 means DefaultMaxGapDays
}

// Detect clusters expenses into trips. Transactions are visited by date; a
// spend located away from base extends the open trip when it is in the same
// county within MaxGapDays of the trip's last day, otherwise it opens a new
// trip. A trip holding only transport spend moves to the next county
// reached within the gap; transport spend in another county within the gap
// of a settled trip is its return leg and stays with it. A located spend back at base after the trip's last day closes it.
// Unlocated travel spend dated inside a trip joins that trip.
func Detect(txns []model.PersistedTransaction, base Base, opts Options) []model.DetectedTrip {
	g := opts.Gazetteer
	if g == nil {
		g = places.Default()
	}
	maxGap := opts.MaxGapDays
	if maxGap <= 0 {
		maxGap = DefaultMaxGapDays
	}

	expenses := make([]model.PersistedTransaction, 0, len(txns))
	for _, tx := range txns {
		if tx.Direction == model.DirectionExpense && !Excluded(tx.Description) {
			expenses = append(expenses, tx)
		}
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		if !expenses[i].Date.Equal(expenses[j].Date) {
			return expenses[i].Date.Before(expenses[j].Date)
		}
		return expenses[i].ID < expenses[j].ID
	})

	var (
		trips    []*model.DetectedTrip
		open     *model.DetectedTrip
		unplaced []model.TripTransaction
	)
	for _, tx := range expenses {
		member := model.TripTransaction{
			Transaction: tx,
			Type:        Classify(tx.Description, tx.Date, opts.Jobs),
		}
		p, located := g.FindInText(tx.Description)
		switch {
		case !located:
			if member.Type != model.ExpenseOther {
				unplaced = append(unplaced, member)
			}
		case !base.Away(p):
			if open != nil && tx.Date.After(open.EndDate) {
				open = nil
			}
		default:
			member.Place = p.Name
			if open != nil && daysBetween(open.EndDate, tx.Date) <= maxGap {
				// Fuel stops on the way belong to the destination's trip.
				if open.County != p.County && enRoute(open) {
					open.Location, open.County = p.Name, p.County
				}
				// So do fuel stops on the way home.
				if open.County == p.County || member.Type == model.ExpenseTransport {
					open.Transactions = append(open.Transactions, member)
					if tx.Date.After(open.EndDate) {
						open.EndDate = tx.Date
					}
					continue
				}
			}
			open = &model.DetectedTrip{
				Location:     p.Name,
				County:       p.County,
				StartDate:    tx.Date,
				EndDate:      tx.Date,
				Transactions: []model.TripTransaction{member},
			}
			trips = append(trips, open)
		}
	}

	for _, m := range unplaced {
		for _, t := range trips {
			if !m.Transaction.Date.Before(t.StartDate) && !m.Transaction.Date.After(t.EndDate) {
				t.Transactions = append(t.Transactions, m)
				break
			}
		}
	}

	var seq id.Sequencer
	out := make([]model.DetectedTrip, len(trips))
	for i, t := range trips {
		sort.SliceStable(t.Transactions, func(a, b int) bool {
			return t.Transactions[a].Transaction.Date.Before(t.Transactions[b].Transaction.Date)
		})
		t.TotalSpend = decimal.Zero
		for _, m := range t.Transactions {
			t.TotalSpend = t.TotalSpend.Add(m.Transaction.Amount)
		}
		t.ID = seq.Next(t.StartDate)
		out[i] = *t
	}
	return out
}

// Breakdown totals a trip's spend by expense type.
type Breakdown struct {
	Accommodation decimal.Decimal
	Subsistence   decimal.Decimal
	Transport     decimal.Decimal
	Other         decimal.Decimal
}

// ExpenseBreakdown totals a trip's members per expense type.
func ExpenseBreakdown(t model.DetectedTrip) Breakdown {
	by := t.SpendByType()
	return Breakdown{
		Accommodation: by[model.ExpenseAccommodation],
		Subsistence:   by[model.ExpenseSubsistence],
		Transport:     by[model.ExpenseTransport],
		Other:         by[model.ExpenseOther],
	}
}

// AccommodationNights counts distinct dates with an accommodation spend.
func AccommodationNights(t model.DetectedTrip) int {
	dates := make(map[string]bool)
	for _, m := range t.Transactions {
		if m.Type == model.ExpenseAccommodation {
			dates[m.Transaction.Date.Format(model.DateFormat)] = true
		}
	}
	return len(dates)
}

// enRoute reports whether every member so far is transport spend.
func enRoute(t *model.DetectedTrip) bool {
	for _, m := range t.Transactions {
		if m.Type != model.ExpenseTransport {
			return false
		}
	}
	return true
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
