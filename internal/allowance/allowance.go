// Package allowance computes subsistence and mileage allowances for trips
// and invoiced jobs, and the resulting director's-loan movement.
package allowance

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bankfeed/internal/model"
	"github.com/cleared-dev/bankfeed/internal/places"
	"github.com/cleared-dev/bankfeed/internal/trips"
)

// Method is the subsistence basis chosen for a trip.
type Method string

const (
	MethodVouched Method = "vouched" // accommodation receipts + meal rate per night
	MethodFlat    Method = "flat"    // overnight rate per night
	MethodDay     Method = "day"     // day rate per day
	MethodNone    Method = "none"    // within the local radius of base
)

// Vehicle ownership values.
const (
	VehiclePersonal = "personal"
	VehicleCompany  = "company"
)

// ErrUnknownAddress is returned when an invoice address names no known place.
var ErrUnknownAddress = errors.New("address has no known place")

// Rates are the statutory allowance rates.
type Rates struct {
	Overnight    decimal.Decimal
	Day          decimal.Decimal
	MealDay      decimal.Decimal
	MileagePerKm decimal.Decimal
}

// DefaultRates are Irish civil service subsistence and motor rates.
func DefaultRates() Rates {
	return Rates{
		Overnight:    decimal.RequireFromString("205.53"),
		Day:          decimal.RequireFromString("46.17"),
		MealDay:      decimal.RequireFromString("46.17"),
		MileagePerKm: decimal.RequireFromString("0.5182"),
	}
}

// Director is the commuting profile allowances are computed for.
type Director struct {
	Base       trips.Base
	HomeCounty string
	Vehicle    string // VehiclePersonal or VehicleCompany
}

// Calculator computes allowances.
type Calculator struct {
	Rates    Rates
	Director Director
	Places   *places.Gazetteer
}

// Result is a computed allowance. Money is rounded to 2 decimals.
type Result struct {
	Days        int
	Nights      int
	DayUnits    int // days not covered by a night; reported, not paid separately
	Method      Method
	Subsistence decimal.Decimal
	DistanceKm  decimal.Decimal // round trip, 1 decimal
	Mileage     decimal.Decimal
	Expenses    decimal.Decimal
	// Allowance is Subsistence + Mileage.
	Allowance decimal.Decimal
	// DirectorsLoan is Allowance - Expenses; positive means the company owes the director.
	DirectorsLoan decimal.Decimal
}

// Job is an invoiced piece of work at a customer site.
type Job struct {
	Place places.Place
	Start time.Time
	End   time.Time // zero = single day
}

// Days returns the inclusive length of the job.
func (j Job) Days() int {
	if j.End.IsZero() || j.End.Before(j.Start) {
		return 1
	}
	return int(j.End.Sub(j.Start).Hours()/24) + 1
}

// input is what both trips and jobs reduce to.
type input struct {
	place             places.Place
	days              int
	explicitNights    bool
	accommodation     decimal.Decimal
	accommodationDays int
	expenses          decimal.Decimal
}

// ForTrip computes the allowance for a detected trip.
func (c *Calculator) ForTrip(t model.DetectedTrip) Result {
	b := trips.ExpenseBreakdown(t)
	return c.compute(input{
		place:             c.placeOf(t.Location, t.County),
		days:              t.Days(),
		accommodation:     b.Accommodation,
		accommodationDays: trips.AccommodationNights(t),
		expenses:          t.TotalSpend,
	})
}

// ForJob computes the allowance for a job, optionally backed by the trip
// whose spend it incurred.
func (c *Calculator) ForJob(j Job, t *model.DetectedTrip) Result {
	in := input{
		place:          j.Place,
		days:           j.Days(),
		explicitNights: j.Days() > 1,
		expenses:       decimal.Zero,
	}
	if t != nil {
		in.accommodation = trips.ExpenseBreakdown(*t).Accommodation
		in.accommodationDays = trips.AccommodationNights(*t)
		in.expenses = t.TotalSpend
	}
	return c.compute(in)
}

func (c *Calculator) compute(in input) Result {
	res := Result{
		Days:        in.days,
		Method:      MethodNone,
		Subsistence: decimal.Zero,
		DistanceKm:  decimal.Zero,
		Mileage:     decimal.Zero,
		Expenses:    in.expenses.Round(2),
	}

	if c.Director.Base.Away(in.place) {
		// Overnights are only allowed outside the home county.
		if !sameCounty(in.place.County, c.Director.HomeCounty) {
			switch {
			case in.explicitNights:
				res.Nights = in.days - 1
			case in.accommodationDays > 0:
				res.Nights = in.accommodationDays
			}
		}
		res.DayUnits = max(0, in.days-res.Nights)

		switch {
		case in.accommodation.IsPositive() && res.Nights > 0:
			res.Method = MethodVouched
			res.Subsistence = in.accommodation.Add(c.Rates.MealDay.Mul(decimal.NewFromInt(int64(res.Nights))))
		case res.Nights > 0:
			res.Method = MethodFlat
			res.Subsistence = c.Rates.Overnight.Mul(decimal.NewFromInt(int64(res.Nights)))
		default:
			res.Method = MethodDay
			res.Subsistence = c.Rates.Day.Mul(decimal.NewFromInt(int64(in.days)))
		}
		res.Subsistence = res.Subsistence.Round(2)

		if c.Director.Vehicle == VehiclePersonal {
			res.DistanceKm = decimal.NewFromFloat(2 * c.distanceKm(in.place)).Round(1)
			res.Mileage = res.DistanceKm.Mul(c.Rates.MileagePerKm).Round(2)
		}
	}

	res.Allowance = res.Subsistence.Add(res.Mileage)
	res.DirectorsLoan = res.Allowance.Sub(res.Expenses)
	return res
}

// distanceKm is one-way. Different counties are measured between county
// reference points; within the home county from base to the place itself.
func (c *Calculator) distanceKm(p places.Place) float64 {
	if sameCounty(p.County, c.Director.HomeCounty) {
		return places.DistanceKm(c.Director.Base.Place.Point, p.Point)
	}
	home, okHome := c.gazetteer().County(c.Director.HomeCounty)
	away, okAway := c.gazetteer().County(p.County)
	if !okHome || !okAway {
		return places.DistanceKm(c.Director.Base.Place.Point, p.Point)
	}
	return places.DistanceKm(home.Point, away.Point)
}

func (c *Calculator) placeOf(name, county string) places.Place {
	g := c.gazetteer()
	if p, ok := g.Lookup(name); ok {
		return p
	}
	if p, ok := g.County(county); ok {
		return p
	}
	return places.Place{Name: name, County: county}
}

func (c *Calculator) gazetteer() *places.Gazetteer {
	if c.Places == nil {
		c.Places = places.Default()
	}
	return c.Places
}

// LinkInvoice ties an invoice to the trip in the address's county that
// overlaps the job dates the most; ties go to the earliest start. The
// allowance is computed for the job window either way.
func (c *Calculator) LinkInvoice(inv model.Invoice, detected []model.DetectedTrip) (model.InvoiceTripLink, error) {
	p, ok := c.gazetteer().FindInText(inv.Address)
	if !ok {
		return model.InvoiceTripLink{Invoice: inv}, fmt.Errorf("linking invoice %s: %w: %q", inv.ID, ErrUnknownAddress, inv.Address)
	}
	job := Job{Place: p, Start: inv.JobStart, End: inv.JobEnd}
	jobEnd := inv.JobEnd
	if jobEnd.IsZero() {
		jobEnd = inv.JobStart
	}

	var best *model.DetectedTrip
	bestOverlap := 0
	for i := range detected {
		t := &detected[i]
		if !sameCounty(t.County, p.County) {
			continue
		}
		ov := overlapDays(inv.JobStart, jobEnd, t.StartDate, t.EndDate)
		if ov == 0 {
			continue
		}
		if ov > bestOverlap || (ov == bestOverlap && t.StartDate.Before(best.StartDate)) {
			best, bestOverlap = t, ov
		}
	}

	res := c.ForJob(job, best)
	link := model.InvoiceTripLink{
		Invoice:               inv,
		Subsistence:           res.Subsistence,
		Mileage:               res.Mileage,
		TotalRevenueAllowance: res.Allowance,
		TotalExpensesFromCSV:  res.Expenses,
		DirectorsLoanBalance:  res.DirectorsLoan,
	}
	if best != nil {
		trip := *best
		link.Trip = &trip
	}
	return link, nil
}

func overlapDays(aStart, aEnd, bStart, bEnd time.Time) int {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

func sameCounty(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
