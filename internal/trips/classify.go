package trips

import (
	"time"

	"github.com/cleared-dev/bankfeed/internal/model"
	"github.com/cleared-dev/bankfeed/internal/places"
)

// Keyword tables are checked in order; the first hit wins.
var (
	accommodationWords = []string{
		"hotel", "b&b", "bnb", "airbnb", "booking.com", "inn", "lodge", "guesthouse", "guest house", "hostel",
	}
	subsistenceWords = []string{
		"restaurant", "cafe", "café", "coffee", "deli", "food", "bar", "pub", "spar", "centra", "mace",
		"mcdonald", "mcdonalds", "supermacs", "costa", "starbucks", "subway", "lunch", "dinner", "breakfast",
	}
	transportWords = []string{
		"fuel", "petrol", "diesel", "circle k", "applegreen", "maxol", "texaco", "topaz", "parking", "toll",
		"eflow", "taxi", "freenow", "irish rail", "iarnrod", "rail", "bus", "luas", "citylink", "aircoach",
	}
	// Never travel spend, even inside a job window.
	excludedWords = []string{"transfer", "atm", "revenue", "loan", "salary", "wages", "dividend"}
)

// Window is an inclusive date range during which a job was active.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d time.Time) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Excluded reports whether a description is never travel spend.
func Excluded(description string) bool {
	return hasAny(description, excludedWords)
}

// Classify assigns an expense type from the description. Unmatched spend
// inside a job window counts as subsistence.
func Classify(description string, date time.Time, jobs []Window) model.ExpenseType {
	switch {
	case Excluded(description):
		return model.ExpenseOther
	case hasAny(description, accommodationWords):
		return model.ExpenseAccommodation
	case hasAny(description, subsistenceWords):
		return model.ExpenseSubsistence
	case hasAny(description, transportWords):
		return model.ExpenseTransport
	}
	for _, w := range jobs {
		if w.Contains(date) {
			return model.ExpenseSubsistence
		}
	}
	return model.ExpenseOther
}

func hasAny(text string, words []string) bool {
	for _, w := range words {
		if places.HasWord(text, w) {
			return true
		}
	}
	return false
}
