package trips

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bankfeed/internal/model"
	"github.com/cleared-dev/bankfeed/internal/places"
	"github.com/cleared-dev/bankfeed/internal/testutil"
)

func dublinBase(radius float64) Base {
	p, _ := places.Default().Lookup("Dublin")
	return Base{Place: p, LocalRadiusKm: radius}
}

func ids(trip model.DetectedTrip) []string {
	var out []string
	for _, m := range trip.Transactions {
		out = append(out, m.Transaction.ID)
	}
	return out
}

func TestDetect_GalwayTrip(t *testing.T) {
	txns := []model.PersistedTransaction{
		testutil.Expense(t, "t1", "2024-03-05", "TESCO RATHMINES", "42.15"),
		testutil.Expense(t, "t2", "2024-03-11", "CIRCLE K ATHLONE", "65.00"),
		testutil.Expense(t, "t3", "2024-03-11", "MALDRON HOTEL GALWAY", "120.00"),
		testutil.Expense(t, "t4", "2024-03-12", "BUSKERS CAFE GALWAY", "18.40"),
		testutil.Expense(t, "t5", "2024-03-12", "ATM GALWAY", "100.00"),
		{ID: "t6", Candidate: testutil.Candidate(t, "2024-03-12", "REFUND HOTEL GALWAY", "20", model.DirectionIncome)},
	}

	got := Detect(txns, dublinBase(25), Options{})
	require.Len(t, got, 1)

	trip := got[0]
	assert.Equal(t, "2024-03-001", trip.ID)
	assert.Equal(t, "Galway", trip.Location)
	assert.Equal(t, "Galway", trip.County)
	assert.Equal(t, "2024-03-11", trip.StartDate.Format(model.DateFormat))
	assert.Equal(t, "2024-03-12", trip.EndDate.Format(model.DateFormat))
	assert.Equal(t, 2, trip.Days())
	assert.Equal(t, []string{"t2", "t3", "t4"}, ids(trip))
	assert.Equal(t, "203.40", trip.TotalSpend.StringFixed(2))

	b := ExpenseBreakdown(trip)
	assert.Equal(t, "120.00", b.Accommodation.StringFixed(2))
	assert.Equal(t, "18.40", b.Subsistence.StringFixed(2))
	assert.Equal(t, "65.00", b.Transport.StringFixed(2))
	assert.True(t, b.Other.IsZero())
	assert.Equal(t, 1, AccommodationNights(trip))
}

func TestDetect_HomeCountyBeyondRadius(t *testing.T) {
	txns := []model.PersistedTransaction{
		testutil.Expense(t, "a", "2024-04-02", "SUPERMACS SWORDS", "11.50"),
	}

	assert.Empty(t, Detect(txns, dublinBase(25), Options{}))

	got := Detect(txns, dublinBase(5), Options{})
	require.Len(t, got, 1)
	assert.Equal(t, "Dublin", got[0].County)
	assert.Equal(t, "Swords", got[0].Location)
}

func TestDetect_GapSplitsTrips(t *testing.T) {
	txns := []model.PersistedTransaction{
		testutil.Expense(t, "a", "2024-03-11", "HOTEL GALWAY", "120"),
		testutil.Expense(t, "b", "2024-03-14", "CAFE GALWAY", "10"),
		testutil.Expense(t, "c", "2024-04-01", "CAFE CORK", "8"),
	}

	got := Detect(txns, dublinBase(25), Options{})
	require.Len(t, got, 3)
	assert.Equal(t, []string{"2024-03-001", "2024-03-002", "2024-04-001"}, []string{got[0].ID, got[1].ID, got[2].ID})

	got = Detect(txns, dublinBase(25), Options{MaxGapDays: 3})
	require.Len(t, got, 2)
	assert.Equal(t, []string{"a", "b"}, ids(got[0]))
}

func TestDetect_CountyChangeStartsNewTrip(t *testing.T) {
	txns := []model.PersistedTransaction{
		testutil.Expense(t, "a", "2024-03-11", "HOTEL GALWAY", "120"),
		testutil.Expense(t, "b", "2024-03-12", "HOTEL WESTPORT", "95"),
	}

	got := Detect(txns, dublinBase(25), Options{})
	require.Len(t, got, 2)
	assert.Equal(t, "Mayo", got[1].County)
}

func TestDetect_FuelStopOnWayHomeStaysWithTrip(t *testing.T) {
	txns := []model.PersistedTransaction{
		testutil.Expense(t, "a", "2024-03-11", "CIRCLE K ATHLONE", "65.00"),
		testutil.Expense(t, "b", "2024-03-11", "MALDRON HOTEL GALWAY", "120.00"),
		testutil.Expense(t, "c", "2024-03-12", "BUSKERS CAFE GALWAY", "18.40"),
		testutil.Expense(t, "d", "2024-03-12", "APPLEGREEN ATHLONE", "60.00"),
	}

	got := Detect(txns, dublinBase(25), Options{})
	require.Len(t, got, 1)
	trip := got[0]
	assert.Equal(t, "Galway", trip.County)
	assert.Equal(t, "2024-03-12", trip.EndDate.Format(model.DateFormat))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(trip))
	assert.Equal(t, "Athlone", trip.Transactions[3].Place)
	assert.Equal(t, "125.00", ExpenseBreakdown(trip).Transport.StringFixed(2))
}

func TestDetect_NonTransportElsewhereStillSplits(t *testing.T) {
	txns := []model.PersistedTransaction{
		testutil.Expense(t, "a", "2024-03-11", "HOTEL GALWAY", "120"),
		testutil.Expense(t, "b", "2024-03-12", "CAFE ATHLONE", "12"),
	}

	got := Detect(txns, dublinBase(25), Options{})
	require.Len(t, got, 2)
	assert.Equal(t, "Westmeath", got[1].County)
}

func TestDetect_ReturnToBaseClosesTrip(t *testing.T) {
	txns := []model.PersistedTransaction{
		testutil.Expense(t, "a", "2024-03-11", "CAFE GALWAY", "10"),
		testutil.Expense(t, "b", "2024-03-12", "TESCO RATHMINES", "30"),
		testutil.Expense(t, "c", "2024-03-12", "DELI GALWAY", "9"),
	}

	got := Detect(txns, dublinBase(25), Options{})
	require.Len(t, got, 2)
	assert.Equal(t, []string{"a"}, ids(got[0]))
	assert.Equal(t, []string{"c"}, ids(got[1]))
}

func TestDetect_UnlocatedSpendAttaches(t *testing.T) {
	txns := []model.PersistedTransaction{
		testutil.Expense(t, "a", "2024-03-11", "HOTEL GALWAY", "120"),
		testutil.Expense(t, "b", "2024-03-12", "CAFE GALWAY", "10"),
		testutil.Expense(t, "c", "2024-03-12", "NCP PARKING", "6"),
		testutil.Expense(t, "d", "2024-03-12", "AMAZON MARKETPLACE", "25"),
		testutil.Expense(t, "e", "2024-03-13", "NCP PARKING", "6"),
	}

	got := Detect(txns, dublinBase(25), Options{})
	require.Len(t, got, 1)
	assert.Equal(t, []string{"a", "b", "c"}, ids(got[0]))
	assert.Equal(t, model.ExpenseTransport, got[0].Transactions[2].Type)
	assert.Empty(t, got[0].Transactions[2].Place)
}

func TestDetect_JobWindowReclassifies(t *testing.T) {
	txns := []model.PersistedTransaction{
		testutil.Expense(t, "a", "2024-03-11", "HOTEL GALWAY", "120"),
		testutil.Expense(t, "b", "2024-03-11", "DUNNES STORES", "14.20"),
		testutil.Expense(t, "c", "2024-03-11", "TRANSFER TO SAVINGS", "500"),
	}
	jobs := []Window{{Start: testutil.Date(t, "2024-03-11"), End: testutil.Date(t, "2024-03-12")}}

	got := Detect(txns, dublinBase(25), Options{Jobs: jobs})
	require.Len(t, got, 1)
	assert.Equal(t, []string{"a", "b"}, ids(got[0]))
	assert.Equal(t, model.ExpenseSubsistence, got[0].Transactions[1].Type)

	got = Detect(txns, dublinBase(25), Options{})
	assert.Equal(t, []string{"a"}, ids(got[0]))
}

func TestDetect_Deterministic(t *testing.T) {
	txns := []model.PersistedTransaction{
		testutil.Expense(t, "b", "2024-03-12", "CAFE GALWAY", "10"),
		testutil.Expense(t, "a", "2024-03-11", "HOTEL GALWAY", "120"),
	}
	first := Detect(txns, dublinBase(25), Options{})
	second := Detect(txns, dublinBase(25), Options{})
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a", "b"}, ids(first[0]))
}

func TestDetect_ExtraPlace(t *testing.T) {
	g := places.Default()
	g.Add(places.Place{Name: "Lahinch", County: "Clare", Point: places.Point{Lat: 52.9336, Lon: -9.3442}})

	txns := []model.PersistedTransaction{testutil.Expense(t, "a", "2024-05-01", "LAHINCH SURF CAFE", "7")}
	got := Detect(txns, dublinBase(25), Options{Gazetteer: g})
	require.Len(t, got, 1)
	assert.Equal(t, "Clare", got[0].County)
}

func TestClassify(t *testing.T) {
	day := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	job := []Window{{Start: day, End: day}}
	tests := []struct {
		desc string
		jobs []Window
		want model.ExpenseType
	}{
		{"MALDRON HOTEL GALWAY", nil, model.ExpenseAccommodation},
		{"Airbnb * HMXYZ", nil, model.ExpenseAccommodation},
		{"BUSKERS CAFE", nil, model.ExpenseSubsistence},
		{"CENTRA ATHLONE", nil, model.ExpenseSubsistence},
		{"CIRCLE K ATHLONE", nil, model.ExpenseTransport},
		{"EFLOW TOLL", nil, model.ExpenseTransport},
		{"DUNNES STORES", nil, model.ExpenseOther},
		{"DUNNES STORES", job, model.ExpenseSubsistence},
		{"ATM GALWAY", job, model.ExpenseOther},
		{"REVENUE COMMISSIONERS", job, model.ExpenseOther},
		{"INNOVATION LABS", nil, model.ExpenseOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.desc, day, tt.jobs), tt.desc)
	}
}
