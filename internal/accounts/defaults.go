package accounts

import "github.com/cleared-dev/bankfeed/internal/model"

// Well-known account IDs in the default chart.
const (
	AccountBusinessCurrent = 1010
	AccountDirectorsLoan   = 2100
	AccountSubsistence     = 5300
	AccountAccommodation   = 5310
	AccountMileage         = 5320
	AccountTravel          = 5330
)

// DefaultChart returns the default chart of accounts for an entity type.
// Sole traders have no director's loan account.
func DefaultChart(entityType string) []model.Account {
	chart := companyChart()
	if entityType != "sole_trader" {
		return chart
	}
	out := chart[:0:0]
	for _, a := range chart {
		if a.ID != AccountDirectorsLoan {
			out = append(out, a)
		}
	}
	return out
}

func companyChart() []model.Account {
	return []model.Account{
		{ID: AccountBusinessCurrent, Name: "Business Current Account", Type: model.AccountTypeAsset, Description: "Primary bank account"},
		{ID: 1020, Name: "Business Savings", Type: model.AccountTypeAsset, Description: "Deposit account"},
		{ID: 2010, Name: "Credit Card", Type: model.AccountTypeLiability, Description: "Business credit card"},
		{ID: AccountDirectorsLoan, Name: "Director's Loan Account", Type: model.AccountTypeLiability, Description: "Amounts owed to or by the director"},
		{ID: 3010, Name: "Share Capital", Type: model.AccountTypeEquity},
		{ID: 4010, Name: "Consultancy Revenue", Type: model.AccountTypeRevenue},
		{ID: 4020, Name: "Product Revenue", Type: model.AccountTypeRevenue},
		{ID: 5010, Name: "Advertising & Marketing", Type: model.AccountTypeExpense, TaxLine: "ct1_advertising", Description: "Advertising costs"},
		{ID: 5020, Name: "Software & SaaS", Type: model.AccountTypeExpense, TaxLine: "ct1_general", Description: "Software subscriptions"},
		{ID: 5030, Name: "Office Supplies", Type: model.AccountTypeExpense, TaxLine: "ct1_general", Description: "Office supplies and expenses"},
		{ID: 5040, Name: "Professional Fees", Type: model.AccountTypeExpense, TaxLine: "ct1_professional", Description: "Legal, accounting, consulting"},
		{ID: AccountSubsistence, Name: "Travel Subsistence", Type: model.AccountTypeExpense, TaxLine: "ct1_travel", Description: "Meals and day allowances while away from base", Travel: model.ExpenseSubsistence},
		{ID: AccountAccommodation, Name: "Accommodation", Type: model.AccountTypeExpense, TaxLine: "ct1_travel", Description: "Hotels and overnight stays", Travel: model.ExpenseAccommodation},
		{ID: AccountMileage, Name: "Motor & Mileage", Type: model.AccountTypeExpense, TaxLine: "ct1_motor", Description: "Fuel, tolls and civil service mileage"},
		{ID: AccountTravel, Name: "Travel & Transport", Type: model.AccountTypeExpense, TaxLine: "ct1_travel", Description: "Parking, taxis, public transport", Travel: model.ExpenseTransport},
	}
}
