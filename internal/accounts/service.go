package accounts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/bankfeed/internal/model"
)

// ChartPath is the chart location relative to the workspace root.
const ChartPath = "accounts/chart-of-accounts.csv"

// Service looks up categories in the chart of accounts.
type Service struct {
	accounts []model.Account
	byID     map[int]model.Account
	travel   map[model.ExpenseType]int
}

// NewService indexes accounts by ID and by travel tag. The first account
// carrying a tag wins.
func NewService(accounts []model.Account) *Service {
	byID := make(map[int]model.Account, len(accounts))
	travel := make(map[model.ExpenseType]int)
	for _, a := range accounts {
		byID[a.ID] = a
		if _, seen := travel[a.Travel]; a.Travel != "" && !seen {
			travel[a.Travel] = a.ID
		}
	}
	return &Service{accounts: accounts, byID: byID, travel: travel}
}

// Load reads the chart of accounts under root.
func Load(root string) (*Service, error) {
	f, err := os.Open(filepath.Join(root, ChartPath))
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns every account in file order.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by ID.
func (s *Service) Get(id int) (model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id int) bool {
	_, ok := s.byID[id]
	return ok
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// Categories returns the accounts bank transactions may be categorized to.
func (s *Service) Categories() []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Categorizable() {
			result = append(result, a)
		}
	}
	return result
}

// TravelAccount returns the account a trip member of type t is booked to,
// taken from the chart's travel column. Types with no tagged account fall
// back to the subsistence account.
func (s *Service) TravelAccount(t model.ExpenseType) (int, error) {
	if id, ok := s.travel[t]; ok {
		return id, nil
	}
	if id, ok := s.travel[model.ExpenseSubsistence]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("no account in the chart is tagged for %s travel", t)
}

// ByName finds an account by case-insensitive name.
func (s *Service) ByName(name string) (model.Account, bool) {
	for _, a := range s.accounts {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return model.Account{}, false
}

// Save writes the chart of accounts under root.
func (s *Service) Save(root string) error {
	path := filepath.Join(root, ChartPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}
