// Package categorize assigns chart-of-accounts categories to imported
// transactions.
package categorize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/bankfeed/internal/accounts"
	"github.com/cleared-dev/bankfeed/internal/model"
)

// RulesPath is the rules file location relative to the workspace root.
const RulesPath = "rules/categorization-rules.yaml"

// Rule maps a description substring to an account.
type Rule struct {
	Match     string          `yaml:"match"`
	AccountID int             `yaml:"account_id"`
	Direction model.Direction `yaml:"direction,omitempty"` // empty matches both
	Note      string          `yaml:"note,omitempty"`
}

// Rules is an ordered rule list. The first matching rule wins.
type Rules struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads a rules file.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	rs := &Rules{}
	if err := yaml.Unmarshal(data, rs); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	return rs, nil
}

// SaveRules writes a rules file, creating its directory.
func SaveRules(path string, rs *Rules) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating rules dir: %w", err)
	}
	data, err := yaml.Marshal(rs)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}

// DefaultRules returns the starter rule set written by init.
func DefaultRules() *Rules {
	return &Rules{Rules: []Rule{
		{Match: "hotel", AccountID: accounts.AccountAccommodation, Direction: model.DirectionExpense},
		{Match: "b&b", AccountID: accounts.AccountAccommodation, Direction: model.DirectionExpense},
		{Match: "circle k", AccountID: accounts.AccountMileage, Direction: model.DirectionExpense, Note: "fuel"},
		{Match: "applegreen", AccountID: accounts.AccountMileage, Direction: model.DirectionExpense, Note: "fuel"},
		{Match: "eflow", AccountID: accounts.AccountMileage, Direction: model.DirectionExpense, Note: "toll"},
		{Match: "irish rail", AccountID: accounts.AccountTravel, Direction: model.DirectionExpense},
		{Match: "github", AccountID: 5020, Direction: model.DirectionExpense},
		{Match: "google workspace", AccountID: 5020, Direction: model.DirectionExpense},
		{Match: "accountant", AccountID: 5040, Direction: model.DirectionExpense},
		{Match: "invoice", AccountID: 4010, Direction: model.DirectionIncome},
	}}
}

// Validate checks every rule against the chart of accounts.
func (rs *Rules) Validate(chart *accounts.Service) error {
	for i, r := range rs.Rules {
		if strings.TrimSpace(r.Match) == "" {
			return fmt.Errorf("rule %d: empty match", i+1)
		}
		acct, ok := chart.Get(r.AccountID)
		if !ok {
			return fmt.Errorf("rule %d (%q): account %d does not exist", i+1, r.Match, r.AccountID)
		}
		if !acct.Categorizable() {
			return fmt.Errorf("rule %d (%q): account %d is %s, not a category", i+1, r.Match, r.AccountID, acct.Type)
		}
		switch r.Direction {
		case "", model.DirectionIncome, model.DirectionExpense:
		default:
			return fmt.Errorf("rule %d (%q): unknown direction %q", i+1, r.Match, r.Direction)
		}
	}
	return nil
}

// Match returns the first rule whose text occurs in the description,
// ignoring case.
func (rs *Rules) Match(tx model.PersistedTransaction) (Rule, bool) {
	desc := strings.ToLower(tx.Description)
	for _, r := range rs.Rules {
		if r.Direction != "" && r.Direction != tx.Direction {
			continue
		}
		if strings.Contains(desc, strings.ToLower(r.Match)) {
			return r, true
		}
	}
	return Rule{}, false
}
