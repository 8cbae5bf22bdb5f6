package accounts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cleared-dev/bankfeed/internal/model"
)

// Chart column names. Columns are located by header, so charts written
// before the travel column existed still load.
const (
	colID      = "account_id"
	colName    = "account_name"
	colType    = "account_type"
	colParent  = "parent_id"
	colTaxLine = "tax_line"
	colDesc    = "description"
	colTravel  = "travel"
)

var chartHeader = []string{colID, colName, colType, colParent, colTaxLine, colDesc, colTravel}

// ReadAccounts reads chart-of-accounts.csv. A header-only file yields no accounts.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}
	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var accts []model.Account
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading accounts CSV: %w", err)
		}
		acct, err := cols.account(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		accts = append(accts, acct)
	}
	return accts, nil
}

// WriteAccounts writes chart-of-accounts.csv with every column.
func WriteAccounts(w io.Writer, accts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(chartHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, acct := range accts {
		if err := cw.Write(accountRow(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

func accountRow(acct model.Account) []string {
	parent := ""
	if acct.ParentID != 0 {
		parent = strconv.Itoa(acct.ParentID)
	}
	return []string{
		strconv.Itoa(acct.ID),
		acct.Name,
		string(acct.Type),
		parent,
		acct.TaxLine,
		acct.Description,
		string(acct.Travel),
	}
}

// columns maps a header name to its position in each record.
type columns map[string]int

func indexColumns(header []string) (columns, error) {
	cols := make(columns, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range []string{colID, colName, colType} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("chart of accounts header has no %s column", name)
		}
	}
	return cols, nil
}

func (c columns) field(rec []string, name string) string {
	i, ok := c[name]
	if !ok {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func (c columns) account(rec []string) (model.Account, error) {
	id, err := strconv.Atoi(c.field(rec, colID))
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing account_id %q: %w", c.field(rec, colID), err)
	}

	var parentID int
	if p := c.field(rec, colParent); p != "" {
		parentID, err = strconv.Atoi(p)
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing parent_id %q: %w", p, err)
		}
	}

	acctType := model.AccountType(c.field(rec, colType))
	switch acctType {
	case model.AccountTypeAsset, model.AccountTypeLiability, model.AccountTypeEquity,
		model.AccountTypeRevenue, model.AccountTypeExpense:
	default:
		return model.Account{}, fmt.Errorf("account %d: unknown account_type %q", id, acctType)
	}

	travel := model.ExpenseType(c.field(rec, colTravel))
	switch travel {
	case "", model.ExpenseAccommodation, model.ExpenseSubsistence, model.ExpenseTransport:
	default:
		return model.Account{}, fmt.Errorf("account %d: unknown travel tag %q", id, travel)
	}
	if travel != "" && acctType != model.AccountTypeExpense {
		return model.Account{}, fmt.Errorf("account %d: travel tag on non-expense account type %s", id, acctType)
	}

	return model.Account{
		ID:          id,
		Name:        c.field(rec, colName),
		Type:        acctType,
		ParentID:    parentID,
		TaxLine:     c.field(rec, colTaxLine),
		Description: c.field(rec, colDesc),
		Travel:      travel,
	}, nil
}
