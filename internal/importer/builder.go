package importer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bankfeed/internal/model"
	"github.com/cleared-dev/bankfeed/internal/normalize"
	"github.com/cleared-dev/bankfeed/internal/tokenizer"
)

// ErrNoMapping means the mapping names no usable amount column or refers to
// headers missing from the file. Callers should ask for a manual mapping.
var ErrNoMapping = errors.New("no usable column mapping")

// unknownDescription replaces blank description cells.
const unknownDescription = "Unknown"

// UnparsedDatePolicy controls rows whose date cell matches no layout.
type UnparsedDatePolicy string

const (
	// UnparsedDrop drops the row and counts it in Stats.UnparsedDate.
	UnparsedDrop UnparsedDatePolicy = "drop"
	// UnparsedToday substitutes the current date.
	UnparsedToday UnparsedDatePolicy = "today"
)

// BuildOptions tunes Build.
type BuildOptions struct {
	UnparsedDates UnparsedDatePolicy
	Now           func() time.Time // defaults to time.Now
}

// Stats counts what happened to each data row.
type Stats struct {
	// Total counts every non-blank data line, including sparse ones.
	Total        int
	SparseRows   int
	ShortRows    int
	ZeroAmount   int
	UnparsedDate int
	Parsed       int
}

// Summary returns the user-facing "N of M rows parsed" line.
func (s Stats) Summary() string {
	return fmt.Sprintf("%d of %d rows parsed", s.Parsed, s.Total)
}

// BuildResult holds candidates and drop counts.
type BuildResult struct {
	Candidates []model.Candidate
	Stats      Stats
}

// Columns holds resolved header indices; -1 = unmapped.
type Columns struct {
	Date, Description, Amount, Credit, Debit, Reference int
	// Max is the highest referenced index; shorter rows are dropped.
	Max int
}

// ResolveMapping converts header names in m to column indices.
func ResolveMapping(headers []string, m model.ColumnMapping) (Columns, error) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}

	cols := Columns{Max: -1}
	var missing []string
	lookup := func(name string, required bool) int {
		if name == "" {
			if required {
				missing = append(missing, "(unmapped)")
			}
			return -1
		}
		i, ok := index[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		if i > cols.Max {
			cols.Max = i
		}
		return i
	}

	if !m.HasAmount() {
		return cols, fmt.Errorf("%w: no amount, credit or debit column", ErrNoMapping)
	}
	cols.Date = lookup(m.Date, true)
	cols.Description = lookup(m.Description, true)
	cols.Amount = lookup(m.Amount, false)
	cols.Credit = lookup(m.Credit, false)
	cols.Debit = lookup(m.Debit, false)
	cols.Reference = lookup(m.Reference, false)
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: columns %v not found", ErrNoMapping, missing)
	}
	return cols, nil
}

// Build applies m to every data row of t. An unresolvable mapping yields no
// candidates; per-row problems drop the row and are tallied in Stats.
func Build(t *tokenizer.Table, m model.ColumnMapping, opts BuildOptions) BuildResult {
	res := BuildResult{Stats: Stats{Total: len(t.Rows) + t.Sparse, SparseRows: t.Sparse}}

	cols, err := ResolveMapping(t.Headers, m)
	if err != nil {
		return res
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	for i, row := range t.Rows {
		if len(row) <= cols.Max {
			res.Stats.ShortRows++
			continue
		}

		var date time.Time
		if opts.UnparsedDates == UnparsedToday {
			date = normalize.ParseDateOr(row[cols.Date], now())
		} else {
			date, err = normalize.ParseDate(row[cols.Date])
			if err != nil {
				res.Stats.UnparsedDate++
				continue
			}
		}

		amount, dir := resolveAmount(row, cols)

		desc := strings.TrimSpace(row[cols.Description])
		if desc == "" {
			desc = unknownDescription
		}

		// Zero-value rows with a real description are legitimate entries.
		if amount.IsZero() && desc == unknownDescription {
			res.Stats.ZeroAmount++
			continue
		}

		c := model.Candidate{
			Date:        date,
			Description: desc,
			Amount:      amount,
			Direction:   dir,
			Line:        sourceLine(t, i),
		}
		if cols.Reference >= 0 {
			c.Reference = strings.TrimSpace(row[cols.Reference])
		}
		res.Candidates = append(res.Candidates, c)
	}
	res.Stats.Parsed = len(res.Candidates)
	return res
}

// sourceLine is the file line of row i, falling back to its position
// after the header for tables built by hand.
func sourceLine(t *tokenizer.Table, i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 2
}

// resolveAmount returns a non-negative magnitude and the direction.
func resolveAmount(row model.RawRow, cols Columns) (decimal.Decimal, model.Direction) {
	switch {
	case cols.Credit >= 0 && cols.Debit >= 0:
		credit := normalize.ParseAmount(row[cols.Credit]).Abs()
		debit := normalize.ParseAmount(row[cols.Debit]).Abs()
		switch {
		case credit.IsPositive() && debit.IsPositive():
			// Net settlement; ties favour income.
			if credit.GreaterThanOrEqual(debit) {
				return credit.Sub(debit), model.DirectionIncome
			}
			return debit.Sub(credit), model.DirectionExpense
		case credit.IsPositive():
			return credit, model.DirectionIncome
		case debit.IsPositive():
			return debit, model.DirectionExpense
		case row[cols.Debit] == "":
			return decimal.Zero, model.DirectionIncome
		default:
			return decimal.Zero, model.DirectionExpense
		}
	case cols.Credit >= 0:
		return normalize.ParseAmount(row[cols.Credit]).Abs(), model.DirectionIncome
	case cols.Debit >= 0:
		return normalize.ParseAmount(row[cols.Debit]).Abs(), model.DirectionExpense
	default:
		v := normalize.ParseAmount(row[cols.Amount])
		if v.IsNegative() {
			return v.Abs(), model.DirectionExpense
		}
		return v, model.DirectionIncome
	}
}
