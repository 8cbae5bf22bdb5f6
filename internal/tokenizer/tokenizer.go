// Package tokenizer splits delimiter-separated bank exports into header and data rows.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cleared-dev/bankfeed/internal/model"
)

var (
	// ErrTooFewLines is returned when the text lacks a header and a data row.
	ErrTooFewLines = errors.New("headers + at least one data row required")
	// ErrNoValidRows is returned when every data row has fewer than two non-empty cells.
	ErrNoValidRows = errors.New("no valid data rows")
)

// Table is a tokenized file: cleaned headers plus data rows.
type Table struct {
	Delimiter rune
	Headers   []string
	Rows      []model.RawRow
	// Lines holds the 1-based file line of each row in Rows.
	Lines []int
	// Sparse counts data rows dropped for having fewer than two non-empty cells.
	Sparse int
}

// Tokenize splits raw text into a Table. The delimiter is chosen once from
// the first line and applied to the whole file.
func Tokenize(text string) (*Table, error) {
	lines, numbers := splitNumbered(text)
	if len(lines) < 2 {
		return nil, ErrTooFewLines
	}

	delim := DetectDelimiter(lines[0])
	split := splitQuoted
	if delim == '\t' {
		split = splitTab
	}

	t := &Table{
		Delimiter: delim,
		Headers:   CleanHeaders(split(lines[0], delim)),
	}
	for i, line := range lines[1:] {
		row := split(line, delim)
		if nonEmpty(row) < 2 {
			t.Sparse++
			continue
		}
		t.Rows = append(t.Rows, model.RawRow(row))
		t.Lines = append(t.Lines, numbers[i+1])
	}
	if len(t.Rows) == 0 {
		return nil, ErrNoValidRows
	}
	return t, nil
}

// SplitLines splits on \r\n, \r or \n and drops blank lines.
func SplitLines(text string) []string {
	lines, _ := splitNumbered(text)
	return lines
}

// splitNumbered is SplitLines plus the 1-based line number of each kept line.
func splitNumbered(text string) ([]string, []int) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var (
		lines   []string
		numbers []int
	)
	for i, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
		numbers = append(numbers, i+1)
	}
	return lines, numbers
}

// DetectDelimiter picks tab, semicolon or comma from counts in the header line.
// Ties between tab and the others favour tab; semicolon must strictly beat comma.
func DetectDelimiter(header string) rune {
	tabs := strings.Count(header, "\t")
	commas := strings.Count(header, ",")
	semis := strings.Count(header, ";")

	switch {
	case tabs >= commas && tabs >= semis:
		return '\t'
	case semis > commas:
		return ';'
	default:
		return ','
	}
}

// CleanHeaders trims names, fills blanks as "Column N" and suffixes
// duplicates with " (k)" so every header is unique.
func CleanHeaders(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column %d", i+1)
		}
		name := h
		for k := 2; seen[name]; k++ {
			name = fmt.Sprintf("%s (%d)", h, k)
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

func splitTab(line string, _ rune) []string {
	parts := strings.Split(line, "\t")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) >= 2 && p[0] == '"' && p[len(p)-1] == '"' {
			p = p[1 : len(p)-1]
		}
		parts[i] = p
	}
	return parts
}

// splitQuoted scans one line, honouring quotes. A doubled quote inside a
// quoted field is a literal quote.
func splitQuoted(line string, delim rune) []string {
	var (
		cells    []string
		cur      strings.Builder
		inQuotes bool
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"' && inQuotes && i+1 < len(runes) && runes[i+1] == '"':
			cur.WriteRune('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == delim && !inQuotes:
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(c)
		}
	}
	return append(cells, strings.TrimSpace(cur.String()))
}

func nonEmpty(row []string) int {
	n := 0
	for _, c := range row {
		if c != "" {
			n++
		}
	}
	return n
}
