package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		header string
		want   rune
	}{
		{"A\tB\tC", '\t'},
		{"A;B;C", ';'},
		{"A,B,C", ','},
		// Semicolon must strictly beat comma.
		{"A;B,C", ','},
		{"A;B;C,D", ';'},
		// Tab wins ties.
		{"Date\tAmount,EUR", '\t'},
		{"single", '\t'},
	}
	for _, tt := range tests {
		assert.Equal(t, string(tt.want), string(DetectDelimiter(tt.header)), "header %q", tt.header)
	}
}

func TestQuotedCells(t *testing.T) {
	text := "Name,Amount,Date\n\"John, \"\"Jr.\"\"\",100,2024-01-01\n"
	table, err := Tokenize(text)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{`John, "Jr."`, "100", "2024-01-01"}, []string(table.Rows[0]))
}

func TestSemicolonQuoted(t *testing.T) {
	text := "Datum;Omschrijving;Bedrag\n01/03/2024;\"Albert; Heijn\";-12,50\n"
	table, err := Tokenize(text)
	require.NoError(t, err)
	assert.Equal(t, ';', table.Delimiter)
	assert.Equal(t, []string{"01/03/2024", "Albert; Heijn", "-12,50"}, []string(table.Rows[0]))
}

func TestTabStripsOneQuoteLayer(t *testing.T) {
	text := "Date\tDescription\tAmount\n01/03/2024\t \"Tesco\" \t\"-4.50\"\n"
	table, err := Tokenize(text)
	require.NoError(t, err)
	assert.Equal(t, '\t', table.Delimiter)
	assert.Equal(t, []string{"01/03/2024", "Tesco", "-4.50"}, []string(table.Rows[0]))
}

func TestLineEndings(t *testing.T) {
	for name, text := range map[string]string{
		"unix":    "A,B\n1,2\n3,4\n",
		"windows": "A,B\r\n1,2\r\n3,4\r\n",
		"mac":     "A,B\r1,2\r3,4\r",
		"blanks":  "A,B\n\n1,2\n   \n3,4\n\n",
	} {
		t.Run(name, func(t *testing.T) {
			table, err := Tokenize(text)
			require.NoError(t, err)
			assert.Equal(t, []string{"A", "B"}, table.Headers)
			assert.Len(t, table.Rows, 2)
		})
	}
}

func TestTooFewLines(t *testing.T) {
	for _, text := range []string{"", "Date,Amount", "Date,Amount\n\n\r\n"} {
		_, err := Tokenize(text)
		assert.ErrorIs(t, err, ErrTooFewLines, "text %q", text)
	}
}

func TestNoValidRows(t *testing.T) {
	_, err := Tokenize("Date,Description,Amount\n,,\nonly,,\n")
	assert.ErrorIs(t, err, ErrNoValidRows)
}

func TestSparseRowsDropped(t *testing.T) {
	table, err := Tokenize("Date,Description,Amount\nfooter,,\n01/03/2024,Coffee,-4.50\n")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Coffee", table.Rows[0][1])
	assert.Equal(t, 1, table.Sparse)
}

func TestSourceLineNumbers(t *testing.T) {
	text := "Date,Description,Amount\r\n\r\n01/03/2024,Tea,-2\r\nfooter,,\r\n02/03/2024,Cake,-3\r\n"
	table, err := Tokenize(text)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []int{3, 5}, table.Lines)
	assert.Equal(t, 1, table.Sparse)
}

func TestCleanHeaders(t *testing.T) {
	got := CleanHeaders([]string{" Date ", "", "Amount", "Amount", "Amount (2)", "Amount", ""})
	assert.Equal(t, []string{
		"Date", "Column 2", "Amount", "Amount (2)", "Amount (2) (2)", "Amount (3)", "Column 7",
	}, got)
}
