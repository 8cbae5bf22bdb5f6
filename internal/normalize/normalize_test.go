package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "0.00"},
		{"   ", "0.00"},
		{"(50.00)", "-50.00"},
		{"100 DR", "-100.00"},
		{"100 CR", "100.00"},
		{"-100 CR", "100.00"},
		{"-100 dr", "-100.00"},
		{"1.234,56", "1234.56"},
		{"-1.234.567,8", "-1234567.80"},
		{"12,50", "12.50"},
		{"1,234.56", "1234.56"},
		{"1,234,567", "1234567.00"},
		{"€ 4.50", "4.50"},
		{"£-12.00", "-12.00"},
		{"2500.00", "2500.00"},
		{"1.234", "1234.00"},
		{"abc", "0.00"},
		{"DRIVER", "0.00"},
	}
	for _, tt := range tests {
		got := ParseAmount(tt.in)
		assert.Equal(t, tt.want, got.StringFixed(2), "input %q", tt.in)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"01/03/2024", "2024-03-01"},
		{"03/04/2024", "2024-04-03"},
		{"12/31/2024", "2024-12-31"},
		{"2024-03-02", "2024-03-02"},
		{"02-03-2024", "2024-03-02"},
		{"2/3/2024", "2024-03-02"},
		{"05 Mar 2024", "2024-03-05"},
		{" 2024-03-02 ", "2024-03-02"},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got.Format("2006-01-02"))
		assert.Equal(t, time.UTC, got.Location())
	}
}

func TestParseDate_Unparsed(t *testing.T) {
	for _, in := range []string{"", "yesterday", "31/02/2024", "2024/13/01"} {
		_, err := ParseDate(in)
		assert.ErrorIs(t, err, ErrUnparsedDate, "input %q", in)
	}
}

func TestParseDateOr(t *testing.T) {
	now := time.Date(2024, 6, 9, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-09", ParseDateOr("garbage", now).Format("2006-01-02"))
	assert.Equal(t, "2024-03-01", ParseDateOr("01/03/2024", now).Format("2006-01-02"))
}
