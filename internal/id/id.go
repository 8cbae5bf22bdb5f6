// Package id formats human-readable trip identifiers.
package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatTripID returns a trip ID like "2024-03-001" for the seq-th trip
// starting in start's month.
func FormatTripID(start time.Time, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", start.Year(), int(start.Month()), seq)
}

// ParseTripID parses "2024-03-001" into year, month, seq.
func ParseTripID(id string) (year, month, seq int, err error) {
	parts := strings.SplitN(id, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid trip ID format: %q", id)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in trip ID %q: %w", id, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in trip ID %q: %w", id, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("month out of range in trip ID %q", id)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in trip ID %q: %w", id, err)
	}

	return year, month, seq, nil
}

// Sequencer hands out per-month sequence numbers, starting at 1.
type Sequencer struct {
	next map[string]int
}

// Next returns the next trip ID for start's month.
func (s *Sequencer) Next(start time.Time) string {
	if s.next == nil {
		s.next = make(map[string]int)
	}
	k := start.Format("2006-01")
	s.next[k]++
	return FormatTripID(start, s.next[k])
}
