// Package importlog keeps an append-only CSV record of import sessions.
package importlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/bankfeed/internal/importer"
)

// Entry is one import session.
type Entry struct {
	Timestamp  time.Time
	File       string
	Signature  string // detected bank format, or "manual"
	BatchID    string // empty when the import batch row could not be created
	TotalRows  int
	Valid      int
	Duplicates int
	Imported   int
	Failed     int
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,file,signature,batch_id,total_rows,valid,duplicates,imported,failed"

// Path is the log location relative to the workspace root.
const Path = "logs/import-log.csv"

const (
	numFields     = 9
	colTimestamp  = 0
	colFile       = 1
	colSignature  = 2
	colBatchID    = 3
	colTotalRows  = 4
	colValid      = 5
	colDuplicates = 6
	colImported   = 7
	colFailed     = 8
)

// FromSession summarizes a finished import session.
func FromSession(s *importer.Session, at time.Time) Entry {
	c := s.Counts()
	return Entry{
		Timestamp:  at,
		File:       filepath.Base(s.Filename),
		Signature:  s.Detection.SignatureID,
		TotalRows:  c.TotalRows,
		Valid:      c.Valid,
		Duplicates: c.Duplicates,
		Imported:   c.Imported,
		Failed:     c.Failed,
		BatchID:    s.Batch.ID,
	}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colFile] = e.File
	row[colSignature] = e.Signature
	row[colBatchID] = e.BatchID
	row[colTotalRows] = strconv.Itoa(e.TotalRows)
	row[colValid] = strconv.Itoa(e.Valid)
	row[colDuplicates] = strconv.Itoa(e.Duplicates)
	row[colImported] = strconv.Itoa(e.Imported)
	row[colFailed] = strconv.Itoa(e.Failed)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	e := Entry{
		Timestamp: ts,
		File:      record[colFile],
		Signature: record[colSignature],
		BatchID:   record[colBatchID],
	}
	counts := []struct {
		col int
		dst *int
	}{
		{colTotalRows, &e.TotalRows},
		{colValid, &e.Valid},
		{colDuplicates, &e.Duplicates},
		{colImported, &e.Imported},
		{colFailed, &e.Failed},
	}
	for _, c := range counts {
		n, err := strconv.Atoi(record[c.col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[c.col], err)
		}
		*c.dst = n
	}
	return e, nil
}

// Append writes entries to <root>/logs/import-log.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	path := filepath.Join(root, Path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/import-log.csv.
// Returns nil if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, Path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
