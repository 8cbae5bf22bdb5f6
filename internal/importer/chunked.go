package importer

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/cleared-dev/bankfeed/internal/logger"
	"github.com/cleared-dev/bankfeed/internal/model"
	"github.com/cleared-dev/bankfeed/internal/store"
)

// DefaultBatchSize bounds each bulk insert.
const DefaultBatchSize = 50

// BatchResult is the outcome of one bulk insert.
type BatchResult struct {
	Index int
	Size  int
	IDs   []string // nil when Err != nil
	Err   error
}

// Report accumulates batch outcomes. Committed batches are never rolled back.
type Report struct {
	Batches     []BatchResult
	Success     int
	FailedCount int
	Persisted   []model.PersistedTransaction
}

// Err combines every batch error, or nil if all batches succeeded.
func (r Report) Err() error {
	var err error
	for _, b := range r.Batches {
		if b.Err != nil {
			err = multierr.Append(err, fmt.Errorf("batch %d: %w", b.Index, b.Err))
		}
	}
	return err
}

// ChunkedImporter persists candidates in fixed-size batches. A failed batch
// is reported and skipped; later batches still run.
type ChunkedImporter struct {
	Store     store.Store
	BatchSize int
	// OnProgress receives the cumulative percentage after each batch.
	OnProgress func(percent int)
}

// Import writes candidates for userID/accountID, tagging them with batchID
// when it is non-empty. Batches run sequentially so IDs zip back in order.
func (ci *ChunkedImporter) Import(ctx context.Context, userID string, accountID int, batchID string, candidates []model.Candidate) Report {
	size := ci.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	var rep Report
	total := len(candidates)
	for start, index := 0, 0; start < total; start, index = start+size, index+1 {
		end := min(start+size, total)
		chunk := candidates[start:end]

		rows := make([]store.NewTransaction, len(chunk))
		for i, c := range chunk {
			rows[i] = store.NewTransaction{UserID: userID, AccountID: accountID, ImportBatchID: batchID, Candidate: c}
		}

		br := BatchResult{Index: index, Size: len(chunk)}
		ids, err := ci.Store.InsertTransactions(ctx, rows)
		if err == nil && len(ids) != len(chunk) {
			err = fmt.Errorf("store returned %d ids for %d rows", len(ids), len(chunk))
		}
		if err != nil {
			br.Err = err
			logger.Get().Warnw("import batch failed",
				"batch", index,
				"rows", len(chunk),
				"error", err,
			)
		} else {
			br.IDs = ids
			rep.Success += len(chunk)
			for i, c := range chunk {
				rep.Persisted = append(rep.Persisted, model.PersistedTransaction{
					Candidate:     c,
					ID:            ids[i],
					UserID:        userID,
					AccountID:     accountID,
					ImportBatchID: batchID,
				})
			}
		}
		rep.Batches = append(rep.Batches, br)

		if ci.OnProgress != nil {
			ci.OnProgress(end * 100 / total)
		}
	}
	rep.FailedCount = total - rep.Success
	return rep
}
