package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cleared-dev/bankfeed/internal/logger"
	"github.com/cleared-dev/bankfeed/internal/model"
	"github.com/cleared-dev/bankfeed/internal/store"
	"github.com/cleared-dev/bankfeed/internal/testutil"
)

// flakyStore fails selected insert calls and otherwise delegates.
type flakyStore struct {
	store.Store
	calls  int
	failOn map[int]bool
	sizes  []int
}

func (f *flakyStore) InsertTransactions(ctx context.Context, rows []store.NewTransaction) ([]string, error) {
	call := f.calls
	f.calls++
	f.sizes = append(f.sizes, len(rows))
	if f.failOn[call] {
		return nil, errors.New("constraint violation")
	}
	return f.Store.InsertTransactions(ctx, rows)
}

func candidates(n int) []model.Candidate {
	out := make([]model.Candidate, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = model.Candidate{
			Date:        base.AddDate(0, 0, i),
			Description: fmt.Sprintf("row %03d", i),
			Amount:      decimal.NewFromInt(int64(i + 1)),
			Direction:   model.DirectionExpense,
		}
	}
	return out
}

func TestChunkedImport_Batches(t *testing.T) {
	fs := &flakyStore{Store: testutil.SetupTestStore(t)}
	var progress []int
	ci := &ChunkedImporter{Store: fs, BatchSize: 50, OnProgress: func(p int) { progress = append(progress, p) }}

	rep := ci.Import(context.Background(), "u1", 1010, "", candidates(125))

	assert.Equal(t, []int{50, 50, 25}, fs.sizes)
	require.Len(t, rep.Batches, 3)
	assert.Equal(t, 125, rep.Success)
	assert.Zero(t, rep.FailedCount)
	assert.Equal(t, 125, rep.Success+rep.FailedCount)
	assert.Equal(t, []int{40, 80, 100}, progress)
	assert.NoError(t, rep.Err())

	// IDs zip back positionally.
	require.Len(t, rep.Persisted, 125)
	for i, p := range rep.Persisted {
		assert.Equal(t, fmt.Sprintf("row %03d", i), p.Description)
		assert.NotEmpty(t, p.ID)
	}
	assert.Equal(t, rep.Batches[1].IDs[0], rep.Persisted[50].ID)
}

func TestChunkedImport_PartialFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	prev := logger.Get()
	logger.Set(zap.New(core).Sugar())
	t.Cleanup(func() { logger.Set(prev) })

	s := testutil.SetupTestStore(t)
	fs := &flakyStore{Store: s, failOn: map[int]bool{1: true}}
	ci := &ChunkedImporter{Store: fs, BatchSize: 50}

	rep := ci.Import(context.Background(), "u1", 1010, "", candidates(125))

	assert.Equal(t, 75, rep.Success)
	assert.Equal(t, 50, rep.FailedCount)
	assert.Equal(t, 125, rep.Success+rep.FailedCount)
	assert.Error(t, rep.Batches[1].Err)
	assert.Nil(t, rep.Batches[1].IDs)
	assert.Len(t, rep.Batches[2].IDs, 25)

	require.Len(t, rep.Persisted, 75)
	assert.Equal(t, "row 049", rep.Persisted[49].Description)
	assert.Equal(t, "row 100", rep.Persisted[50].Description)

	err := rep.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch 1")
	assert.Equal(t, 1, logs.FilterMessage("import batch failed").Len())

	stored, err := s.ListTransactions(context.Background(), "u1", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, stored, 75)
}

func TestChunkedImport_Empty(t *testing.T) {
	called := false
	ci := &ChunkedImporter{Store: testutil.SetupTestStore(t), OnProgress: func(int) { called = true }}

	rep := ci.Import(context.Background(), "u1", 1010, "", nil)
	assert.Empty(t, rep.Batches)
	assert.Zero(t, rep.FailedCount)
	assert.False(t, called)
}

func TestChunkedImport_DefaultBatchSize(t *testing.T) {
	fs := &flakyStore{Store: testutil.SetupTestStore(t)}
	ci := &ChunkedImporter{Store: fs}

	ci.Import(context.Background(), "u1", 1010, "", candidates(51))
	assert.Equal(t, []int{50, 1}, fs.sizes)
}
