package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bankfeed/internal/model"
	"github.com/cleared-dev/bankfeed/internal/store"
	"github.com/cleared-dev/bankfeed/internal/testutil"
)

func TestInsertAndList(t *testing.T) {
	ctx := context.Background()
	s := testutil.SetupTestStore(t)

	batch, err := s.CreateImportBatch(ctx, "u1", "aib.csv", 3)
	require.NoError(t, err)
	assert.NotEmpty(t, batch.ID)
	assert.Equal(t, "aib.csv", batch.Filename)

	rows := []store.NewTransaction{
		{UserID: "u1", AccountID: 1010, ImportBatchID: batch.ID, Candidate: testutil.Candidate(t, "2024-03-02", "Salary", "2500", model.DirectionIncome)},
		{UserID: "u1", AccountID: 1010, ImportBatchID: batch.ID, Candidate: testutil.Candidate(t, "2024-03-01", "Coffee Shop", "4.50", model.DirectionExpense)},
		{UserID: "u2", AccountID: 1010, Candidate: testutil.Candidate(t, "2024-03-01", "Other user", "1", model.DirectionExpense)},
	}
	ids, err := s.InsertTransactions(ctx, rows)
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.NotEqual(t, ids[0], ids[1])

	got, err := s.ListTransactions(ctx, "u1", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, ids[1], got[0].ID)
	assert.Equal(t, "Coffee Shop", got[0].Description)
	assert.Equal(t, "4.50", got[0].Amount.StringFixed(2))
	assert.Equal(t, model.DirectionExpense, got[0].Direction)
	assert.Equal(t, "2024-03-01", got[0].Date.Format(model.DateFormat))
	assert.Equal(t, batch.ID, got[0].ImportBatchID)
	assert.Equal(t, 1010, got[0].AccountID)
}

func TestListDateWindow(t *testing.T) {
	ctx := context.Background()
	s := testutil.SetupTestStore(t)

	var rows []store.NewTransaction
	for _, d := range []string{"2024-02-28", "2024-03-01", "2024-03-15", "2024-04-01"} {
		rows = append(rows, store.NewTransaction{UserID: "u1", Candidate: testutil.Candidate(t, d, "x "+d, "1", model.DirectionExpense)})
	}
	_, err := s.InsertTransactions(ctx, rows)
	require.NoError(t, err)

	got, err := s.ListTransactions(ctx, "u1", testutil.Date(t, "2024-03-01"), testutil.Date(t, "2024-03-31"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "x 2024-03-01", got[0].Description)
	assert.Equal(t, "x 2024-03-15", got[1].Description)
}

func TestInsertWithoutBatch(t *testing.T) {
	ctx := context.Background()
	s := testutil.SetupTestStore(t)

	_, err := s.InsertTransactions(ctx, []store.NewTransaction{
		{UserID: "u1", Candidate: testutil.Candidate(t, "2024-03-01", "Tesco", "9.99", model.DirectionExpense)},
	})
	require.NoError(t, err)

	got, err := s.ListTransactions(ctx, "u1", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].ImportBatchID)
}

func TestUpdateCategory(t *testing.T) {
	ctx := context.Background()
	s := testutil.SetupTestStore(t)

	ids, err := s.InsertTransactions(ctx, []store.NewTransaction{
		{UserID: "u1", Candidate: testutil.Candidate(t, "2024-03-01", "Maldron Hotel", "120", model.DirectionExpense)},
	})
	require.NoError(t, err)

	require.NoError(t, s.UpdateCategory(ctx, ids[0], 5320, "trip 2024-03-001"))

	got, err := s.ListTransactions(ctx, "u1", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 5320, got[0].CategoryID)
	assert.Equal(t, "trip 2024-03-001", got[0].Notes)

	err = s.UpdateCategory(ctx, "missing", 1, "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInsertEmpty(t *testing.T) {
	ids, err := testutil.SetupTestStore(t).InsertTransactions(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestOpenFile(t *testing.T) {
	path := t.TempDir() + "/bankfeed.db"
	s, db, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(db) })

	_, err = s.CreateImportBatch(context.Background(), "u1", "f.csv", 0)
	require.NoError(t, err)
}
