// Package store persists transactions and import batches through gorm.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cleared-dev/bankfeed/internal/model"
)

// ErrNotFound is returned when an update targets a missing transaction.
var ErrNotFound = errors.New("transaction not found")

// Store is the persistence collaborator used by the import pipeline,
// trip detection and categorization.
type Store interface {
	// InsertTransactions writes rows atomically and returns their IDs in input order.
	InsertTransactions(ctx context.Context, rows []NewTransaction) ([]string, error)
	CreateImportBatch(ctx context.Context, userID, filename string, rowCount int) (model.ImportBatch, error)
	// ListTransactions returns a user's transactions with from <= date <= to,
	// ordered by date then ID. Zero bounds are open.
	ListTransactions(ctx context.Context, userID string, from, to time.Time) ([]model.PersistedTransaction, error)
	UpdateCategory(ctx context.Context, id string, categoryID int, notes string) error
}

// NewTransaction is one row to insert.
type NewTransaction struct {
	UserID        string
	AccountID     int
	ImportBatchID string
	Candidate     model.Candidate
}

// gormStore implements Store on a gorm connection.
type gormStore struct {
	db *gorm.DB
}

// New wraps an open gorm connection.
func New(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Open opens (creating if needed) the sqlite database at path and migrates it.
func Open(path string) (Store, *gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	if err := Migrate(db); err != nil {
		return nil, nil, err
	}
	return New(db), db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("getting sql db: %w", err)
	}
	return sqlDB.Close()
}

func (s *gormStore) InsertTransactions(ctx context.Context, rows []NewTransaction) ([]string, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	records := make([]TransactionRecord, len(rows))
	for i, r := range rows {
		records[i] = newRecord(r.UserID, r.AccountID, r.ImportBatchID, r.Candidate)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&records).Error
	})
	if err != nil {
		return nil, fmt.Errorf("inserting %d transactions: %w", len(rows), err)
	}

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids, nil
}

func (s *gormStore) CreateImportBatch(ctx context.Context, userID, filename string, rowCount int) (model.ImportBatch, error) {
	rec := ImportBatchRecord{UserID: userID, Filename: filename, RowCount: rowCount}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return model.ImportBatch{}, fmt.Errorf("creating import batch: %w", err)
	}
	return model.ImportBatch{
		ID:        rec.ID,
		UserID:    rec.UserID,
		Filename:  rec.Filename,
		RowCount:  rec.RowCount,
		CreatedAt: rec.CreatedAt,
	}, nil
}

func (s *gormStore) ListTransactions(ctx context.Context, userID string, from, to time.Time) ([]model.PersistedTransaction, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if !from.IsZero() {
		q = q.Where("date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("date <= ?", to)
	}

	var records []TransactionRecord
	if err := q.Order("date ASC").Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	out := make([]model.PersistedTransaction, len(records))
	for i, r := range records {
		out[i] = r.toModel()
	}
	return out, nil
}

func (s *gormStore) UpdateCategory(ctx context.Context, id string, categoryID int, notes string) error {
	res := s.db.WithContext(ctx).Model(&TransactionRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"category_id": categoryID, "notes": notes})
	if res.Error != nil {
		return fmt.Errorf("updating category of %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("updating category of %s: %w", id, ErrNotFound)
	}
	return nil
}
