package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cleared-dev/bankfeed/internal/model"
)

// Base carries the primary key and timestamps shared by all tables.
type Base struct {
	ID        string `gorm:"type:text;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns a time-ordered UUIDv7 to new rows.
func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID != "" {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generating id: %w", err)
	}
	b.ID = id.String()
	return nil
}

// TransactionRecord is a persisted bank transaction. Amount is stored in
// cents and is never negative.
type TransactionRecord struct {
	Base
	UserID        string    `gorm:"not null;index:idx_user_date"`
	AccountID     int       `gorm:"not null"`
	ImportBatchID *string   `gorm:"index"`
	Date          time.Time `gorm:"not null;index:idx_user_date"`
	Description   string    `gorm:"not null"`
	AmountCents   int64     `gorm:"not null"`
	Direction     string    `gorm:"not null"`
	Reference     string
	CategoryID    int
	Notes         string
}

// TableName pins the table name.
func (TransactionRecord) TableName() string { return "transactions" }

// ImportBatchRecord is metadata for one uploaded file.
type ImportBatchRecord struct {
	Base
	UserID   string `gorm:"not null;index"`
	Filename string `gorm:"not null"`
	RowCount int
}

// TableName pins the table name.
func (ImportBatchRecord) TableName() string { return "import_batches" }

// Models lists every table for AutoMigrate.
var Models = []any{&TransactionRecord{}, &ImportBatchRecord{}}

func toCents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

func newRecord(userID string, accountID int, batchID string, c model.Candidate) TransactionRecord {
	r := TransactionRecord{
		UserID:      userID,
		AccountID:   accountID,
		Date:        c.Date,
		Description: c.Description,
		AmountCents: toCents(c.Amount),
		Direction:   string(c.Direction),
		Reference:   c.Reference,
	}
	if batchID != "" {
		r.ImportBatchID = &batchID
	}
	return r
}

func (r TransactionRecord) toModel() model.PersistedTransaction {
	tx := model.PersistedTransaction{
		Candidate: model.Candidate{
			Date:        r.Date.UTC(),
			Description: r.Description,
			Amount:      fromCents(r.AmountCents),
			Direction:   model.Direction(r.Direction),
			Reference:   r.Reference,
		},
		ID:         r.ID,
		UserID:     r.UserID,
		AccountID:  r.AccountID,
		CategoryID: r.CategoryID,
		Notes:      r.Notes,
	}
	if r.ImportBatchID != nil {
		tx.ImportBatchID = *r.ImportBatchID
	}
	return tx
}
