package store

import (
	"context"
	"fmt"

	"veil/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RecordStore appends and queries the app's own transaction records. Records
// are immutable once written; there is no update path.
type RecordStore struct {
	db *gorm.DB
}

// Open opens (or creates) the sqlite database at path and migrates the
// record schema.
func Open(path string) (*RecordStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&model.TransactionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &RecordStore{db: db}, nil
}

// Record appends one transaction record. The insert is atomic: either the
// whole record lands or nothing does. A failure here does not roll back the
// already-broadcast network transaction.
func (s *RecordStore) Record(ctx context.Context, rec *model.TransactionRecord) error {
	if err := rec.Validate(); err != nil {
		return &model.PersistenceError{Err: err}
	}

	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return &model.PersistenceError{Err: err}
	}

	return nil
}

// QueryByAddress returns all records where the address appears as source or
// destination, newest first. No records is an empty slice, not an error.
func (s *RecordStore) QueryByAddress(ctx context.Context, address string) ([]model.TransactionRecord, error) {
	records := make([]model.TransactionRecord, 0, 8)

	err := s.db.WithContext(ctx).
		Where("from_address = ? OR to_address = ?", address, address).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, &model.PersistenceError{Err: err}
	}

	return records, nil
}
