package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hydrahunt/internal/database"
	"hydrahunt/internal/resume"
)

// SQLiteStore keeps each namespace's whole record collection serialized
// in a single row, mirroring the localStorage layout of the web client.
// Every mutation is a full read-modify-write of that row; concurrent
// writers in the same namespace can lose updates, which is accepted for
// the guest tier.
type SQLiteStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewSQLiteStore wraps an already-opened local database.
func NewSQLiteStore(db *gorm.DB, logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteStore{db: db, logger: logger}
}

// List returns the collection under key. A missing row or a payload
// that no longer parses both come back as an empty collection; the
// latter is logged once rather than crashing the caller.
func (s *SQLiteStore) List(ctx context.Context, key string) []resume.Record {
	var row database.GuestCollection
	err := s.db.WithContext(ctx).First(&row, "key = ?", key).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("local store read failed", slog.String("key", key), slog.Any("error", err))
		}
		return nil
	}

	var records []resume.Record
	if err := json.Unmarshal(row.Payload, &records); err != nil {
		s.logger.Warn("local store payload malformed, treating as empty",
			slog.String("key", key), slog.Any("error", err))
		return nil
	}
	for i := range records {
		records[i].Normalize()
	}
	return records
}

// Upsert replaces the record with the same id, or appends it.
func (s *SQLiteStore) Upsert(ctx context.Context, key string, rec resume.Record) error {
	records := s.List(ctx, key)
	replaced := false
	for i := range records {
		if records[i].ID == rec.ID {
			records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, rec)
	}
	return s.ReplaceAll(ctx, key, records)
}

// Delete removes the record with the given id. ErrNotFound when the
// collection holds no such record.
func (s *SQLiteStore) Delete(ctx context.Context, key string, id string) error {
	records := s.List(ctx, key)
	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return ErrNotFound
	}
	return s.ReplaceAll(ctx, key, kept)
}

// ReplaceAll rewrites the whole collection under key.
func (s *SQLiteStore) ReplaceAll(ctx context.Context, key string, records []resume.Record) error {
	if records == nil {
		records = []resume.Record{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal local collection: %w", err)
	}

	row := database.GuestCollection{Key: key, Payload: datatypes.JSON(payload)}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("write local collection %q: %w", key, err)
	}
	return nil
}

// Clear drops the collection under key entirely.
func (s *SQLiteStore) Clear(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Delete(&database.GuestCollection{}, "key = ?", key).Error
	if err != nil {
		return fmt.Errorf("clear local collection %q: %w", key, err)
	}
	return nil
}
