package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hydrahunt/internal/database"
	"hydrahunt/internal/resume"
)

// GormStore is the PostgreSQL-backed account tier. One row per record,
// keyed by the client-generated UUID; the structured content travels as
// a JSONB blob. updated_at is written verbatim from the record so that
// migration can preserve guest timestamps.
type GormStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormStore wraps the shared gorm connection.
func NewGormStore(db *gorm.DB, logger *slog.Logger) *GormStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormStore{db: db, logger: logger}
}

// ListByAccount returns the account's records ordered by last
// modification, newest first. A row whose content blob fails to decode
// is kept with empty content rather than hiding the record.
func (s *GormStore) ListByAccount(ctx context.Context, userID uint) ([]resume.Record, error) {
	var rows []database.Resume
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list resumes for user %d: %w", userID, err)
	}

	records := make([]resume.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, s.toRecord(row))
	}
	return records, nil
}

// Upsert inserts or replaces the row with the record's id. The account
// owning an existing row is never reassigned on conflict.
func (s *GormStore) Upsert(ctx context.Context, userID uint, rec resume.Record) error {
	content, err := json.Marshal(rec.Content)
	if err != nil {
		return fmt.Errorf("marshal resume content: %w", err)
	}

	row := database.Resume{
		ID:        rec.ID,
		UserID:    userID,
		Title:     rec.Title,
		Folder:    rec.Folder,
		Content:   datatypes.JSON(content),
		UpdatedAt: rec.UpdatedAt,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "folder", "content", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert resume %s: %w", rec.ID, err)
	}
	return nil
}

// Delete removes the record if it belongs to the account. ErrNotFound
// when no row matched.
func (s *GormStore) Delete(ctx context.Context, userID uint, id string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&database.Resume{})
	if res.Error != nil {
		return fmt.Errorf("delete resume %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) toRecord(row database.Resume) resume.Record {
	rec := resume.Record{
		ID:        row.ID,
		Title:     row.Title,
		Folder:    row.Folder,
		UpdatedAt: row.UpdatedAt,
	}
	if len(row.Content) > 0 {
		if err := json.Unmarshal(row.Content, &rec.Content); err != nil {
			s.logger.Warn("resume content blob malformed",
				slog.String("resume_id", row.ID), slog.Any("error", err))
		}
	}
	rec.Normalize()
	return rec
}
