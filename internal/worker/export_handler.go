package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"hydrahunt/internal/database"
	"hydrahunt/internal/errcode"
	"hydrahunt/internal/resume"
	"hydrahunt/internal/storage"
	"hydrahunt/internal/tasks"
)

// ExportTaskHandler consumes resume export tasks: it renders the stored
// record to PDF, uploads the artifact and notifies the owner.
type ExportTaskHandler struct {
	db          *gorm.DB
	storage     *storage.Client
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewExportTaskHandler creates the task handler.
func NewExportTaskHandler(db *gorm.DB, storage *storage.Client, redisClient *redis.Client, logger *slog.Logger) *ExportTaskHandler {
	return &ExportTaskHandler{
		db:          db,
		storage:     storage,
		redisClient: redisClient,
		logger:      logger,
	}
}

// ProcessTask implements asynq.Handler.
func (h *ExportTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	log := h.logger

	var payload tasks.ResumeExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal task payload failed", slog.Any("error", err))
		return err
	}

	log = log.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.String("resume_id", payload.ResumeID),
		slog.Uint64("user_id", uint64(payload.UserID)),
	)
	log.Info("starting resume export task")

	var row database.Resume
	err := h.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", payload.ResumeID, payload.UserID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("resume not found, skipping task")
			return nil
		}
		log.Error("query resume failed", slog.Any("error", err))
		return err
	}

	defer func() {
		if retErr == nil {
			return
		}
		if !isFinalAsynqAttempt(ctx) {
			return
		}

		notify := ExportNotifyMessage{
			Status:        "error",
			ResumeID:      payload.ResumeID,
			CorrelationID: payload.CorrelationID,
			ErrorCode:     errcode.SystemError,
			ErrorMessage:  strings.TrimSpace(retErr.Error()),
		}
		if err := h.publishExportNotify(ctx, payload.UserID, notify); err != nil {
			log.Error("publish export error notification failed", slog.Any("error", err))
		}
	}()

	rec := resume.Record{
		ID:        row.ID,
		Title:     row.Title,
		Folder:    row.Folder,
		UpdatedAt: row.UpdatedAt,
	}
	if len(row.Content) > 0 {
		if err := json.Unmarshal(row.Content, &rec.Content); err != nil {
			log.Error("decode resume content failed", slog.Any("error", err))
			return err
		}
	}
	rec.Normalize()

	html, err := RenderHTML(rec)
	if err != nil {
		log.Error("render resume html failed", slog.Any("error", err))
		return err
	}

	pdfBytes, err := renderPDF(log, html)
	if err != nil {
		log.Error("print resume pdf failed", slog.Any("error", err))
		return err
	}

	objectName := fmt.Sprintf("exports/%d/%s.pdf", payload.UserID, uuid.NewString())
	pdfReader := bytes.NewReader(pdfBytes)
	if _, err := h.storage.UploadFile(ctx, objectName, pdfReader, int64(len(pdfBytes)), "application/pdf"); err != nil {
		log.Error("upload pdf to minio failed", slog.Any("error", err))
		return err
	}

	previousKey := row.PdfObjectKey
	if err := h.db.WithContext(ctx).Model(&row).Update("pdf_object_key", objectName).Error; err != nil {
		log.Error("update resume pdf key failed", slog.Any("error", err))
		return err
	}

	if previousKey != "" && previousKey != objectName {
		if err := h.storage.DeleteObject(ctx, previousKey); err != nil {
			log.Warn("delete stale pdf failed", slog.String("object", previousKey), slog.Any("error", err))
		}
	}

	notify := ExportNotifyMessage{
		Status:        "completed",
		ResumeID:      payload.ResumeID,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.OK,
	}
	if err := h.publishExportNotify(ctx, payload.UserID, notify); err != nil {
		log.Error("publish redis notification failed", slog.Any("error", err))
		return err
	}

	log.Info("resume export task completed")
	return nil
}

func (h *ExportTaskHandler) publishExportNotify(ctx context.Context, userID uint, notify ExportNotifyMessage) error {
	data, err := json.Marshal(notify)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := fmt.Sprintf("user_notify:%d", userID)
	if err := h.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
