package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"hydrahunt/internal/api/middleware"
	"hydrahunt/internal/database"
	"hydrahunt/internal/errcode"
	"hydrahunt/internal/resume"
	"hydrahunt/internal/storage"
	"hydrahunt/internal/store"
	"hydrahunt/internal/tasks"
)

// ResumeHandler exposes the persistence facade over HTTP. Every route
// works for guests and authenticated users alike; the facade decides
// which backend is authoritative per request.
type ResumeHandler struct {
	facade      *store.Facade
	db          *gorm.DB
	asynqClient *asynq.Client
	storage     *storage.Client
	maxResumes  int
}

// NewResumeHandler builds the handler.
func NewResumeHandler(facade *store.Facade, db *gorm.DB, asynqClient *asynq.Client, storageClient *storage.Client, maxResumes int) *ResumeHandler {
	return &ResumeHandler{
		facade:      facade,
		db:          db,
		asynqClient: asynqClient,
		storage:     storageClient,
		maxResumes:  maxResumes,
	}
}

type createResumeRequest struct {
	Folder string `json:"folder"`
}

type saveResumeResponse struct {
	Resume  resume.Record    `json:"resume"`
	Storage store.SaveStatus `json:"storage"`
	Code    int              `json:"code,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// newSaveResponse marks degraded saves with the shared error code so
// clients surface the "saved locally" indicator.
func newSaveResponse(rec resume.Record, status store.SaveStatus, err error) saveResumeResponse {
	resp := saveResumeResponse{Resume: rec, Storage: status, Error: errMessage(err)}
	if status == store.SaveStatusFallback {
		resp.Code = errcode.DegradedSave
	}
	return resp
}

// ListResumes returns the current scope's records, newest first.
func (h *ResumeHandler) ListResumes(c *gin.Context) {
	c.JSON(http.StatusOK, h.facade.ListResumes(c.Request.Context()))
}

// ListFolders returns the folder labels in use, sorted.
func (h *ResumeHandler) ListFolders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"folders": h.facade.ListFolders(c.Request.Context())})
}

// GetResume returns a single record by id.
func (h *ResumeHandler) GetResume(c *gin.Context) {
	rec, err := h.facade.GetResume(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "resume not found")
			return
		}
		Internal(c, "failed to load resume")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// CreateResume creates a blank record, capped per account.
func (h *ResumeHandler) CreateResume(c *gin.Context) {
	// Folder is optional; an absent or empty body means the default.
	var req createResumeRequest
	_ = c.ShouldBindJSON(&req)

	ctx := c.Request.Context()
	if sess, ok := middleware.SessionFromGin(c); ok && sess.Authenticated() && h.maxResumes > 0 {
		var count int64
		if err := h.db.WithContext(ctx).
			Model(&database.Resume{}).
			Where("user_id = ?", sess.UserID).
			Count(&count).Error; err != nil {
			Internal(c, "failed to count resumes")
			return
		}
		if count >= int64(h.maxResumes) {
			Forbidden(c, "resume limit reached")
			return
		}
	}

	rec, status, err := h.facade.CreateResume(ctx, req.Folder)
	if err != nil && status != store.SaveStatusFallback {
		Internal(c, "failed to create resume")
		return
	}
	c.JSON(http.StatusCreated, newSaveResponse(rec, status, err))
}

// SaveResume upserts a full record. The response's storage field tells
// the client whether the write reached the cloud or only the local
// fallback tier, which drives the save-status indicator.
func (h *ResumeHandler) SaveResume(c *gin.Context) {
	var rec resume.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if rec.ID == "" {
		rec.ID = c.Param("id")
	}
	if rec.ID != c.Param("id") {
		BadRequest(c, "resume id mismatch")
		return
	}
	if rec.Content.TemplateID != "" && !resume.ValidTemplateID(rec.Content.TemplateID) {
		BadRequest(c, "unknown template id")
		return
	}

	status, err := h.facade.SaveResume(c.Request.Context(), &rec)
	if err != nil {
		if errors.Is(err, store.ErrMissingID) {
			BadRequest(c, err.Error())
			return
		}
		if status != store.SaveStatusFallback {
			Internal(c, "failed to save resume")
			return
		}
	}
	c.JSON(http.StatusOK, newSaveResponse(rec, status, err))
}

// DuplicateResume clones a record under a new identifier.
func (h *ResumeHandler) DuplicateResume(c *gin.Context) {
	dup, status, err := h.facade.DuplicateResume(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "resume not found")
			return
		}
		if status != store.SaveStatusFallback {
			Internal(c, "failed to duplicate resume")
			return
		}
	}
	c.JSON(http.StatusCreated, newSaveResponse(dup, status, err))
}

// DeleteResume hard-deletes a record from the authoritative backend.
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	if err := h.facade.DeleteResume(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "resume not found")
			return
		}
		Internal(c, "failed to delete resume")
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportResume enqueues PDF generation and returns immediately.
func (h *ResumeHandler) ExportResume(c *gin.Context) {
	sess, ok := middleware.SessionFromGin(c)
	if !ok || !sess.Authenticated() {
		AbortUnauthorized(c)
		return
	}

	rec, err := h.facade.GetResume(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "resume not found")
			return
		}
		Internal(c, "failed to load resume")
		return
	}

	correlationID := middleware.GetCorrelationID(c)
	task, err := tasks.NewResumeExportTask(rec.ID, sess.UserID, correlationID)
	if err != nil {
		Internal(c, "failed to create task")
		return
	}

	info, err := h.asynqClient.Enqueue(task, asynq.MaxRetry(5))
	if err != nil {
		Internal(c, "failed to enqueue pdf export")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "PDF export request accepted",
		"task_id": info.ID,
	})
}

// GetExportLink hands out a presigned download link for the last export.
func (h *ResumeHandler) GetExportLink(c *gin.Context) {
	sess, ok := middleware.SessionFromGin(c)
	if !ok || !sess.Authenticated() {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	var row database.Resume
	if err := h.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", c.Param("id"), sess.UserID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "resume not found")
			return
		}
		Internal(c, "failed to query resume")
		return
	}

	if row.PdfObjectKey == "" {
		Conflict(c, "pdf not ready")
		return
	}

	signedURL, err := h.storage.GeneratePresignedURL(ctx, row.PdfObjectKey, 5*time.Minute)
	if err != nil {
		Internal(c, "failed to generate download link")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}

// ListTemplates serves the fixed visual template catalog.
func (h *ResumeHandler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": resume.Templates()})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
