package api

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"

	"hydrahunt/internal/api/middleware"
	"hydrahunt/internal/importer"
	"hydrahunt/internal/resume"
	"hydrahunt/internal/store"
)

const maxImportBytes = 10 * 1024 * 1024

// ImportHandler turns an uploaded PDF/DOCX into a draft record. The
// file is virus-scanned before any parsing happens.
type ImportHandler struct {
	facade    *store.Facade
	logger    *slog.Logger
	clamdAddr string
}

// NewImportHandler builds the import handler.
func NewImportHandler(facade *store.Facade, logger *slog.Logger, clamdAddr string) *ImportHandler {
	return &ImportHandler{
		facade:    facade,
		logger:    logger,
		clamdAddr: clamdAddr,
	}
}

// ImportResume accepts a multipart document upload and creates a draft
// resume pre-filled with the extracted text. Works for guests too; the
// facade routes the draft to whichever backend owns the session.
func (h *ImportHandler) ImportResume(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}
	if file.Size > maxImportBytes {
		BadRequest(c, "file too large")
		return
	}

	logger := middleware.LoggerFromContext(c)

	if h.clamdAddr != "" {
		clean, err := h.scanUpload(file)
		if err != nil {
			logger.Error("scan uploaded resume failed", slog.Any("error", err))
			Internal(c, "failed to scan file")
			return
		}
		if !clean {
			BadRequest(c, "malicious file detected")
			return
		}
	}

	reader, err := file.Open()
	if err != nil {
		Internal(c, "failed to open file")
		return
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, maxImportBytes))
	if err != nil {
		Internal(c, "failed to read file")
		return
	}

	text, err := importer.ExtractText(data, file.Header.Get("Content-Type"), file.Filename)
	if err != nil {
		if errors.Is(err, importer.ErrUnsupportedFormat) {
			BadRequest(c, "only PDF and DOCX uploads are supported")
			return
		}
		logger.Warn("extract resume text failed", slog.String("filename", file.Filename), slog.Any("error", err))
		BadRequest(c, "could not read document")
		return
	}

	rec := resume.New(resume.DefaultFolder)
	rec.Title = draftTitle(file.Filename)
	rec.Content.Summary = text

	status, err := h.facade.SaveResume(c.Request.Context(), &rec)
	if err != nil && status != store.SaveStatusFallback {
		Internal(c, "failed to save imported resume")
		return
	}

	c.JSON(http.StatusCreated, newSaveResponse(rec, status, err))
}

func (h *ImportHandler) scanUpload(file *multipart.FileHeader) (bool, error) {
	reader, err := file.Open()
	if err != nil {
		return false, err
	}
	defer reader.Close()

	clamdClient := clamd.NewClamd(h.clamdAddr)
	abortChan := make(chan bool)
	defer close(abortChan)

	scanChan, err := clamdClient.ScanStream(reader, abortChan)
	if err != nil {
		return false, err
	}

	for result := range scanChan {
		if result.Status != clamd.RES_OK {
			return false, nil
		}
	}
	return true, nil
}

func draftTitle(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.TrimSpace(base)
	if base == "" {
		return "Imported Resume"
	}
	return base + " (Imported)"
}
