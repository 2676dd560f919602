package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type constants keep queue producers and consumers in sync.
const (
	TypeResumeExport = "resume:export"
)

// ResumeExportPayload carries the minimum needed to render one resume.
type ResumeExportPayload struct {
	ResumeID      string `json:"resume_id"`
	UserID        uint   `json:"user_id"`
	CorrelationID string `json:"correlation_id"`
}

// NewResumeExportTask builds a PDF export task for a stored resume.
func NewResumeExportTask(resumeID string, userID uint, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ResumeExportPayload{
		ResumeID:      resumeID,
		UserID:        userID,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeResumeExport, payload), nil
}
