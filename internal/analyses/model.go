package analyses

import (
	"time"

	"resumatch-backend/internal/feedback"
)

// AnalysisRecord is one completed resume analysis.
type AnalysisRecord struct {
	ID             string            `json:"id"`
	JobTitle       string            `json:"jobTitle"`
	JobDescription string            `json:"jobDescription"`
	ResumeMarkdown string            `json:"resumeMarkdown"`
	OCRUsed        bool              `json:"ocrUsed"`
	Feedback       feedback.Feedback `json:"feedback"`
	ResumeURL      *string           `json:"resumeUrl"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}
