package analyses

import "context"

// Repo defines persistence operations for analysis records.
type Repo interface {
	Create(ctx context.Context, record AnalysisRecord) error
	GetByID(ctx context.Context, recordID string) (AnalysisRecord, error)
	UpdateOutreachMessage(ctx context.Context, recordID, message string) error
	List(ctx context.Context, limit, offset int) ([]AnalysisRecord, error)
}
