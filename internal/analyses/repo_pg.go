package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"resumatch-backend/internal/feedback"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis record.
func (r *PGRepo) Create(ctx context.Context, record AnalysisRecord) error {
	const query = `
INSERT INTO analyses (
	id, job_title, job_description, resume_markdown, ocr_used, feedback, resume_url, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	payload, err := json.Marshal(record.Feedback)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		record.ID,
		record.JobTitle,
		record.JobDescription,
		record.ResumeMarkdown,
		record.OCRUsed,
		payload,
		record.ResumeURL,
		record.CreatedAt,
		record.UpdatedAt,
	)
	return err
}

// GetByID returns an analysis record by ID.
func (r *PGRepo) GetByID(ctx context.Context, recordID string) (AnalysisRecord, error) {
	const query = `
SELECT id, job_title, job_description, resume_markdown, ocr_used, feedback, resume_url, created_at, updated_at
FROM analyses
WHERE id = $1
LIMIT 1`

	var record AnalysisRecord
	var rawFeedback []byte
	var resumeURL sql.NullString
	err := r.DB.QueryRowContext(ctx, query, recordID).Scan(
		&record.ID,
		&record.JobTitle,
		&record.JobDescription,
		&record.ResumeMarkdown,
		&record.OCRUsed,
		&rawFeedback,
		&resumeURL,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AnalysisRecord{}, ErrNotFound
		}
		return AnalysisRecord{}, err
	}
	if err := json.Unmarshal(rawFeedback, &record.Feedback); err != nil {
		return AnalysisRecord{}, err
	}
	if resumeURL.Valid {
		record.ResumeURL = &resumeURL.String
	}
	return record, nil
}

// UpdateOutreachMessage overwrites the feedback's coldOutreachMessage in place.
// Last writer wins.
func (r *PGRepo) UpdateOutreachMessage(ctx context.Context, recordID, message string) error {
	const query = `
UPDATE analyses
SET feedback = jsonb_set(feedback, '{coldOutreachMessage}', to_jsonb($1::text)),
    updated_at = now()
WHERE id = $2::uuid`

	res, err := r.DB.ExecContext(ctx, query, message, recordID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns analysis records ordered newest-first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]AnalysisRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	const query = `
SELECT id, job_title, job_description, resume_markdown, ocr_used, feedback, resume_url, created_at, updated_at
FROM analyses
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnalysisRecord
	for rows.Next() {
		var record AnalysisRecord
		var rawFeedback []byte
		var resumeURL sql.NullString
		if err := rows.Scan(
			&record.ID,
			&record.JobTitle,
			&record.JobDescription,
			&record.ResumeMarkdown,
			&record.OCRUsed,
			&rawFeedback,
			&resumeURL,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(rawFeedback, &record.Feedback); err != nil {
			record.Feedback = feedback.Feedback{}
		}
		if resumeURL.Valid {
			record.ResumeURL = &resumeURL.String
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
