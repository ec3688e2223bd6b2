package analyses

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores analysis records in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]AnalysisRecord
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]AnalysisRecord)}
}

// Create stores the record.
func (r *MemoryRepo) Create(ctx context.Context, record AnalysisRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[record.ID] = record
	return nil
}

// GetByID returns a record by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, recordID string) (AnalysisRecord, error) {
	if err := ctx.Err(); err != nil {
		return AnalysisRecord{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.byID[recordID]
	if !ok {
		return AnalysisRecord{}, ErrNotFound
	}
	return record, nil
}

// UpdateOutreachMessage overwrites the feedback's outreach message. Last
// writer wins.
func (r *MemoryRepo) UpdateOutreachMessage(ctx context.Context, recordID, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.byID[recordID]
	if !ok {
		return ErrNotFound
	}
	record.Feedback.ColdOutreachMessage = message
	record.UpdatedAt = time.Now().UTC()
	r.byID[recordID] = record
	return nil
}

// List returns records newest-first with limit/offset.
func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]AnalysisRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 20
	}

	r.mu.RLock()
	records := make([]AnalysisRecord, 0, len(r.byID))
	for _, record := range r.byID {
		records = append(records, record)
	}
	r.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if offset >= len(records) {
		return []AnalysisRecord{}, nil
	}
	end := len(records)
	if offset+limit < end {
		end = offset + limit
	}
	return records[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
