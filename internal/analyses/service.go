package analyses

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"resumatch-backend/internal/convert"
	"resumatch-backend/internal/feedback"
	"resumatch-backend/internal/llm"
	"resumatch-backend/internal/shared/metrics"
	"resumatch-backend/internal/shared/storage/object"
	"resumatch-backend/internal/shared/telemetry"
)

const (
	minUserFeedback = 10
	maxUserFeedback = 500
)

// Service runs the analysis pipeline: conversion, feedback generation,
// persistence.
type Service struct {
	Repo      Repo
	Store     object.ObjectStore
	Converter *convert.Converter
	LLM       llm.Client
}

// NewService constructs a Service. Store may be nil, in which case uploads are
// skipped and records carry a null resume URL.
func NewService(repo Repo, store object.ObjectStore, converter *convert.Converter, client llm.Client) *Service {
	return &Service{Repo: repo, Store: store, Converter: converter, LLM: client}
}

// Analyze runs the full pipeline for one validated request. It is synchronous:
// the caller's request stays open until the record is written. Cancellation is
// detached from the incoming request, so in-flight provider calls run to their
// own timeouts even if the client disconnects.
func (s *Service) Analyze(ctx context.Context, req AnalysisRequest) (AnalysisRecord, error) {
	ctx = context.WithoutCancel(ctx)
	started := time.Now()
	metrics.IncAnalysisStarted()

	record, err := s.analyze(ctx, req)
	if err != nil {
		var pipeErr *PipelineError
		if errors.As(err, &pipeErr) {
			metrics.IncAnalysisFailed(pipeErr.Code)
		} else {
			metrics.IncAnalysisFailed("INTERNAL")
		}
		return AnalysisRecord{}, err
	}

	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDuration(time.Since(started).Seconds())
	return record, nil
}

func (s *Service) analyze(ctx context.Context, req AnalysisRequest) (AnalysisRecord, error) {
	conv, err := s.Converter.Convert(ctx, req.PDFBytes)
	if err != nil {
		return AnalysisRecord{}, mapConversionError(err)
	}

	raw, err := s.LLM.GenerateFeedback(ctx, llm.FeedbackInput{
		JobTitle:       req.JobTitle,
		JobDescription: req.JobDescription,
		ResumeMarkdown: conv.Markdown,
	})
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return AnalysisRecord{}, pipelineErr(ErrorCodeServiceUnavailable, http.StatusBadGateway,
				"Analysis service is not configured", err)
		}
		return AnalysisRecord{}, pipelineErr(ErrorCodeServiceUnavailable, http.StatusBadGateway,
			"Analysis service is unavailable", err)
	}

	parsed, err := feedback.Parse(raw)
	if err != nil {
		telemetry.Error("analysis.feedback_rejected", map[string]any{"error": err.Error()})
		return AnalysisRecord{}, pipelineErr(ErrorCodeMalformedAIResponse, http.StatusInternalServerError,
			"The analysis response could not be validated", err)
	}

	// Upload failure is non-fatal: the record is still written, with a null
	// resume URL.
	var resumeURL *string
	if s.Store != nil {
		url, uploadErr := s.Store.Save(ctx, req.FileName, "application/pdf", bytes.NewReader(req.PDFBytes))
		if uploadErr != nil {
			telemetry.Warn("analysis.upload_failed", map[string]any{
				"file_name": req.FileName,
				"error":     uploadErr.Error(),
			})
		} else {
			resumeURL = &url
		}
	}

	now := time.Now().UTC()
	record := AnalysisRecord{
		ID:             uuid.NewString(),
		JobTitle:       req.JobTitle,
		JobDescription: req.JobDescription,
		ResumeMarkdown: conv.Markdown,
		OCRUsed:        conv.OCRUsed,
		Feedback:       parsed,
		ResumeURL:      resumeURL,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Repo.Create(ctx, record); err != nil {
		return AnalysisRecord{}, pipelineErr(ErrorCodePersistenceFailed, http.StatusInternalServerError,
			"Failed to save the analysis", err)
	}

	telemetry.Info("analysis.completed", map[string]any{
		"resume_id": record.ID,
		"ocr_used":  record.OCRUsed,
		"uploaded":  resumeURL != nil,
	})
	return record, nil
}

// RegenerateOutreach rewrites the stored cold outreach message using the
// user's critique and overwrites it in place. Last writer wins.
func (s *Service) RegenerateOutreach(ctx context.Context, recordID, userFeedback string) (string, error) {
	userFeedback = strings.TrimSpace(userFeedback)
	if n := len([]rune(userFeedback)); n < minUserFeedback || n > maxUserFeedback {
		return "", pipelineErr(ErrorCodeMissingFields, http.StatusBadRequest,
			"userFeedback must be between 10 and 500 characters", nil)
	}

	record, err := s.Repo.GetByID(ctx, recordID)
	if err != nil {
		return "", err
	}

	ctx = context.WithoutCancel(ctx)
	message, err := s.LLM.RegenerateOutreach(ctx, llm.OutreachInput{
		JobTitle:        record.JobTitle,
		JobDescription:  record.JobDescription,
		ResumeMarkdown:  record.ResumeMarkdown,
		PreviousMessage: record.Feedback.ColdOutreachMessage,
		UserFeedback:    userFeedback,
	})
	if err != nil {
		return "", pipelineErr(ErrorCodeServiceUnavailable, http.StatusBadGateway,
			"Could not regenerate the outreach message", err)
	}
	if strings.TrimSpace(message) == "" {
		return "", pipelineErr(ErrorCodeMalformedAIResponse, http.StatusInternalServerError,
			"The regenerated message was empty", nil)
	}

	if err := s.Repo.UpdateOutreachMessage(ctx, recordID, message); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", err
		}
		return "", pipelineErr(ErrorCodePersistenceFailed, http.StatusInternalServerError,
			"Failed to save the outreach message", err)
	}
	return message, nil
}

// Get returns a stored analysis record.
func (s *Service) Get(ctx context.Context, recordID string) (AnalysisRecord, error) {
	return s.Repo.GetByID(ctx, recordID)
}

// List returns stored records newest-first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]AnalysisRecord, error) {
	return s.Repo.List(ctx, limit, offset)
}

// PreviewURL returns the stored resume's public URL. ErrNotFound covers both a
// missing record and a record whose upload failed.
func (s *Service) PreviewURL(ctx context.Context, recordID string) (string, error) {
	record, err := s.Repo.GetByID(ctx, recordID)
	if err != nil {
		return "", err
	}
	if record.ResumeURL == nil || *record.ResumeURL == "" {
		return "", ErrNotFound
	}
	return *record.ResumeURL, nil
}

func mapConversionError(err error) error {
	if errors.Is(err, convert.ErrNotConfigured) {
		return pipelineErr(ErrorCodeServiceUnavailable, http.StatusBadGateway,
			"Document conversion is not configured", err)
	}
	var unreadable *convert.UnreadableError
	if errors.As(err, &unreadable) {
		return pipelineErr(ErrorCodePDFUnreadable, http.StatusUnprocessableEntity,
			unreadable.Error(), err)
	}
	return pipelineErr(ErrorCodeServiceUnavailable, http.StatusBadGateway,
		"Document conversion is unavailable", err)
}
