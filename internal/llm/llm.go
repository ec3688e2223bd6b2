package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for resume feedback generation.
type Client interface {
	GenerateFeedback(ctx context.Context, input FeedbackInput) (json.RawMessage, error)
	RegenerateOutreach(ctx context.Context, input OutreachInput) (string, error)
}

// FeedbackInput captures the inputs for a full feedback generation call.
type FeedbackInput struct {
	JobTitle       string
	JobDescription string
	ResumeMarkdown string
}

// OutreachInput captures the inputs for regenerating a cold outreach message.
type OutreachInput struct {
	JobTitle        string
	JobDescription  string
	ResumeMarkdown  string
	PreviousMessage string
	UserFeedback    string
}

// ErrNotConfigured is returned when no provider credentials are present.
var ErrNotConfigured = errors.New("LLM provider not configured")

// PlaceholderClient is a stub implementation used when no provider is wired.
type PlaceholderClient struct{}

// GenerateFeedback returns ErrNotConfigured.
func (PlaceholderClient) GenerateFeedback(ctx context.Context, input FeedbackInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotConfigured
}

// RegenerateOutreach returns ErrNotConfigured.
func (PlaceholderClient) RegenerateOutreach(ctx context.Context, input OutreachInput) (string, error) {
	_ = ctx
	_ = input
	return "", ErrNotConfigured
}
