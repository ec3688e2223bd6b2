package analyses

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no analysis exists for the given ID.
var ErrNotFound = errors.New("not found")

// Stable machine codes carried in the failure envelope.
const (
	ErrorCodeMissingFields       = "MISSING_FIELDS"
	ErrorCodeUnsupportedFileType = "UNSUPPORTED_FILE_TYPE"
	ErrorCodeFileTooLarge        = "FILE_TOO_LARGE"
	ErrorCodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	ErrorCodePDFUnreadable       = "PDF_UNREADABLE"
	ErrorCodeMalformedAIResponse = "MALFORMED_AI_RESPONSE"
	ErrorCodePersistenceFailed   = "PERSISTENCE_FAILED"
)

// PipelineError is a pipeline failure with a stable code, the HTTP status it
// maps to, and a user-facing message.
type PipelineError struct {
	Code    string
	Status  int
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error { return e.Err }

func pipelineErr(code string, status int, message string, err error) *PipelineError {
	return &PipelineError{Code: code, Status: status, Message: message, Err: err}
}
