package analyses

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	maxUploadBytes    = 20 * 1024 * 1024
	minJobDescription = 50
)

// AnalysisRequest is a validated intake payload, ready for the pipeline.
type AnalysisRequest struct {
	FileName       string
	PDFBytes       []byte
	JobTitle       string
	JobDescription string
}

// ParseRequest validates the multipart upload and form fields. Validation
// failures return a PipelineError and no provider is ever called.
func ParseRequest(r *http.Request) (AnalysisRequest, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return AnalysisRequest{}, pipelineErr(ErrorCodeMissingFields, http.StatusBadRequest,
			"A resume file is required", err)
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		return AnalysisRequest{}, pipelineErr(ErrorCodeFileTooLarge, http.StatusBadRequest,
			"Resume file exceeds the 20MB limit", nil)
	}
	if contentType := formContentType(header); contentType != "application/pdf" {
		return AnalysisRequest{}, pipelineErr(ErrorCodeUnsupportedFileType, http.StatusBadRequest,
			"Only PDF resumes are supported", nil)
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return AnalysisRequest{}, pipelineErr(ErrorCodeMissingFields, http.StatusBadRequest,
			"Resume file could not be read", err)
	}
	if len(data) == 0 {
		return AnalysisRequest{}, pipelineErr(ErrorCodeMissingFields, http.StatusBadRequest,
			"Resume file is empty", nil)
	}
	if len(data) > maxUploadBytes {
		return AnalysisRequest{}, pipelineErr(ErrorCodeFileTooLarge, http.StatusBadRequest,
			"Resume file exceeds the 20MB limit", nil)
	}
	if err := probePDF(data); err != nil {
		return AnalysisRequest{}, pipelineErr(ErrorCodeUnsupportedFileType, http.StatusBadRequest,
			"The uploaded file is not a valid PDF", err)
	}

	jobTitle := strings.TrimSpace(r.FormValue("jobTitle"))
	if jobTitle == "" {
		return AnalysisRequest{}, pipelineErr(ErrorCodeMissingFields, http.StatusBadRequest,
			"jobTitle is required", nil)
	}
	jobDescription := strings.TrimSpace(r.FormValue("jobDescription"))
	if jobDescription == "" {
		return AnalysisRequest{}, pipelineErr(ErrorCodeMissingFields, http.StatusBadRequest,
			"jobDescription is required", nil)
	}
	if len([]rune(jobDescription)) < minJobDescription {
		return AnalysisRequest{}, pipelineErr(ErrorCodeMissingFields, http.StatusBadRequest,
			fmt.Sprintf("jobDescription must be at least %d characters", minJobDescription), nil)
	}

	return AnalysisRequest{
		FileName:       header.Filename,
		PDFBytes:       data,
		JobTitle:       jobTitle,
		JobDescription: jobDescription,
	}, nil
}

func formContentType(header *multipart.FileHeader) string {
	raw := header.Header.Get("Content-Type")
	return strings.ToLower(strings.TrimSpace(strings.Split(raw, ";")[0]))
}

// probePDF checks that the payload parses as a PDF document before any paid
// provider call. The parser can panic on crafted input, so it runs recovered.
func probePDF(data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse: %v", r)
		}
	}()
	_, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	return err
}
