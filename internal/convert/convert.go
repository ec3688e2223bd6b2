// Package convert turns an uploaded PDF into bounded markdown text, falling
// back to OCR exactly once when the document yields too little real text.
package convert

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"resumatch-backend/internal/shared/metrics"
	"resumatch-backend/internal/shared/telemetry"
)

const (
	// minRealTextLen is the threshold below which a conversion result is
	// treated as image-only or flattened.
	minRealTextLen = 100
	// maxMarkdownLen bounds the text handed to the feedback stage.
	maxMarkdownLen   = 15000
	imagePlaceholder = "[Image Removed]"
)

// ErrNotConfigured is returned before any provider call when credentials are missing.
var ErrNotConfigured = errors.New("conversion provider is not configured")

// UnreadableError marks a PDF with no extractable text even after OCR.
type UnreadableError struct {
	OCRFailed bool
	Err       error
}

func (e *UnreadableError) Error() string {
	if e.OCRFailed {
		return fmt.Sprintf("PDF could not be read: OCR processing failed: %v", e.Err)
	}
	return "PDF could not be read: the document appears to be scanned or flattened and no text could be recognized"
}

func (e *UnreadableError) Unwrap() error { return e.Err }

// Result is the outcome of a successful conversion.
type Result struct {
	Markdown string
	OCRUsed  bool
}

// Converter runs the fixed two-stage conversion pipeline: the direct stage,
// then at most one OCR-assisted pass. There is no further recursion.
type Converter struct {
	Provider   ProviderClient
	Configured func() bool
}

// NewConverter wires a converter around the given provider client.
func NewConverter(client *Client) *Converter {
	return &Converter{Provider: client, Configured: client.Configured}
}

// Convert converts pdfBytes to markdown, invoking the OCR-assisted stage when
// the direct stage yields fewer than minRealTextLen characters of real text.
func (c *Converter) Convert(ctx context.Context, pdfBytes []byte) (Result, error) {
	if c.Configured != nil && !c.Configured() {
		return Result{}, ErrNotConfigured
	}

	markdown, err := c.Provider.ConvertPDF(ctx, pdfBytes)
	if err != nil {
		return Result{}, fmt.Errorf("direct conversion: %w", err)
	}
	if realTextLen(markdown) >= minRealTextLen {
		return Result{Markdown: finalize(markdown), OCRUsed: false}, nil
	}

	telemetry.Info("conversion.ocr_fallback", map[string]any{
		"direct_text_len": realTextLen(markdown),
	})
	metrics.IncOCRFallback()

	markdown, err = c.convertWithOCR(ctx, pdfBytes)
	if err != nil {
		return Result{}, err
	}
	return Result{Markdown: finalize(markdown), OCRUsed: true}, nil
}

// convertWithOCR is the OCR-assisted stage: recognize text into a new PDF,
// then run the direct conversion once more.
func (c *Converter) convertWithOCR(ctx context.Context, pdfBytes []byte) (string, error) {
	ocrPDF, err := c.Provider.OCRPDF(ctx, pdfBytes)
	if err != nil {
		return "", &UnreadableError{OCRFailed: true, Err: err}
	}

	markdown, err := c.Provider.ConvertPDF(ctx, ocrPDF)
	if err != nil {
		return "", fmt.Errorf("conversion after ocr: %w", err)
	}
	if realTextLen(markdown) < minRealTextLen {
		return "", &UnreadableError{}
	}
	return markdown, nil
}

var (
	imageRefPattern     = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	dataURIImagePattern = regexp.MustCompile(`!\[[^\]]*\]\(data:[^)]*\)`)
)

// realTextLen measures the text that remains after image references and
// surrounding whitespace are stripped.
func realTextLen(markdown string) int {
	stripped := imageRefPattern.ReplaceAllString(markdown, "")
	return len([]rune(strings.TrimSpace(stripped)))
}

// finalize replaces embedded image data-URIs with a placeholder and truncates
// the text deterministically to maxMarkdownLen characters.
func finalize(markdown string) string {
	cleaned := dataURIImagePattern.ReplaceAllString(markdown, imagePlaceholder)
	runes := []rune(cleaned)
	if len(runes) > maxMarkdownLen {
		runes = runes[:maxMarkdownLen]
	}
	return string(runes)
}
