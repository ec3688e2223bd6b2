package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	convertTimeout = 30 * time.Second
	ocrTimeout     = 60 * time.Second
)

// ProviderClient abstracts the document conversion provider.
type ProviderClient interface {
	// ConvertPDF converts a PDF to markdown text.
	ConvertPDF(ctx context.Context, pdfBytes []byte) (string, error)
	// OCRPDF runs OCR over a PDF and returns a text-bearing PDF.
	OCRPDF(ctx context.Context, pdfBytes []byte) ([]byte, error)
}

// Client calls the hosted conversion/OCR provider over HTTP.
type Client struct {
	apiKey      string
	baseURL     string
	ocrLanguage string
	convertHTTP *http.Client
	ocrHTTP     *http.Client
}

// NewClient constructs a provider client. An empty apiKey or baseURL yields a
// client whose Configured method reports false; callers must fail fast
// instead of issuing requests.
func NewClient(apiKey, baseURL, ocrLanguage string) *Client {
	if strings.TrimSpace(ocrLanguage) == "" {
		ocrLanguage = "eng"
	}
	return &Client{
		apiKey:      strings.TrimSpace(apiKey),
		baseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		ocrLanguage: ocrLanguage,
		convertHTTP: &http.Client{Timeout: convertTimeout},
		ocrHTTP:     &http.Client{Timeout: ocrTimeout},
	}
}

// Configured reports whether the provider credentials are present.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.baseURL != ""
}

type convertResponse struct {
	Markdown string `json:"markdown"`
	Error    *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ConvertPDF submits the PDF to the markdown conversion endpoint.
func (c *Client) ConvertPDF(ctx context.Context, pdfBytes []byte) (string, error) {
	body, contentType, err := buildFileForm(pdfBytes, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.do(ctx, c.convertHTTP, c.baseURL+"/v1/convert", contentType, body)
	if err != nil {
		return "", fmt.Errorf("convert request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("convert response read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("convert provider status %d: %s", resp.StatusCode, providerMessage(raw))
	}

	var parsed convertResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("convert response parse: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("convert provider: %s", parsed.Error.Message)
	}
	return parsed.Markdown, nil
}

// OCRPDF submits the PDF to the OCR endpoint and returns the recognized,
// text-bearing PDF bytes.
func (c *Client) OCRPDF(ctx context.Context, pdfBytes []byte) ([]byte, error) {
	fields := map[string]string{
		"language": c.ocrLanguage,
		"output":   "pdf",
	}
	body, contentType, err := buildFileForm(pdfBytes, fields)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, c.ocrHTTP, c.baseURL+"/v1/ocr", contentType, body)
	if err != nil {
		return nil, fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ocr response read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ocr provider status %d: %s", resp.StatusCode, providerMessage(raw))
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("ocr provider returned empty document")
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, httpClient *http.Client, url, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("provider timeout: %w", err)
		}
		return nil, err
	}
	return resp, nil
}

func buildFileForm(pdfBytes []byte, fields map[string]string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", "resume.pdf")
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(pdfBytes); err != nil {
		return nil, "", err
	}
	for key, val := range fields {
		if err := w.WriteField(key, val); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func providerMessage(raw []byte) string {
	var parsed struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return parsed.Error.Message
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	msg := strings.TrimSpace(string(raw))
	const maxLen = 200
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}

var _ ProviderClient = (*Client)(nil)
