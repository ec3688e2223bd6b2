package analyses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"resumatch-backend/internal/convert"
	"resumatch-backend/internal/llm"
)

// minimalPDF builds a small but structurally valid PDF, with the cross
// reference offsets computed from the actual byte positions.
func minimalPDF(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	offsets := make([]int, 4)

	buf.WriteString("%PDF-1.4\n")
	offsets[1] = buf.Len()
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	offsets[2] = buf.Len()
	buf.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	offsets[3] = buf.Len()
	buf.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n")

	xref := buf.Len()
	buf.WriteString("xref\n0 4\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	buf.WriteString("trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n")
	fmt.Fprintf(&buf, "%d\n", xref)
	buf.WriteString("%%EOF\n")
	return buf.Bytes()
}

type uploadSpec struct {
	fileName       string
	contentType    string
	fileBytes      []byte
	omitFile       bool
	jobTitle       string
	jobDescription string
}

func newAnalysisRequest(t *testing.T, spec uploadSpec) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if !spec.omitFile {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="file"; filename="%s"`, spec.fileName))
		header.Set("Content-Type", spec.contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("CreatePart: %v", err)
		}
		if _, err := part.Write(spec.fileBytes); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if spec.jobTitle != "" {
		if err := writer.WriteField("jobTitle", spec.jobTitle); err != nil {
			t.Fatalf("WriteField jobTitle: %v", err)
		}
	}
	if spec.jobDescription != "" {
		if err := writer.WriteField("jobDescription", spec.jobDescription); err != nil {
			t.Fatalf("WriteField jobDescription: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("writer.Close: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, "/api/v1/analyses", &body)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

const testJobDescription = "We are hiring a backend engineer to build and operate Go services handling document pipelines at scale."

func testFeedbackJSON(t *testing.T) string {
	t.Helper()
	tip := map[string]any{"type": "improve", "tip": "Quantify impact", "explanation": "Numbers make achievements concrete."}
	category := map[string]any{"score": 58, "tips": []any{tip}}
	doc := map[string]any{
		"overallScore": 61,
		"toneAndStyle": category,
		"content":      category,
		"structure":    category,
		"skills":       category,
		"ATS": map[string]any{
			"score": 55,
			"tips":  []any{map[string]any{"type": "improve", "tip": "Add role keywords"}},
		},
		"lineImprovements": []any{map[string]any{
			"section":      "experience",
			"sectionTitle": "Experience",
			"original":     "Worked on backend systems",
			"suggested":    "Built Go services processing 2M documents per day",
			"reason":       "Specific scope reads stronger.",
			"priority":     "high",
			"category":     "quantify",
		}},
		"coldOutreachMessage": "Hi, I noticed your backend engineer opening and my pipeline work maps directly to it.",
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal feedback fixture: %v", err)
	}
	return string(raw)
}

// stubProvider implements convert.ProviderClient for pipeline tests.
type stubProvider struct {
	markdown     string
	convertErr   error
	convertCalls int
	ocrCalls     int
}

func (p *stubProvider) ConvertPDF(ctx context.Context, pdfBytes []byte) (string, error) {
	p.convertCalls++
	if p.convertErr != nil {
		return "", p.convertErr
	}
	return p.markdown, nil
}

func (p *stubProvider) OCRPDF(ctx context.Context, pdfBytes []byte) ([]byte, error) {
	p.ocrCalls++
	return nil, errors.New("ocr unavailable in tests")
}

func newStubConverter(markdown string) *convert.Converter {
	return &convert.Converter{
		Provider:   &stubProvider{markdown: markdown},
		Configured: func() bool { return true },
	}
}

// stubLLM implements llm.Client for pipeline tests.
type stubLLM struct {
	feedbackJSON string
	feedbackErr  error
	outreach     string
	outreachErr  error

	feedbackCalls     int
	outreachCalls     int
	lastFeedbackInput llm.FeedbackInput
	lastOutreachInput llm.OutreachInput
}

func (s *stubLLM) GenerateFeedback(ctx context.Context, input llm.FeedbackInput) (json.RawMessage, error) {
	s.feedbackCalls++
	s.lastFeedbackInput = input
	if s.feedbackErr != nil {
		return nil, s.feedbackErr
	}
	return json.RawMessage(s.feedbackJSON), nil
}

func (s *stubLLM) RegenerateOutreach(ctx context.Context, input llm.OutreachInput) (string, error) {
	s.outreachCalls++
	s.lastOutreachInput = input
	if s.outreachErr != nil {
		return "", s.outreachErr
	}
	return s.outreach, nil
}

// stubStore implements object.ObjectStore.
type stubStore struct {
	url     string
	saveErr error
	saves   int
}

func (s *stubStore) Save(ctx context.Context, fileName string, contentType string, r io.Reader) (string, error) {
	s.saves++
	if s.saveErr != nil {
		return "", s.saveErr
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	return s.url, nil
}

func (s *stubStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

// failingRepo rejects every write.
type failingRepo struct {
	MemoryRepo
}

func (r *failingRepo) Create(ctx context.Context, record AnalysisRecord) error {
	return errors.New("connection refused")
}
