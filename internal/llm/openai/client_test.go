package openai

import (
	"strings"
	"testing"

	"resumatch-backend/internal/llm"
)

func TestNewClientRequiresCredentials(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		model  string
	}{
		{name: "missing key", apiKey: "", model: "gpt-4o-mini"},
		{name: "missing model", apiKey: "sk-test", model: ""},
		{name: "blank model", apiKey: "sk-test", model: "   "},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(tt.apiKey, tt.model); err == nil {
				t.Fatalf("NewClient(%q, %q) expected error", tt.apiKey, tt.model)
			}
		})
	}
}

func TestBuildFeedbackPromptSubstitutesInputs(t *testing.T) {
	messages := BuildFeedbackPrompt(llm.FeedbackInput{
		JobTitle:       "Staff Engineer",
		JobDescription: "Own the billing platform end to end.",
		ResumeMarkdown: "# Jane Doe\nBuilt invoicing pipelines.",
	})

	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].Role != "system" || messages[1].Role != "developer" || messages[2].Role != "user" {
		t.Fatalf("unexpected roles: %s/%s/%s", messages[0].Role, messages[1].Role, messages[2].Role)
	}
	developer := messages[1].Content
	if !strings.Contains(developer, "Staff Engineer") {
		t.Fatalf("job title not substituted into template")
	}
	if !strings.Contains(developer, "billing platform") {
		t.Fatalf("job description not substituted into template")
	}
	if strings.Contains(developer, "{{JOB_TITLE}}") || strings.Contains(developer, "{{JOB_DESCRIPTION}}") {
		t.Fatalf("template placeholders left unexpanded")
	}
	if !strings.Contains(messages[2].Content, "Built invoicing pipelines") {
		t.Fatalf("resume text missing from user message")
	}
}

func TestBuildOutreachPromptSubstitutesInputs(t *testing.T) {
	messages := BuildOutreachPrompt(llm.OutreachInput{
		JobTitle:        "Data Analyst",
		JobDescription:  "SQL-heavy reporting role.",
		ResumeMarkdown:  "# John",
		PreviousMessage: "Hi, I saw your posting.",
		UserFeedback:    "Make it less generic.",
	})

	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	developer := messages[1].Content
	for _, want := range []string{"Data Analyst", "SQL-heavy", "I saw your posting", "less generic"} {
		if !strings.Contains(developer, want) {
			t.Fatalf("expected %q in developer message", want)
		}
	}
	if strings.Contains(developer, "{{") {
		t.Fatalf("template placeholders left unexpanded: %s", developer)
	}
}
