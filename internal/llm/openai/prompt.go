package openai

import (
	"fmt"
	"strings"

	"resumatch-backend/internal/llm"
)

// Message represents an OpenAI chat message.
type Message struct {
	Role    string
	Content string
}

const (
	systemPromptFeedback = "You are an expert resume reviewer and recruiter. Respond with JSON only. No markdown. Never omit keys. Output must match the requested shape exactly."
	systemPromptOutreach = "You are an expert career coach who writes concise, specific cold outreach messages. Respond with the message text only."
)

// BuildFeedbackPrompt creates the chat messages for a feedback generation request.
func BuildFeedbackPrompt(input llm.FeedbackInput) []Message {
	replacer := strings.NewReplacer(
		"{{JOB_TITLE}}", input.JobTitle,
		"{{JOB_DESCRIPTION}}", input.JobDescription,
	)
	return []Message{
		{Role: "system", Content: systemPromptFeedback},
		{Role: "developer", Content: replacer.Replace(llm.FeedbackTemplate())},
		{Role: "user", Content: fmt.Sprintf("Resume (markdown):\n%s", input.ResumeMarkdown)},
	}
}

// BuildOutreachPrompt creates the chat messages for an outreach regeneration request.
func BuildOutreachPrompt(input llm.OutreachInput) []Message {
	replacer := strings.NewReplacer(
		"{{JOB_TITLE}}", input.JobTitle,
		"{{JOB_DESCRIPTION}}", input.JobDescription,
		"{{PREVIOUS_MESSAGE}}", input.PreviousMessage,
		"{{USER_FEEDBACK}}", input.UserFeedback,
	)
	return []Message{
		{Role: "system", Content: systemPromptOutreach},
		{Role: "developer", Content: replacer.Replace(llm.OutreachTemplate())},
		{Role: "user", Content: fmt.Sprintf("Resume (markdown):\n%s", input.ResumeMarkdown)},
	}
}
