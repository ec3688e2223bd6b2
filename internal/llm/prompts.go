package llm

import _ "embed"

var (
	//go:embed prompts/feedback.txt
	feedbackPrompt string
	//go:embed prompts/outreach.txt
	outreachPrompt string
)

// FeedbackTemplate returns the instruction template for feedback generation.
func FeedbackTemplate() string { return feedbackPrompt }

// OutreachTemplate returns the instruction template for outreach regeneration.
func OutreachTemplate() string { return outreachPrompt }
