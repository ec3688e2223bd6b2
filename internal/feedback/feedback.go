package feedback

// TipType classifies a tip as positive or actionable.
type TipType string

const (
	TipGood    TipType = "good"
	TipImprove TipType = "improve"
)

// Section names the resume section a line improvement belongs to.
type Section string

const (
	SectionSummary    Section = "summary"
	SectionExperience Section = "experience"
	SectionEducation  Section = "education"
	SectionSkills     Section = "skills"
	SectionOther      Section = "other"
)

// Priority ranks how urgent a line improvement is.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ImprovementCategory names the kind of rewrite a line improvement applies.
type ImprovementCategory string

const (
	CategoryQuantify   ImprovementCategory = "quantify"
	CategoryActionVerb ImprovementCategory = "action-verb"
	CategoryKeyword    ImprovementCategory = "keyword"
	CategoryClarity    ImprovementCategory = "clarity"
	CategoryATS        ImprovementCategory = "ats"
)

// Tip is a single category observation with an explanation.
type Tip struct {
	Type        TipType `json:"type"`
	Tip         string  `json:"tip"`
	Explanation string  `json:"explanation"`
}

// ATSTip is a single ATS observation. ATS tips carry no explanation.
type ATSTip struct {
	Type TipType `json:"type"`
	Tip  string  `json:"tip"`
}

// Category is one scored feedback block with its tips.
type Category struct {
	Score int   `json:"score"`
	Tips  []Tip `json:"tips"`
}

// ATS is the applicant-tracking-system compatibility block.
type ATS struct {
	Score int      `json:"score"`
	Tips  []ATSTip `json:"tips"`
}

// LineImprovement is a suggested verbatim replacement of one resume excerpt.
type LineImprovement struct {
	Section      Section             `json:"section"`
	SectionTitle string              `json:"sectionTitle"`
	Original     string              `json:"original"`
	Suggested    string              `json:"suggested"`
	Reason       string              `json:"reason"`
	Priority     Priority            `json:"priority"`
	Category     ImprovementCategory `json:"category"`
}

// AppliedKey identifies an improvement for the client's "mark as applied"
// toggle. Two improvements with the same section title and original excerpt
// are the same toggle target.
func (li LineImprovement) AppliedKey() string {
	return li.SectionTitle + "\x00" + li.Original
}

// Feedback is the validated analysis result persisted with each record.
type Feedback struct {
	OverallScore        int               `json:"overallScore"`
	ToneAndStyle        Category          `json:"toneAndStyle"`
	Content             Category          `json:"content"`
	Structure           Category          `json:"structure"`
	Skills              Category          `json:"skills"`
	ATS                 ATS               `json:"ATS"`
	LineImprovements    []LineImprovement `json:"lineImprovements"`
	ColdOutreachMessage string            `json:"coldOutreachMessage,omitempty"`
}
