package feedback

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed feedback.schema.json
var schemaJSON []byte

var schema = mustCompileSchema()

func mustCompileSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("feedback: compile schema: %v", err))
	}
	return s
}

// SchemaError reports one or more schema violations in a model response.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return "feedback schema: " + strings.Join(e.Violations, "; ")
}

// Parse strips any markdown code-fence wrapper from raw model output,
// validates it against the feedback schema and unmarshals it. Any parse or
// schema failure is terminal for the request.
func Parse(raw []byte) (Feedback, error) {
	cleaned := StripCodeFences(string(raw))
	if strings.TrimSpace(cleaned) == "" {
		return Feedback{}, fmt.Errorf("empty model output")
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return Feedback{}, fmt.Errorf("feedback parse: %w", err)
	}
	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			violations = append(violations, desc.String())
		}
		return Feedback{}, &SchemaError{Violations: violations}
	}

	var fb Feedback
	if err := json.Unmarshal([]byte(cleaned), &fb); err != nil {
		return Feedback{}, fmt.Errorf("feedback unmarshal: %w", err)
	}
	return fb, nil
}

// StripCodeFences removes a ```json ... ``` (or bare ```) wrapper the model
// sometimes emits around its JSON payload.
func StripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// drop the language tag on the opening fence line
		first := strings.TrimSpace(trimmed[:idx])
		if first == "" || !strings.ContainsAny(first, "{[") {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
