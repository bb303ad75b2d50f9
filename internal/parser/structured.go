package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	playvalidator "github.com/go-playground/validator/v10"
	"resumematch/internal/types"
)

var structValidator = playvalidator.New(playvalidator.WithRequiredStructEnabled())

// jsonSpan returns the text from the first '{' to the last '}'
func jsonSpan(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// decodeStructured parses the embedded JSON object and checks that every required
// group is present, every enum is declared and every score is in range.
// The returned record has no timestamp; the caller stamps it.
func decodeStructured(text string) (*types.AnalysisRecord, error) {
	span, ok := jsonSpan(text)
	if !ok {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var rec types.AnalysisRecord
	if err := json.Unmarshal([]byte(span), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode analysis JSON: %w", err)
	}

	if err := structValidator.Struct(&rec); err != nil {
		return nil, fmt.Errorf("analysis JSON failed validation: %w", describeValidation(err))
	}

	return &rec, nil
}

// describeValidation flattens validator errors into one readable error
func describeValidation(err error) error {
	verrs, ok := err.(playvalidator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is missing", fe.Namespace()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: %q is not one of [%s]", fe.Namespace(), fe.Value(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: %v violates %s=%s", fe.Namespace(), fe.Value(), fe.Tag(), fe.Param()))
		}
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
