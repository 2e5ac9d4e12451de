package router

import (
	"encoding/json"
	"regexp"

	"flarerag/internal/domain"
)

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// extractClassification pulls the "classification" field out of model
// output. It tries strict JSON first, then JSON inside a fenced code block.
// A final failure is reported as a domain.MalformedResponseError.
func extractClassification(text string) (string, error) {
	var payload struct {
		Classification string `json:"classification"`
	}
	candidate := text
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
			candidate = m[1]
		}
		if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
			return "", &domain.MalformedResponseError{Raw: text, Err: err}
		}
	}
	if payload.Classification == "" {
		return "", &domain.MalformedResponseError{Raw: text, Err: errMissingClassification}
	}
	return payload.Classification, nil
}

var errMissingClassification = jsonFieldError("classification field missing or empty")

type jsonFieldError string

func (e jsonFieldError) Error() string { return string(e) }
