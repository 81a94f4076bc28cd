package ideia

import "strings"

// Completeness reports how far an idea is from a submittable state.
type Completeness struct {
	Score         float64  `json:"score"`
	IsComplete    bool     `json:"is_complete"`
	MissingFields []string `json:"missing_fields"`
	FilledFields  int      `json:"filled_fields"`
	TotalFields   int      `json:"total_fields"`
}

type requiredField struct {
	name  string
	value func(*IdeaContext) string
}

var requiredFields = []requiredField{
	{"title", func(i *IdeaContext) string { return i.Title }},
	{"description", func(i *IdeaContext) string { return i.Description }},
	{"target_audience", func(i *IdeaContext) string { return i.TargetAudience }},
}

// ValidateCompleteness scores an idea against the required submission
// fields. The score is the filled fraction in percent and the idea is
// complete only at exactly 100. A nil idea counts as fully empty.
func ValidateCompleteness(idea *IdeaContext) Completeness {
	result := Completeness{
		MissingFields: []string{},
		TotalFields:   len(requiredFields),
	}

	for _, field := range requiredFields {
		if idea != nil && strings.TrimSpace(field.value(idea)) != "" {
			result.FilledFields++
		} else {
			result.MissingFields = append(result.MissingFields, field.name)
		}
	}

	result.Score = float64(result.FilledFields) / float64(result.TotalFields) * 100
	result.IsComplete = result.Score == 100
	return result
}
