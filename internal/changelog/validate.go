package changelog

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError describes a draft contract violation with field context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// listItemPattern matches bullet or numbered list markers at the start of
// a line, which the description contract forbids.
var listItemPattern = regexp.MustCompile(`(?m)^\s*(?:[-*+]\s|\d+[.)]\s)`)

// headingPattern matches embedded markdown headings.
var headingPattern = regexp.MustCompile(`(?m)^\s*#{1,6}\s`)

// ValidateDraft checks a draft against the full output contract: all three
// fields present and non-empty, the category a member of the closed set,
// and the description plain prose with no lists, headings, or
// category-label prefixes. Violations are rejected, never coerced.
func ValidateDraft(d Draft) error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Message: "required field is empty"}
	}
	if strings.TrimSpace(d.Description) == "" {
		return &ValidationError{Field: "description", Message: "required field is empty"}
	}
	if strings.TrimSpace(d.Category) == "" {
		return &ValidationError{Field: "category", Message: "required field is empty"}
	}
	if !ValidCategory(d.Category) {
		return &ValidationError{
			Field: "category",
			Message: fmt.Sprintf("%q is not one of: %s",
				d.Category, strings.Join(Categories(), ", ")),
		}
	}
	return validateDescription(d.Description)
}

// ValidateRequired checks only that the three required fields are
// non-empty. The store uses this as its last line of defense before a
// write; shape enforcement beyond presence is the synthesizer's job.
func ValidateRequired(d Draft) error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Message: "required field is empty"}
	}
	if strings.TrimSpace(d.Description) == "" {
		return &ValidationError{Field: "description", Message: "required field is empty"}
	}
	if strings.TrimSpace(d.Category) == "" {
		return &ValidationError{Field: "category", Message: "required field is empty"}
	}
	return nil
}

func validateDescription(desc string) error {
	if listItemPattern.MatchString(desc) {
		return &ValidationError{Field: "description", Message: "must be prose, not a list"}
	}
	if headingPattern.MatchString(desc) {
		return &ValidationError{Field: "description", Message: "must not contain headings"}
	}
	for _, category := range Categories() {
		if strings.HasPrefix(strings.TrimSpace(desc), category+":") {
			return &ValidationError{Field: "description", Message: "must not start with a category label"}
		}
	}
	return nil
}
