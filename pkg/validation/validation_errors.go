package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps JSON field names to user-friendly labels
var FieldLabels = map[string]string{
	// Candidate fields
	"telegram_id":         "Telegram ID",
	"display_name":        "Display name",
	"headline_role":       "Headline role",
	"experience_years":    "Experience years",
	"location":            "Location",
	"work_modes":          "Work modes",
	"contacts_visibility": "Contacts visibility",
	"status":              "Status",

	// Skill fields
	"skill": "Skill",
	"kind":  "Skill kind",
	"level": "Skill level",

	// Project fields
	"title": "Project title",

	// Experience fields
	"company":    "Company",
	"position":   "Position",
	"start_date": "Start date",
	"end_date":   "End date",

	// Asset fields
	"file_id": "File ID",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Not a validation error, return generic message
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}

	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := fieldPath(e)
	tag := e.Tag()
	param := e.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s: is required", label)

	case "not_blank":
		return fmt.Sprintf("%s: must not be blank", label)

	case "min", "gte":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at least %s", label, param)

	case "max", "lte":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at most %s", label, param)

	case "gt":
		return fmt.Sprintf("%s: must be greater than %s", label, param)

	case "oneof":
		return fmt.Sprintf("%s: must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))

	case "iso_date":
		return fmt.Sprintf("%s: must be a date in YYYY-MM-DD format", label)

	default:
		// Fallback for unknown tags
		return fmt.Sprintf("%s: failed validation (%s)", label, tag)
	}
}

// fieldPath keeps the collection index (skills[2].level) and swaps the leaf
// for its label when one is known
func fieldPath(e validator.FieldError) string {
	label := getFieldLabel(e.Field())

	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if j := strings.LastIndex(ns, "."); j >= 0 {
		return ns[:j+1] + e.Field() + " (" + label + ")"
	}
	return label
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return strings.ReplaceAll(fieldName, "_", " ")
}

// BlankFieldMessage is the not_blank message for a field checked outside the
// validator, e.g. an optional pointer that was sent as "   ".
func BlankFieldMessage(field string) string {
	return fmt.Sprintf("%s: must not be blank", getFieldLabel(field))
}
