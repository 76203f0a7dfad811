package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-facing labels
var FieldLabels = map[string]string{
	"HeroTitle":       "Hero title",
	"HeroSubtitle":    "Hero subtitle",
	"HeroDescription": "Hero description",
	"AboutText":       "About text",
	"CertificateLink": "Certificate link",
	"GPA":             "GPA",
	"Linkedin":        "LinkedIn",
	"Github":          "GitHub",
	"SiteTitle":       "Site title",
	"CurrentPassword": "Current password",
	"NewPassword":     "New password",
	"ConfirmPassword": "Password confirmation",
	"NewUsername":     "New username",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// Summary joins the formatted messages into one line.
func Summary(err error) string {
	return strings.Join(FormatValidationErrors(err), "; ")
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Fields(param), ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "url", "safe_link":
		return fmt.Sprintf("%s must be a valid link", label)
	case "valid_phone":
		return fmt.Sprintf("%s must be a valid phone number", label)
	case "no_control":
		return fmt.Sprintf("%s contains invalid characters", label)
	case "eqfield":
		return fmt.Sprintf("%s must match %s", label, getFieldLabel(param))
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase turns "HeroTitle" into "Hero title".
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
			result.WriteRune(r + ('a' - 'A'))
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}
