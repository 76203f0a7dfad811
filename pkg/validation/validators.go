package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	// Same pattern the public contact form has always used.
	contactEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	// Optional +, then digits with common separators.
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 ().-]{5,23}$`)
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("safe_link", SafeLink)
	_ = v.RegisterValidation("no_control", NoControlChars)
}

// ValidPhone validates a phone number structure
func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return phoneRegex.MatchString(val)
}

// IsContactEmail reports whether s matches the contact form address pattern.
func IsContactEmail(s string) bool {
	return contactEmailRegex.MatchString(s)
}

// SafeLink accepts empty values, in-page anchors, site-relative paths and
// http(s)/mailto/tel links. javascript: and data: URLs are rejected.
func SafeLink(fl validator.FieldLevel) bool {
	return IsSafeLink(fl.Field().String())
}

func IsSafeLink(link string) bool {
	link = strings.TrimSpace(link)
	if link == "" || strings.HasPrefix(link, "#") {
		return true
	}
	if strings.HasPrefix(link, "/") && !strings.HasPrefix(link, "//") {
		return true
	}
	lower := strings.ToLower(link)
	for _, scheme := range []string{"http://", "https://", "mailto:", "tel:"} {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

// NoControlChars rejects control characters other than tab and newlines.
func NoControlChars(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
