package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	HeroTitle string `validate:"required"`
	Email     string `validate:"required,email"`
	Phone     string `validate:"valid_phone"`
	Link      string `validate:"safe_link"`
	Type      string `validate:"oneof=technical soft"`
	Notes     string `validate:"no_control,max=5"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

func TestCustomValidators(t *testing.T) {
	v := newValidator()

	ok := sample{HeroTitle: "Hi", Email: "jane.doe@example.com", Phone: "+1 (555) 010-9999", Link: "#contact", Type: "soft", Notes: "a\tb"}
	assert.NoError(t, v.Struct(ok))

	bad := sample{Email: "jane.example.com", Phone: "abc", Link: "javascript:alert(1)", Type: "other", Notes: "a\x00bcdef"}
	err := v.Struct(bad)
	require.Error(t, err)

	msgs := FormatValidationErrors(err)
	assert.Contains(t, msgs, "Hero title is required")
	assert.Contains(t, msgs, "Email must be a valid email address")
	assert.Contains(t, msgs, "Phone must be a valid phone number")
	assert.Contains(t, msgs, "Link must be a valid link")
	assert.Contains(t, msgs, "Type must be one of: technical, soft")
	assert.Contains(t, msgs, "Notes contains invalid characters")
}

func TestIsContactEmail(t *testing.T) {
	assert.True(t, IsContactEmail("jane.doe+site@example.co.uk"))
	for _, addr := range []string{"", "jane@localhost", "jane@example.c", "jane doe@example.com"} {
		assert.False(t, IsContactEmail(addr), addr)
	}
}

func TestIsSafeLink(t *testing.T) {
	for _, link := range []string{"", "#projects", "/static/cv.pdf", "https://github.com/me", "mailto:me@example.com", "tel:+100"} {
		assert.True(t, IsSafeLink(link), link)
	}
	for _, link := range []string{"javascript:void(0)", "data:text/html,hi", "//evil.example", "ftp://x"} {
		assert.False(t, IsSafeLink(link), link)
	}
}

func TestFormatValidationErrorsPlainError(t *testing.T) {
	assert.Equal(t, []string{"boom"}, FormatValidationErrors(errors.New("boom")))
	assert.Equal(t, "boom", Summary(errors.New("boom")))
}
