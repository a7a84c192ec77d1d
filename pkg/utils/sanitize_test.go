package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  "))
	assert.Equal(t, "&lt;script&gt;", SanitizeString("<script>"))
}

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "user@farm.io", SanitizeEmail("  USER@Farm.io  "))
	assert.Equal(t, "user@farm.io", SanitizeEmail("user@farm.io\x00"))
}

func TestValidateAndSanitizeEmail(t *testing.T) {
	email, err := ValidateAndSanitizeEmail(" Grower@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "grower@example.com", email)

	_, err = ValidateAndSanitizeEmail("not-an-email")
	assert.Error(t, err)
}

func TestSanitizeTextKeepsNewlines(t *testing.T) {
	got := SanitizeText("line one\nline two\t<b>")
	assert.Contains(t, got, "\n")
	assert.Contains(t, got, "\t")
	assert.Contains(t, got, "&lt;b&gt;")
}
