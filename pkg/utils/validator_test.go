package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFeedback(t *testing.T) {
	require.NoError(t, ValidateFeedback(""))
	require.NoError(t, ValidateFeedback("needs more detail on Q3 spend"))
	require.Error(t, ValidateFeedback(strings.Repeat("x", MaxFeedbackLength+1)))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "clean", SanitizeString("cl\x00ea\x1bn"))
	assert.Equal(t, "line one\nline two\ttabbed", SanitizeString("line one\nline two\ttabbed"))
}
