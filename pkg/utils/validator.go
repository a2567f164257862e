package utils

import (
	"fmt"
	"regexp"
)

// MaxFeedbackLength caps reviewer feedback accepted by the decision
// endpoint.
const MaxFeedbackLength = 4000

// Tabs and newlines stay; everything else in the control range goes.
var controlChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)

// ValidateFeedback validates reviewer feedback text. Empty feedback is
// allowed.
func ValidateFeedback(feedback string) error {
	if len(feedback) > MaxFeedbackLength {
		return fmt.Errorf("feedback exceeds %d characters", MaxFeedbackLength)
	}
	return nil
}

// SanitizeString removes control characters from user-entered text.
func SanitizeString(s string) string {
	return controlChars.ReplaceAllString(s, "")
}
