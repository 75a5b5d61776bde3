package chat

import (
	"strings"

	"linguachat/internal/model"
)

// teachingIndicators are scanned as plain substrings of the lowercased
// message. No classifier, no language sensitivity beyond the list.
var teachingIndicators = []string{
	"what does",
	"how do i",
	"explain",
	"grammar",
	"why",
	"what is",
	"help me understand",
	"i don't understand",
}

// DetectIntent classifies a message as teaching or chat
func DetectIntent(message string) string {
	lower := strings.ToLower(message)
	for _, indicator := range teachingIndicators {
		if strings.Contains(lower, indicator) {
			return model.IntentTeaching
		}
	}
	return model.IntentChat
}
