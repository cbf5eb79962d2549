package domain

import (
	"fmt"
	"strings"
)

// Marker is the prefix that turns a stored label into a retrieval
// request. Labels are persisted with this prefix already applied.
const Marker = "-"

// ValidateLabel reports whether candidate may be used as a clip label.
// Only lowercase ASCII letters, digits and underscore are allowed. The
// check runs per character, so the empty string passes.
func ValidateLabel(candidate string) error {
	for _, r := range candidate {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' {
			continue
		}
		return fmt.Errorf("%w: %q not allowed", ErrInvalidLabel, r)
	}
	return nil
}

// Labeled returns label with the marker prefix applied.
func Labeled(label string) string {
	return Marker + label
}

// IsRetrieval reports whether text asks for a stored clip.
func IsRetrieval(text string) bool {
	return strings.HasPrefix(text, Marker)
}
