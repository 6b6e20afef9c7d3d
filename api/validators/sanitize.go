package validators

import "strings"

// SanitizeString trims surrounding whitespace and enforces a maximum
// length. Used for free-text fields such as guest contact details.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}
