package utils

// Truncate shortens s to at most maxLen runes, appending an ellipsis when it
// cuts. Memory summaries are prose, so it counts runes rather than bytes to
// avoid splitting a multibyte character mid-sequence.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
