// Package text holds small text-measurement helpers shared across the AI
// extraction providers.
package text

// CountRunes counts Unicode characters rather than bytes, so multi-byte
// source content (CJK text, emoji) is measured consistently across
// providers.
func CountRunes(text string) int {
	return len([]rune(text))
}
