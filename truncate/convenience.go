package truncate

// ToTokens truncates text to fit within the specified token limit.
// Uses end truncation with the default estimating counter.
func ToTokens(text string, maxTokens int) string {
	result, _ := NewFromEnd().Truncate(text, maxTokens)
	return result
}
