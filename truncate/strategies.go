package truncate

import "strings"

// truncateEnd keeps the longest prefix that fits, then appends the marker.
func (t *Truncator) truncateEnd(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return t.suffix
	}

	runes := []rune(text)
	keep := t.findRuneCountForTokens(runes, maxTokens)
	if keep == 0 {
		return t.suffix
	}
	return string(runes[:keep]) + t.suffix
}

// truncateMiddle keeps the start and end, marking the removed middle.
func (t *Truncator) truncateMiddle(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return t.suffix
	}

	halfTokens := maxTokens / 2

	runes := []rune(text)
	totalRunes := len(runes)

	startRunes := t.findRuneCountForTokens(runes, halfTokens)

	endStart := totalRunes - startRunes
	if endStart < startRunes {
		endStart = startRunes
	}

	var sb strings.Builder
	sb.WriteString(string(runes[:startRunes]))
	sb.WriteString(t.suffix)
	if endStart < totalRunes {
		sb.WriteString(string(runes[endStart:]))
	}
	return sb.String()
}

// truncateStart keeps the longest suffix that fits, prefixed by the marker.
func (t *Truncator) truncateStart(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return t.suffix
	}

	runes := []rune(text)

	// Binary search from the end for where the kept tail begins.
	low, high := 0, len(runes)
	for low < high {
		mid := (low + high) / 2
		candidate := string(runes[mid:])
		if t.counter.FitsInLimit(candidate, maxTokens) {
			high = mid
		} else {
			low = mid + 1
		}
	}

	if low >= len(runes) {
		return t.suffix
	}
	return t.suffix + string(runes[low:])
}

// findRuneCountForTokens finds how many runes from the start fit in the
// given token count.
func (t *Truncator) findRuneCountForTokens(runes []rune, maxTokens int) int {
	low, high := 0, len(runes)

	for low < high {
		mid := (low + high + 1) / 2
		candidate := string(runes[:mid])
		if t.counter.FitsInLimit(candidate, maxTokens) {
			low = mid
		} else {
			high = mid - 1
		}
	}

	return low
}
