package ai

import (
	"strings"
)

// ExtractiveSummary builds a deterministic fallback summary from the
// leading sentences of content. Sentences are accumulated until adding the
// next one would exceed maxLength; a sentence is never split. If even the
// first sentence does not fit it is truncated at a word boundary with an
// ellipsis. The result never exceeds maxLength characters.
func ExtractiveSummary(content string, maxLength int) string {
	content = strings.TrimSpace(content)
	if content == "" || maxLength <= 0 {
		return ""
	}
	if len(content) <= maxLength {
		return content
	}

	sentences := splitSentences(content)
	if len(sentences) == 0 {
		return truncateAtWord(content, maxLength)
	}

	var summary string
	for _, sentence := range sentences {
		candidate := sentence
		if summary != "" {
			candidate = summary + " " + sentence
		}
		if len(candidate) > maxLength {
			if summary == "" {
				// First sentence alone is too long
				summary = truncateAtWord(sentence, maxLength)
			}
			break
		}
		summary = candidate
	}

	if summary != "" && !strings.ContainsAny(summary[len(summary)-1:], ".!?") {
		if len(summary)+3 <= maxLength {
			summary += "..."
		}
	}

	return strings.TrimSpace(summary)
}

// splitSentences splits on sentence-ending punctuation followed by
// whitespace.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		if (text[i] == '.' || text[i] == '!' || text[i] == '?') &&
			(text[i+1] == ' ' || text[i+1] == '\n' || text[i+1] == '\t') {
			s := strings.TrimSpace(text[start : i+1])
			if s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// truncateAtWord cuts text to at most maxLength characters, ending on a
// word boundary with an ellipsis where possible.
func truncateAtWord(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	cut := maxLength - 3
	if cut <= 0 {
		return strings.TrimSpace(text[:maxLength])
	}
	truncated := text[:cut]
	if idx := strings.LastIndex(truncated, " "); idx > 0 {
		truncated = truncated[:idx]
	}
	return strings.TrimSpace(truncated) + "..."
}
