package search

import (
	"strings"

	"nevis-search-api/models"
)

// Match field labels reported alongside scores.
const (
	FieldEmail       = "email"
	FieldName        = "name"
	FieldDescription = "description"
	FieldTitle       = "title"
	FieldContent     = "content"
	FieldSemantic    = "semantic"
	FieldHybrid      = "hybrid"
)

// ScoreClient computes a keyword relevance score in [0,1] for a client
// against a query, together with the field that produced the match.
// Stronger match kinds dominate: exact beats prefix beats substring, and
// email beats name beats description. Returns (0, "") on no match.
func ScoreClient(client models.Client, query string) (float64, string) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0, ""
	}

	email := strings.ToLower(client.Email)
	firstName := strings.ToLower(client.FirstName)
	lastName := strings.ToLower(client.LastName)
	fullName := firstName + " " + lastName
	description := strings.ToLower(client.Description)

	switch {
	case email == q:
		return 1.0, FieldEmail
	case firstName == q || lastName == q || fullName == q:
		return 0.95, FieldName
	case strings.HasPrefix(email, q):
		return 0.9, FieldEmail
	case strings.HasPrefix(firstName, q) || strings.HasPrefix(lastName, q):
		return 0.85, FieldName
	case strings.Contains(email, q):
		return 0.7, FieldEmail
	case strings.Contains(fullName, q):
		return 0.65, FieldName
	case strings.Contains(description, q):
		return 0.5, FieldDescription
	}

	return 0, ""
}

// ScoreDocument computes a keyword relevance score in [0,1] for a
// document against a query. Title matches outrank content matches; a
// whole-phrase hit in the content outranks scattered word hits. Multi-word
// queries that only partially match score by the fraction of words found.
// Returns (0, "") on no match.
func ScoreDocument(doc models.Document, query string) (float64, string) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0, ""
	}

	title := strings.ToLower(doc.Title)
	content := strings.ToLower(doc.Content)
	words := strings.Fields(q)

	switch {
	case title == q:
		return 1.0, FieldTitle
	case strings.HasPrefix(title, q):
		return 0.9, FieldTitle
	case strings.Contains(title, q):
		return 0.7, FieldTitle
	case strings.Contains(content, q):
		if len(words) <= 1 {
			return 0.5, FieldContent
		}
		// Whole phrase present; weight by query specificity
		ratio := wordMatchRatio(words, tokenSet(content))
		return 0.3 + 0.4*ratio, FieldContent
	}

	// Word-level fallback for multi-word queries. Query words count only
	// as whole tokens, so "art" does not match "particular".
	if len(words) > 1 {
		titleTokens := tokenSet(title)
		contentTokens := tokenSet(content)
		var inTitle, inContent, matched int
		for _, word := range words {
			hit := false
			if _, ok := titleTokens[word]; ok {
				inTitle++
				hit = true
			}
			if _, ok := contentTokens[word]; ok {
				inContent++
				hit = true
			}
			if hit {
				matched++
			}
		}
		if matched > 0 {
			score := float64(matched) / float64(len(words)) * 0.4
			if inTitle > inContent {
				return score, FieldTitle
			}
			return score, FieldContent
		}
	}

	return 0, ""
}

func tokenSet(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, word := range strings.Fields(text) {
		tokens[word] = struct{}{}
	}
	return tokens
}

func wordMatchRatio(words []string, tokens map[string]struct{}) float64 {
	if len(words) == 0 {
		return 0
	}
	matched := 0
	for _, word := range words {
		if _, ok := tokens[word]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(words))
}
