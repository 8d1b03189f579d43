package retrieval

import (
	"regexp"
	"strings"
)

// Stopwords filtered out of questions before scoring.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "in": true, "on": true, "at": true,
	"is": true, "are": true, "was": true, "were": true, "and": true, "or": true,
	"but": true, "if": true, "then": true, "that": true, "this": true,
	"these": true, "those": true, "to": true, "for": true, "with": true,
	"about": true, "against": true, "between": true, "into": true,
	"through": true, "during": true, "before": true, "after": true,
	"above": true, "below": true, "from": true, "up": true, "down": true,
	"of": true, "off": true, "over": true, "under": true, "again": true,
	"further": true, "once": true, "here": true, "there": true, "when": true,
	"where": true, "why": true, "how": true, "all": true, "any": true,
	"both": true, "each": true, "few": true, "more": true, "most": true,
	"other": true, "some": true, "such": true, "no": true, "nor": true,
	"not": true, "only": true, "own": true, "same": true, "so": true,
	"than": true, "too": true, "very": true, "can": true, "will": true,
	"just": true, "should": true, "now": true, "what": true, "who": true,
	"would": true, "could": true, "i": true, "you": true, "he": true,
	"she": true, "it": true, "we": true, "they": true, "their": true,
	"my": true, "your": true, "his": true, "her": true, "its": true,
	"our": true, "do": true, "does": true, "did": true, "has": true,
	"have": true, "had": true, "am": true, "be": true, "been": true,
	"something": true, "anything": true, "everything": true, "nothing": true,
	"completely": true, "totally": true, "unrelated": true, "related": true,
	"tell": true, "know": true, "need": true, "want": true, "get": true,
	"find": true,
}

// Multi-word insurance terms matched as phrases in addition to single keywords.
var insuranceTerms = []string{
	"water damage",
	"actual cash value",
	"replacement cost",
	"property damage",
	"personal property",
	"sewer backup",
	"flood insurance",
}

var punctRe = regexp.MustCompile(`[^\w\s]`)

// normalize lowercases a question and strips punctuation so matching is
// case- and punctuation-insensitive.
func normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	return punctRe.ReplaceAllString(text, " ")
}

// extractKeywords returns the significant words of a normalized question,
// plus any multi-word insurance terms it contains.
func extractKeywords(text string) []string {
	var keywords []string
	for _, word := range strings.Fields(text) {
		if len(word) <= 2 || stopwords[word] {
			continue
		}
		keywords = append(keywords, word)
	}

	for _, term := range insuranceTerms {
		if strings.Contains(text, term) {
			keywords = append(keywords, term)
		}
	}

	return keywords
}
