package retrieval

import (
	"strings"

	"claimsight/kb"
)

// lexicalScore rates how well a keyword set matches one entry.
//
// Keywords found in the entry's question weigh double those found only in
// the answer. The sum is normalized by keyword count and halved when fewer
// than 30% of keywords matched at all. Scores are uncapped so an entry
// matching in both question and answer outranks an answer-only match; the
// caller clamps the winning score into [0,1] before reporting it as a
// confidence value.
func lexicalScore(keywords []string, entry kb.Entry) float64 {
	if len(keywords) == 0 {
		return 0
	}

	question := strings.ToLower(entry.Question)
	answer := strings.ToLower(entry.Answer)

	var score float64
	matched := 0

	for _, kw := range keywords {
		if strings.Contains(question, kw) {
			score += 2
			matched++
		}
		if strings.Contains(answer, kw) {
			score += 1
			matched++
		}
	}

	score /= float64(len(keywords))

	if float64(matched)/float64(len(keywords)) < 0.3 {
		score *= 0.5
	}

	return score
}
