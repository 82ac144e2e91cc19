// Package convo defines the contracts the motion core consumes from
// the conversational side of the robot: something that produces a
// response, something that speaks, something that listens. Providers
// live elsewhere; this package only fixes the boundary, plus the
// keyword heuristic that turns a response into a gesture category.
package convo

import (
	"context"
	"strings"
)

// Responder produces a reply to user input.
type Responder interface {
	Respond(ctx context.Context, userInput string) (string, error)
}

// Speaker turns text into audible speech. Not synchronized with
// gesture execution; speech and motion may overlap.
type Speaker interface {
	Say(ctx context.Context, text string) error
}

// Transcriber captures one utterance of user speech as text.
type Transcriber interface {
	Listen(ctx context.Context) (string, error)
}

// Coarse gesture categories a response can map to.
const (
	CategoryYes      = "yes"
	CategoryNo       = "no"
	CategoryThinking = "thinking"
	CategoryExcited  = "excited"
	CategoryCurious  = "curious"
	CategoryNeutral  = "neutral"
)

// categoryKeywords drives Categorize. First category with a hit wins;
// order matters (an enthusiastic "yes, amazing!" should nod).
var categoryKeywords = []struct {
	category string
	words    []string
}{
	{CategoryYes, []string{"yes", "yeah", "yep", "absolutely", "definitely", "certainly"}},
	{CategoryNo, []string{"no", "nope", "not really", "unfortunately"}},
	{CategoryThinking, []string{"hmm", "interesting", "let me think", "i wonder"}},
	{CategoryExcited, []string{"wow", "amazing", "excited", "great", "awesome"}},
	{CategoryCurious, []string{"curious", "why", "how come"}},
}

// Categorize maps a response string to a coarse gesture category
// using keyword heuristics. Anything without a hit is neutral.
func Categorize(response string) string {
	lower := strings.ToLower(response)
	for _, ck := range categoryKeywords {
		for _, w := range ck.words {
			if containsWord(lower, w) {
				return ck.category
			}
		}
	}
	return CategoryNeutral
}

// containsWord matches w in s on word boundaries, so "no" does not
// fire inside "know" or "now".
func containsWord(s, w string) bool {
	for start := 0; ; {
		i := strings.Index(s[start:], w)
		if i < 0 {
			return false
		}
		i += start
		before := i == 0 || !isWordChar(s[i-1])
		afterIdx := i + len(w)
		after := afterIdx >= len(s) || !isWordChar(s[afterIdx])
		if before && after {
			return true
		}
		start = i + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '\''
}
