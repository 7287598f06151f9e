package guardrail

import "strings"

// sensitiveKeywords is the fixed denylist scanned against inbound messages.
// This is a first-pass advisory filter, not a security boundary: plain
// substring matching blocks innocent words that embed a keyword and misses
// paraphrases entirely.
var sensitiveKeywords = []string{
	"child abuse",
	"sexual abuse",
	"rape",
	"molest",
	"porn",
	"nude",
	"suicide",
	"self harm",
	"kill",
	"murder",
	"terror",
	"bomb",
	"drugs",
	"weapon",
	"gun",
	"sex",
	"violence",
}

// Violates reports whether the message contains any blocked keyword.
// Case-insensitive substring scan; any single match short-circuits.
func Violates(message string) bool {
	msg := strings.ToLower(message)
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}

// Response returns the canned refusal shown instead of invoking the model.
func Response() string {
	return "I'm designed only for travel assistance, including:\n" +
		"- Trip planning\n" +
		"- Live weather\n" +
		"- Routes & transport\n" +
		"- Festivals & tourism safety\n\n" +
		"I can't help with sensitive, harmful, or unsafe topics.\n\n" +
		"If you or someone is in danger, please contact local emergency services or a " +
		"trusted professional immediately.\n\n" +
		"You can ask me about destinations, itineraries, routes, or current travel conditions anytime."
}
