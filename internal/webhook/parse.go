package webhook

import (
	"regexp"
	"strings"
	"unicode"
)

var tweetURLPattern = regexp.MustCompile(`https?://(?:www\.|mobile\.)?(?:twitter\.com|x\.com)/(\w+)/status(?:es)?/(\d+)\S*`)

// ParsedTweet is a tweet reference extracted from a message body.
type ParsedTweet struct {
	URL    string
	Handle string
	ID     string
}

// parseMessage extracts the first tweet URL from an SMS body. Any text
// left over after removing the URL is treated as a category label.
func parseMessage(body string) (ParsedTweet, string, bool) {
	match := tweetURLPattern.FindStringSubmatch(body)
	if match == nil {
		return ParsedTweet{}, "", false
	}

	parsed := ParsedTweet{
		URL:    match[0],
		Handle: match[1],
		ID:     match[2],
	}

	rest := strings.Replace(body, match[0], "", 1)
	return parsed, sanitizeCategory(rest), true
}

// sanitizeCategory normalizes a free-text label into a Notion select
// option name: letters, digits and spaces only, first letter of each
// word capitalized, capped at 30 characters.
func sanitizeCategory(raw string) string {
	var sb strings.Builder
	for _, r := range raw {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-':
			sb.WriteRune(r)
		}
	}

	cleaned := strings.Join(strings.Fields(sb.String()), " ")
	if cleaned == "" {
		return ""
	}

	words := strings.Fields(strings.ToLower(cleaned))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}

	runes := []rune(strings.Join(words, " "))
	if len(runes) > 30 {
		runes = runes[:30]
	}
	return strings.TrimSpace(string(runes))
}

// maskPhoneNumber hides all but the last four digits for logging.
func maskPhoneNumber(number string) string {
	runes := []rune(number)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}
