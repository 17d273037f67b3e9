package linkedin

import (
	"regexp"
	"strings"
)

// Paste is the structured form of a copy-pasted post. Fields the heuristic
// cannot locate stay empty; parsing never fails.
type Paste struct {
	Author   string
	Headline string
	Body     string
	Hashtags []string
	Mentions []string
}

var (
	engagementPattern = regexp.MustCompile(`(?i)^\d[\d,.]*\s*(likes?|comments?|reposts?|reactions?|shares?)\b`)
	seeMorePattern    = regexp.MustCompile(`(?i)(\.{3}|…)\s*(see\s+)?more\s*$`)
	hashtagPattern    = regexp.MustCompile(`#(\w+)`)
	mentionPattern    = regexp.MustCompile(`@(\w+)`)
)

// ParsePaste applies the copy-paste layout convention: first non-blank line is
// the author, second is the headline, the rest is the body. Trailing
// engagement-count lines and "...see more" truncation markers are stripped
// from the body. Hashtags and mentions are collected from the full text and
// left in place.
func ParsePaste(raw string) *Paste {
	result := &Paste{
		Hashtags: extractTokens(hashtagPattern, raw),
		Mentions: extractTokens(mentionPattern, raw),
	}

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	if len(lines) == 0 {
		return result
	}

	result.Author = lines[0]
	if len(lines) > 1 {
		result.Headline = lines[1]
	}
	if len(lines) > 2 {
		body := lines[2:]
		for len(body) > 0 && engagementPattern.MatchString(body[len(body)-1]) {
			body = body[:len(body)-1]
		}
		result.Body = strings.Join(body, "\n")
		result.Body = strings.TrimSpace(seeMorePattern.ReplaceAllString(result.Body, ""))
	}

	return result
}

// extractTokens returns the unique first-seen capture groups of pattern.
func extractTokens(pattern *regexp.Regexp, text string) []string {
	tokens := []string{}
	seen := map[string]bool{}
	for _, m := range pattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			tokens = append(tokens, m[1])
		}
	}
	return tokens
}
