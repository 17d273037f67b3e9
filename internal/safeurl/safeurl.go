package safeurl

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidURL is wrapped by every validation failure so callers can
// distinguish caller error from transient extraction problems.
var ErrInvalidURL = errors.New("invalid url")

var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
}

// Loopback, RFC1918, link-local and cloud-metadata hosts. Requests to any of
// these are refused before a connection is attempted.
var blockedHostPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^localhost$`),
	regexp.MustCompile(`^127\.`),
	regexp.MustCompile(`^10\.`),
	regexp.MustCompile(`^172\.(1[6-9]|2\d|3[01])\.`),
	regexp.MustCompile(`^192\.168\.`),
	regexp.MustCompile(`^0\.`),
	regexp.MustCompile(`^169\.254\.`),
	regexp.MustCompile(`^::1$`),
	regexp.MustCompile(`^metadata\.google\.internal$`),
}

// Validate checks that a URL is safe to fetch: http(s) scheme, a hostname,
// and no private/loopback/metadata target. It returns the trimmed URL.
func Validate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if !allowedSchemes[strings.ToLower(parsed.Scheme)] {
		return "", fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidURL, parsed.Scheme)
	}

	hostname := strings.ToLower(parsed.Hostname())
	if hostname == "" {
		return "", fmt.Errorf("%w: missing hostname", ErrInvalidURL)
	}

	for _, pattern := range blockedHostPatterns {
		if pattern.MatchString(hostname) {
			return "", fmt.Errorf("%w: blocked host %q", ErrInvalidURL, hostname)
		}
	}

	return raw, nil
}
