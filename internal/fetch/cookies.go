package fetch

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/all" // register all browser cookie stores

	"github.com/rs/zerolog/log"
)

// CookieSource reads cookies out of a locally installed browser so fetches
// can reuse an existing logged-in session. A nil *CookieSource is valid and
// yields no cookies.
type CookieSource struct {
	browser string // auto, chrome, firefox, safari
	paths   map[string]string
}

// NewCookieSource returns nil when browser is "off" or empty, which disables
// cookie injection entirely. paths optionally pins a browser to a custom
// profile root, keyed by browser name.
func NewCookieSource(browser string, paths map[string]string) *CookieSource {
	browser = strings.ToLower(strings.TrimSpace(browser))
	if browser == "" || browser == "off" {
		return nil
	}
	return &CookieSource{browser: browser, paths: paths}
}

// ForURL returns the cookies the selected browser would send to targetURL.
// Store read errors are logged and skipped, never fatal.
func (cs *CookieSource) ForURL(ctx context.Context, targetURL string) []*http.Cookie {
	if cs == nil {
		return nil
	}

	parsed, err := url.Parse(targetURL)
	if err != nil {
		return nil
	}

	var cookies []*http.Cookie
	for cookie, err := range kooky.TraverseCookies(ctx) {
		if err != nil {
			continue
		}
		name := strings.ToLower(cookie.Browser.Browser())
		if !cs.matchesBrowser(name) ||
			!cs.matchesPath(name, cookie.Browser.FilePath()) ||
			!matchesDomain(cookie.Domain, parsed.Host) {
			continue
		}
		cookies = append(cookies, &http.Cookie{
			Name:     cookie.Name,
			Value:    cookie.Value,
			Path:     cookie.Path,
			Domain:   cookie.Domain,
			Expires:  cookie.Expires,
			Secure:   cookie.Secure,
			HttpOnly: cookie.HttpOnly,
		})
	}

	if len(cookies) > 0 {
		log.Debug().Str("host", parsed.Host).Int("count", len(cookies)).Msg("injecting browser cookies")
	}
	return cookies
}

func (cs *CookieSource) matchesBrowser(name string) bool {
	if cs.browser == "auto" {
		return true
	}

	switch cs.browser {
	case "chrome":
		return strings.Contains(name, "chrome") || strings.Contains(name, "chromium")
	case "firefox":
		return strings.Contains(name, "firefox")
	case "safari":
		return strings.Contains(name, "safari")
	}
	return false
}

// matchesPath restricts a browser's cookies to stores under its configured
// profile root. Browsers with no configured path stay unrestricted.
func (cs *CookieSource) matchesPath(name, filePath string) bool {
	for key, root := range cs.paths {
		if root == "" || !strings.Contains(name, strings.ToLower(key)) {
			continue
		}
		return strings.HasPrefix(filePath, root)
	}
	return true
}

func matchesDomain(cookieDomain, targetDomain string) bool {
	if cookieDomain == "" || targetDomain == "" {
		return false
	}

	cookieDomain = strings.TrimPrefix(cookieDomain, ".")

	if cookieDomain == targetDomain {
		return true
	}
	return strings.HasSuffix(targetDomain, "."+cookieDomain)
}
