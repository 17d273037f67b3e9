package fetch

import (
	"context"
	"testing"
)

func TestNewCookieSource_Disabled(t *testing.T) {
	for _, browser := range []string{"", "off", " OFF "} {
		if cs := NewCookieSource(browser, nil); cs != nil {
			t.Errorf("NewCookieSource(%q) = %v, want nil", browser, cs)
		}
	}

	var cs *CookieSource
	if got := cs.ForURL(context.Background(), "https://example.com"); got != nil {
		t.Errorf("nil CookieSource ForURL = %v, want nil", got)
	}
}

func TestCookieSource_MatchesBrowser(t *testing.T) {
	tests := []struct {
		selected string
		name     string
		want     bool
	}{
		{"auto", "firefox", true},
		{"chrome", "google chrome", true},
		{"chrome", "chromium", true},
		{"chrome", "firefox", false},
		{"firefox", "firefox", true},
		{"safari", "safari", true},
		{"safari", "chrome", false},
	}

	for _, tt := range tests {
		cs := &CookieSource{browser: tt.selected}
		if got := cs.matchesBrowser(tt.name); got != tt.want {
			t.Errorf("matchesBrowser(%q) with %q selected = %v, want %v", tt.name, tt.selected, got, tt.want)
		}
	}
}

func TestCookieSource_MatchesPath(t *testing.T) {
	cs := &CookieSource{
		browser: "auto",
		paths:   map[string]string{"firefox": "/home/u/profiles/work"},
	}

	tests := []struct {
		name     string
		filePath string
		want     bool
	}{
		{"firefox", "/home/u/profiles/work/cookies.sqlite", true},
		{"firefox", "/home/u/.mozilla/firefox/default/cookies.sqlite", false},
		// No path configured for chrome, so any store passes.
		{"chrome", "/home/u/.config/google-chrome/Default/Cookies", true},
	}

	for _, tt := range tests {
		if got := cs.matchesPath(tt.name, tt.filePath); got != tt.want {
			t.Errorf("matchesPath(%q, %q) = %v, want %v", tt.name, tt.filePath, got, tt.want)
		}
	}

	empty := &CookieSource{browser: "auto"}
	if !empty.matchesPath("firefox", "/anywhere/cookies.sqlite") {
		t.Error("matchesPath with no configured paths should accept any store")
	}
}

func TestMatchesDomain(t *testing.T) {
	tests := []struct {
		cookieDomain string
		targetDomain string
		want         bool
	}{
		{"instagram.com", "instagram.com", true},
		{".instagram.com", "www.instagram.com", true},
		{"instagram.com", "notinstagram.com", false},
		{"", "instagram.com", false},
		{"instagram.com", "", false},
	}

	for _, tt := range tests {
		if got := matchesDomain(tt.cookieDomain, tt.targetDomain); got != tt.want {
			t.Errorf("matchesDomain(%q, %q) = %v, want %v", tt.cookieDomain, tt.targetDomain, got, tt.want)
		}
	}
}
