package fetch

import (
	"strings"
	"testing"
)

func TestGetUserAgent_KnownPools(t *testing.T) {
	uas := NewUserAgentSelector()

	tests := []struct {
		uaType string
		want   string
	}{
		{"chrome", "Chrome/"},
		{"firefox", "Firefox/"},
		{"safari", "Safari/"},
		{"edge", "Edg/"},
	}

	for _, tt := range tests {
		got := uas.GetUserAgent(tt.uaType)
		if !strings.Contains(got, tt.want) {
			t.Errorf("GetUserAgent(%q) = %q, want it to contain %q", tt.uaType, got, tt.want)
		}
	}
}

func TestGetUserAgent_AutoAndEmpty(t *testing.T) {
	uas := NewUserAgentSelector()

	for _, uaType := range []string{"auto", "", "  AUTO  "} {
		got := uas.GetUserAgent(uaType)
		if !strings.HasPrefix(got, "Mozilla/5.0") {
			t.Errorf("GetUserAgent(%q) = %q, want a browser agent", uaType, got)
		}
	}
}

func TestGetUserAgent_CustomStringPassthrough(t *testing.T) {
	uas := NewUserAgentSelector()

	custom := "MyBot/2.1 (+https://example.com/bot)"
	if got := uas.GetUserAgent(custom); got != custom {
		t.Errorf("GetUserAgent(%q) = %q, want the string back unchanged", custom, got)
	}
}
