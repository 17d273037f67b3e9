package safeurl

import (
	"errors"
	"testing"
)

func TestValidate_Allowed(t *testing.T) {
	urls := []string{
		"https://example.com",
		"http://example.com/path?q=1",
		"  https://www.instagram.com/p/ABC123/  ",
		"https://8.8.8.8/resource",
	}

	for _, u := range urls {
		if _, err := Validate(u); err != nil {
			t.Errorf("Validate(%q) returned error: %v", u, err)
		}
	}
}

func TestValidate_Rejected(t *testing.T) {
	urls := []string{
		"",
		"ftp://example.com/file",
		"file:///etc/passwd",
		"https://",
		"http://localhost/admin",
		"http://127.0.0.1:8080/",
		"http://10.0.0.5/internal",
		"http://172.16.0.1/",
		"http://172.31.255.255/",
		"http://192.168.1.1/router",
		"http://0.0.0.0/",
		"http://169.254.169.254/x",
		"http://[::1]/",
		"http://metadata.google.internal/computeMetadata/v1/",
	}

	for _, u := range urls {
		_, err := Validate(u)
		if err == nil {
			t.Errorf("Validate(%q) should have been rejected", u)
			continue
		}
		if !errors.Is(err, ErrInvalidURL) {
			t.Errorf("Validate(%q) error should wrap ErrInvalidURL, got %v", u, err)
		}
	}
}

func TestValidate_BlockedMidRange(t *testing.T) {
	// 172.15.x and 172.32.x are public, only 172.16-31 is private
	if _, err := Validate("http://172.15.0.1/"); err != nil {
		t.Errorf("172.15.0.1 is public and should pass: %v", err)
	}
	if _, err := Validate("http://172.32.0.1/"); err != nil {
		t.Errorf("172.32.0.1 is public and should pass: %v", err)
	}
}

func TestValidate_ReturnsTrimmed(t *testing.T) {
	got, err := Validate("  https://example.com/a ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://example.com/a" {
		t.Errorf("expected trimmed URL, got %q", got)
	}
}
