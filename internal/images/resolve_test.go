package images

import (
	"testing"
)

func TestResolve_Empty(t *testing.T) {
	if got := Resolve(nil); len(got) != 0 {
		t.Errorf("Resolve(nil) should be empty, got %v", got)
	}
	if got := Resolve([]string{}); len(got) != 0 {
		t.Errorf("Resolve([]) should be empty, got %v", got)
	}
}

func TestResolve_OnePerContentKey(t *testing.T) {
	candidates := []string{
		"https://scontent.cdninstagram.com/v/t51/123_456_789_n.jpg?stp=dst-jpg_s150x150",
		"https://scontent.cdninstagram.com/v/t51/123_456_789_n.jpg?stp=dst-jpg_p1080x1080",
		"https://scontent.cdninstagram.com/v/t51/111_222_333_n.jpg?stp=dst-jpg_p750x750",
	}

	refs := Resolve(candidates)
	if len(refs) != 2 {
		t.Fatalf("expected one ref per content key, got %d: %v", len(refs), refs)
	}

	seen := map[string]bool{}
	for _, ref := range refs {
		if ref.ContentKey == "" {
			t.Errorf("ref %q should carry a content key", ref.URL)
		}
		if seen[ref.ContentKey] {
			t.Errorf("duplicate content key %q", ref.ContentKey)
		}
		seen[ref.ContentKey] = true
	}
}

func TestResolve_Prefers1080Variant(t *testing.T) {
	candidates := []string{
		"https://scontent.cdninstagram.com/v/t51/123_456_789_n.jpg?stp=dst-jpg_p750x750",
		"https://scontent.cdninstagram.com/v/t51/123_456_789_n.jpg?stp=dst-jpg_p1080x1080",
		"https://scontent.cdninstagram.com/v/t51/123_456_789_n.jpg?stp=dst-jpg_s150x150",
	}

	refs := Resolve(candidates)
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(refs))
	}
	if refs[0].URL != candidates[1] {
		t.Errorf("expected the p1080x1080 variant, got %q", refs[0].URL)
	}
}

func TestResolve_ConfigWidthMarker(t *testing.T) {
	candidates := []string{
		"https://scontent.cdninstagram.com/v/t51/123_456_789_n.jpg?stp=dst-jpg_p750x750",
		"https://scontent.cdninstagram.com/v/t51/123_456_789_n.jpg?config_width=1080&config_height=1350",
	}

	refs := Resolve(candidates)
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(refs))
	}
	if refs[0].URL != candidates[1] {
		t.Errorf("config_width 1080 should beat p750x750, got %q", refs[0].URL)
	}
}

func TestResolve_ThumbnailsOnlyDropped(t *testing.T) {
	candidates := []string{
		"https://scontent.cdninstagram.com/v/t51/123_456_789_n.jpg?stp=dst-jpg_s150x150",
		"https://scontent.cdninstagram.com/v/t51/111_222_333_n.jpg?stp=dst-jpg_s240x240",
	}

	if refs := Resolve(candidates); len(refs) != 0 {
		t.Errorf("thumbnail-only input should resolve to nothing, got %v", refs)
	}
}

func TestResolve_LongestURLFallback(t *testing.T) {
	short := "https://scontent.cdninstagram.com/v/t51/123_456_789_n.jpg?x=1"
	long := "https://scontent.cdninstagram.com/v/t51/123_456_789_n.jpg?x=1&oh=abcdef&oe=123456"

	refs := Resolve([]string{short, long})
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(refs))
	}
	if refs[0].URL != long {
		t.Errorf("with no markers the longer URL wins, got %q", refs[0].URL)
	}
}

func TestResolve_FirstSeenOrder(t *testing.T) {
	candidates := []string{
		"https://scontent.cdninstagram.com/v/t51/333_333_333_n.jpg?stp=dst-jpg_p1080x1080",
		"https://scontent.cdninstagram.com/v/t51/111_111_111_n.jpg?stp=dst-jpg_p1080x1080",
		"https://scontent.cdninstagram.com/v/t51/222_222_222_n.jpg?stp=dst-jpg_p1080x1080",
	}

	refs := Resolve(candidates)
	if len(refs) != 3 {
		t.Fatalf("expected 3 refs, got %d", len(refs))
	}
	want := []string{"333_333_333_n.jpg", "111_111_111_n.jpg", "222_222_222_n.jpg"}
	for i, ref := range refs {
		if ref.ContentKey != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], ref.ContentKey)
		}
	}
}

func TestResolve_DropsKeylessAndProfilePics(t *testing.T) {
	candidates := []string{
		"https://media.licdn.com/dms/image/abc/photo.jpg",
		"https://scontent.cdninstagram.com/v/t51.2885-19/123_456_789_n.jpg?stp=dst-jpg_p1080x1080",
	}

	if refs := Resolve(candidates); len(refs) != 0 {
		t.Errorf("keyless URLs and profile pictures should be dropped, got %v", refs)
	}
}

func TestContentKey(t *testing.T) {
	url := "https://scontent.cdninstagram.com/v/t51/123_456_789_n.jpg?x=1"
	if got := ContentKey(url); got != "123_456_789_n.jpg" {
		t.Errorf("expected content key, got %q", got)
	}
	if got := ContentKey("https://example.com/photo.png"); got != "" {
		t.Errorf("expected empty key, got %q", got)
	}
}
