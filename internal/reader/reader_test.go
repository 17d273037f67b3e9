package reader

import (
	"context"
	"errors"
	"testing"

	"github.com/gauravsurtani/social-media-reader/internal/config"
	"github.com/gauravsurtani/social-media-reader/internal/platform"
	"github.com/gauravsurtani/social-media-reader/internal/safeurl"
)

func testReader() *Reader {
	return New(config.Default(), nil)
}

func TestRead_RejectsInvalidInput(t *testing.T) {
	r := testReader()

	if _, err := r.Read(context.Background(), "http://169.254.169.254/x", Options{}); !errors.Is(err, safeurl.ErrInvalidURL) {
		t.Errorf("internal host should surface the validation error, got %v", err)
	}
	if _, err := r.Read(context.Background(), "https://example.com/some/page", Options{}); err == nil {
		t.Error("URL with no known platform should be a caller error")
	}
	if _, err := r.Read(context.Background(), "https://twitter.com/jane/status/1", Options{}); err == nil {
		t.Error("twitter should be detected but rejected as unsupported")
	}
}

func TestChainFor_InstagramOrder(t *testing.T) {
	r := testReader()
	chain := r.chainFor(platform.Instagram, Options{})

	want := []string{"embed", "rendered-embed", "summarize"}
	if len(chain) != len(want) {
		t.Fatalf("expected %d strategies, got %d", len(want), len(chain))
	}
	for i, name := range want {
		if chain[i].Name() != name {
			t.Errorf("position %d: expected %q, got %q", i, name, chain[i].Name())
		}
	}
}

func TestChainFor_LinkedInPasteOnlyWhenProvided(t *testing.T) {
	r := testReader()

	plain := r.chainFor(platform.LinkedIn, Options{})
	for _, s := range plain {
		if s.Name() == "paste" {
			t.Error("paste strategy should not join the chain without paste input")
		}
	}

	withPaste := r.chainFor(platform.LinkedIn, Options{Paste: "Jane\nCTO\nHi"})
	last := withPaste[len(withPaste)-1]
	if last.Name() != "paste" {
		t.Errorf("paste should be the last resort, got %q", last.Name())
	}
}

func TestResolveImages_PlatformRouting(t *testing.T) {
	r := testReader()

	igCandidates := []string{
		"https://scontent.cdninstagram.com/v/t51/123_456_789_n.jpg?stp=dst-jpg_p750x750",
		"https://scontent.cdninstagram.com/v/t51/123_456_789_n.jpg?stp=dst-jpg_p1080x1080",
	}
	igRefs := r.resolveImages(platform.Instagram, igCandidates)
	if len(igRefs) != 1 {
		t.Fatalf("instagram variants should collapse to one ref, got %d", len(igRefs))
	}

	liRefs := r.resolveImages(platform.LinkedIn, []string{
		"https://media.licdn.com/dms/image/a.jpg",
		"https://media.licdn.com/dms/image/a.jpg",
		"https://media.licdn.com/dms/image/b.jpg",
	})
	if len(liRefs) != 2 {
		t.Fatalf("keyless og images should dedup by URL, got %d", len(liRefs))
	}
	if liRefs[0].ContentKey != liRefs[0].URL {
		t.Error("keyless refs should use their URL as the content key")
	}
}

func TestReadPaste(t *testing.T) {
	r := testReader()
	rec := r.ReadPaste("Jane Doe\nSenior Engineer\nHello world\n42 likes")

	if rec.ExtractionMethod != "paste" {
		t.Errorf("expected paste method, got %q", rec.ExtractionMethod)
	}
	if rec.Metadata["author"] != "Jane Doe" || rec.Metadata["title"] != "Senior Engineer" {
		t.Errorf("unexpected metadata %v", rec.Metadata)
	}
	if rec.Text != "Hello world" {
		t.Errorf("unexpected body %q", rec.Text)
	}
}

func TestReadRecording_RequiresGateway(t *testing.T) {
	r := testReader()
	if _, err := r.ReadRecording(context.Background(), "capture.mp4"); err == nil {
		t.Error("recording mode without a gateway should fail fast")
	}
}
