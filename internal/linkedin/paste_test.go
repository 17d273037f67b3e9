package linkedin

import (
	"testing"
)

func TestParsePaste_BasicLayout(t *testing.T) {
	paste := ParsePaste("Jane Doe\nSenior Engineer\nHello world\n42 likes")

	if paste.Author != "Jane Doe" {
		t.Errorf("expected author, got %q", paste.Author)
	}
	if paste.Headline != "Senior Engineer" {
		t.Errorf("expected headline, got %q", paste.Headline)
	}
	if paste.Body != "Hello world" {
		t.Errorf("engagement line should be stripped from body, got %q", paste.Body)
	}
	if len(paste.Hashtags) != 0 || len(paste.Mentions) != 0 {
		t.Errorf("expected no tags, got %v / %v", paste.Hashtags, paste.Mentions)
	}
}

func TestParsePaste_TagsStayInBody(t *testing.T) {
	paste := ParsePaste("Jane Doe\nCTO\nShipping #golang with @teammate today\n7 reactions\n3 comments")

	if paste.Body != "Shipping #golang with @teammate today" {
		t.Errorf("tags should stay in body and trailing metrics go, got %q", paste.Body)
	}
	if len(paste.Hashtags) != 1 || paste.Hashtags[0] != "golang" {
		t.Errorf("expected hashtag golang, got %v", paste.Hashtags)
	}
	if len(paste.Mentions) != 1 || paste.Mentions[0] != "teammate" {
		t.Errorf("expected mention teammate, got %v", paste.Mentions)
	}
}

func TestParsePaste_SeeMoreStripped(t *testing.T) {
	paste := ParsePaste("Jane Doe\nCTO\nLong story here ...see more")

	if paste.Body != "Long story here" {
		t.Errorf("see-more marker should be stripped, got %q", paste.Body)
	}
}

func TestParsePaste_MalformedInputDegrades(t *testing.T) {
	for _, raw := range []string{"", "\n\n\n", "only author"} {
		paste := ParsePaste(raw)
		if paste == nil {
			t.Fatalf("ParsePaste(%q) must never return nil", raw)
		}
		if paste.Body != "" || paste.Headline != "" {
			if raw != "only author" {
				t.Errorf("ParsePaste(%q) should have empty fields, got %+v", raw, paste)
			}
		}
	}

	single := ParsePaste("only author")
	if single.Author != "only author" || single.Headline != "" || single.Body != "" {
		t.Errorf("single line should map to author only, got %+v", single)
	}
}

func TestParsePaste_BlankLinesSkipped(t *testing.T) {
	paste := ParsePaste("\n\nJane Doe\n\nSenior Engineer\n\nFirst para\nSecond para\n")

	if paste.Author != "Jane Doe" || paste.Headline != "Senior Engineer" {
		t.Errorf("blank lines should not shift fields, got %+v", paste)
	}
	if paste.Body != "First para\nSecond para" {
		t.Errorf("body should keep remaining lines, got %q", paste.Body)
	}
}
