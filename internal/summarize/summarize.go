// Package summarize falls back to the Jina Reader service (r.jina.ai), which
// renders and summarizes pages server-side and often succeeds where direct
// scraping is blocked.
package summarize

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gauravsurtani/social-media-reader/internal/post"
	"github.com/gauravsurtani/social-media-reader/internal/safeurl"
	"github.com/gauravsurtani/social-media-reader/internal/strategy"
)

const DefaultBaseURL = "https://r.jina.ai/"

// ReaderStrategy proxies the target through a remote reader endpoint and
// parses its structured text response.
type ReaderStrategy struct {
	APIKey  string // optional, raises rate limits
	BaseURL string // tests override
	Timeout time.Duration

	client *http.Client
}

func NewReaderStrategy(apiKey string, timeout time.Duration) *ReaderStrategy {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &ReaderStrategy{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *ReaderStrategy) Name() string { return "summarize" }

func (s *ReaderStrategy) Attempt(ctx context.Context, target string) (*post.Partial, error) {
	if _, err := safeurl.Validate(target); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/plain")
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	if s.client == nil {
		s.client = &http.Client{Timeout: s.Timeout}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, strategy.ClassifyHTTPStatus(s.Name(), resp.StatusCode)
	}

	content := string(body)
	text := extractMarkdown(content)
	if strings.TrimSpace(text) == "" {
		return nil, strategy.NewFailure(s.Name(), strategy.KindMalformed, "empty reader response")
	}

	return &post.Partial{
		Title: extractField(content, "Title:"),
		Text:  text,
	}, nil
}

// extractField pulls a named header line out of the reader's structured
// response.
func extractField(content, field string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, field) {
			return strings.TrimSpace(strings.TrimPrefix(line, field))
		}
	}
	return ""
}

// extractMarkdown returns the section after the "Markdown Content:" marker,
// or the whole body when the marker is missing.
func extractMarkdown(content string) string {
	marker := "Markdown Content:"
	idx := strings.Index(content, marker)
	if idx == -1 {
		return content
	}
	return strings.TrimSpace(content[idx+len(marker):])
}
