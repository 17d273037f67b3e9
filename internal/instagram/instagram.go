// Package instagram extracts post content through the public embed page,
// which stays reachable without a logged-in session.
package instagram

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/gauravsurtani/social-media-reader/internal/fetch"
	"github.com/gauravsurtani/social-media-reader/internal/post"
	"github.com/gauravsurtani/social-media-reader/internal/strategy"
)

var (
	shortcodePattern = regexp.MustCompile(`instagram\.com/(?:p|reel|tv)/([A-Za-z0-9_-]+)`)

	// srcPattern matches scontent CDN URLs in both plain HTML attributes and
	// backslash-escaped JSON blobs embedded in the page.
	srcPattern      = regexp.MustCompile(`src["\\\s:=]+?(https?:[/\\]+scontent[^"\\]+(?:[\\]+[^"\\]+)*)`)
	fallbackPattern = regexp.MustCompile(`https://scontent[^"\s,<>]+`)
	escapedSlashes  = regexp.MustCompile(`[\\]+/`)
)

// Shortcode pulls the post identifier out of any instagram post, reel, or tv
// URL form.
func Shortcode(rawURL string) (string, error) {
	m := shortcodePattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", fmt.Errorf("no post shortcode in %q", rawURL)
	}
	return m[1], nil
}

// EmbedURL returns the captioned embed page for a shortcode.
func EmbedURL(shortcode string) string {
	return fmt.Sprintf("https://www.instagram.com/p/%s/embed/captioned/", shortcode)
}

// unescapeURL undoes JSON backslash escaping and HTML entities in a scraped
// CDN URL.
func unescapeURL(url string) string {
	url = escapedSlashes.ReplaceAllString(url, "/")
	return html.UnescapeString(url)
}

// ScrapeCandidates collects every scontent CDN URL present in the embed HTML,
// in document order. The caller resolves duplicates and size variants.
func ScrapeCandidates(embedHTML string) []string {
	var candidates []string
	seen := map[string]bool{}

	add := func(url string) {
		url = unescapeURL(url)
		if !seen[url] {
			seen[url] = true
			candidates = append(candidates, url)
		}
	}

	for _, m := range srcPattern.FindAllStringSubmatch(embedHTML, -1) {
		add(m[1])
	}
	// Escaped JSON blobs sometimes hold URLs outside any src attribute.
	for _, url := range fallbackPattern.FindAllString(embedHTML, -1) {
		add(url)
	}
	return candidates
}

// ParseEmbed extracts author, caption, and raw image candidates from the
// captioned embed page.
func ParseEmbed(embedHTML string) (*post.Partial, error) {
	candidates := ScrapeCandidates(embedHTML)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no content images in embed page")
	}

	partial := &post.Partial{
		ImageURLs: candidates,
		Extra:     map[string]string{},
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(embedHTML))
	if err != nil {
		return partial, nil
	}

	if username := strings.TrimSpace(doc.Find(".UsernameText").First().Text()); username != "" {
		partial.Author = username
		partial.AuthorURL = "https://www.instagram.com/" + username + "/"
	}
	if caption := strings.TrimSpace(doc.Find(".Caption").First().Text()); caption != "" {
		partial.Text = caption
	}
	if doc.Find(".Sidecar").Length() > 0 {
		partial.Extra["media_type"] = "carousel"
	}

	return partial, nil
}

// EmbedStrategy fetches the embed page with a plain HTTP request.
type EmbedStrategy struct {
	Client *fetch.Client
}

func (s *EmbedStrategy) Name() string { return "embed" }

func (s *EmbedStrategy) Attempt(ctx context.Context, target string) (*post.Partial, error) {
	shortcode, err := Shortcode(target)
	if err != nil {
		return nil, strategy.NewFailure(s.Name(), strategy.KindInvalidInput, "%v", err)
	}

	page, err := s.Client.Get(ctx, EmbedURL(shortcode), fetch.Options{})
	if err != nil {
		return nil, err
	}
	return ParseEmbed(page.HTML)
}

// RenderedEmbedStrategy loads the embed page in headless Chrome, which
// populates carousel images the static page only references from script.
type RenderedEmbedStrategy struct {
	Client  *fetch.Client
	Timeout time.Duration
}

func (s *RenderedEmbedStrategy) Name() string { return "rendered-embed" }

func (s *RenderedEmbedStrategy) Attempt(ctx context.Context, target string) (*post.Partial, error) {
	shortcode, err := Shortcode(target)
	if err != nil {
		return nil, strategy.NewFailure(s.Name(), strategy.KindInvalidInput, "%v", err)
	}

	page, err := s.Client.GetRendered(ctx, EmbedURL(shortcode), s.Timeout)
	if err != nil {
		return nil, err
	}
	return ParseEmbed(page.HTML)
}
