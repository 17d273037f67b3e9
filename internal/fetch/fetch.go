package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/gauravsurtani/social-media-reader/internal/safeurl"
	"github.com/gauravsurtani/social-media-reader/internal/strategy"
)

// Page is a fetched document plus the metadata scraped from its head.
type Page struct {
	URL      string
	HTML     string
	Title    string
	Meta     map[string]string // og:* keys stored without the prefix
	Rendered bool
}

type Options struct {
	UserAgent    string
	BrowserAgent string
	Headers      map[string]string
	Cookies      []*http.Cookie
}

// Client performs SSRF-guarded HTTP fetches with browser-like headers and
// optional ambient browser cookies.
type Client struct {
	http            *http.Client
	userAgentSelect *UserAgentSelector
	cookies         *CookieSource
	defaultUA       string
	browserAgent    string
	validate        func(string) (string, error)
}

func NewClient(timeout time.Duration, userAgent, browserAgent string, cookies *CookieSource) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:            &http.Client{Timeout: timeout},
		userAgentSelect: NewUserAgentSelector(),
		cookies:         cookies,
		defaultUA:       userAgent,
		browserAgent:    browserAgent,
		validate:        safeurl.Validate,
	}
}

// AllowPrivateHosts disables the SSRF host guard. Only for tests and
// explicitly trusted self-hosted endpoints.
func (c *Client) AllowPrivateHosts() {
	c.validate = func(raw string) (string, error) { return raw, nil }
}

// Get fetches a page over plain HTTP. HTTP error statuses come back as
// *strategy.Failure so callers can classify them without string matching.
func (c *Client) Get(ctx context.Context, rawURL string, opts Options) (*Page, error) {
	validated, err := c.validate(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, validated, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.applyHeaders(req, validated, opts)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, strategy.ClassifyHTTPStatus("fetch", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return newPage(validated, string(body), false), nil
}

// Download fetches a binary resource (image bytes) and reports its MIME type.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, string, error) {
	validated, err := c.validate(rawURL)
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, validated, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent(Options{}))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, "", strategy.ClassifyHTTPStatus("download", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}

	mime := resp.Header.Get("Content-Type")
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	if mime == "" {
		mime = "image/jpeg"
	}
	return data, mime, nil
}

func (c *Client) applyHeaders(req *http.Request, target string, opts Options) {
	req.Header.Set("User-Agent", c.userAgent(opts))

	// Headers that make the request look like a real browser navigation
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")

	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	for _, cookie := range opts.Cookies {
		req.AddCookie(cookie)
	}
	if c.cookies != nil {
		for _, cookie := range c.cookies.ForURL(req.Context(), target) {
			req.AddCookie(cookie)
		}
	}
}

func (c *Client) userAgent(opts Options) string {
	if opts.UserAgent != "" {
		return opts.UserAgent
	}
	if c.defaultUA != "" {
		return c.defaultUA
	}
	agent := opts.BrowserAgent
	if agent == "" {
		agent = c.browserAgent
	}
	return c.userAgentSelect.GetUserAgent(agent)
}

func newPage(url, html string, rendered bool) *Page {
	page := &Page{
		URL:      url,
		HTML:     html,
		Meta:     map[string]string{},
		Rendered: rendered,
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return page
	}

	page.Title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("meta").Each(func(i int, s *goquery.Selection) {
		content, ok := s.Attr("content")
		if !ok || content == "" {
			return
		}
		key, ok := s.Attr("property")
		if !ok {
			key, ok = s.Attr("name")
		}
		if !ok {
			return
		}
		key = strings.ToLower(key)
		switch {
		case strings.HasPrefix(key, "og:"):
			page.Meta[strings.TrimPrefix(key, "og:")] = content
		case key == "author" || key == "description" || key == "keywords":
			if _, exists := page.Meta[key]; !exists {
				page.Meta[key] = content
			}
		}
	})

	return page
}
