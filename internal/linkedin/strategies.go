// Package linkedin extracts post content from a platform that denies
// unauthenticated scrapers, so every strategy here expects to fail often.
package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/gauravsurtani/social-media-reader/internal/fetch"
	"github.com/gauravsurtani/social-media-reader/internal/post"
	"github.com/gauravsurtani/social-media-reader/internal/strategy"
)

// DefaultOEmbedBaseURL is the public oEmbed endpoint. Tests override it.
const DefaultOEmbedBaseURL = "https://www.linkedin.com/oembed"

// OEmbedStrategy asks the structured oEmbed endpoint for post metadata.
type OEmbedStrategy struct {
	Client  *fetch.Client
	BaseURL string
}

type oembedResponse struct {
	AuthorName   string `json:"author_name"`
	AuthorURL    string `json:"author_url"`
	Title        string `json:"title"`
	HTML         string `json:"html"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func (s *OEmbedStrategy) Name() string { return "oembed" }

func (s *OEmbedStrategy) Attempt(ctx context.Context, target string) (*post.Partial, error) {
	base := s.BaseURL
	if base == "" {
		base = DefaultOEmbedBaseURL
	}
	endpoint := base + "?format=json&url=" + url.QueryEscape(target)

	page, err := s.Client.Get(ctx, endpoint, fetch.Options{})
	if err != nil {
		return nil, err
	}

	var resp oembedResponse
	if err := json.Unmarshal([]byte(page.HTML), &resp); err != nil {
		return nil, strategy.NewFailure(s.Name(), strategy.KindMalformed, "bad oembed payload: %v", err)
	}
	if resp.Title == "" && resp.AuthorName == "" {
		return nil, strategy.NewFailure(s.Name(), strategy.KindMalformed, "empty oembed payload")
	}

	partial := &post.Partial{
		Author:    resp.AuthorName,
		AuthorURL: resp.AuthorURL,
		Title:     resp.Title,
	}
	if resp.ThumbnailURL != "" {
		partial.ImageURLs = []string{resp.ThumbnailURL}
	}
	return partial, nil
}

// OpenGraphStrategy scrapes the og:* tags the platform serves to link
// previewers even when the page body is login-walled.
type OpenGraphStrategy struct {
	Client *fetch.Client
}

func (s *OpenGraphStrategy) Name() string { return "opengraph" }

func (s *OpenGraphStrategy) Attempt(ctx context.Context, target string) (*post.Partial, error) {
	page, err := s.Client.Get(ctx, target, fetch.Options{})
	if err != nil {
		return nil, err
	}

	title := page.Meta["title"]
	description := page.Meta["description"]
	if title == "" && description == "" {
		return nil, strategy.NewFailure(s.Name(), strategy.KindMalformed, "no open graph metadata")
	}

	partial := &post.Partial{
		Title:       title,
		Description: description,
	}
	if author, ok := page.Meta["author"]; ok {
		partial.Author = author
	}
	if image, ok := page.Meta["image"]; ok {
		partial.ImageURLs = []string{image}
	}
	return partial, nil
}

// ArticleStrategy runs readability extraction over the fetched page, which
// works for public article and pulse URLs.
type ArticleStrategy struct {
	Client *fetch.Client
}

func (s *ArticleStrategy) Name() string { return "article" }

func (s *ArticleStrategy) Attempt(ctx context.Context, target string) (*post.Partial, error) {
	page, err := s.Client.Get(ctx, target, fetch.Options{})
	if err != nil {
		return nil, err
	}

	article, err := readability.FromReader(strings.NewReader(page.HTML), nil)
	if err != nil {
		return nil, strategy.NewFailure(s.Name(), strategy.KindMalformed, "readability: %v", err)
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return nil, strategy.NewFailure(s.Name(), strategy.KindMalformed, "no readable content")
	}

	partial := &post.Partial{
		Author: article.Byline,
		Title:  article.Title,
		Text:   text,
	}
	if article.Image != "" {
		partial.ImageURLs = []string{article.Image}
	}
	return partial, nil
}

// PasteStrategy accepts operator-pasted post text as the last resort. It only
// participates in a chain when the caller has paste input to offer.
type PasteStrategy struct {
	Raw string
}

func (s *PasteStrategy) Name() string { return "paste" }

func (s *PasteStrategy) Attempt(ctx context.Context, target string) (*post.Partial, error) {
	if strings.TrimSpace(s.Raw) == "" {
		return nil, strategy.NewFailure(s.Name(), strategy.KindInvalidInput, "no pasted text provided")
	}

	paste := ParsePaste(s.Raw)
	partial := &post.Partial{
		Author: paste.Author,
		Title:  paste.Headline,
		Text:   paste.Body,
		Extra:  map[string]string{},
	}
	if len(paste.Hashtags) > 0 {
		partial.Extra["hashtags"] = strings.Join(paste.Hashtags, ",")
	}
	if len(paste.Mentions) > 0 {
		partial.Extra["mentions"] = strings.Join(paste.Mentions, ",")
	}
	if partial.Author == "" && partial.Text == "" {
		return nil, fmt.Errorf("pasted text yielded nothing")
	}
	return partial, nil
}
