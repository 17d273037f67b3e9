package post

// ImageRef is one resolved content image. ContentKey groups size/CDN variants
// of the same logical image; a Record never holds two refs with the same key.
type ImageRef struct {
	URL            string
	ResolutionHint int // 0 when no explicit resolution marker was found
	ContentKey     string
}

// Partial is the typed payload a single extraction strategy produces. Each
// strategy fills only the fields it can vouch for; BuildRecord performs the
// narrow merge into the canonical Record.
type Partial struct {
	Author      string
	AuthorURL   string
	Title       string
	Description string
	Text        string
	ImageURLs   []string // raw candidates, deduplicated later by the resolver
	Extra       map[string]string
}

// Record is the canonical result of one extraction call. It is immutable once
// returned; the caller owns its lifecycle.
type Record struct {
	Platform         string
	SourceURL        string
	Metadata         map[string]string
	Images           []ImageRef
	Text             string
	Analysis         string
	ExtractionMethod string
	Err              error // *strategy.Failure when the whole chain failed
}

// BuildRecord merges a strategy payload into a Record. Only non-empty typed
// fields land in the metadata map, so nothing dict-shaped flows through.
func BuildRecord(platform, sourceURL, method string, p *Partial) *Record {
	rec := &Record{
		Platform:         platform,
		SourceURL:        sourceURL,
		Metadata:         map[string]string{},
		ExtractionMethod: method,
	}
	if p == nil {
		return rec
	}

	rec.Text = p.Text

	fields := map[string]string{
		"author":      p.Author,
		"author_url":  p.AuthorURL,
		"title":       p.Title,
		"description": p.Description,
	}
	for k, v := range fields {
		if v != "" {
			rec.Metadata[k] = v
		}
	}
	for k, v := range p.Extra {
		if v != "" {
			rec.Metadata[k] = v
		}
	}
	return rec
}
