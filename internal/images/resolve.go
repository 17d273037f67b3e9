// Package images deduplicates CDN image variants and picks the highest
// resolution candidate for each underlying photo.
package images

import (
	"regexp"

	"github.com/gauravsurtani/social-media-reader/internal/post"
)

// contentKeyPattern matches the stable media identifier CDNs keep constant
// across resized variants of the same photo.
var contentKeyPattern = regexp.MustCompile(`/(\d+_\d+_\d+_n\.jpg)`)

// Resolution markers in descending preference. A URL carrying an earlier
// marker always beats one carrying only a later marker.
var resolutionMarkers = []*regexp.Regexp{
	regexp.MustCompile(`p1080x1080`),
	regexp.MustCompile(`config_width.*1080`),
	regexp.MustCompile(`p750x750`),
}

var (
	thumbnailPattern  = regexp.MustCompile(`s150x150|s240x240`)
	profilePicPattern = regexp.MustCompile(`2885-19`)
)

// ContentKey extracts the stable media id from a CDN URL, or "" when the URL
// carries none.
func ContentKey(url string) string {
	m := contentKeyPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// IsThumbnail reports whether the URL is a small square variant that should
// never be chosen over a full-size one.
func IsThumbnail(url string) bool {
	return thumbnailPattern.MatchString(url)
}

// markerRank returns the index of the best resolution marker present, or
// len(resolutionMarkers) when none match.
func markerRank(url string) int {
	for i, marker := range resolutionMarkers {
		if marker.MatchString(url) {
			return i
		}
	}
	return len(resolutionMarkers)
}

// better reports whether candidate should replace current as the pick for one
// content key. Ties on marker rank fall back to the longer URL, which on these
// CDNs correlates with more sizing parameters and higher resolution.
func better(candidate, current string) bool {
	cr, br := markerRank(candidate), markerRank(current)
	if cr != br {
		return cr < br
	}
	if cr == len(resolutionMarkers) {
		ct, bt := IsThumbnail(candidate), IsThumbnail(current)
		if ct != bt {
			return bt
		}
	}
	return len(candidate) > len(current)
}

// Resolve deduplicates scraped candidate URLs down to one best URL per
// distinct photo, in first-seen order. Profile pictures and URLs without a
// recognizable content id are dropped, as are groups where only thumbnail
// variants exist. Resolve(nil) and Resolve([]) return an empty slice.
func Resolve(candidates []string) []post.ImageRef {
	order := make([]string, 0, len(candidates))
	best := make(map[string]string, len(candidates))

	for _, url := range candidates {
		if url == "" || profilePicPattern.MatchString(url) {
			continue
		}
		key := ContentKey(url)
		if key == "" {
			continue
		}
		current, seen := best[key]
		if !seen {
			order = append(order, key)
			best[key] = url
			continue
		}
		if better(url, current) {
			best[key] = url
		}
	}

	refs := make([]post.ImageRef, 0, len(order))
	for _, key := range order {
		url := best[key]
		if IsThumbnail(url) {
			continue
		}
		rank := markerRank(url)
		refs = append(refs, post.ImageRef{
			URL:            url,
			ResolutionHint: len(resolutionMarkers) - rank,
			ContentKey:     key,
		})
	}
	return refs
}
