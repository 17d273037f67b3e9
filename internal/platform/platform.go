package platform

import "regexp"

// Platform identifies which extraction chain handles a URL.
type Platform string

const (
	Unknown   Platform = ""
	Instagram Platform = "instagram"
	LinkedIn  Platform = "linkedin"
	Facebook  Platform = "facebook"
	Twitter   Platform = "twitter"
	YouTube   Platform = "youtube"
	TikTok    Platform = "tiktok"
)

var patterns = []struct {
	platform Platform
	re       *regexp.Regexp
}{
	{Instagram, regexp.MustCompile(`(?i)(instagram\.com|instagr\.am)/`)},
	{LinkedIn, regexp.MustCompile(`(?i)linkedin\.com/`)},
	{Facebook, regexp.MustCompile(`(?i)(facebook\.com|fb\.com|fb\.watch)/`)},
	{Twitter, regexp.MustCompile(`(?i)(twitter\.com|x\.com)/`)},
	{YouTube, regexp.MustCompile(`(?i)(youtube\.com|youtu\.be)/`)},
	{TikTok, regexp.MustCompile(`(?i)tiktok\.com/`)},
}

// Detect returns the platform for a post URL, or Unknown.
func Detect(rawURL string) Platform {
	for _, p := range patterns {
		if p.re.MatchString(rawURL) {
			return p.platform
		}
	}
	return Unknown
}

// IsVideo reports whether the platform is handled by the video chain.
func (p Platform) IsVideo() bool {
	switch p {
	case YouTube, Facebook, TikTok:
		return true
	}
	return false
}
