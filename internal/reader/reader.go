// Package reader wires platform detection, strategy chains, image
// resolution, and vision analysis into one extraction entry point.
package reader

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gauravsurtani/social-media-reader/internal/config"
	"github.com/gauravsurtani/social-media-reader/internal/fetch"
	"github.com/gauravsurtani/social-media-reader/internal/images"
	"github.com/gauravsurtani/social-media-reader/internal/instagram"
	"github.com/gauravsurtani/social-media-reader/internal/linkedin"
	"github.com/gauravsurtani/social-media-reader/internal/platform"
	"github.com/gauravsurtani/social-media-reader/internal/post"
	"github.com/gauravsurtani/social-media-reader/internal/safeurl"
	"github.com/gauravsurtani/social-media-reader/internal/strategy"
	"github.com/gauravsurtani/social-media-reader/internal/summarize"
	"github.com/gauravsurtani/social-media-reader/internal/video"
	"github.com/gauravsurtani/social-media-reader/internal/vision"
)

// Options adjusts one Read call.
type Options struct {
	// NoVision skips semantic image analysis even when a gateway is set.
	NoVision bool

	// ImagesOnly stops after image resolution.
	ImagesOnly bool

	// Paste holds operator-pasted post text, enabling the paste fallback.
	Paste string
}

type Reader struct {
	cfg      *config.Config
	client   *fetch.Client
	gateway  *vision.Gateway
	pipeline *video.Pipeline
}

// New builds a Reader from config. gateway may be nil, which disables vision
// analysis and remote transcription.
func New(cfg *config.Config, gateway *vision.Gateway) *Reader {
	timeout := time.Duration(cfg.Network.Timeout) * time.Second
	client := fetch.NewClient(
		timeout,
		cfg.Network.UserAgent,
		cfg.Network.BrowserAgent,
		fetch.NewCookieSource(cfg.Browser.CookieSource, cfg.Browser.Paths),
	)

	pipeline := &video.Pipeline{
		FFmpeg:        video.NewFFmpeg(cfg.Video.FfmpegPath, cfg.Video.FfprobePath),
		YtDlp:         video.NewYtDlp(cfg.Video.YtDlpPath),
		Local:         &video.WhisperCLI{Path: cfg.Video.WhisperPath, Model: cfg.Video.WhisperModel},
		Interval:      cfg.Video.FrameInterval,
		MaxFrames:     cfg.Video.MaxFrames,
		BatchSize:     cfg.Video.BatchSize,
		MaxDownloadMB: cfg.Video.MaxDownloadMB,
	}
	if gateway != nil {
		pipeline.Remote = gateway
		pipeline.Describe = gateway
	}

	return &Reader{
		cfg:      cfg,
		client:   client,
		gateway:  gateway,
		pipeline: pipeline,
	}
}

// Read extracts a post from a URL. The returned error covers only caller
// mistakes (bad URL, unsupported platform); extraction failures land in
// Record.Err so partial results still come back.
func (r *Reader) Read(ctx context.Context, rawURL string, opts Options) (*post.Record, error) {
	validated, err := safeurl.Validate(rawURL)
	if err != nil {
		return nil, err
	}

	plat := platform.Detect(validated)
	switch plat {
	case platform.Unknown:
		return nil, fmt.Errorf("unsupported URL: no known platform in %q", validated)
	case platform.Twitter:
		return nil, fmt.Errorf("twitter/x extraction is not supported")
	}

	if plat.IsVideo() {
		return r.readVideo(ctx, plat, validated)
	}

	chain := r.chainFor(plat, opts)
	payload, method, attempts, failure := strategy.Run(ctx, validated, chain)
	if failure != nil {
		rec := post.BuildRecord(string(plat), validated, "", nil)
		rec.Err = failure
		return rec, nil
	}
	log.Info().Str("platform", string(plat)).Str("method", method).Int("attempts", len(attempts)).Msg("extracted")

	rec := post.BuildRecord(string(plat), validated, method, payload)
	rec.Images = r.resolveImages(plat, payload.ImageURLs)

	if !opts.ImagesOnly {
		r.analyzeImages(ctx, rec, opts)
	}
	return rec, nil
}

// ReadPaste extracts directly from pasted text with no URL involved.
func (r *Reader) ReadPaste(raw string) *post.Record {
	paste := linkedin.ParsePaste(raw)
	partial := &post.Partial{
		Author: paste.Author,
		Title:  paste.Headline,
		Text:   paste.Body,
	}
	return post.BuildRecord(string(platform.LinkedIn), "", "paste", partial)
}

// ReadRecording reconstructs text from a scrolling screen capture file.
func (r *Reader) ReadRecording(ctx context.Context, path string) (string, error) {
	if r.gateway == nil {
		return "", fmt.Errorf("screen capture reading requires the vision gateway")
	}
	return r.pipeline.ReadScrollCapture(ctx, path)
}

// chainFor declares the per-platform strategy order, cheap and local before
// expensive and remote.
func (r *Reader) chainFor(plat platform.Platform, opts Options) []strategy.Strategy {
	timeout := time.Duration(r.cfg.Network.Timeout) * time.Second

	switch plat {
	case platform.Instagram:
		return []strategy.Strategy{
			&instagram.EmbedStrategy{Client: r.client},
			&instagram.RenderedEmbedStrategy{Client: r.client, Timeout: timeout},
			summarize.NewReaderStrategy(r.cfg.Summarize.APIKey, timeout),
		}
	case platform.LinkedIn:
		chain := []strategy.Strategy{
			&linkedin.OEmbedStrategy{Client: r.client},
			&linkedin.OpenGraphStrategy{Client: r.client},
			&linkedin.ArticleStrategy{Client: r.client},
			summarize.NewReaderStrategy(r.cfg.Summarize.APIKey, timeout),
		}
		if opts.Paste != "" {
			chain = append(chain, &linkedin.PasteStrategy{Raw: opts.Paste})
		}
		return chain
	}
	return nil
}

// resolveImages applies CDN variant dedup where content keys exist; other
// platforms surface single og-image style URLs that pass through keyed by
// their own URL.
func (r *Reader) resolveImages(plat platform.Platform, candidates []string) []post.ImageRef {
	if plat == platform.Instagram {
		return images.Resolve(candidates)
	}

	refs := make([]post.ImageRef, 0, len(candidates))
	seen := map[string]bool{}
	for _, url := range candidates {
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		refs = append(refs, post.ImageRef{URL: url, ContentKey: url})
	}
	return refs
}

// analyzeImages attaches a semantic description of the post's images. Any
// failure leaves Analysis empty; images and metadata still come back.
func (r *Reader) analyzeImages(ctx context.Context, rec *post.Record, opts Options) {
	if r.gateway == nil || opts.NoVision || len(rec.Images) == 0 {
		return
	}

	refs := rec.Images
	if len(refs) > vision.MaxImagesPerCall {
		refs = refs[:vision.MaxImagesPerCall]
	}

	imgs := make([]vision.Image, 0, len(refs))
	for _, ref := range refs {
		img, err := vision.LoadImage(ctx, r.client, ref.URL)
		if err != nil {
			log.Warn().Err(err).Str("url", ref.URL).Msg("skipping undownloadable image")
			continue
		}
		imgs = append(imgs, img)
	}
	if len(imgs) == 0 {
		return
	}

	prompt := "Describe the content of this social media post's images. Note any visible text."
	analysis, err := r.gateway.DescribeImages(ctx, imgs, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("image analysis failed")
		return
	}
	rec.Analysis = analysis
}

// readVideo routes video platforms through the probe/download/analyze
// pipeline and maps the result into a Record.
func (r *Reader) readVideo(ctx context.Context, plat platform.Platform, url string) (*post.Record, error) {
	rec := post.BuildRecord(string(plat), url, "video-pipeline", nil)

	result, err := r.pipeline.ProcessURL(ctx, url)
	if err != nil {
		rec.Err = strategy.FromError("video-pipeline", err)
		return rec, nil
	}

	if result.Probe != nil {
		if result.Probe.Title != "" {
			rec.Metadata["title"] = result.Probe.Title
		}
		if result.Probe.Uploader != "" {
			rec.Metadata["author"] = result.Probe.Uploader
		}
		if result.Probe.Description != "" {
			rec.Metadata["description"] = result.Probe.Description
		}
		if result.Probe.Duration > 0 {
			rec.Metadata["duration"] = fmt.Sprintf("%.0f", result.Probe.Duration)
		}
		if len(result.Probe.Thumbnails) > 0 {
			thumb := result.Probe.Thumbnails[0]
			rec.Images = append(rec.Images, post.ImageRef{URL: thumb, ContentKey: thumb})
		}
	}

	rec.Text = result.Transcript
	if result.Summary != "" {
		rec.Analysis = result.Summary
	} else {
		rec.Analysis = result.FrameAnalysis
	}
	return rec, nil
}
