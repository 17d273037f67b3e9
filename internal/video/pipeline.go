// Package video turns video files and URLs into text: sampled frame
// descriptions, a transcript, and an overall summary.
package video

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gauravsurtani/social-media-reader/internal/vision"
)

// Describer is the slice of the vision gateway the pipeline needs.
type Describer interface {
	DescribeImages(ctx context.Context, imgs []vision.Image, prompt string) (string, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

const (
	framePrompt = "These are frames sampled in order from one video. Describe what happens across them, noting any visible text."

	scrollPrompt = "These are sequential screenshots of a scrolling page. Transcribe all visible text in reading order."

	dedupPrompt = "The following text was assembled from overlapping screenshots and contains duplicated passages. Remove the duplicates but keep the original wording and order. Return only the cleaned text.\n\n"
)

type Pipeline struct {
	FFmpeg   *FFmpeg
	YtDlp    *YtDlp
	Local    Transcriber
	Remote   RemoteTranscriber
	Describe Describer

	Interval      float64
	MaxFrames     int
	BatchSize     int
	MaxDownloadMB int
}

// Result carries whatever stages succeeded. Absent sections stay empty
// rather than failing the whole run.
type Result struct {
	Probe         *Probe
	FrameCount    int
	Transcript    string
	FrameAnalysis string
	Summary       string
}

// ProcessURL probes and downloads a remote video, then analyzes it. Probe
// metadata survives even when the download or analysis fails.
func (p *Pipeline) ProcessURL(ctx context.Context, url string) (*Result, error) {
	probe, err := p.YtDlp.ProbeURL(ctx, url)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "smr-video-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	path, err := p.YtDlp.Download(ctx, url, dir, p.MaxDownloadMB)
	if err != nil {
		log.Warn().Err(err).Msg("download failed, returning probe metadata only")
		return &Result{Probe: probe}, nil
	}

	result, err := p.ProcessFile(ctx, path)
	if err != nil {
		return &Result{Probe: probe}, nil
	}
	result.Probe = probe
	return result, nil
}

// ProcessFile runs the full stage sequence on a local video. Stages are
// independent: a transcription failure does not block frame analysis and
// vice versa.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*Result, error) {
	dir, err := os.MkdirTemp("", "smr-frames-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	result := &Result{}

	frames, framesErr := p.FFmpeg.ExtractFrames(ctx, path, dir, p.Interval, p.MaxFrames)
	if framesErr != nil {
		log.Warn().Err(framesErr).Msg("frame extraction failed")
	}
	result.FrameCount = len(frames)

	audioPath, audioErr := p.FFmpeg.ExtractAudio(ctx, path, dir)
	if audioErr != nil {
		// Videos without an audio track are common, not an error.
		result.Transcript = SilentSentinel
	} else {
		transcript, err := TranscribeWithFallback(ctx, audioPath, p.Local, p.Remote)
		if err != nil {
			log.Warn().Err(err).Msg("transcription failed")
		} else {
			result.Transcript = transcript
		}
	}

	if len(frames) > 0 && p.Describe != nil {
		analysis, err := p.describeFrames(ctx, frames, framePrompt)
		if err != nil {
			log.Warn().Err(err).Msg("frame analysis failed")
		} else {
			result.FrameAnalysis = analysis
		}
	}

	if framesErr != nil && audioErr != nil {
		return nil, fmt.Errorf("both frame and audio extraction failed: %v; %v", framesErr, audioErr)
	}

	result.Summary = p.summarize(ctx, result)
	return result, nil
}

// ReadScrollCapture reconstructs the text of a long post captured as a
// scrolling screen recording. Batch outputs are concatenated and passed
// through a semantic dedup pass; if that pass fails, the naive concatenation
// is returned untouched.
func (p *Pipeline) ReadScrollCapture(ctx context.Context, path string) (string, error) {
	dir, err := os.MkdirTemp("", "smr-scroll-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	frames, err := p.FFmpeg.ExtractFrames(ctx, path, dir, p.Interval, p.MaxFrames)
	if err != nil {
		return "", err
	}

	concatenated, err := p.describeFrames(ctx, frames, scrollPrompt)
	if err != nil {
		return "", err
	}

	return p.dedup(ctx, concatenated), nil
}

// dedup asks the model to drop duplicated passages from overlapping capture
// text. Any failure returns the input unchanged.
func (p *Pipeline) dedup(ctx context.Context, concatenated string) string {
	deduped, err := p.Describe.GenerateText(ctx, dedupPrompt+concatenated)
	if err != nil {
		log.Warn().Err(err).Msg("dedup pass failed, returning concatenation")
		return concatenated
	}
	return deduped
}

// describeFrames submits frames in fixed-size batches, in temporal order,
// and joins the batch outputs.
func (p *Pipeline) describeFrames(ctx context.Context, frames []FrameSample, prompt string) (string, error) {
	batchSize := p.BatchSize
	if batchSize <= 0 || batchSize > vision.MaxImagesPerCall {
		batchSize = 5
	}

	var sections []string
	for start := 0; start < len(frames); start += batchSize {
		end := start + batchSize
		if end > len(frames) {
			end = len(frames)
		}

		imgs := make([]vision.Image, 0, end-start)
		for _, frame := range frames[start:end] {
			img, err := vision.LoadImage(ctx, nil, frame.Path)
			if err != nil {
				log.Warn().Err(err).Str("frame", frame.Path).Msg("skipping unreadable frame")
				continue
			}
			imgs = append(imgs, img)
		}
		if len(imgs) == 0 {
			continue
		}

		text, err := p.Describe.DescribeImages(ctx, imgs, prompt)
		if err != nil {
			return "", err
		}
		sections = append(sections, strings.TrimSpace(text))
	}

	if len(sections) == 0 {
		return "", fmt.Errorf("no frames analyzed")
	}
	return strings.Join(sections, "\n\n"), nil
}

// summarize condenses transcript and frame analysis into one paragraph.
// Failure degrades to no summary, never to an error.
func (p *Pipeline) summarize(ctx context.Context, result *Result) string {
	if p.Describe == nil {
		return ""
	}
	if result.FrameAnalysis == "" && (result.Transcript == "" || result.Transcript == SilentSentinel) {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Summarize this video in a short paragraph.\n")
	if result.Transcript != "" {
		sb.WriteString("\nTranscript:\n" + result.Transcript + "\n")
	}
	if result.FrameAnalysis != "" {
		sb.WriteString("\nVisual description:\n" + result.FrameAnalysis + "\n")
	}

	summary, err := p.Describe.GenerateText(ctx, sb.String())
	if err != nil {
		log.Warn().Err(err).Msg("summary failed")
		return ""
	}
	return strings.TrimSpace(summary)
}
