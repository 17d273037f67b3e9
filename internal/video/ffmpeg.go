package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/floostack/transcoder/ffmpeg"
)

// FrameSample is one extracted frame, ordered by timestamp.
type FrameSample struct {
	Index     int
	Timestamp float64
	Path      string
}

// FFmpeg wraps frame and audio extraction behind the transcoder library.
type FFmpeg struct {
	cfg *ffmpeg.Config
}

func NewFFmpeg(ffmpegPath, ffprobePath string) *FFmpeg {
	return &FFmpeg{
		cfg: &ffmpeg.Config{
			FfmpegBinPath:  ffmpegPath,
			FfprobeBinPath: ffprobePath,
		},
	}
}

// ProbeDuration returns the container duration in seconds.
func (f *FFmpeg) ProbeDuration(path string) (float64, error) {
	metadata, err := ffmpeg.New(f.cfg).Input(path).GetMetadata()
	if err != nil {
		return 0, fmt.Errorf("failed to probe %s: %w", path, err)
	}

	duration, err := strconv.ParseFloat(metadata.GetFormat().GetDuration(), 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable duration for %s: %w", path, err)
	}
	return duration, nil
}

// EffectiveInterval widens the nominal sampling interval so the frame count
// stays bounded by maxFrames for arbitrarily long videos.
func EffectiveInterval(duration, interval float64, maxFrames int) float64 {
	if interval <= 0 {
		interval = 5
	}
	if maxFrames > 0 && duration/interval > float64(maxFrames) {
		return duration / float64(maxFrames)
	}
	return interval
}

// ExtractFrames samples up to maxFrames frames at the adaptive interval into
// outDir and returns them in timestamp order.
func (f *FFmpeg) ExtractFrames(ctx context.Context, videoPath, outDir string, interval float64, maxFrames int) ([]FrameSample, error) {
	duration, err := f.ProbeDuration(videoPath)
	if err != nil {
		return nil, err
	}
	interval = EffectiveInterval(duration, interval, maxFrames)

	videoFilter := fmt.Sprintf("fps=1/%g", interval)
	skipAudio := true
	opts := &ffmpeg.Options{
		VideoFilter: &videoFilter,
		SkipAudio:   &skipAudio,
	}
	if maxFrames > 0 {
		opts.Vframes = &maxFrames
	}

	pattern := filepath.Join(outDir, "frame_%04d.jpg")
	progress, err := ffmpeg.
		New(f.cfg).
		Input(videoPath).
		Output(pattern).
		WithContext(&ctx).
		Start(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to extract frames: %w", err)
	}
	for range progress {
	}

	paths, err := filepath.Glob(filepath.Join(outDir, "frame_*.jpg"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	frames := make([]FrameSample, 0, len(paths))
	for i, path := range paths {
		frames = append(frames, FrameSample{
			Index:     i,
			Timestamp: float64(i) * interval,
			Path:      path,
		})
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames extracted from %s", videoPath)
	}
	return frames, nil
}

// ExtractAudio writes the audio track as 16 kHz mono PCM WAV, the input
// format both transcribers expect. The file may be missing or empty for
// silent videos; the caller decides what that means.
func (f *FFmpeg) ExtractAudio(ctx context.Context, videoPath, outDir string) (string, error) {
	audioPath := filepath.Join(outDir, "audio.wav")

	skipVideo := true
	audioCodec := "pcm_s16le"
	audioRate := 16000
	audioChannels := 1
	overwrite := true
	opts := &ffmpeg.Options{
		SkipVideo:     &skipVideo,
		AudioCodec:    &audioCodec,
		AudioRate:     &audioRate,
		AudioChannels: &audioChannels,
		Overwrite:     &overwrite,
	}

	progress, err := ffmpeg.
		New(f.cfg).
		Input(videoPath).
		Output(audioPath).
		WithContext(&ctx).
		Start(opts)
	if err != nil {
		return "", fmt.Errorf("failed to extract audio: %w", err)
	}
	for range progress {
	}

	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("no audio track extracted: %w", err)
	}
	return audioPath, nil
}
