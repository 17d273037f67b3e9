package video

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Probe is the metadata subset we keep from a yt-dlp JSON dump.
type Probe struct {
	Title       string
	Uploader    string
	Description string
	Duration    float64
	Thumbnails  []string
}

// YtDlp shells out to the yt-dlp binary for metadata probes and bounded
// downloads.
type YtDlp struct {
	Path string
}

func NewYtDlp(path string) *YtDlp {
	if path == "" {
		path = "yt-dlp"
	}
	return &YtDlp{Path: path}
}

type ytdlpDump struct {
	Title       string  `json:"title"`
	Uploader    string  `json:"uploader"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Thumbnails  []struct {
		URL string `json:"url"`
	} `json:"thumbnails"`
}

// ProbeURL asks yt-dlp for metadata without downloading media.
func (y *YtDlp) ProbeURL(ctx context.Context, url string) (*Probe, error) {
	out, err := exec.CommandContext(ctx, y.Path, "-J", "--no-download", url).Output()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp probe failed: %w", err)
	}
	return parseProbeOutput(out)
}

func parseProbeOutput(out []byte) (*Probe, error) {
	var dump ytdlpDump
	if err := json.Unmarshal(out, &dump); err != nil {
		return nil, fmt.Errorf("bad yt-dlp JSON: %w", err)
	}

	probe := &Probe{
		Title:       dump.Title,
		Uploader:    dump.Uploader,
		Description: dump.Description,
		Duration:    dump.Duration,
	}
	for _, t := range dump.Thumbnails {
		if t.URL != "" {
			probe.Thumbnails = append(probe.Thumbnails, t.URL)
		}
	}
	return probe, nil
}

// Download fetches the video into dir, refusing formats larger than maxMB.
// Returns the local file path.
func (y *YtDlp) Download(ctx context.Context, url, dir string, maxMB int) (string, error) {
	if maxMB <= 0 {
		maxMB = 100
	}
	format := fmt.Sprintf("best[filesize<%dM]/best", maxMB)
	template := filepath.Join(dir, "video.%(ext)s")

	log.Debug().Str("url", url).Int("max_mb", maxMB).Msg("downloading video")
	cmd := exec.CommandContext(ctx, y.Path,
		"-f", format,
		"--max-filesize", fmt.Sprintf("%dM", maxMB),
		"--no-playlist",
		"-o", template,
		url,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("yt-dlp download failed: %w: %s", err, out)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "video.*"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("yt-dlp produced no output file")
	}
	return matches[0], nil
}
