package video

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	// SilentSentinel marks audio tracks too small to contain speech. It is a
	// successful transcript, not an error.
	SilentSentinel = "[No audio or silent video]"

	// NoSpeechSentinel marks audio the transcriber processed but found no
	// words in.
	NoSpeechSentinel = "[No speech detected]"

	// Audio files under this size are treated as silent without invoking any
	// transcriber.
	silenceThresholdBytes = 1000
)

// ErrUnavailable means the local transcriber cannot run on this machine, so
// the remote fallback should be tried.
var ErrUnavailable = errors.New("local transcriber unavailable")

// Transcriber converts a WAV file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// RemoteTranscriber accepts raw audio bytes; the vision gateway satisfies it.
type RemoteTranscriber interface {
	TranscribeAudio(ctx context.Context, wav []byte) (string, error)
}

// WhisperCLI runs whisper.cpp's command line binary locally.
type WhisperCLI struct {
	Path  string
	Model string
}

func (w *WhisperCLI) Transcribe(ctx context.Context, audioPath string) (string, error) {
	binary := w.Path
	if binary == "" {
		binary = "whisper-cli"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return "", ErrUnavailable
	}
	if w.Model == "" {
		return "", ErrUnavailable
	}

	out, err := exec.CommandContext(ctx, binary,
		"-m", w.Model,
		"-f", audioPath,
		"--no-timestamps",
		"--no-prints",
	).Output()
	if err != nil {
		return "", fmt.Errorf("whisper failed: %w", err)
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		return NoSpeechSentinel, nil
	}
	return text, nil
}

// TranscribeWithFallback prefers the local transcriber and falls back to the
// remote one only when the local tool is unavailable. Audio under the silence
// threshold short-circuits to the silent sentinel without invoking either.
func TranscribeWithFallback(ctx context.Context, audioPath string, local Transcriber, remote RemoteTranscriber) (string, error) {
	info, err := os.Stat(audioPath)
	if err != nil || info.Size() < silenceThresholdBytes {
		return SilentSentinel, nil
	}

	if local != nil {
		text, err := local.Transcribe(ctx, audioPath)
		if err == nil {
			return text, nil
		}
		if !errors.Is(err, ErrUnavailable) {
			return "", err
		}
		log.Debug().Msg("local transcriber unavailable, trying remote")
	}

	if remote == nil {
		return "", ErrUnavailable
	}
	wav, err := os.ReadFile(audioPath)
	if err != nil {
		return "", err
	}
	return remote.TranscribeAudio(ctx, wav)
}
