// Package vision wraps the Gemini API behind a small describe/transcribe
// surface so the rest of the pipeline treats it as an opaque text capability.
package vision

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/gauravsurtani/social-media-reader/internal/fetch"
)

// MaxImagesPerCall is the largest image batch one request may carry. Callers
// passing more get the list truncated, not an error.
const MaxImagesPerCall = 10

// maxAudioBytes caps inline audio payloads; larger clips are truncated.
const maxAudioBytes = 10 << 20

// GatewayError wraps transport and malformed-response conditions from the
// model API.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string { return fmt.Sprintf("vision %s: %v", e.Op, e.Err) }
func (e *GatewayError) Unwrap() error { return e.Err }

// Image is an in-memory image ready for inline upload.
type Image struct {
	Data []byte
	MIME string
}

type Gateway struct {
	client      *genai.Client
	model       string
	visionModel string
}

// NewGateway connects to the Gemini API. A missing API key is a configuration
// error surfaced immediately, not a per-call failure.
func NewGateway(ctx context.Context, apiKey, model, visionModel string) (*Gateway, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("no Gemini API key configured (set GEMINI_API_KEY)")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if visionModel == "" {
		visionModel = model
	}
	return &Gateway{client: client, model: model, visionModel: visionModel}, nil
}

func (g *Gateway) Close() error {
	return g.client.Close()
}

// DescribeImage describes a single image.
func (g *Gateway) DescribeImage(ctx context.Context, img Image, prompt string) (string, error) {
	return g.describe(ctx, []Image{img}, prompt)
}

// DescribeImages describes a batch of images in one request, preserving their
// order. Batches over MaxImagesPerCall are truncated.
func (g *Gateway) DescribeImages(ctx context.Context, imgs []Image, prompt string) (string, error) {
	if len(imgs) > MaxImagesPerCall {
		log.Warn().Int("count", len(imgs)).Int("cap", MaxImagesPerCall).Msg("truncating image batch")
		imgs = imgs[:MaxImagesPerCall]
	}
	return g.describe(ctx, imgs, prompt)
}

func (g *Gateway) describe(ctx context.Context, imgs []Image, prompt string) (string, error) {
	if len(imgs) == 0 {
		return "", &GatewayError{Op: "describe", Err: fmt.Errorf("no images provided")}
	}

	parts := make([]genai.Part, 0, len(imgs)+1)
	parts = append(parts, genai.Text(prompt))
	for _, img := range imgs {
		mimeType := img.MIME
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		parts = append(parts, genai.Blob{MIMEType: mimeType, Data: img.Data})
	}

	model := g.client.GenerativeModel(g.visionModel)
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", &GatewayError{Op: "describe", Err: err}
	}
	return responseText("describe", resp)
}

// GenerateText runs a text-only prompt, used for summarization and semantic
// dedup passes.
func (g *Gateway) GenerateText(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &GatewayError{Op: "generate", Err: err}
	}
	return responseText("generate", resp)
}

// TranscribeAudio sends WAV audio for remote transcription. Payloads over the
// inline cap are truncated, which loses the clip's tail rather than failing.
func (g *Gateway) TranscribeAudio(ctx context.Context, wav []byte) (string, error) {
	if len(wav) > maxAudioBytes {
		log.Warn().Int("bytes", len(wav)).Msg("truncating audio payload to inline cap")
		wav = wav[:maxAudioBytes]
	}

	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx,
		genai.Text("Transcribe the speech in this audio. Return only the transcript text."),
		genai.Blob{MIMEType: "audio/wav", Data: wav},
	)
	if err != nil {
		return "", &GatewayError{Op: "transcribe", Err: err}
	}
	return responseText("transcribe", resp)
}

func responseText(op string, resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &GatewayError{Op: op, Err: fmt.Errorf("no candidates in response")}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", &GatewayError{Op: op, Err: fmt.Errorf("no text parts in response")}
	}
	return sb.String(), nil
}

// LoadImage reads an image from a local path or downloads it through the
// fetch client when the ref is a URL.
func LoadImage(ctx context.Context, client *fetch.Client, ref string) (Image, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		if client == nil {
			return Image{}, fmt.Errorf("no fetch client available to download image %s", ref)
		}
		data, mimeType, err := client.Download(ctx, ref)
		if err != nil {
			return Image{}, err
		}
		return Image{Data: data, MIME: mimeType}, nil
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return Image{}, err
	}
	mimeType := mime.TypeByExtension(filepath.Ext(ref))
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}
	return Image{Data: data, MIME: mimeType}, nil
}
