// Package speech converts audio recordings into text.
package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"
)

// Transcriber converts an audio file into a transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// transcribePrompt asks for a verbatim Portuguese transcript and nothing
// else; the voice messages are always in pt-BR in this deployment.
const transcribePrompt = "Transcreva o áudio a seguir. O áudio está em português do Brasil. " +
	"Retorne APENAS o texto transcrito, sem comentários."

// GeminiTranscriber transcribes audio by sending it inline to a Gemini
// model.
type GeminiTranscriber struct {
	client *genai.Client
	model  string
}

// NewGeminiTranscriber creates a transcriber using the given model.
func NewGeminiTranscriber(ctx context.Context, apiKey, model string) (*GeminiTranscriber, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiTranscriber: create genai client: %w", err)
	}
	return &GeminiTranscriber{client: client, model: model}, nil
}

// Transcribe implements the Transcriber interface.
func (t *GeminiTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	audioBytes, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("Transcribe: read audio %s: %w", audioPath, err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: transcribePrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: MIMETypeForAudio(audioPath),
						Data:     audioBytes,
					},
				},
			},
		},
	}

	resp, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("Transcribe: generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("Transcribe: empty transcript from model")
	}
	return text, nil
}

// MIMETypeForAudio maps a file extension to the MIME type expected by the
// model. Voice notes arrive as OGG; uploaded audio files are usually MP3.
func MIMETypeForAudio(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mp3"
	case ".wav":
		return "audio/wav"
	case ".m4a":
		return "audio/mp4"
	case ".flac":
		return "audio/flac"
	default:
		return "audio/ogg"
	}
}
