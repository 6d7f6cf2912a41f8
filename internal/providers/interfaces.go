package providers

import (
	"context"

	"github.com/voxlate/voxlate/internal/models"
)

// AudioTranscriber performs a single speech-to-text call. Implementations
// make exactly one remote call per invocation and never retry.
type AudioTranscriber interface {
	Transcribe(ctx context.Context, req models.TranscriptionRequest) (models.TranscriptionResponse, error)
}

// ChatCompletions performs a non-streaming chat completion call.
type ChatCompletions interface {
	Chat(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error)
}

// TextTranslator converts text between two catalog languages.
type TextTranslator interface {
	Translate(ctx context.Context, text, sourceName, targetName string) (string, error)
}
