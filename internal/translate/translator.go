// Package translate turns transcripts into another language through a
// chat-completion model.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/voxlate/voxlate/internal/models"
	"github.com/voxlate/voxlate/internal/providers"
)

// Low temperature keeps repeated translations of the same transcript
// near-deterministic.
const temperature float32 = 0.1

// Translator implements providers.TextTranslator on top of a
// chat-completion provider.
type Translator struct {
	chat      providers.ChatCompletions
	model     string
	maxTokens int32
}

func New(chat providers.ChatCompletions, model string, maxTokens int32) *Translator {
	if maxTokens <= 0 {
		maxTokens = 8192
	}
	return &Translator{chat: chat, model: model, maxTokens: maxTokens}
}

// Translate sends the text with a translation instruction and returns the
// model output with surrounding whitespace trimmed. Exactly one remote call
// is made; failures propagate to the caller untouched.
func (t *Translator) Translate(ctx context.Context, text, sourceName, targetName string) (string, error) {
	temp := temperature
	maxTokens := t.maxTokens
	req := models.ChatRequest{
		Model: t.model,
		Messages: []models.ChatMessage{
			{Role: "system", Content: systemInstruction(sourceName, targetName)},
			{Role: "user", Content: fmt.Sprintf("Translate the following text to %s:\n\n%s", targetName, text)},
		},
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	}
	resp, err := t.chat.Chat(ctx, req)
	if err != nil {
		return "", err
	}
	out := strings.TrimSpace(resp.FirstContent())
	if out == "" {
		return "", errors.New("translator returned empty output")
	}
	return out, nil
}

func systemInstruction(sourceName, targetName string) string {
	return strings.Join([]string{
		"You are a helpful language translator.",
		fmt.Sprintf("Your mission is to translate text from %s to %s.", sourceName, targetName),
		"Ensure that the translation maintains the original meaning, tone, and style as much as possible.",
		"If there are any cultural nuances or idiomatic expressions, try to find appropriate equivalents in the target language.",
	}, " ")
}
