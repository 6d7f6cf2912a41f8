// Package openai adapts the official OpenAI SDK for any OpenAI-compatible
// endpoint (OpenAI itself, Groq, or a self-hosted gateway).
package openai

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"

	"github.com/voxlate/voxlate/internal/models"
)

// Options configure the adapter.
type Options struct {
	APIKey  string
	BaseURL string
	Extra   []option.RequestOption
}

// Adapter wraps the official OpenAI SDK.
type Adapter struct {
	client *openai.Client
}

// New creates an adapter using the provided API key and optional base URL.
func New(opts Options) (*Adapter, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai: api key required")
	}

	requestOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if strings.TrimSpace(opts.BaseURL) != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(strings.TrimRight(opts.BaseURL, "/")))
	}
	requestOpts = append(requestOpts, opts.Extra...)

	client := openai.NewClient(requestOpts...)
	return &Adapter{client: &client}, nil
}

// Transcribe performs speech-to-text via the Audio Transcriptions API.
func (a *Adapter) Transcribe(ctx context.Context, req models.TranscriptionRequest) (models.TranscriptionResponse, error) {
	if req.Input.Reader == nil {
		return models.TranscriptionResponse{}, errors.New("openai: audio input required")
	}
	params := openai.AudioTranscriptionNewParams{
		File:           req.Input.Reader,
		Model:          openai.AudioModel(req.Model),
		ResponseFormat: openai.AudioResponseFormatJSON,
	}
	if lang := strings.TrimSpace(req.Language); lang != "" {
		params.Language = openai.String(lang)
	}
	if prompt := strings.TrimSpace(req.Prompt); prompt != "" {
		params.Prompt = openai.String(prompt)
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(float64(*req.Temperature))
	}
	resp, err := a.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return models.TranscriptionResponse{}, err
	}
	return models.TranscriptionResponse{Text: resp.Text}, nil
}

// Chat performs a non-streaming chat completion request.
func (a *Adapter) Chat(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error) {
	params := buildChatParams(req)
	resp, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return models.ChatResponse{}, err
	}
	return convertChatResponse(*resp), nil
}

func buildChatParams(req models.ChatRequest) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch strings.ToLower(msg.Role) {
		case "system":
			messages = append(messages, openai.SystemMessage(msg.Content))
		case "assistant":
			messages = append(messages, openai.ChatCompletionMessageParamOfAssistant(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
	}
	if req.Temperature != nil {
		params.Temperature = param.NewOpt(float64(*req.Temperature))
	}
	if req.MaxTokens != nil {
		params.MaxTokens = param.NewOpt(int64(*req.MaxTokens))
	}
	return params
}

func convertChatResponse(resp openai.ChatCompletion) models.ChatResponse {
	choices := make([]models.ChatChoice, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		choices = append(choices, models.ChatChoice{
			Index: int(choice.Index),
			Message: models.ChatMessage{
				Role:    string(choice.Message.Role),
				Content: choice.Message.Content,
			},
			FinishReason: choice.FinishReason,
		})
	}
	return models.ChatResponse{
		ID:      resp.ID,
		Model:   resp.Model,
		Choices: choices,
	}
}
