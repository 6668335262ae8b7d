package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"tableflip.dev/mood/pkg/metrics"
)

const systemPrompt = `You are a supportive companion in a mood journaling app.
Answer the user briefly and kindly. Respond ONLY with a JSON object:
{"reply": string, "emotion": string or null, "intensity": number from 0 to 10, "crisis": boolean}.
"emotion" is one lower-case word (happy, calm, sad, angry, anxious, stressed, ...), or null when unclear.
"intensity" is how strongly the emotion weighs on the user. Set "crisis" to true only when the
user may be at risk of harming themselves or others.`

// Config configures the OpenAI-compatible client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAI classifies messages with an OpenAI-compatible chat completion API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI builds the client. BaseURL may point at any compatible server.
func NewOpenAI(cfg Config) (*OpenAI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" && strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("inference: api key not set")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o-mini"
		slog.Warn("inference model not set, defaulting", "model", model)
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientCfg.BaseURL = base
	}
	slog.Debug("initializing inference client", "model", model, "base_url", clientCfg.BaseURL)
	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

// Infer implements Inferrer.
func (o *OpenAI) Infer(ctx context.Context, req Request) (Result, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Context)+2)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	for _, turn := range req.Context {
		role := openai.ChatMessageRoleUser
		if strings.EqualFold(turn.Role, openai.ChatMessageRoleAssistant) {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Text})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Text})

	started := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	metrics.InferenceDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		return Result{}, fmt.Errorf("inference: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, errors.New("inference: no choices returned")
	}
	slog.Debug("inference response", "finish_reason", resp.Choices[0].FinishReason)
	return ParseResult(resp.Choices[0].Message.Content), nil
}
