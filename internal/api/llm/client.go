package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/roamly-ai/roamly/app/observability/metrics"
)

// Ensure implementation satisfies the interface
var _ Client = (*ChatClient)(nil)

// Client sends a prompt (with optional system message and role-labeled
// history) to the hosted chat-completion endpoint and returns the generated
// text. Model, temperature, and output cap are fixed per client.
type Client interface {
	Chat(ctx context.Context, prompt, systemMessage string, history []string) (string, error)
}

// ChatClient talks to any OpenAI-compatible chat-completions API; the default
// configuration points it at Groq.
type ChatClient struct {
	logger      *slog.Logger
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int64
}

func NewChatClient(baseURL, apiKey, model string, temperature float64, maxTokens int64, logger *slog.Logger) (*ChatClient, error) {
	if apiKey == "" {
		return nil, errors.New("GROQ_API_KEY environment variable is not set")
	}
	return &ChatClient{
		logger: logger,
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
		),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

// Chat assembles the message list as optional system message, parsed history
// turns, then the new prompt. History entries use the stored "User:" /
// "Assistant:" encoding; anything else is skipped.
func (c *ChatClient) Chat(ctx context.Context, prompt, systemMessage string, history []string) (string, error) {
	ctx, span := otel.Tracer("LLMClient").Start(ctx, "Chat")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", c.model))

	var messages []openai.ChatCompletionMessageParamUnion
	if systemMessage != "" {
		messages = append(messages, openai.SystemMessage(systemMessage))
	}
	for _, msg := range history {
		switch {
		case strings.HasPrefix(msg, "User:"):
			messages = append(messages, openai.UserMessage(strings.TrimSpace(strings.TrimPrefix(msg, "User:"))))
		case strings.HasPrefix(msg, "Assistant:"):
			messages = append(messages, openai.AssistantMessage(strings.TrimSpace(strings.TrimPrefix(msg, "Assistant:"))))
		}
	}
	messages = append(messages, openai.UserMessage(prompt))

	start := time.Now()
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    messages,
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(c.maxTokens),
	})
	metrics.Get().LlmCallDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		c.logger.ErrorContext(ctx, "Chat completion failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Completion failed")
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		span.SetStatus(codes.Error, "Empty completion")
		return "", errors.New("chat completion returned no choices")
	}

	span.SetStatus(codes.Ok, "Completion returned")
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
