// Package generation streams model-written answer text.
package generation

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

// DefaultModel is the chat model used unless overridden by configuration.
const DefaultModel = openai.ChatModelGPT4oMini

// Generator streams generated text for a prompt. Each produced fragment is
// passed to emit as soon as it arrives; implementations must not buffer the
// whole answer first. A non-nil error from emit stops the stream.
type Generator interface {
	Stream(ctx context.Context, prompt string, emit func(fragment string) error) error
}

// OpenAIGenerator streams chat completions from the OpenAI API.
type OpenAIGenerator struct {
	client *openai.Client
	model  openai.ChatModel
}

// NewOpenAIGenerator creates a streaming generator for the given model.
// An empty model falls back to DefaultModel.
func NewOpenAIGenerator(client *openai.Client, model string) *OpenAIGenerator {
	if model == "" {
		return &OpenAIGenerator{client: client, model: DefaultModel}
	}
	return &OpenAIGenerator{client: client, model: openai.ChatModel(model)}
}

// Stream sends the prompt and relays each content delta to emit as it is
// produced. Cancellation of ctx stops consumption of upstream fragments.
func (g *OpenAIGenerator) Stream(ctx context.Context, prompt string, emit func(fragment string) error) error {
	stream := g.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: g.model,
	})
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		fragment := chunk.Choices[0].Delta.Content
		if fragment == "" {
			continue
		}
		if err := emit(fragment); err != nil {
			return fmt.Errorf("emit fragment: %w", err)
		}
	}

	if err := stream.Err(); err != nil {
		return fmt.Errorf("generation stream: %w", err)
	}
	return nil
}
