package classifier

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/spec-kit/ticket-agent/internal/domain"
)

// remoteStrategy calls the OpenAI chat completions API with deterministic
// settings: temperature zero, a single completion, small token budget.
type remoteStrategy struct {
	client *openai.Client
	model  string
}

func newRemoteStrategy(apiKey, model string) *remoteStrategy {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &remoteStrategy{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (s *remoteStrategy) Name() string { return "remote" }

func (s *remoteStrategy) Classify(ctx context.Context, text string) (domain.Label, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(classifyPrompt, text)},
		},
		Temperature: 0,
		N:           1,
		MaxTokens:   16,
	})
	if err != nil {
		return domain.LabelTask, fmt.Errorf("remote inference: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.LabelTask, fmt.Errorf("remote inference: empty choices")
	}
	return Normalize(resp.Choices[0].Message.Content, text), nil
}
