package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// ErrEmptyResult is returned when the model answers with no message at all.
var ErrEmptyResult = errors.New("model returned an empty result")

// Service turns raw bullet notes into a clinical session summary.
type Service struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the generation chain around chatModel.
func NewService(ctx context.Context, chatModel model.ChatModel) (*Service, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPromptTemplate),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile generation chain: %w", err)
	}

	return &Service{chain: runnable}, nil
}

// Generate returns the trimmed summary for req, which may be empty.
func (s *Service) Generate(ctx context.Context, req Request) (string, error) {
	response, err := s.chain.Invoke(ctx, chainInput(req))
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	if response == nil {
		return "", ErrEmptyResult
	}

	// A blank answer is a valid, empty summary.
	result := strings.TrimSpace(response.Content)

	log.Printf("[ai] generated notes type=%q length=%d", req.SessionType, len(result))
	return result, nil
}

// Stream returns the summary for req as it is produced. Callers must close the
// reader.
func (s *Service) Stream(ctx context.Context, req Request) (*schema.StreamReader[*schema.Message], error) {
	stream, err := s.chain.Stream(ctx, chainInput(req))
	if err != nil {
		return nil, fmt.Errorf("generation stream failed: %w", err)
	}
	return stream, nil
}
