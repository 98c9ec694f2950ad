package services

import (
  "context"
  "fmt"

  openai "github.com/sashabaranov/go-openai"

  "github.com/teachathome/backend/internal/logger"
  "github.com/teachathome/backend/internal/utils"
)

// ToolLoadPedagogicalKnowledge is the function tool exposed to the chat
// service: the model calls it to pull the teaching methodology for a catalog
// feature the child asked about.
const ToolLoadPedagogicalKnowledge = "loadPedagogicalKnowledgeForBookFeature"

type ChatService interface {
  // Complete runs one chat turn: system directive, running transcript, and
  // the pedagogy tool restricted to the session's feature names.
  Complete(ctx context.Context, system string, history []openai.ChatCompletionMessage, featureEnum []string) (openai.ChatCompletionMessage, error)
  // FollowUp continues after a tool result without re-offering tools.
  FollowUp(ctx context.Context, messages []openai.ChatCompletionMessage) (openai.ChatCompletionMessage, error)
}

type chatService struct {
  log            *logger.Logger
  client         *openai.Client
  model          string
  followUpModel  string
}

func NewChatService(log *logger.Logger) (ChatService, error) {
  serviceLog := log.With("service", "ChatService")

  apiKey := utils.GetEnv("OPENAI_API_KEY", "", nil)
  if apiKey == "" {
    return nil, fmt.Errorf("missing OPENAI_API_KEY")
  }

  cfg := openai.DefaultConfig(apiKey)
  if baseURL := utils.GetEnv("OPENAI_BASE_URL", "", nil); baseURL != "" {
    cfg.BaseURL = baseURL
  }

  return &chatService{
    log:           serviceLog,
    client:        openai.NewClientWithConfig(cfg),
    model:         utils.GetEnv("OPENAI_MODEL", "gpt-4o", serviceLog),
    followUpModel: utils.GetEnv("OPENAI_FOLLOWUP_MODEL", "gpt-4.1", serviceLog),
  }, nil
}

func (s *chatService) Complete(ctx context.Context, system string, history []openai.ChatCompletionMessage, featureEnum []string) (openai.ChatCompletionMessage, error) {
  messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
  messages = append(messages, openai.ChatCompletionMessage{
    Role:    openai.ChatMessageRoleSystem,
    Content: system,
  })
  messages = append(messages, history...)

  req := openai.ChatCompletionRequest{
    Model:    s.model,
    Messages: messages,
  }
  if len(featureEnum) > 0 {
    req.Tools = []openai.Tool{pedagogyTool(featureEnum)}
    req.ToolChoice = "auto"
  }

  resp, err := s.client.CreateChatCompletion(ctx, req)
  if err != nil {
    return openai.ChatCompletionMessage{}, fmt.Errorf("chat completion: %w", err)
  }
  if len(resp.Choices) == 0 {
    return openai.ChatCompletionMessage{}, fmt.Errorf("chat completion: empty choices")
  }
  return resp.Choices[0].Message, nil
}

func (s *chatService) FollowUp(ctx context.Context, messages []openai.ChatCompletionMessage) (openai.ChatCompletionMessage, error) {
  resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
    Model:       s.followUpModel,
    Messages:    messages,
    Temperature: 0.7,
  })
  if err != nil {
    return openai.ChatCompletionMessage{}, fmt.Errorf("chat follow-up: %w", err)
  }
  if len(resp.Choices) == 0 {
    return openai.ChatCompletionMessage{}, fmt.Errorf("chat follow-up: empty choices")
  }
  return resp.Choices[0].Message, nil
}

func pedagogyTool(featureEnum []string) openai.Tool {
  return openai.Tool{
    Type: openai.ToolTypeFunction,
    Function: &openai.FunctionDefinition{
      Name:        ToolLoadPedagogicalKnowledge,
      Description: "Load pedagogical knowledge about how to teach a specific book feature",
      Parameters: map[string]any{
        "type": "object",
        "properties": map[string]any{
          "bookFeature": map[string]any{
            "type":        "string",
            "description": "The name of the book feature to get teaching methodology for",
            "enum":        featureEnum,
          },
        },
        "required": []string{"bookFeature"},
      },
    },
  }
}
