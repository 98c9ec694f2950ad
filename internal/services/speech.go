package services

import (
  "context"
  "fmt"
  "io"

  openai "github.com/sashabaranov/go-openai"

  "github.com/teachathome/backend/internal/logger"
  "github.com/teachathome/backend/internal/utils"
)

// SpeechService voices reply text for the classroom client.
type SpeechService interface {
  // Synthesize returns encoded audio for the text, or nil for empty text.
  Synthesize(ctx context.Context, text, voiceName string) ([]byte, error)
}

type speechService struct {
  log           *logger.Logger
  client        *openai.Client
  model         openai.SpeechModel
  defaultVoice  string
}

func NewSpeechService(log *logger.Logger) (SpeechService, error) {
  serviceLog := log.With("service", "SpeechService")

  apiKey := utils.GetEnv("OPENAI_API_KEY", "", nil)
  if apiKey == "" {
    return nil, fmt.Errorf("missing OPENAI_API_KEY")
  }

  cfg := openai.DefaultConfig(apiKey)
  if baseURL := utils.GetEnv("OPENAI_BASE_URL", "", nil); baseURL != "" {
    cfg.BaseURL = baseURL
  }

  return &speechService{
    log:          serviceLog,
    client:       openai.NewClientWithConfig(cfg),
    model:        openai.SpeechModel(utils.GetEnv("TTS_MODEL", string(openai.TTSModel1), serviceLog)),
    defaultVoice: utils.GetEnv("TTS_VOICE", string(openai.VoiceAlloy), serviceLog),
  }, nil
}

func (s *speechService) Synthesize(ctx context.Context, text, voiceName string) ([]byte, error) {
  if text == "" {
    return nil, nil
  }
  voice := voiceName
  if voice == "" {
    voice = s.defaultVoice
  }

  resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
    Model: s.model,
    Input: text,
    Voice: openai.SpeechVoice(voice),
  })
  if err != nil {
    return nil, fmt.Errorf("synthesize speech: %w", err)
  }
  defer resp.Close()

  audio, err := io.ReadAll(resp)
  if err != nil {
    return nil, fmt.Errorf("synthesize speech: read: %w", err)
  }
  return audio, nil
}
