package realtime

import (
  "context"
  "encoding/json"

  "github.com/redis/go-redis/v9"

  "github.com/teachathome/backend/internal/logger"
  "github.com/teachathome/backend/internal/utils"
)

// Publisher mirrors outbound structured replies to a per-conversation channel
// so admin UIs can observe live sessions. Publishing is best-effort: a failed
// mirror never interrupts the conversation.
type Publisher interface {
  PublishReply(ctx context.Context, conversationID string, payload any)
}

type redisPublisher struct {
  client  *redis.Client
  log     *logger.Logger
}

// NewRedisPublisher wires the mirror when REDIS_ADDR is set, otherwise
// returns nil and the mirror is simply off.
func NewRedisPublisher(log *logger.Logger) Publisher {
  pubLog := log.With("component", "RedisPublisher")

  addr := utils.GetEnv("REDIS_ADDR", "", pubLog)
  if addr == "" {
    pubLog.Info("REDIS_ADDR not set, realtime mirror disabled")
    return nil
  }

  client := redis.NewClient(&redis.Options{
    Addr:     addr,
    Password: utils.GetEnv("REDIS_PASSWORD", "", nil),
    DB:       utils.GetEnvAsInt("REDIS_DB", 0, pubLog),
  })
  return &redisPublisher{client: client, log: pubLog}
}

func (p *redisPublisher) PublishReply(ctx context.Context, conversationID string, payload any) {
  data, err := json.Marshal(payload)
  if err != nil {
    p.log.Warn("Could not encode reply for mirror", "conversation_id", conversationID, "error", err)
    return
  }
  channel := "conversation:" + conversationID
  if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
    p.log.Warn("Could not mirror reply", "conversation_id", conversationID, "error", err)
  }
}
