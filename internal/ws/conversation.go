package ws

import (
  "context"
  "encoding/base64"
  "encoding/json"
  "errors"
  "fmt"
  "net/http"
  "sync"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/gorilla/websocket"
  openai "github.com/sashabaranov/go-openai"

  "github.com/teachathome/backend/internal/logger"
  "github.com/teachathome/backend/internal/realtime"
  "github.com/teachathome/backend/internal/repos"
  "github.com/teachathome/backend/internal/services"
)

// ConversationHandler drives the duplex channel of one classroom client:
// session opening, learner utterances and photo events in, structured replies
// out. Each inbound frame is processed to completion before the next frame of
// the same connection is read.
type ConversationHandler struct {
  log        *logger.Logger
  upgrader   websocket.Upgrader
  store      *services.ConversationStore
  sessionDeps services.SessionDeps
  featureDeps services.FeatureDeps
  prompts    *services.PromptBuilder
  chat       services.ChatService
  speech     services.SpeechService
  reports    *services.ProgressionReportService
  publisher  realtime.Publisher

  mu        sync.RWMutex
  sessions  map[string]*services.Session
}

func NewConversationHandler(
  baseLog *logger.Logger,
  store *services.ConversationStore,
  sessionDeps services.SessionDeps,
  featureDeps services.FeatureDeps,
  prompts *services.PromptBuilder,
  chat services.ChatService,
  speech services.SpeechService,
  reports *services.ProgressionReportService,
  publisher realtime.Publisher,
) *ConversationHandler {
  return &ConversationHandler{
    log:         baseLog.With("component", "ConversationHandler"),
    upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
    store:       store,
    sessionDeps: sessionDeps,
    featureDeps: featureDeps,
    prompts:     prompts,
    chat:        chat,
    speech:      speech,
    reports:     reports,
    publisher:   publisher,
    sessions:    make(map[string]*services.Session),
  }
}

type inboundFrame struct {
  Type       string  `json:"type"`
  SessionID  string  `json:"sessionId"`
  Grade      string  `json:"grade"`
  BookIDs    []uint  `json:"bookIds"`
  ChildID    uint    `json:"childId"`
  SubjectID  uint    `json:"subjectId"`
  ChapterID  uint    `json:"chapterId"`
  Feature    string  `json:"feature"`
  Text       string  `json:"text"`
  Data       string  `json:"data"`
  VoiceName  string  `json:"voiceName"`
}

type outboundReply struct {
  Type    string         `json:"type"`
  Speak   string         `json:"speak,omitempty"`
  Write   string         `json:"write,omitempty"`
  Action  string         `json:"action,omitempty"`
  Play    string         `json:"play,omitempty"`
  Quiz    *services.Quiz `json:"quiz,omitempty"`
  Audio   string         `json:"audio,omitempty"`
}

func (h *ConversationHandler) Serve(c *gin.Context) {
  conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
  if err != nil {
    h.log.Warn("Websocket upgrade failed", "error", err)
    return
  }
  defer conn.Close()

  ctx := c.Request.Context()
  var currentID string

  for {
    _, raw, err := conn.ReadMessage()
    if err != nil {
      return
    }

    var frame inboundFrame
    if err := json.Unmarshal(raw, &frame); err != nil {
      h.writeError(conn, "An error occurred while processing your request.")
      continue
    }

    switch frame.Type {
    case "session":
      if frame.SessionID == "" {
        frame.SessionID = uuid.NewString()
      }
      currentID = frame.SessionID
      h.handleSession(ctx, conn, frame)
    case "generate-audio":
      h.handleAudio(ctx, conn, frame)
    case "fetch-learning-progression":
      h.handleProgression(ctx, conn, frame)
    case "message", "photo":
      if currentID == "" {
        h.writeError(conn, "No active conversation.")
        continue
      }
      h.handleChat(ctx, conn, currentID, frame)
    }
  }
}

func (h *ConversationHandler) handleSession(ctx context.Context, conn *websocket.Conn, frame inboundFrame) {
  h.store.Open(frame.SessionID, frame.Grade, frame.BookIDs)

  sess := services.NewSession(frame.SessionID, frame.ChildID, frame.Grade, frame.BookIDs)
  sess.SubjectID = frame.SubjectID
  sess.ChapterID = frame.ChapterID
  sess.FeatureName = frame.Feature

  if err := sess.Initialise(ctx, h.sessionDeps); err != nil {
    h.log.Warn("Session initialisation failed", "conversation_id", frame.SessionID, "error", err)
    switch {
    case errors.Is(err, repos.ErrChildNotFound):
      h.writeError(conn, "Child not found.")
    case errors.Is(err, repos.ErrNoPersona):
      h.writeError(conn, fmt.Sprintf("No teacher persona found for grade %s.", frame.Grade))
    default:
      h.writeError(conn, "An error occurred while processing your request.")
    }
    return
  }

  prompt := h.prompts.BuildSystemPrompt(ctx, sess)
  h.store.AttachSystemPrompt(frame.SessionID, prompt)

  h.mu.Lock()
  h.sessions[frame.SessionID] = sess
  h.mu.Unlock()

  h.log.Info("Conversation started", "conversation_id", frame.SessionID, "grade", frame.Grade, "book_ids", frame.BookIDs)
  h.writeJSON(conn, gin.H{
    "type":           "session-created",
    "conversationId": frame.SessionID,
    "grade":          frame.Grade,
    "featureMap":     sess.FeatureNames(),
  })
}

func (h *ConversationHandler) handleChat(ctx context.Context, conn *websocket.Conn, conversationID string, frame inboundFrame) {
  h.mu.RLock()
  sess, ok := h.sessions[conversationID]
  h.mu.RUnlock()
  rec, found := h.store.Get(conversationID)
  if !ok || !found || rec.SystemPrompt == "" {
    h.writeError(conn, "Conversation not initialised properly.")
    return
  }

  userMsg := userMessage(frame)
  h.store.AppendMessage(conversationID, userMsg)
  history := h.store.Messages(conversationID)

  resp, err := h.chat.Complete(ctx, rec.SystemPrompt, history, sess.FeatureNames())
  if err != nil {
    h.log.Error("Chat completion failed", "conversation_id", conversationID, "error", err)
    h.writeError(conn, "An error occurred while processing your request.")
    return
  }

  aiText := resp.Content
  if len(resp.ToolCalls) > 0 {
    followMsgs := make([]openai.ChatCompletionMessage, 0, len(history)+len(resp.ToolCalls)+2)
    followMsgs = append(followMsgs, openai.ChatCompletionMessage{
      Role:    openai.ChatMessageRoleSystem,
      Content: rec.SystemPrompt,
    })
    followMsgs = append(followMsgs, history...)
    followMsgs = append(followMsgs, resp)

    for _, tc := range resp.ToolCalls {
      if tc.Function.Name != services.ToolLoadPedagogicalKnowledge {
        continue
      }
      var args struct {
        BookFeature string `json:"bookFeature"`
      }
      if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
        h.log.Warn("Bad tool arguments", "conversation_id", conversationID, "error", err)
        continue
      }
      followMsgs = append(followMsgs, openai.ChatCompletionMessage{
        Role:       openai.ChatMessageRoleTool,
        Content:    h.pedagogyFor(ctx, sess, args.BookFeature),
        ToolCallID: tc.ID,
      })
    }

    follow, err := h.chat.FollowUp(ctx, followMsgs)
    if err != nil {
      h.log.Error("Chat follow-up failed", "conversation_id", conversationID, "error", err)
      h.writeError(conn, "An error occurred while processing your request.")
      return
    }
    aiText = follow.Content
  }

  h.store.AppendMessage(conversationID, openai.ChatCompletionMessage{
    Role:    openai.ChatMessageRoleAssistant,
    Content: aiText,
  })

  reply := services.ParseReply(aiText)
  out := outboundReply{
    Type:   reply.Type,
    Speak:  reply.Speak,
    Write:  reply.Write,
    Action: reply.Action,
    Play:   reply.Play,
    Quiz:   reply.Quiz,
  }
  if h.speech != nil && reply.Speak != "" {
    audio, err := h.speech.Synthesize(ctx, reply.Speak, frame.VoiceName)
    if err != nil {
      h.log.Warn("Speech synthesis failed", "conversation_id", conversationID, "error", err)
    } else {
      out.Audio = base64.StdEncoding.EncodeToString(audio)
    }
  }

  h.writeJSON(conn, out)
  if h.publisher != nil {
    h.publisher.PublishReply(ctx, conversationID, out)
  }
}

// pedagogyFor resolves the teaching methodology for a catalog feature the
// model asked about, marking it as the session's active feature. An unknown
// name yields an explanatory tool result rather than an error: the
// conversation keeps flowing.
func (h *ConversationHandler) pedagogyFor(ctx context.Context, sess *services.Session, featureName string) string {
  if ok := sess.SetStudying(featureName); !ok {
    return fmt.Sprintf("Feature %q not found in any of this session's books.", featureName)
  }
  return sess.Studying.WhatToTeach(ctx, sess, h.featureDeps)
}

func (h *ConversationHandler) handleProgression(ctx context.Context, conn *websocket.Conn, frame inboundFrame) {
  if frame.ChildID == 0 || frame.ChapterID == 0 {
    h.writeJSON(conn, gin.H{"type": "error", "error": "Child ID and Chapter ID are required"})
    return
  }
  report, err := h.reports.FetchLearningProgression(ctx, frame.ChildID, frame.ChapterID)
  if err != nil {
    h.log.Warn("Learning progression fetch failed", "child_id", frame.ChildID, "chapter_id", frame.ChapterID, "error", err)
    h.writeJSON(conn, gin.H{"type": "error", "error": "Failed to fetch learning progression: " + err.Error()})
    return
  }
  h.writeJSON(conn, gin.H{"type": "learning-progression", "data": report})
}

func (h *ConversationHandler) handleAudio(ctx context.Context, conn *websocket.Conn, frame inboundFrame) {
  if h.speech == nil {
    h.writeError(conn, "Speech synthesis is not configured.")
    return
  }
  audio, err := h.speech.Synthesize(ctx, frame.Text, frame.VoiceName)
  if err != nil {
    h.log.Warn("Speech synthesis failed", "error", err)
    h.writeError(conn, "An error occurred while processing your request.")
    return
  }
  h.writeJSON(conn, gin.H{"type": "audio", "audio": base64.StdEncoding.EncodeToString(audio)})
}

func userMessage(frame inboundFrame) openai.ChatCompletionMessage {
  if frame.Type == "photo" {
    return openai.ChatCompletionMessage{
      Role: openai.ChatMessageRoleUser,
      MultiContent: []openai.ChatMessagePart{
        {
          Type:     openai.ChatMessagePartTypeImageURL,
          ImageURL: &openai.ChatMessageImageURL{URL: frame.Data},
        },
        {
          Type: openai.ChatMessagePartTypeText,
          Text: "Please analyze this photo",
        },
      },
    }
  }
  return openai.ChatCompletionMessage{
    Role:    openai.ChatMessageRoleUser,
    Content: frame.Text,
  }
}

func (h *ConversationHandler) writeError(conn *websocket.Conn, message string) {
  h.writeJSON(conn, gin.H{"type": "error", "message": message})
}

func (h *ConversationHandler) writeJSON(conn *websocket.Conn, payload any) {
  if err := conn.WriteJSON(payload); err != nil {
    h.log.Warn("Websocket write failed", "error", err)
  }
}
