package services

import (
  "sync"

  openai "github.com/sashabaranov/go-openai"

  "github.com/teachathome/backend/internal/logger"
)

// ConversationRecord is the minimal per-conversation state: identity, the
// selections made at open time, the cached instruction text and the running
// transcript. Identity is the caller-supplied conversation id.
type ConversationRecord struct {
  ID            string
  Grade         string
  BookIDs       []uint
  SystemPrompt  string
  Messages      []openai.ChatCompletionMessage
}

// ConversationStore is the process-wide conversation registry. It is an
// explicitly constructed dependency, not a package singleton. Access is
// serialized by a store-level mutex; two concurrent mutations of the same id
// are last-write-wins. Records are never evicted: an abandoned conversation
// id is held for the process lifetime.
//
// TODO: add a TTL-based eviction sweep once intended session lifetimes are
// decided; today nothing bounds the map.
type ConversationStore struct {
  mu       sync.RWMutex
  records  map[string]*ConversationRecord
  log      *logger.Logger
}

func NewConversationStore(baseLog *logger.Logger) *ConversationStore {
  return &ConversationStore{
    records: make(map[string]*ConversationRecord),
    log:     baseLog.With("service", "ConversationStore"),
  }
}

// Open creates a record for the id, overwriting any existing one.
func (cs *ConversationStore) Open(id, grade string, bookIDs []uint) {
  cs.mu.Lock()
  defer cs.mu.Unlock()
  cs.records[id] = &ConversationRecord{
    ID:       id,
    Grade:    grade,
    BookIDs:  append([]uint(nil), bookIDs...),
    Messages: []openai.ChatCompletionMessage{},
  }
  cs.log.Debug("Conversation opened", "conversation_id", id, "grade", grade)
}

// Get returns a snapshot of the record. Mutations go through store methods.
func (cs *ConversationStore) Get(id string) (ConversationRecord, bool) {
  cs.mu.RLock()
  defer cs.mu.RUnlock()
  rec, ok := cs.records[id]
  if !ok {
    return ConversationRecord{}, false
  }
  snapshot := *rec
  snapshot.BookIDs = append([]uint(nil), rec.BookIDs...)
  snapshot.Messages = append([]openai.ChatCompletionMessage(nil), rec.Messages...)
  return snapshot, true
}

// AttachSystemPrompt caches the assembled instruction text on an existing
// record. No-op when the id is unknown.
func (cs *ConversationStore) AttachSystemPrompt(id, text string) {
  cs.mu.Lock()
  defer cs.mu.Unlock()
  if rec, ok := cs.records[id]; ok {
    rec.SystemPrompt = text
  }
}

// AppendMessage adds a turn to the transcript. No-op when the id is unknown.
func (cs *ConversationStore) AppendMessage(id string, msg openai.ChatCompletionMessage) {
  cs.mu.Lock()
  defer cs.mu.Unlock()
  if rec, ok := cs.records[id]; ok {
    rec.Messages = append(rec.Messages, msg)
  }
}

// Messages returns a copy of the transcript, empty for unknown ids.
func (cs *ConversationStore) Messages(id string) []openai.ChatCompletionMessage {
  cs.mu.RLock()
  defer cs.mu.RUnlock()
  rec, ok := cs.records[id]
  if !ok {
    return []openai.ChatCompletionMessage{}
  }
  return append([]openai.ChatCompletionMessage(nil), rec.Messages...)
}
