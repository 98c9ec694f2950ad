package services

import (
  "context"
  "fmt"
  "strings"

  "github.com/teachathome/backend/internal/logger"
  "github.com/teachathome/backend/internal/repos"
  "github.com/teachathome/backend/internal/types"
)

// SessionDeps are the one-time lookup collaborators for Initialise.
type SessionDeps struct {
  Children  repos.ChildRepo
  Personas  repos.PersonaRepo
  Catalog   repos.CatalogRepo
  Chapters  repos.ChapterRepo
  Log       *logger.Logger
}

// Session aggregates everything one conversation needs to assemble teaching
// instructions: the learner, the persona, the visible catalog and the active
// feature. It lives in process memory for the conversation's lifetime and is
// mutated in place as selections arrive.
type Session struct {
  ConversationID  string
  ChildID         uint
  Grade           string
  BookIDs         []uint

  SubjectID    uint
  ChapterID    uint
  FeatureName  string

  Persona       *types.TeacherPersona
  BookFeatures  []types.BookFeature
  Studying      Feature

  ChildName string
}

func NewSession(conversationID string, childID uint, grade string, bookIDs []uint) *Session {
  return &Session{
    ConversationID: conversationID,
    ChildID:        childID,
    Grade:          grade,
    BookIDs:        bookIDs,
  }
}

// Initialise performs the one-time lookups. It fails fast when the learner id
// does not resolve or the grade has no persona: nothing downstream may run
// against a half-initialised session. Optional selections (chapter, feature)
// degrade with a warning instead.
func (s *Session) Initialise(ctx context.Context, deps SessionDeps) error {
  child, err := deps.Children.GetByID(ctx, s.ChildID)
  if err != nil {
    return fmt.Errorf("initialise conversation %s: %w", s.ConversationID, err)
  }
  s.ChildName = child.Name

  persona, err := deps.Personas.ForGrade(ctx, s.Grade)
  if err != nil {
    return fmt.Errorf("initialise conversation %s: %w", s.ConversationID, err)
  }
  s.Persona = persona

  bookIDs := s.BookIDs
  if len(bookIDs) == 0 {
    bookIDs, err = deps.Catalog.BooksForGrade(ctx, s.Grade)
    if err != nil {
      return fmt.Errorf("initialise conversation %s: %w", s.ConversationID, err)
    }
    s.BookIDs = bookIDs
  }

  features, err := deps.Catalog.FeaturesForBooks(ctx, bookIDs)
  if err != nil {
    return fmt.Errorf("initialise conversation %s: %w", s.ConversationID, err)
  }
  s.BookFeatures = features

  if s.ChapterID != 0 && s.SubjectID == 0 {
    chapter, err := deps.Chapters.GetByID(ctx, s.ChapterID)
    if err != nil {
      // Chapter selection is display-adjacent; a broken selection should not
      // sink the whole conversation.
      if deps.Log != nil {
        deps.Log.Warn("Chapter selection did not resolve", "conversation_id", s.ConversationID, "chapter_id", s.ChapterID, "error", err)
      }
    } else {
      s.SubjectID = chapter.SubjectID
    }
  }

  if s.FeatureName != "" {
    if ok := s.SetStudying(s.FeatureName); !ok && deps.Log != nil {
      deps.Log.Warn("Selected feature not in catalog", "conversation_id", s.ConversationID, "feature", s.FeatureName)
    }
  }

  return nil
}

// SetStudying resolves the named catalog feature into the active runtime
// Feature. Returns false when the name is not in this session's catalog.
func (s *Session) SetStudying(featureName string) bool {
  for _, bf := range s.BookFeatures {
    if strings.EqualFold(bf.Name, featureName) {
      s.FeatureName = bf.Name
      s.Studying = NewFeature(bf)
      return true
    }
  }
  s.Studying = nil
  return false
}

// FeatureNames lists the catalog feature names visible to this session, used
// as the enum of the pedagogy tool exposed to the chat service.
func (s *Session) FeatureNames() []string {
  names := make([]string, 0, len(s.BookFeatures))
  for _, bf := range s.BookFeatures {
    names = append(names, bf.Name)
  }
  return names
}
