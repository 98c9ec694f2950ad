package services

import (
  "context"
  "strings"

  "github.com/teachathome/backend/internal/logger"
  "github.com/teachathome/backend/internal/repos"
  "github.com/teachathome/backend/internal/types"
)

// FeatureKind is the closed set of runtime teaching behaviors a catalog entry
// can resolve to.
type FeatureKind int

const (
  FeatureDefault FeatureKind = iota
  FeatureChapterAdaptive
)

// chapterTeachingMarker selects the adaptive behavior. Classification is a
// pure function of the catalog name: identical name, identical kind.
const chapterTeachingMarker = "chapter teaching"

func ClassifyFeature(name string) FeatureKind {
  normalized := strings.ToLower(strings.TrimSpace(name))
  if strings.Contains(normalized, chapterTeachingMarker) {
    return FeatureChapterAdaptive
  }
  return FeatureDefault
}

// FeatureDeps carries the collaborators adaptive behaviors draw on.
type FeatureDeps struct {
  Analyzer   *ProgressionAnalyzer
  Formatter  *TeachingContentFormatter
  Learning   repos.LearningRepo
  Log        *logger.Logger
}

// Feature wraps a catalog entry with its runtime teaching behavior.
type Feature interface {
  Kind() FeatureKind
  Catalog() types.BookFeature
  // WhatToTeach renders the teaching instructions for this feature. It never
  // fails: adaptive behaviors degrade to the stored guidance text when
  // progression data is unavailable.
  WhatToTeach(ctx context.Context, sess *Session, deps FeatureDeps) string
}

func NewFeature(bf types.BookFeature) Feature {
  switch ClassifyFeature(bf.Name) {
  case FeatureChapterAdaptive:
    return &chapterAdaptiveFeature{catalog: bf}
  default:
    return &defaultFeature{catalog: bf}
  }
}

type defaultFeature struct {
  catalog types.BookFeature
}

func (f *defaultFeature) Kind() FeatureKind          { return FeatureDefault }
func (f *defaultFeature) Catalog() types.BookFeature { return f.catalog }

func (f *defaultFeature) WhatToTeach(ctx context.Context, sess *Session, deps FeatureDeps) string {
  return f.catalog.HowToTeach
}

const chapterTeachingNote = "This is a chapter teaching session. Focus on the overall concepts and connections between topics."

// chapterAdaptiveFeature tailors the guidance to the child's progression
// through the session's active chapter.
type chapterAdaptiveFeature struct {
  catalog types.BookFeature
}

func (f *chapterAdaptiveFeature) Kind() FeatureKind          { return FeatureChapterAdaptive }
func (f *chapterAdaptiveFeature) Catalog() types.BookFeature { return f.catalog }

// WhatToTeach builds the adaptive chapter-teaching prompt. Any failure in the
// progression chain falls back to the stored guidance plus a generic note:
// the conversation must keep flowing even when progression data is broken.
func (f *chapterAdaptiveFeature) WhatToTeach(ctx context.Context, sess *Session, deps FeatureDeps) string {
  if sess == nil || sess.ChildID == 0 || sess.ChapterID == 0 {
    return f.genericGuidance()
  }

  outcome, err := deps.Analyzer.FindNextOutcomeToTeach(ctx, sess.ChapterID, sess.ChildID)
  if err != nil {
    f.warn(deps, sess, "Next outcome lookup failed, degrading to generic guidance", err)
    return f.genericGuidance()
  }
  if outcome == nil {
    f.warn(deps, sess, "Chapter has no outcomes, degrading to generic guidance", nil)
    return f.genericGuidance()
  }

  questions, err := deps.Analyzer.QuestionsForAssessable(ctx, outcome.Indicators)
  if err != nil {
    f.warn(deps, sess, "Assessment question lookup failed, degrading to generic guidance", err)
    return f.genericGuidance()
  }

  chapter := deps.Learning.ChapterDetails(ctx, sess.ChapterID)
  child := deps.Learning.ChildDetails(ctx, sess.ChildID)

  return deps.Formatter.GenerateTeachingPrompt(chapter.Name, child.Name, *outcome, questions)
}

func (f *chapterAdaptiveFeature) genericGuidance() string {
  return f.catalog.HowToTeach + "\n\n" + chapterTeachingNote
}

func (f *chapterAdaptiveFeature) warn(deps FeatureDeps, sess *Session, msg string, err error) {
  if deps.Log == nil {
    return
  }
  deps.Log.Warn(msg,
    "feature", f.catalog.Name,
    "chapter_id", sess.ChapterID,
    "child_id", sess.ChildID,
    "error", err,
  )
}
