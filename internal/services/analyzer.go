package services

import (
  "context"
  "fmt"

  "github.com/teachathome/backend/internal/logger"
  "github.com/teachathome/backend/internal/repos"
  "github.com/teachathome/backend/internal/types"
)

// IndicatorWithState is a learning indicator merged with the child's recorded
// mastery. Stage is normalized at this boundary: an indicator with no recorded
// row carries StageAssess here, so downstream code never re-derives the
// default.
type IndicatorWithState struct {
  ID                   uint
  Title                string
  CommonMisconception  *string
  Level                *string
  Stage                string
}

type OutcomeWithProgress struct {
  ID             uint
  Name           string
  Indicators     []IndicatorWithState
  IsFullyTaught  bool
}

// MisconceptionGroup buckets indicators sharing a misconception, in
// first-seen indicator order. Indicators without misconception text land in
// the "General" bucket.
type MisconceptionGroup struct {
  Misconception  string
  Indicators     []IndicatorWithState
}

const generalMisconception = "General"

// ProgressionAnalyzer decides what to teach next from progression data. It is
// pure computation over the learning repo and holds no state of its own.
type ProgressionAnalyzer struct {
  learning repos.LearningRepo
  log      *logger.Logger
}

func NewProgressionAnalyzer(learning repos.LearningRepo, baseLog *logger.Logger) *ProgressionAnalyzer {
  return &ProgressionAnalyzer{
    learning: learning,
    log:      baseLog.With("service", "ProgressionAnalyzer"),
  }
}

// OutcomesWithProgress returns every outcome of the chapter, in the repo's
// ascending id order, with the child's mastery merged in. An outcome with no
// indicators is vacuously fully taught.
func (a *ProgressionAnalyzer) OutcomesWithProgress(ctx context.Context, chapterID, childID uint) ([]OutcomeWithProgress, error) {
  outcomes, err := a.learning.OutcomesForChapter(ctx, chapterID)
  if err != nil {
    return nil, fmt.Errorf("outcomes with progress: %w", err)
  }

  results := make([]OutcomeWithProgress, 0, len(outcomes))
  for _, outcome := range outcomes {
    indicators, err := a.learning.IndicatorsForOutcome(ctx, outcome.ID)
    if err != nil {
      return nil, fmt.Errorf("outcomes with progress: %w", err)
    }

    if len(indicators) == 0 {
      results = append(results, OutcomeWithProgress{
        ID:            outcome.ID,
        Name:          outcome.Name,
        Indicators:    []IndicatorWithState{},
        IsFullyTaught: true,
      })
      continue
    }

    ids := make([]uint, 0, len(indicators))
    for _, indicator := range indicators {
      ids = append(ids, indicator.ID)
    }
    mastery, err := a.learning.MasteryFor(ctx, childID, ids)
    if err != nil {
      return nil, fmt.Errorf("outcomes with progress: %w", err)
    }

    merged := make([]IndicatorWithState, 0, len(indicators))
    fullyTaught := true
    for _, indicator := range indicators {
      state := IndicatorWithState{
        ID:                  indicator.ID,
        Title:               indicator.Title,
        CommonMisconception: indicator.CommonMisconception,
        Stage:               types.StageAssess,
      }
      if row, ok := mastery[indicator.ID]; ok {
        state.Level = row.Level
        if row.State != nil && *row.State != "" {
          state.Stage = *row.State
        }
      }
      if state.Stage != types.StageTaught {
        fullyTaught = false
      }
      merged = append(merged, state)
    }

    results = append(results, OutcomeWithProgress{
      ID:            outcome.ID,
      Name:          outcome.Name,
      Indicators:    merged,
      IsFullyTaught: fullyTaught,
    })
  }

  return results, nil
}

// FindNextOutcomeToTeach returns the first outcome (ascending id) that is not
// fully taught. When every outcome is taught it returns the first outcome as
// a review fallback; a chapter with no outcomes returns nil, meaning nothing
// to teach.
func (a *ProgressionAnalyzer) FindNextOutcomeToTeach(ctx context.Context, chapterID, childID uint) (*OutcomeWithProgress, error) {
  outcomes, err := a.OutcomesWithProgress(ctx, chapterID, childID)
  if err != nil {
    return nil, err
  }
  if len(outcomes) == 0 {
    return nil, nil
  }
  for i := range outcomes {
    if !outcomes[i].IsFullyTaught {
      return &outcomes[i], nil
    }
  }
  return &outcomes[0], nil
}

// QuestionsForAssessable fetches assessment questions for the indicators still
// in the assess stage. Indicators past assessment are skipped entirely.
func (a *ProgressionAnalyzer) QuestionsForAssessable(ctx context.Context, indicators []IndicatorWithState) (map[uint][]repos.QuestionRow, error) {
  ids := make([]uint, 0, len(indicators))
  for _, indicator := range indicators {
    if indicator.Stage == types.StageAssess {
      ids = append(ids, indicator.ID)
    }
  }
  if len(ids) == 0 {
    return map[uint][]repos.QuestionRow{}, nil
  }
  return a.learning.AssessmentQuestions(ctx, ids)
}

// GroupByMisconception partitions indicators by misconception text, groups
// ordered by first appearance.
func (a *ProgressionAnalyzer) GroupByMisconception(indicators []IndicatorWithState) []MisconceptionGroup {
  return groupByMisconception(indicators)
}

func groupByMisconception(indicators []IndicatorWithState) []MisconceptionGroup {
  var groups []MisconceptionGroup
  index := make(map[string]int)
  for _, indicator := range indicators {
    key := generalMisconception
    if indicator.CommonMisconception != nil && *indicator.CommonMisconception != "" {
      key = *indicator.CommonMisconception
    }
    pos, ok := index[key]
    if !ok {
      pos = len(groups)
      index[key] = pos
      groups = append(groups, MisconceptionGroup{Misconception: key})
    }
    groups[pos].Indicators = append(groups[pos].Indicators, indicator)
  }
  return groups
}
