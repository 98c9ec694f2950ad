package repos

import (
  "context"
  "fmt"

  "gorm.io/gorm"

  "github.com/teachathome/backend/internal/logger"
  "github.com/teachathome/backend/internal/types"
)

// OutcomeRef is a learning outcome (topic) reference in catalog order.
type OutcomeRef struct {
  ID    uint
  Name  string
}

type IndicatorRow struct {
  ID                   uint
  Title                string
  CommonMisconception  *string
}

// MasteryRow is the recorded level/stage for one indicator. Indicators with
// no recorded row are simply absent from the MasteryFor map; callers apply
// the assess default.
type MasteryRow struct {
  Level  *string
  State  *string
}

type QuestionRow struct {
  ID           uint
  Title        string
  Description  *string
  URL          string
}

type ChapterInfo struct {
  Name         string
  SubjectName  string
}

type ChildInfo struct {
  Name string
}

// LearningRepo is the read-only facade over progression data. Every method is
// empty-safe: nil/empty id slices return empty results without touching the
// datastore.
type LearningRepo interface {
  OutcomesForChapter(ctx context.Context, chapterID uint) ([]OutcomeRef, error)
  IndicatorsForOutcome(ctx context.Context, topicID uint) ([]IndicatorRow, error)
  MasteryFor(ctx context.Context, childID uint, indicatorIDs []uint) (map[uint]MasteryRow, error)
  AssessmentQuestions(ctx context.Context, indicatorIDs []uint) (map[uint][]QuestionRow, error)
  ChapterDetails(ctx context.Context, chapterID uint) ChapterInfo
  ChildDetails(ctx context.Context, childID uint) ChildInfo
}

type learningRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewLearningRepo(db *gorm.DB, baseLog *logger.Logger) LearningRepo {
  return &learningRepo{db: db, log: baseLog.With("repo", "LearningRepo")}
}

func (lr *learningRepo) OutcomesForChapter(ctx context.Context, chapterID uint) ([]OutcomeRef, error) {
  var results []OutcomeRef
  if err := lr.db.WithContext(ctx).
    Model(&types.Topic{}).
    Select("id", "name").
    Where("chapter_id = ?", chapterID).
    Order("id ASC").
    Find(&results).Error; err != nil {
    return nil, fmt.Errorf("outcomes for chapter %d: %w", chapterID, err)
  }
  return results, nil
}

func (lr *learningRepo) IndicatorsForOutcome(ctx context.Context, topicID uint) ([]IndicatorRow, error) {
  var results []IndicatorRow
  if err := lr.db.WithContext(ctx).
    Model(&types.LearningIndicator{}).
    Select("id", "title", "common_misconception").
    Where("topic_id = ?", topicID).
    Order("id ASC").
    Find(&results).Error; err != nil {
    return nil, fmt.Errorf("indicators for outcome %d: %w", topicID, err)
  }
  return results, nil
}

func (lr *learningRepo) MasteryFor(ctx context.Context, childID uint, indicatorIDs []uint) (map[uint]MasteryRow, error) {
  result := make(map[uint]MasteryRow)
  if len(indicatorIDs) == 0 {
    return result, nil
  }

  var rows []types.LearningLevel
  if err := lr.db.WithContext(ctx).
    Where("child_id = ? AND learning_indicator_id IN ?", childID, indicatorIDs).
    Find(&rows).Error; err != nil {
    return nil, fmt.Errorf("mastery for child %d: %w", childID, err)
  }
  for _, row := range rows {
    result[row.LearningIndicatorID] = MasteryRow{Level: row.Level, State: row.State}
  }
  return result, nil
}

func (lr *learningRepo) AssessmentQuestions(ctx context.Context, indicatorIDs []uint) (map[uint][]QuestionRow, error) {
  result := make(map[uint][]QuestionRow)
  if len(indicatorIDs) == 0 {
    return result, nil
  }

  var rows []struct {
    ID                   uint
    Title                string
    Description          *string
    URL                  string
    LearningIndicatorID  uint
  }
  if err := lr.db.WithContext(ctx).
    Table("resources").
    Select("resources.id", "resources.title", "resources.description", "resources.url", "learning_indicator_resources.learning_indicator_id").
    Joins("JOIN learning_indicator_resources ON learning_indicator_resources.resource_id = resources.id").
    Where("learning_indicator_resources.learning_indicator_id IN ?", indicatorIDs).
    Where("resources.type = ?", types.ResourceTypeQuestion).
    Order("resources.id ASC").
    Find(&rows).Error; err != nil {
    return nil, fmt.Errorf("assessment questions: %w", err)
  }

  for _, row := range rows {
    result[row.LearningIndicatorID] = append(result[row.LearningIndicatorID], QuestionRow{
      ID:          row.ID,
      Title:       row.Title,
      Description: row.Description,
      URL:         row.URL,
    })
  }
  return result, nil
}

// ChapterDetails is display-only and never fails; a missing or unreadable row
// degrades to a generated placeholder name.
func (lr *learningRepo) ChapterDetails(ctx context.Context, chapterID uint) ChapterInfo {
  var row struct {
    Name         string
    SubjectName  string
  }
  err := lr.db.WithContext(ctx).
    Table("chapters").
    Select("chapters.name", "subjects.name AS subject_name").
    Joins("JOIN subjects ON subjects.id = chapters.subject_id").
    Where("chapters.id = ?", chapterID).
    Take(&row).Error
  if err != nil {
    lr.log.Warn("Chapter details unavailable, using placeholder", "chapter_id", chapterID, "error", err)
    return ChapterInfo{Name: fmt.Sprintf("Chapter %d", chapterID), SubjectName: "Unknown Subject"}
  }
  return ChapterInfo{Name: row.Name, SubjectName: row.SubjectName}
}

// ChildDetails is display-only and never fails.
func (lr *learningRepo) ChildDetails(ctx context.Context, childID uint) ChildInfo {
  var child types.Child
  err := lr.db.WithContext(ctx).
    Where("id = ?", childID).
    Take(&child).Error
  if err != nil {
    lr.log.Warn("Child details unavailable, using placeholder", "child_id", childID, "error", err)
    return ChildInfo{Name: fmt.Sprintf("Student %d", childID)}
  }
  return ChildInfo{Name: child.Name}
}
