package services

import (
  "context"
  "fmt"

  "github.com/teachathome/backend/internal/logger"
  "github.com/teachathome/backend/internal/repos"
)

// ProgressionReport is the full per-chapter progression view served to the
// admin UI over the conversation channel.
type ProgressionReport struct {
  ChapterID    uint           `json:"chapterId"`
  ChapterName  string         `json:"chapterName"`
  SubjectName  string         `json:"subjectName"`
  ChildID      uint           `json:"childId"`
  ChildName    string         `json:"childName"`
  Topics       []ReportTopic  `json:"topics"`
}

type ReportTopic struct {
  TopicID             uint               `json:"topicId"`
  TopicName           string             `json:"topicName"`
  LearningIndicators  []ReportIndicator  `json:"learningIndicators"`
}

type ReportIndicator struct {
  ID                   uint     `json:"id"`
  Title                string   `json:"title"`
  CommonMisconception  *string  `json:"commonMisconception"`
  Level                *string  `json:"level"`
  Stage                string   `json:"state"`
}

// ProgressionReportService builds progression reports. Unlike the adaptive
// feature it fails fast on unknown child or chapter ids: the admin UI should
// see the error, not a placeholder.
type ProgressionReportService struct {
  children  repos.ChildRepo
  chapters  repos.ChapterRepo
  learning  repos.LearningRepo
  analyzer  *ProgressionAnalyzer
  log       *logger.Logger
}

func NewProgressionReportService(
  children repos.ChildRepo,
  chapters repos.ChapterRepo,
  learning repos.LearningRepo,
  analyzer *ProgressionAnalyzer,
  baseLog *logger.Logger,
) *ProgressionReportService {
  return &ProgressionReportService{
    children: children,
    chapters: chapters,
    learning: learning,
    analyzer: analyzer,
    log:      baseLog.With("service", "ProgressionReportService"),
  }
}

func (s *ProgressionReportService) FetchLearningProgression(ctx context.Context, childID, chapterID uint) (*ProgressionReport, error) {
  child, err := s.children.GetByID(ctx, childID)
  if err != nil {
    return nil, fmt.Errorf("learning progression: %w", err)
  }
  if _, err := s.chapters.GetByID(ctx, chapterID); err != nil {
    return nil, fmt.Errorf("learning progression: %w", err)
  }

  chapterInfo := s.learning.ChapterDetails(ctx, chapterID)

  outcomes, err := s.analyzer.OutcomesWithProgress(ctx, chapterID, childID)
  if err != nil {
    return nil, fmt.Errorf("learning progression: %w", err)
  }

  topics := make([]ReportTopic, 0, len(outcomes))
  for _, outcome := range outcomes {
    indicators := make([]ReportIndicator, 0, len(outcome.Indicators))
    for _, li := range outcome.Indicators {
      indicators = append(indicators, ReportIndicator{
        ID:                  li.ID,
        Title:               li.Title,
        CommonMisconception: li.CommonMisconception,
        Level:               li.Level,
        Stage:               li.Stage,
      })
    }
    topics = append(topics, ReportTopic{
      TopicID:            outcome.ID,
      TopicName:          outcome.Name,
      LearningIndicators: indicators,
    })
  }

  return &ProgressionReport{
    ChapterID:   chapterID,
    ChapterName: chapterInfo.Name,
    SubjectName: chapterInfo.SubjectName,
    ChildID:     childID,
    ChildName:   child.Name,
    Topics:      topics,
  }, nil
}
