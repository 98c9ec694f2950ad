package repos

import (
  "context"
  "errors"
  "fmt"

  "gorm.io/gorm"

  "github.com/teachathome/backend/internal/logger"
  "github.com/teachathome/backend/internal/types"
)

var ErrChapterNotFound = errors.New("chapter not found")

type ChapterRepo interface {
  GetByID(ctx context.Context, chapterID uint) (*types.Chapter, error)
}

type chapterRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
  return &chapterRepo{db: db, log: baseLog.With("repo", "ChapterRepo")}
}

func (cr *chapterRepo) GetByID(ctx context.Context, chapterID uint) (*types.Chapter, error) {
  var chapter types.Chapter
  err := cr.db.WithContext(ctx).Where("id = ?", chapterID).Take(&chapter).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, fmt.Errorf("chapter %d: %w", chapterID, ErrChapterNotFound)
  }
  if err != nil {
    return nil, fmt.Errorf("chapter %d: %w", chapterID, err)
  }
  return &chapter, nil
}
