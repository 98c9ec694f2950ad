package repos

import (
  "context"
  "fmt"

  "gorm.io/gorm"

  "github.com/teachathome/backend/internal/logger"
  "github.com/teachathome/backend/internal/types"
)

type CatalogRepo interface {
  // FeaturesForBooks returns the union of features across the given books,
  // in catalog (ascending id) order.
  FeaturesForBooks(ctx context.Context, bookIDs []uint) ([]types.BookFeature, error)
  // BooksForGrade lists the book ids attached to a grade, for conversations
  // opened without an explicit book selection.
  BooksForGrade(ctx context.Context, gradeName string) ([]uint, error)
}

type catalogRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCatalogRepo(db *gorm.DB, baseLog *logger.Logger) CatalogRepo {
  return &catalogRepo{db: db, log: baseLog.With("repo", "CatalogRepo")}
}

func (cr *catalogRepo) FeaturesForBooks(ctx context.Context, bookIDs []uint) ([]types.BookFeature, error) {
  var results []types.BookFeature
  if len(bookIDs) == 0 {
    return results, nil
  }
  if err := cr.db.WithContext(ctx).
    Where("book_id IN ?", bookIDs).
    Order("id ASC").
    Find(&results).Error; err != nil {
    return nil, fmt.Errorf("features for books %v: %w", bookIDs, err)
  }
  return results, nil
}

func (cr *catalogRepo) BooksForGrade(ctx context.Context, gradeName string) ([]uint, error) {
  var ids []uint
  if err := cr.db.WithContext(ctx).
    Model(&types.Book{}).
    Joins("JOIN grades ON grades.id = books.grade_id").
    Where("grades.name = ?", gradeName).
    Order("books.id ASC").
    Pluck("books.id", &ids).Error; err != nil {
    return nil, fmt.Errorf("books for grade %q: %w", gradeName, err)
  }
  return ids, nil
}
