package repos

import (
  "context"
  "errors"
  "fmt"

  "gorm.io/gorm"

  "github.com/teachathome/backend/internal/logger"
  "github.com/teachathome/backend/internal/types"
)

// ErrChildNotFound is the fail-fast signal for session initialisation:
// nothing downstream may run against an unresolvable learner.
var ErrChildNotFound = errors.New("child not found")

type ChildRepo interface {
  GetByID(ctx context.Context, childID uint) (*types.Child, error)
}

type childRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewChildRepo(db *gorm.DB, baseLog *logger.Logger) ChildRepo {
  return &childRepo{db: db, log: baseLog.With("repo", "ChildRepo")}
}

func (cr *childRepo) GetByID(ctx context.Context, childID uint) (*types.Child, error) {
  var child types.Child
  err := cr.db.WithContext(ctx).Where("id = ?", childID).Take(&child).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, fmt.Errorf("child %d: %w", childID, ErrChildNotFound)
  }
  if err != nil {
    return nil, fmt.Errorf("child %d: %w", childID, err)
  }
  return &child, nil
}
