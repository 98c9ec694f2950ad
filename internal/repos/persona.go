package repos

import (
  "context"
  "errors"
  "fmt"

  "gorm.io/gorm"

  "github.com/teachathome/backend/internal/logger"
  "github.com/teachathome/backend/internal/types"
)

// ErrNoPersona means the grade has no teaching persona configured. This is a
// configuration fault, not a degradable lookup: callers must not substitute a
// silent default.
var ErrNoPersona = errors.New("no teacher persona for grade")

type PersonaRepo interface {
  ForGrade(ctx context.Context, gradeName string) (*types.TeacherPersona, error)
}

type personaRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPersonaRepo(db *gorm.DB, baseLog *logger.Logger) PersonaRepo {
  return &personaRepo{db: db, log: baseLog.With("repo", "PersonaRepo")}
}

func (pr *personaRepo) ForGrade(ctx context.Context, gradeName string) (*types.TeacherPersona, error) {
  var persona types.TeacherPersona
  err := pr.db.WithContext(ctx).
    Joins("JOIN grades ON grades.id = teacher_personas.grade_id").
    Where("grades.name = ?", gradeName).
    Take(&persona).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, fmt.Errorf("persona for grade %q: %w", gradeName, ErrNoPersona)
  }
  if err != nil {
    return nil, fmt.Errorf("persona for grade %q: %w", gradeName, err)
  }
  return &persona, nil
}
