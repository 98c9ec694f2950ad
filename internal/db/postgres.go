package db

import (
  "fmt"
  "strings"

  "gorm.io/driver/postgres"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"

  "github.com/teachathome/backend/internal/logger"
  "github.com/teachathome/backend/internal/types"
  "github.com/teachathome/backend/internal/utils"
)

type PostgresService struct {
  db  *gorm.DB
  log *logger.Logger
}

// NewPostgresService connects to the datastore. DB_DRIVER=sqlite opens the
// admin sqlite file instead, matching the single-file deployments.
func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  driver := strings.ToLower(utils.GetEnv("DB_DRIVER", "postgres", log))

  var dialector gorm.Dialector
  switch driver {
  case "sqlite":
    path := utils.GetEnv("DATABASE_FILEPATH", "./admin_database.sqlite", log)
    dialector = sqlite.Open(path)
  default:
    host := utils.GetEnv("POSTGRES_HOST", "localhost", log)
    port := utils.GetEnv("POSTGRES_PORT", "5432", log)
    user := utils.GetEnv("POSTGRES_USER", "postgres", log)
    password := utils.GetEnv("POSTGRES_PASSWORD", "", log)
    name := utils.GetEnv("POSTGRES_NAME", "teachathome", log)
    dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
    dialector = postgres.Open(dsn)
  }

  serviceLog.Info("Connecting to datastore...", "driver", driver)
  gormDB, err := gorm.Open(dialector, &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    serviceLog.Error("Failed to connect to datastore", "error", err)
    return nil, fmt.Errorf("connect to datastore (%s): %w", driver, err)
  }

  return &PostgresService{db: gormDB, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Auto migrating tables...")
  err := s.db.AutoMigrate(
    &types.Grade{},
    &types.TeacherPersona{},
    &types.Child{},
    &types.Subject{},
    &types.Chapter{},
    &types.Topic{},
    &types.LearningIndicator{},
    &types.LearningLevel{},
    &types.Resource{},
    &types.LearningIndicatorResource{},
    &types.Book{},
    &types.BookFeature{},
  )
  if err != nil {
    s.log.Error("Auto migration failed", "error", err)
    return err
  }
  return nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}
