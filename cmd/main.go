package main

import (
  "fmt"
  "os"

  "github.com/teachathome/backend/internal/db"
  "github.com/teachathome/backend/internal/handlers"
  "github.com/teachathome/backend/internal/logger"
  "github.com/teachathome/backend/internal/realtime"
  "github.com/teachathome/backend/internal/repos"
  "github.com/teachathome/backend/internal/server"
  "github.com/teachathome/backend/internal/services"
  "github.com/teachathome/backend/internal/utils"
  "github.com/teachathome/backend/internal/ws"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Database
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Database init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Auto migration failed", "error", err)
  }
  theDB := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  learningRepo := repos.NewLearningRepo(theDB, log)
  personaRepo := repos.NewPersonaRepo(theDB, log)
  catalogRepo := repos.NewCatalogRepo(theDB, log)
  childRepo := repos.NewChildRepo(theDB, log)
  chapterRepo := repos.NewChapterRepo(theDB, log)

  // Services
  log.Info("Setting up Services from main...")
  analyzer := services.NewProgressionAnalyzer(learningRepo, log)
  formatter := services.NewTeachingContentFormatter()
  featureDeps := services.FeatureDeps{
    Analyzer:  analyzer,
    Formatter: formatter,
    Learning:  learningRepo,
    Log:       log,
  }
  sessionDeps := services.SessionDeps{
    Children: childRepo,
    Personas: personaRepo,
    Catalog:  catalogRepo,
    Chapters: chapterRepo,
    Log:      log,
  }
  store := services.NewConversationStore(log)
  promptBuilder := services.NewPromptBuilder(featureDeps, log)
  reportService := services.NewProgressionReportService(childRepo, chapterRepo, learningRepo, analyzer, log)

  chatService, err := services.NewChatService(log)
  if err != nil {
    log.Error("Could not init ChatService", "error", err)
    os.Exit(1)
  }
  speechService, err := services.NewSpeechService(log)
  if err != nil {
    log.Warn("Could not init SpeechService, audio disabled", "error", err)
    speechService = nil
  }
  publisher := realtime.NewRedisPublisher(log)

  // Handlers
  log.Info("Setting up handlers from main...")
  conversationHandler := ws.NewConversationHandler(
    log,
    store,
    sessionDeps,
    featureDeps,
    promptBuilder,
    chatService,
    speechService,
    reportService,
    publisher,
  )
  progressionHandler := handlers.NewProgressionHandler(reportService, log)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    ConversationHandler: conversationHandler,
    ProgressionHandler:  progressionHandler,
  })

  port := utils.GetEnv("PORT", "8000", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
  }
}
