package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/teachathome/backend/internal/handlers"
  "github.com/teachathome/backend/internal/ws"
)

type RouterConfig struct {
  ConversationHandler *ws.ConversationHandler
  ProgressionHandler  *handlers.ProgressionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  router.GET("/healthcheck", handlers.Healthcheck)
  router.GET("/ws", cfg.ConversationHandler.Serve)

  api := router.Group("/api")
  {
    api.GET("/learning-progression", cfg.ProgressionHandler.Get)
  }

  return router
}
