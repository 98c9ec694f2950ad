package handlers

import (
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"

  "github.com/teachathome/backend/internal/logger"
  "github.com/teachathome/backend/internal/services"
)

// ProgressionHandler exposes the learning progression report over plain HTTP
// for dashboard clients that do not hold a websocket open.
type ProgressionHandler struct {
  reports *services.ProgressionReportService
  log     *logger.Logger
}

func NewProgressionHandler(reports *services.ProgressionReportService, baseLog *logger.Logger) *ProgressionHandler {
  return &ProgressionHandler{
    reports: reports,
    log:     baseLog.With("handler", "ProgressionHandler"),
  }
}

func (h *ProgressionHandler) Get(c *gin.Context) {
  childID, err := strconv.ParseUint(c.Query("childId"), 10, 64)
  if err != nil || childID == 0 {
    c.JSON(http.StatusBadRequest, gin.H{"error": "childId is required"})
    return
  }
  chapterID, err := strconv.ParseUint(c.Query("chapterId"), 10, 64)
  if err != nil || chapterID == 0 {
    c.JSON(http.StatusBadRequest, gin.H{"error": "chapterId is required"})
    return
  }

  report, err := h.reports.FetchLearningProgression(c.Request.Context(), uint(childID), uint(chapterID))
  if err != nil {
    h.log.Warn("Learning progression fetch failed", "child_id", childID, "chapter_id", chapterID, "error", err)
    c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch learning progression: " + err.Error()})
    return
  }
  c.JSON(http.StatusOK, report)
}
