package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
	"github.com/ParticlesofMind/neptino-sub010/internal/services"
)

type CanvasHandler struct {
	log               *logger.Logger
	canvasSyncService services.CanvasSyncService
}

func NewCanvasHandler(log *logger.Logger, canvasSyncService services.CanvasSyncService) *CanvasHandler {
	return &CanvasHandler{
		log:               log.With("handler", "CanvasHandler"),
		canvasSyncService: canvasSyncService,
	}
}

func (h *CanvasHandler) SyncCanvases(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	result, err := h.canvasSyncService.EnsureLessonCanvases(c.Request.Context(), courseID)
	if err != nil {
		h.log.Warn("SyncCanvases failed", "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *CanvasHandler) GetLessonCanvases(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	lessonNumber, ok := numberParam(c, "n")
	if !ok {
		return
	}
	records, err := h.canvasSyncService.GetLessonCanvases(c.Request.Context(), courseID, lessonNumber)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"canvases": records})
}

func (h *CanvasHandler) Thumbnail(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	lessonNumber, ok := numberParam(c, "n")
	if !ok {
		return
	}
	canvasIndex, ok := numberParam(c, "index")
	if !ok {
		return
	}
	width, _ := strconv.Atoi(c.Query("width"))

	png, err := h.canvasSyncService.RenderThumbnail(c.Request.Context(), courseID, lessonNumber, canvasIndex, width)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
