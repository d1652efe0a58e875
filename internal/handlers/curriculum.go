package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
	"github.com/ParticlesofMind/neptino-sub010/internal/requestdata"
	"github.com/ParticlesofMind/neptino-sub010/internal/services"
)

type CurriculumHandler struct {
	log               *logger.Logger
	curriculumService services.CurriculumService
	canvasSyncService services.CanvasSyncService
	autosave          services.AutosaveService
}

func NewCurriculumHandler(
	log *logger.Logger,
	curriculumService services.CurriculumService,
	canvasSyncService services.CanvasSyncService,
	autosave services.AutosaveService,
) *CurriculumHandler {
	return &CurriculumHandler{
		log:               log.With("handler", "CurriculumHandler"),
		curriculumService: curriculumService,
		canvasSyncService: canvasSyncService,
		autosave:          autosave,
	}
}

// scheduleCanvasSync coalesces a burst of edits into one canvas rebuild per
// course. The flush reads the latest persisted document, so a sync that
// raced a newer edit still renders current state.
func (h *CurriculumHandler) scheduleCanvasSync(c *gin.Context, courseID uuid.UUID) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		return
	}
	h.autosave.Schedule("canvas-sync:"+courseID.String(), func(ctx context.Context) error {
		_, err := h.canvasSyncService.EnsureLessonCanvases(requestdata.WithRequestData(ctx, rd), courseID)
		return err
	})
}

func numberParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_number", err)
		return 0, false
	}
	return n, true
}

func (h *CurriculumHandler) Get(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	state, err := h.curriculumService.Get(c.Request.Context(), courseID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, state)
}

func (h *CurriculumHandler) Initialize(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	state, err := h.curriculumService.InitializeFromSchedule(c.Request.Context(), courseID)
	if err != nil {
		h.log.Warn("Initialize failed", "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, state)
}

func (h *CurriculumHandler) UpdateStructure(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	var input services.StructureFieldInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	state, err := h.curriculumService.UpdateStructureField(c.Request.Context(), courseID, input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	h.scheduleCanvasSync(c, courseID)
	RespondOK(c, state)
}

func (h *CurriculumHandler) SetOrganization(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	var input services.OrganizationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	state, err := h.curriculumService.SetModuleOrganization(c.Request.Context(), courseID, input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	h.scheduleCanvasSync(c, courseID)
	RespondOK(c, state)
}

func (h *CurriculumHandler) EditLesson(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	lessonNumber, ok := numberParam(c, "n")
	if !ok {
		return
	}
	var input services.LessonEditInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	state, err := h.curriculumService.EditLesson(c.Request.Context(), courseID, lessonNumber, input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	h.scheduleCanvasSync(c, courseID)
	RespondOK(c, state)
}

func (h *CurriculumHandler) RenameModule(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	moduleNumber, ok := numberParam(c, "n")
	if !ok {
		return
	}
	var input struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	state, err := h.curriculumService.RenameModule(c.Request.Context(), courseID, moduleNumber, input.Title)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, state)
}

func (h *CurriculumHandler) UpdatePlacement(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	templateID := c.Param("templateID")
	var input services.PlacementChoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	state, err := h.curriculumService.UpdatePlacementChoice(c.Request.Context(), courseID, templateID, input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, state)
}

func (h *CurriculumHandler) TogglePlacement(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	templateID := c.Param("templateID")
	var input services.PlacementToggleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	state, err := h.curriculumService.TogglePlacement(c.Request.Context(), courseID, templateID, input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, state)
}

func (h *CurriculumHandler) EditPlacementRange(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	templateID := c.Param("templateID")
	var input services.PlacementRangeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	state, err := h.curriculumService.EditPlacementRange(c.Request.Context(), courseID, templateID, input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, state)
}

func (h *CurriculumHandler) ApplyPlacements(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	state, err := h.curriculumService.ApplyPlacements(c.Request.Context(), courseID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	h.scheduleCanvasSync(c, courseID)
	RespondOK(c, state)
}

func (h *CurriculumHandler) ValidateLessonCount(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	state, err := h.curriculumService.ValidateLessonCount(c.Request.Context(), courseID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	h.scheduleCanvasSync(c, courseID)
	RespondOK(c, state)
}

func (h *CurriculumHandler) Preview(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	p, err := h.curriculumService.RenderPreview(c.Request.Context(), courseID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, p)
}
