package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
	"github.com/ParticlesofMind/neptino-sub010/internal/services"
)

type TemplateHandler struct {
	log               *logger.Logger
	templateService   services.TemplateService
	courseService     services.CourseService
	curriculumService services.CurriculumService
}

func NewTemplateHandler(
	log *logger.Logger,
	templateService services.TemplateService,
	courseService services.CourseService,
	curriculumService services.CurriculumService,
) *TemplateHandler {
	return &TemplateHandler{
		log:               log.With("handler", "TemplateHandler"),
		templateService:   templateService,
		courseService:     courseService,
		curriculumService: curriculumService,
	}
}

func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	course, err := h.courseService.GetCourse(ctx, courseID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	state, err := h.curriculumService.Get(ctx, courseID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	templates, err := h.templateService.ListForCourse(ctx, course, state.Document.TemplatePlacements)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"templates": templates})
}

func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	var input services.CreateTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	course, err := h.courseService.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	tmpl, err := h.templateService.CreateCourseTemplate(c.Request.Context(), course, input)
	if err != nil {
		h.log.Warn("CreateTemplate failed", "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"template": tmpl})
}
