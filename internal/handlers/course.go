package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
	"github.com/ParticlesofMind/neptino-sub010/internal/services"
)

type CourseHandler struct {
	log           *logger.Logger
	courseService services.CourseService
}

func NewCourseHandler(log *logger.Logger, courseService services.CourseService) *CourseHandler {
	return &CourseHandler{
		log:           log.With("handler", "CourseHandler"),
		courseService: courseService,
	}
}

func courseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("courseID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return uuid.Nil, false
	}
	return id, true
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var input services.CreateCourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	course, err := h.courseService.CreateCourse(c.Request.Context(), input)
	if err != nil {
		h.log.Warn("CreateCourse failed", "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"course": course})
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseService.ListCourses(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"courses": courses})
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	course, err := h.courseService.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"course": course})
}

func (h *CourseHandler) UpdateSchedule(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	var input services.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	schedule, err := h.courseService.UpdateSchedule(c.Request.Context(), courseID, input)
	if err != nil {
		h.log.Warn("UpdateSchedule failed", "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"schedule": schedule})
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	if err := h.courseService.DeleteCourse(c.Request.Context(), courseID); err != nil {
		h.log.Warn("DeleteCourse failed", "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}
