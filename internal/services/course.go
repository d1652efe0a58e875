package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ParticlesofMind/neptino-sub010/internal/apierr"
	"github.com/ParticlesofMind/neptino-sub010/internal/curriculum"
	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
	"github.com/ParticlesofMind/neptino-sub010/internal/repos"
	"github.com/ParticlesofMind/neptino-sub010/internal/requestdata"
	"github.com/ParticlesofMind/neptino-sub010/internal/sse"
	"github.com/ParticlesofMind/neptino-sub010/internal/ssedata"
	"github.com/ParticlesofMind/neptino-sub010/internal/types"
)

type CreateCourseInput struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Subject     string         `json:"subject"`
	Level       string         `json:"level"`
	CourseType  string         `json:"course_type"`
	Schedule    *ScheduleInput `json:"schedule,omitempty"`
}

type ScheduleInput struct {
	SessionCount int                      `json:"session_count"`
	StartTime    string                   `json:"start_time"`
	EndTime      string                   `json:"end_time"`
	Breaks       []curriculum.BreakWindow `json:"breaks"`
}

type CourseService interface {
	CreateCourse(ctx context.Context, input CreateCourseInput) (*types.Course, error)
	ListCourses(ctx context.Context) ([]*types.Course, error)
	GetCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, error)
	GetSchedule(ctx context.Context, courseID uuid.UUID) (*types.CourseSchedule, error)
	UpdateSchedule(ctx context.Context, courseID uuid.UUID, input ScheduleInput) (*types.CourseSchedule, error)
	DeleteCourse(ctx context.Context, courseID uuid.UUID) error
	RequireOwnedCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.Course, error)
}

type courseService struct {
	db                 *gorm.DB
	log                *logger.Logger
	courseRepo         repos.CourseRepo
	courseScheduleRepo repos.CourseScheduleRepo
	curriculumRepo     repos.CurriculumRepo
	templateRepo       repos.TemplateRepo
	canvasRecordRepo   repos.CanvasRecordRepo
}

func NewCourseService(
	db *gorm.DB,
	log *logger.Logger,
	courseRepo repos.CourseRepo,
	courseScheduleRepo repos.CourseScheduleRepo,
	curriculumRepo repos.CurriculumRepo,
	templateRepo repos.TemplateRepo,
	canvasRecordRepo repos.CanvasRecordRepo,
) CourseService {
	serviceLog := log.With("service", "CourseService")
	return &courseService{
		db:                 db,
		log:                serviceLog,
		courseRepo:         courseRepo,
		courseScheduleRepo: courseScheduleRepo,
		curriculumRepo:     curriculumRepo,
		templateRepo:       templateRepo,
		canvasRecordRepo:   canvasRecordRepo,
	}
}

func validCourseType(ct string) bool {
	switch curriculum.CourseType(ct) {
	case curriculum.CourseTypeMinimalist, curriculum.CourseTypeEssential,
		curriculum.CourseTypeComplete, curriculum.CourseTypeCustom:
		return true
	}
	return false
}

func (cs *courseService) CreateCourse(ctx context.Context, input CreateCourseInput) (*types.Course, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.New(401, "unauthorized", fmt.Errorf("no authenticated user"))
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apierr.New(400, "missing_title", fmt.Errorf("course title is required"))
	}
	courseType := input.CourseType
	if courseType == "" {
		courseType = string(curriculum.CourseTypeCustom)
	}
	if !validCourseType(courseType) {
		return nil, apierr.New(400, "invalid_course_type", fmt.Errorf("unknown course type %q", courseType))
	}

	course := &types.Course{
		ID:          uuid.New(),
		UserID:      rd.UserID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Subject:     strings.TrimSpace(input.Subject),
		Level:       strings.TrimSpace(input.Level),
		CourseType:  courseType,
	}

	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.courseRepo.Create(ctx, tx, []*types.Course{course}); err != nil {
			return fmt.Errorf("failed to create course: %w", err)
		}
		if input.Schedule != nil {
			if _, err := cs.upsertSchedule(ctx, tx, course.ID, *input.Schedule); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if ssd := ssedata.GetSSEData(ctx); ssd != nil {
		ssd.AppendMessage(sse.SSEMessage{
			Channel: sse.CourseChannel(course.ID),
			Event:   sse.SSEEventCourseCreated,
			Data:    map[string]any{"course_id": course.ID.String()},
		})
	}

	return course, nil
}

func (cs *courseService) ListCourses(ctx context.Context) ([]*types.Course, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.New(401, "unauthorized", fmt.Errorf("no authenticated user"))
	}

	courses, err := cs.courseRepo.GetByUserIDs(ctx, nil, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (cs *courseService) GetCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, error) {
	return cs.RequireOwnedCourse(ctx, nil, courseID)
}

func (cs *courseService) GetSchedule(ctx context.Context, courseID uuid.UUID) (*types.CourseSchedule, error) {
	if _, err := cs.RequireOwnedCourse(ctx, nil, courseID); err != nil {
		return nil, err
	}
	schedules, err := cs.courseScheduleRepo.GetByCourseIDs(ctx, nil, []uuid.UUID{courseID})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve schedule: %w", err)
	}
	if len(schedules) == 0 {
		return nil, apierr.New(404, "schedule_not_found", fmt.Errorf("course has no schedule"))
	}
	return schedules[0], nil
}

func (cs *courseService) UpdateSchedule(ctx context.Context, courseID uuid.UUID, input ScheduleInput) (*types.CourseSchedule, error) {
	if _, err := cs.RequireOwnedCourse(ctx, nil, courseID); err != nil {
		return nil, err
	}

	var schedule *types.CourseSchedule
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		schedule, err = cs.upsertSchedule(ctx, tx, courseID, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	if ssd := ssedata.GetSSEData(ctx); ssd != nil {
		ssd.AppendMessage(sse.SSEMessage{
			Channel: sse.CourseChannel(courseID),
			Event:   sse.SSEEventScheduleUpdated,
			Data:    map[string]any{"duration_minutes": schedule.DurationMinutes},
		})
	}

	return schedule, nil
}

func (cs *courseService) upsertSchedule(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, input ScheduleInput) (*types.CourseSchedule, error) {
	if input.SessionCount < 0 {
		return nil, apierr.New(400, "invalid_session_count", fmt.Errorf("session count must be non-negative"))
	}

	breaksJSON, err := json.Marshal(input.Breaks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode breaks: %w", err)
	}

	schedule := &types.CourseSchedule{
		ID:              uuid.New(),
		CourseID:        courseID,
		SessionCount:    input.SessionCount,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		Breaks:          datatypes.JSON(breaksJSON),
		DurationMinutes: curriculum.CalculateLessonDuration(input.StartTime, input.EndTime, input.Breaks),
	}
	if _, err := cs.courseScheduleRepo.Upsert(ctx, tx, schedule); err != nil {
		return nil, fmt.Errorf("failed to upsert schedule: %w", err)
	}
	return schedule, nil
}

func (cs *courseService) DeleteCourse(ctx context.Context, courseID uuid.UUID) error {
	if _, err := cs.RequireOwnedCourse(ctx, nil, courseID); err != nil {
		return err
	}

	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := []uuid.UUID{courseID}
		if err := cs.canvasRecordRepo.FullDeleteByCourseIDs(ctx, tx, ids); err != nil {
			return fmt.Errorf("failed to delete canvas records: %w", err)
		}
		if err := cs.curriculumRepo.FullDeleteByCourseIDs(ctx, tx, ids); err != nil {
			return fmt.Errorf("failed to delete curriculum: %w", err)
		}
		if err := cs.templateRepo.FullDeleteByCourseIDs(ctx, tx, ids); err != nil {
			return fmt.Errorf("failed to delete course templates: %w", err)
		}
		if err := cs.courseScheduleRepo.FullDeleteByCourseIDs(ctx, tx, ids); err != nil {
			return fmt.Errorf("failed to delete schedule: %w", err)
		}
		if err := cs.courseRepo.SoftDeleteByIDs(ctx, tx, ids); err != nil {
			return fmt.Errorf("failed to delete course: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if ssd := ssedata.GetSSEData(ctx); ssd != nil {
		ssd.AppendMessage(sse.SSEMessage{
			Channel: sse.CourseChannel(courseID),
			Event:   sse.SSEEventCourseDeleted,
			Data:    map[string]any{"course_id": courseID.String()},
		})
	}

	return nil
}

// RequireOwnedCourse loads the course and rejects requests from anyone but
// its owner.
func (cs *courseService) RequireOwnedCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.Course, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.New(401, "unauthorized", fmt.Errorf("no authenticated user"))
	}

	courses, err := cs.courseRepo.GetByIDs(ctx, tx, []uuid.UUID{courseID})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve course: %w", err)
	}
	if len(courses) == 0 {
		return nil, apierr.New(404, "course_not_found", fmt.Errorf("course not found"))
	}
	course := courses[0]
	if course.UserID != rd.UserID {
		return nil, apierr.New(403, "forbidden", fmt.Errorf("course belongs to another user"))
	}
	return course, nil
}
