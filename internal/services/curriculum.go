package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ParticlesofMind/neptino-sub010/internal/apierr"
	"github.com/ParticlesofMind/neptino-sub010/internal/curriculum"
	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
	"github.com/ParticlesofMind/neptino-sub010/internal/preview"
	"github.com/ParticlesofMind/neptino-sub010/internal/repos"
	"github.com/ParticlesofMind/neptino-sub010/internal/sse"
	"github.com/ParticlesofMind/neptino-sub010/internal/ssedata"
	"github.com/ParticlesofMind/neptino-sub010/internal/types"
)

type StructureFieldInput struct {
	Field string `json:"field"`
	Value int    `json:"value"`
}

type OrganizationInput struct {
	Organization     string `json:"organization"`
	CustomBoundaries []int  `json:"custom_boundaries,omitempty"`
}

type LessonEditInput struct {
	Title          *string `json:"title,omitempty"`
	TopicIndex     *int    `json:"topic_index,omitempty"`
	TopicTitle     *string `json:"topic_title,omitempty"`
	ObjectiveIndex *int    `json:"objective_index,omitempty"`
	ObjectiveText  *string `json:"objective_text,omitempty"`
	TaskIndex      *int    `json:"task_index,omitempty"`
	TaskText       *string `json:"task_text,omitempty"`
}

type PlacementChoiceInput struct {
	TemplateSlug string `json:"template_slug"`
	TemplateName string `json:"template_name"`
	Choice       string `json:"choice"`
}

type PlacementToggleInput struct {
	Kind      string `json:"kind"` // "module" or "lesson"
	Number    int    `json:"number"`
	IsChecked bool   `json:"is_checked"`
}

type PlacementRangeInput struct {
	Action     string `json:"action"` // "add", "remove", "update"
	RangeIndex int    `json:"range_index"`
	Field      string `json:"field"` // "start" or "end"
	Value      int    `json:"value"`
}

// CurriculumState is what the API returns for every curriculum read/write.
type CurriculumState struct {
	Document curriculum.Document `json:"document"`
	Version  int64               `json:"version"`
}

type CurriculumService interface {
	Get(ctx context.Context, courseID uuid.UUID) (*CurriculumState, error)
	InitializeFromSchedule(ctx context.Context, courseID uuid.UUID) (*CurriculumState, error)
	UpdateStructureField(ctx context.Context, courseID uuid.UUID, input StructureFieldInput) (*CurriculumState, error)
	SetModuleOrganization(ctx context.Context, courseID uuid.UUID, input OrganizationInput) (*CurriculumState, error)
	RenameModule(ctx context.Context, courseID uuid.UUID, moduleNumber int, title string) (*CurriculumState, error)
	EditLesson(ctx context.Context, courseID uuid.UUID, lessonNumber int, input LessonEditInput) (*CurriculumState, error)
	UpdatePlacementChoice(ctx context.Context, courseID uuid.UUID, templateID string, input PlacementChoiceInput) (*CurriculumState, error)
	TogglePlacement(ctx context.Context, courseID uuid.UUID, templateID string, input PlacementToggleInput) (*CurriculumState, error)
	EditPlacementRange(ctx context.Context, courseID uuid.UUID, templateID string, input PlacementRangeInput) (*CurriculumState, error)
	ApplyPlacements(ctx context.Context, courseID uuid.UUID) (*CurriculumState, error)
	ValidateLessonCount(ctx context.Context, courseID uuid.UUID) (*CurriculumState, error)
	RenderPreview(ctx context.Context, courseID uuid.UUID) (*preview.Preview, error)
}

type curriculumService struct {
	db                 *gorm.DB
	log                *logger.Logger
	curriculumRepo     repos.CurriculumRepo
	courseScheduleRepo repos.CourseScheduleRepo
	courseService      CourseService
	templateService    TemplateService
	renderer           *preview.Renderer
}

func NewCurriculumService(
	db *gorm.DB,
	log *logger.Logger,
	curriculumRepo repos.CurriculumRepo,
	courseScheduleRepo repos.CourseScheduleRepo,
	courseService CourseService,
	templateService TemplateService,
) CurriculumService {
	serviceLog := log.With("service", "CurriculumService")
	return &curriculumService{
		db:                 db,
		log:                serviceLog,
		curriculumRepo:     curriculumRepo,
		courseScheduleRepo: courseScheduleRepo,
		courseService:      courseService,
		templateService:    templateService,
		renderer:           preview.NewRenderer(),
	}
}

func (cs *curriculumService) load(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (curriculum.Document, int64, bool, error) {
	records, err := cs.curriculumRepo.GetByCourseIDs(ctx, tx, []uuid.UUID{courseID})
	if err != nil {
		return curriculum.Document{}, 0, false, fmt.Errorf("failed to load curriculum: %w", err)
	}
	if len(records) == 0 {
		return curriculum.DecodeDocument(nil), 0, false, nil
	}
	rec := records[0]
	return curriculum.DecodeDocument(rec.Payload), rec.Version, true, nil
}

// mutate runs one engine operation over the stored document and persists the
// result with an optimistic version check. A stale write surfaces as 409.
func (cs *curriculumService) mutate(ctx context.Context, courseID uuid.UUID, event sse.SSEEvent, op func(doc curriculum.Document) (curriculum.Document, error)) (*CurriculumState, error) {
	course, err := cs.courseService.RequireOwnedCourse(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}

	var state *CurriculumState
	txErr := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc, version, exists, err := cs.load(ctx, tx, courseID)
		if err != nil {
			return err
		}
		doc.CourseType = curriculum.CourseType(course.CourseType)

		next, err := op(doc)
		if err != nil {
			return err
		}

		raw, err := curriculum.EncodeDocument(next)
		if err != nil {
			return apierr.New(422, "unserializable_document", err)
		}

		var saved *types.CurriculumRecord
		if !exists {
			saved, err = cs.curriculumRepo.Create(ctx, tx, &types.CurriculumRecord{
				ID:       uuid.New(),
				CourseID: courseID,
				Payload:  datatypes.JSON(raw),
				Version:  1,
			})
		} else {
			saved, err = cs.curriculumRepo.SaveVersioned(ctx, tx, courseID, datatypes.JSON(raw), version)
		}
		if err != nil {
			if errors.Is(err, repos.ErrStaleVersion) {
				return apierr.New(409, "stale_version", err)
			}
			return fmt.Errorf("failed to save curriculum: %w", err)
		}

		state = &CurriculumState{Document: next, Version: saved.Version}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if ssd := ssedata.GetSSEData(ctx); ssd != nil {
		ssd.AppendMessage(sse.SSEMessage{
			Channel: sse.CourseChannel(courseID),
			Event:   event,
			Data:    map[string]any{"version": state.Version},
		})
	}

	return state, nil
}

func (cs *curriculumService) Get(ctx context.Context, courseID uuid.UUID) (*CurriculumState, error) {
	course, err := cs.courseService.RequireOwnedCourse(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	doc, version, _, err := cs.load(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	doc.CourseType = curriculum.CourseType(course.CourseType)
	return &CurriculumState{Document: doc, Version: version}, nil
}

func configFromStructure(sc *curriculum.StructureConfig) curriculum.ContentLoadConfig {
	return curriculum.ContentLoadConfig{
		Type:                  sc.DurationType,
		Duration:              sc.ScheduledLessonDuration,
		TopicsPerLesson:       sc.TopicsPerLesson,
		CompetenciesPerLesson: sc.CompetenciesPerLesson,
		ObjectivesPerTopic:    sc.ObjectivesPerTopic,
		TasksPerObjective:     sc.TasksPerObjective,
	}
}

func structureFromConfig(cfg curriculum.ContentLoadConfig) *curriculum.StructureConfig {
	return &curriculum.StructureConfig{
		DurationType:            cfg.Type,
		ScheduledLessonDuration: cfg.Duration,
		TopicsPerLesson:         cfg.TopicsPerLesson,
		CompetenciesPerLesson:   cfg.CompetenciesPerLesson,
		ObjectivesPerTopic:      cfg.ObjectivesPerTopic,
		TasksPerObjective:       cfg.TasksPerObjective,
	}
}

// rebuild regenerates the lesson skeleton for cfg, carries existing text
// over positionally, reapplies the module organization and placements.
func rebuild(doc curriculum.Document, cfg curriculum.ContentLoadConfig, lessonCount int) curriculum.Document {
	old := doc.AllLessons()
	if lessonCount <= 0 {
		lessonCount = len(old)
	}

	fresh := curriculum.NewStructure(lessonCount, cfg)
	merged := curriculum.ResizeStructurePreservingContent(old, fresh)

	titles := curriculum.ModuleTitleRegistry(doc.Modules)
	var boundaries []int
	if doc.ModuleOrganization == curriculum.OrganizationCustom {
		end := 0
		for _, m := range doc.Modules {
			end += len(m.Lessons)
			boundaries = append(boundaries, end)
		}
	}
	doc.Modules = curriculum.OrganizeModules(merged, doc.ModuleOrganization, boundaries, titles)
	doc.Lessons = nil
	doc.Structure = structureFromConfig(cfg)

	doc.TemplatePlacements = curriculum.SyncWithModules(doc.TemplatePlacements, doc.Modules)
	doc.TemplatePlacements = curriculum.SyncWithLessons(doc.TemplatePlacements, lessonCount)
	doc.SetAllLessons(curriculum.ApplyToLessons(doc.TemplatePlacements, doc.AllLessons()))
	return doc
}

// InitializeFromSchedule derives the content load from the course schedule
// and builds the initial structure, or rebuilds from the persisted structure
// config when one already exists.
func (cs *curriculumService) InitializeFromSchedule(ctx context.Context, courseID uuid.UUID) (*CurriculumState, error) {
	schedules, err := cs.courseScheduleRepo.GetByCourseIDs(ctx, nil, []uuid.UUID{courseID})
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	if len(schedules) == 0 {
		return nil, apierr.New(400, "schedule_required", fmt.Errorf("course has no schedule to initialize from"))
	}
	schedule := schedules[0]

	return cs.mutate(ctx, courseID, sse.SSEEventCurriculumUpdated, func(doc curriculum.Document) (curriculum.Document, error) {
		var cfg curriculum.ContentLoadConfig
		if doc.Structure != nil && doc.Structure.TopicsPerLesson > 0 {
			cfg = configFromStructure(doc.Structure)
		} else {
			cfg = curriculum.DetermineContentLoad(schedule.DurationMinutes, curriculum.DefaultCompetencyStrategy)
		}

		lessonCount := schedule.SessionCount
		if lessonCount <= 0 {
			lessonCount = len(doc.AllLessons())
		}
		if lessonCount <= 0 {
			return doc, apierr.New(400, "no_sessions", fmt.Errorf("schedule has no sessions"))
		}

		return rebuild(doc, cfg, lessonCount), nil
	})
}

func (cs *curriculumService) UpdateStructureField(ctx context.Context, courseID uuid.UUID, input StructureFieldInput) (*CurriculumState, error) {
	if input.Value < 1 {
		return nil, apierr.New(400, "invalid_value", fmt.Errorf("structure values must be at least 1"))
	}

	return cs.mutate(ctx, courseID, sse.SSEEventCurriculumUpdated, func(doc curriculum.Document) (curriculum.Document, error) {
		if doc.Structure == nil {
			return doc, apierr.New(400, "not_initialized", fmt.Errorf("curriculum has no structure yet"))
		}
		cfg := configFromStructure(doc.Structure)

		switch input.Field {
		case "topicsPerLesson":
			cfg.TopicsPerLesson = input.Value
		case "competenciesPerLesson":
			cfg.CompetenciesPerLesson = input.Value
		case "objectivesPerTopic":
			cfg.ObjectivesPerTopic = input.Value
		case "tasksPerObjective":
			cfg.TasksPerObjective = input.Value
		default:
			return doc, apierr.New(400, "unknown_field", fmt.Errorf("unknown structure field %q", input.Field))
		}
		if cfg.CompetenciesPerLesson > cfg.TopicsPerLesson {
			cfg.CompetenciesPerLesson = cfg.TopicsPerLesson
		}

		return rebuild(doc, cfg, len(doc.AllLessons())), nil
	})
}

func (cs *curriculumService) SetModuleOrganization(ctx context.Context, courseID uuid.UUID, input OrganizationInput) (*CurriculumState, error) {
	org := curriculum.ModuleOrganization(input.Organization)
	switch org {
	case curriculum.OrganizationLinear, curriculum.OrganizationEqual,
		curriculum.OrganizationTiered, curriculum.OrganizationCustom:
	default:
		return nil, apierr.New(400, "invalid_organization", fmt.Errorf("unknown organization %q", input.Organization))
	}

	return cs.mutate(ctx, courseID, sse.SSEEventModulesReorganized, func(doc curriculum.Document) (curriculum.Document, error) {
		lessons := doc.AllLessons()
		titles := curriculum.ModuleTitleRegistry(doc.Modules)
		doc.ModuleOrganization = org
		doc.Modules = curriculum.OrganizeModules(lessons, org, input.CustomBoundaries, titles)
		doc.Lessons = nil
		doc.TemplatePlacements = curriculum.SyncWithModules(doc.TemplatePlacements, doc.Modules)
		return doc, nil
	})
}

func (cs *curriculumService) RenameModule(ctx context.Context, courseID uuid.UUID, moduleNumber int, title string) (*CurriculumState, error) {
	return cs.mutate(ctx, courseID, sse.SSEEventCurriculumUpdated, func(doc curriculum.Document) (curriculum.Document, error) {
		for i := range doc.Modules {
			if doc.Modules[i].ModuleNumber == moduleNumber {
				doc.Modules[i].Title = title
				return doc, nil
			}
		}
		return doc, apierr.New(404, "module_not_found", fmt.Errorf("module %d not found", moduleNumber))
	})
}

func applyLessonEdit(lesson *curriculum.Lesson, input LessonEditInput) error {
	if input.Title != nil {
		lesson.Title = *input.Title
	}
	if input.TopicIndex == nil {
		return nil
	}
	ti := *input.TopicIndex
	if ti < 0 || ti >= len(lesson.Topics) {
		return apierr.New(400, "topic_out_of_range", fmt.Errorf("topic index %d out of range", ti))
	}
	topic := &lesson.Topics[ti]

	if input.TopicTitle != nil {
		topic.Title = *input.TopicTitle
	}
	if input.ObjectiveIndex != nil {
		oi := *input.ObjectiveIndex
		if oi < 0 || oi >= len(topic.Objectives) {
			return apierr.New(400, "objective_out_of_range", fmt.Errorf("objective index %d out of range", oi))
		}
		if input.ObjectiveText != nil {
			topic.Objectives[oi] = *input.ObjectiveText
		}
	}
	if input.TaskIndex != nil {
		xi := *input.TaskIndex
		if xi < 0 || xi >= len(topic.Tasks) {
			return apierr.New(400, "task_out_of_range", fmt.Errorf("task index %d out of range", xi))
		}
		if input.TaskText != nil {
			topic.Tasks[xi] = *input.TaskText
		}
	}
	return nil
}

func (cs *curriculumService) EditLesson(ctx context.Context, courseID uuid.UUID, lessonNumber int, input LessonEditInput) (*CurriculumState, error) {
	return cs.mutate(ctx, courseID, sse.SSEEventCurriculumUpdated, func(doc curriculum.Document) (curriculum.Document, error) {
		lessons := doc.AllLessons()
		for i := range lessons {
			if lessons[i].LessonNumber == lessonNumber {
				if err := applyLessonEdit(&lessons[i], input); err != nil {
					return doc, err
				}
				// Re-derive competencies so the grouped view tracks edits.
				if doc.Structure != nil && doc.Structure.CompetenciesPerLesson > 0 {
					lessons[i].Competencies = curriculum.DeriveCompetencies(lessons[i].Topics, doc.Structure.CompetenciesPerLesson)
				}
				doc.SetAllLessons(lessons)
				return doc, nil
			}
		}
		return doc, apierr.New(404, "lesson_not_found", fmt.Errorf("lesson %d not found", lessonNumber))
	})
}

func (cs *curriculumService) placementContext(ctx context.Context, courseID uuid.UUID, doc curriculum.Document) ([]curriculum.TemplateSummary, error) {
	course, err := cs.courseService.RequireOwnedCourse(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	return cs.templateService.ListForCourse(ctx, course, doc.TemplatePlacements)
}

func (cs *curriculumService) UpdatePlacementChoice(ctx context.Context, courseID uuid.UUID, templateID string, input PlacementChoiceInput) (*CurriculumState, error) {
	return cs.mutate(ctx, courseID, sse.SSEEventPlacementsChanged, func(doc curriculum.Document) (curriculum.Document, error) {
		templates, err := cs.placementContext(ctx, courseID, doc)
		if err != nil {
			return doc, err
		}
		lessonCount := len(doc.AllLessons())
		doc.TemplatePlacements = curriculum.UpdatePlacementChoice(
			doc.TemplatePlacements, templates,
			templateID, input.TemplateSlug, input.TemplateName,
			curriculum.PlacementType(input.Choice), lessonCount,
		)
		return doc, nil
	})
}

func (cs *curriculumService) TogglePlacement(ctx context.Context, courseID uuid.UUID, templateID string, input PlacementToggleInput) (*CurriculumState, error) {
	return cs.mutate(ctx, courseID, sse.SSEEventPlacementsChanged, func(doc curriculum.Document) (curriculum.Document, error) {
		templates, err := cs.placementContext(ctx, courseID, doc)
		if err != nil {
			return doc, err
		}
		lessonCount := len(doc.AllLessons())
		existing := curriculum.FindPlacement(templateID, doc.TemplatePlacements, templates)
		slug, name := templateID, templateID
		if existing != nil {
			slug, name = existing.TemplateSlug, existing.TemplateName
		}

		switch input.Kind {
		case "module":
			doc.TemplatePlacements = curriculum.ToggleModuleSelection(
				doc.TemplatePlacements, templates, templateID, slug, name,
				input.Number, input.IsChecked, lessonCount,
			)
		case "lesson":
			doc.TemplatePlacements = curriculum.ToggleLessonSelection(
				doc.TemplatePlacements, templates, templateID, slug, name,
				input.Number, input.IsChecked, lessonCount,
			)
		default:
			return doc, apierr.New(400, "invalid_toggle_kind", fmt.Errorf("unknown toggle kind %q", input.Kind))
		}
		return doc, nil
	})
}

func (cs *curriculumService) EditPlacementRange(ctx context.Context, courseID uuid.UUID, templateID string, input PlacementRangeInput) (*CurriculumState, error) {
	return cs.mutate(ctx, courseID, sse.SSEEventPlacementsChanged, func(doc curriculum.Document) (curriculum.Document, error) {
		lessonCount := len(doc.AllLessons())
		switch input.Action {
		case "add":
			doc.TemplatePlacements = curriculum.AddLessonRange(doc.TemplatePlacements, templateID, lessonCount)
		case "remove":
			doc.TemplatePlacements = curriculum.RemoveLessonRange(doc.TemplatePlacements, templateID, input.RangeIndex)
		case "update":
			if input.Field != "start" && input.Field != "end" {
				return doc, apierr.New(400, "invalid_range_field", fmt.Errorf("unknown range field %q", input.Field))
			}
			doc.TemplatePlacements = curriculum.UpdateLessonRange(doc.TemplatePlacements, templateID, input.RangeIndex, input.Field, input.Value)
		default:
			return doc, apierr.New(400, "invalid_range_action", fmt.Errorf("unknown range action %q", input.Action))
		}
		return doc, nil
	})
}

// ApplyPlacements stamps lesson.TemplateID from the placement registry.
func (cs *curriculumService) ApplyPlacements(ctx context.Context, courseID uuid.UUID) (*CurriculumState, error) {
	return cs.mutate(ctx, courseID, sse.SSEEventPlacementsChanged, func(doc curriculum.Document) (curriculum.Document, error) {
		templates, err := cs.placementContext(ctx, courseID, doc)
		if err != nil {
			return doc, err
		}
		doc.TemplatePlacements = curriculum.SyncWithTemplates(doc.TemplatePlacements, templates)
		doc.TemplatePlacements = curriculum.SyncWithModules(doc.TemplatePlacements, doc.Modules)
		doc.TemplatePlacements = curriculum.SyncWithLessons(doc.TemplatePlacements, len(doc.AllLessons()))
		doc.SetAllLessons(curriculum.ApplyToLessons(doc.TemplatePlacements, doc.AllLessons()))
		return doc, nil
	})
}

// ValidateLessonCount reconciles the lesson list with the schedule's session
// count: trim excess, grow preserving text, no-op when equal.
func (cs *curriculumService) ValidateLessonCount(ctx context.Context, courseID uuid.UUID) (*CurriculumState, error) {
	schedules, err := cs.courseScheduleRepo.GetByCourseIDs(ctx, nil, []uuid.UUID{courseID})
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	if len(schedules) == 0 {
		return nil, apierr.New(400, "schedule_required", fmt.Errorf("course has no schedule"))
	}
	scheduled := schedules[0].SessionCount

	return cs.mutate(ctx, courseID, sse.SSEEventCurriculumUpdated, func(doc curriculum.Document) (curriculum.Document, error) {
		if doc.Structure == nil {
			return doc, apierr.New(400, "not_initialized", fmt.Errorf("curriculum has no structure yet"))
		}
		cfg := configFromStructure(doc.Structure)
		lessons := curriculum.ValidateLessonCount(doc.AllLessons(), scheduled, cfg)

		titles := curriculum.ModuleTitleRegistry(doc.Modules)
		doc.Modules = curriculum.OrganizeModules(lessons, doc.ModuleOrganization, nil, titles)
		doc.Lessons = nil
		doc.TemplatePlacements = curriculum.SyncWithModules(doc.TemplatePlacements, doc.Modules)
		doc.TemplatePlacements = curriculum.SyncWithLessons(doc.TemplatePlacements, len(lessons))
		return doc, nil
	})
}

func (cs *curriculumService) RenderPreview(ctx context.Context, courseID uuid.UUID) (*preview.Preview, error) {
	state, err := cs.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	p, err := cs.renderer.Render(state.Document)
	if err != nil {
		return nil, fmt.Errorf("failed to render preview: %w", err)
	}
	return &p, nil
}
