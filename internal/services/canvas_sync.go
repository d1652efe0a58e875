package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ParticlesofMind/neptino-sub010/internal/apierr"
	"github.com/ParticlesofMind/neptino-sub010/internal/canvas"
	"github.com/ParticlesofMind/neptino-sub010/internal/curriculum"
	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
	"github.com/ParticlesofMind/neptino-sub010/internal/repos"
	"github.com/ParticlesofMind/neptino-sub010/internal/sse"
	"github.com/ParticlesofMind/neptino-sub010/internal/ssedata"
	"github.com/ParticlesofMind/neptino-sub010/internal/types"
)

type SyncResult struct {
	LessonCount int `json:"lesson_count"`
	CanvasCount int `json:"canvas_count"`
}

type CanvasSyncService interface {
	EnsureLessonCanvases(ctx context.Context, courseID uuid.UUID) (*SyncResult, error)
	GetLessonCanvases(ctx context.Context, courseID uuid.UUID, lessonNumber int) ([]*types.CanvasRecord, error)
	RenderThumbnail(ctx context.Context, courseID uuid.UUID, lessonNumber, canvasIndex, width int) ([]byte, error)
}

type canvasSyncService struct {
	db               *gorm.DB
	log              *logger.Logger
	canvasRecordRepo repos.CanvasRecordRepo
	curriculumRepo   repos.CurriculumRepo
	courseService    CourseService
	templateService  TemplateService
	builder          *canvas.Builder
	buildConcurrency int
}

func NewCanvasSyncService(
	db *gorm.DB,
	log *logger.Logger,
	canvasRecordRepo repos.CanvasRecordRepo,
	curriculumRepo repos.CurriculumRepo,
	courseService CourseService,
	templateService TemplateService,
	cfg canvas.Config,
	buildConcurrency int,
) CanvasSyncService {
	serviceLog := log.With("service", "CanvasSyncService")
	if buildConcurrency <= 0 {
		buildConcurrency = 4
	}
	return &canvasSyncService{
		db:               db,
		log:              serviceLog,
		canvasRecordRepo: canvasRecordRepo,
		curriculumRepo:   curriculumRepo,
		courseService:    courseService,
		templateService:  templateService,
		builder:          canvas.NewBuilder(cfg),
		buildConcurrency: buildConcurrency,
	}
}

type lessonCanvases struct {
	lessonNumber int
	built        []canvas.BuiltCanvas
}

// EnsureLessonCanvases rebuilds every lesson's layout trees and reconciles
// them against the stored records. Builds run concurrently; all writes and
// deletes land in a single transaction so readers never see a half-synced
// course.
func (css *canvasSyncService) EnsureLessonCanvases(ctx context.Context, courseID uuid.UUID) (*SyncResult, error) {
	if _, err := css.courseService.RequireOwnedCourse(ctx, nil, courseID); err != nil {
		return nil, err
	}

	records, err := css.curriculumRepo.GetByCourseIDs(ctx, nil, []uuid.UUID{courseID})
	if err != nil {
		return nil, fmt.Errorf("failed to load curriculum: %w", err)
	}
	if len(records) == 0 {
		return nil, apierr.New(400, "curriculum_required", fmt.Errorf("course has no curriculum to sync from"))
	}
	doc := curriculum.DecodeDocument(records[0].Payload)
	lessons := doc.AllLessons()

	built := make([]lessonCanvases, len(lessons))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(css.buildConcurrency)
	for i, lesson := range lessons {
		g.Go(func() error {
			def, templateType, err := css.templateService.ResolveDefinition(gctx, nil, courseID, lesson.TemplateID)
			if err != nil {
				return err
			}
			if def != nil && def.Type == "" {
				def.Type = templateType
			}
			built[i] = lessonCanvases{
				lessonNumber: lesson.LessonNumber,
				built:        css.builder.BuildLessonPayloads(lesson, def, i+1),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	canvasCount := 0
	txErr := css.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := css.canvasRecordRepo.GetByCourseIDs(ctx, tx, []uuid.UUID{courseID})
		if err != nil {
			return fmt.Errorf("failed to read canvas records: %w", err)
		}
		existingIDs := make(map[[2]int]uuid.UUID, len(existing))
		for _, rec := range existing {
			existingIDs[[2]int{rec.LessonNumber, rec.CanvasIndex}] = rec.ID
		}

		var rows []*types.CanvasRecord
		maxLesson := 0
		for _, lc := range built {
			if lc.lessonNumber > maxLesson {
				maxLesson = lc.lessonNumber
			}
			keep := make([]int, 0, len(lc.built))
			for _, bc := range lc.built {
				keep = append(keep, bc.Index)
				dataJSON, err := json.Marshal(bc.Payload)
				if err != nil {
					return fmt.Errorf("failed to encode canvas payload: %w", err)
				}
				metaJSON, err := json.Marshal(bc.Metadata)
				if err != nil {
					return fmt.Errorf("failed to encode canvas metadata: %w", err)
				}
				row := &types.CanvasRecord{
					ID:             uuid.New(),
					CourseID:       courseID,
					LessonNumber:   lc.lessonNumber,
					CanvasIndex:    bc.Index,
					CanvasData:     datatypes.JSON(dataJSON),
					CanvasMetadata: datatypes.JSON(metaJSON),
				}
				if id, ok := existingIDs[[2]int{lc.lessonNumber, bc.Index}]; ok {
					row.ID = id
				}
				rows = append(rows, row)
			}
			sort.Ints(keep)
			if err := css.canvasRecordRepo.FullDeleteExtraCanvases(ctx, tx, courseID, lc.lessonNumber, keep); err != nil {
				return fmt.Errorf("failed to prune extra canvases: %w", err)
			}
		}

		if err := css.canvasRecordRepo.FullDeleteOutsideLessonRange(ctx, tx, courseID, maxLesson); err != nil {
			return fmt.Errorf("failed to prune trimmed lessons: %w", err)
		}
		if _, err := css.canvasRecordRepo.UpsertBatch(ctx, tx, rows); err != nil {
			return fmt.Errorf("failed to upsert canvas records: %w", err)
		}
		canvasCount = len(rows)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if ssd := ssedata.GetSSEData(ctx); ssd != nil {
		ssd.AppendMessage(sse.SSEMessage{
			Channel: sse.CourseChannel(courseID),
			Event:   sse.SSEEventCanvasesSynced,
			Data:    map[string]any{"canvas_count": canvasCount},
		})
	}

	return &SyncResult{LessonCount: len(lessons), CanvasCount: canvasCount}, nil
}

func (css *canvasSyncService) GetLessonCanvases(ctx context.Context, courseID uuid.UUID, lessonNumber int) ([]*types.CanvasRecord, error) {
	if _, err := css.courseService.RequireOwnedCourse(ctx, nil, courseID); err != nil {
		return nil, err
	}
	records, err := css.canvasRecordRepo.GetByCourseAndLesson(ctx, nil, courseID, lessonNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load canvases: %w", err)
	}
	return records, nil
}

func (css *canvasSyncService) RenderThumbnail(ctx context.Context, courseID uuid.UUID, lessonNumber, canvasIndex, width int) ([]byte, error) {
	records, err := css.GetLessonCanvases(ctx, courseID, lessonNumber)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.CanvasIndex != canvasIndex {
			continue
		}
		var payload canvas.Payload
		if err := json.Unmarshal(rec.CanvasData, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode canvas payload: %w", err)
		}
		return canvas.RenderThumbnail(payload, canvas.ThumbnailOptions{Width: width})
	}
	return nil, apierr.New(404, "canvas_not_found", fmt.Errorf("canvas %d for lesson %d not found", canvasIndex, lessonNumber))
}
