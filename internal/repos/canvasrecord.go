package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
	"github.com/ParticlesofMind/neptino-sub010/internal/types"
)

type CanvasRecordRepo interface {
	GetByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*types.CanvasRecord, error)
	GetByCourseAndLesson(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, lessonNumber int) ([]*types.CanvasRecord, error)
	UpsertBatch(ctx context.Context, tx *gorm.DB, records []*types.CanvasRecord) ([]*types.CanvasRecord, error)
	FullDeleteByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) error
	FullDeleteOutsideLessonRange(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, maxLessonNumber int) error
	FullDeleteExtraCanvases(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, lessonNumber int, keepIndexes []int) error
}

type canvasRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCanvasRecordRepo(db *gorm.DB, baseLog *logger.Logger) CanvasRecordRepo {
	repoLog := baseLog.With("repo", "CanvasRecordRepo")
	return &canvasRecordRepo{db: db, log: repoLog}
}

func (crr *canvasRecordRepo) GetByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*types.CanvasRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = crr.db
	}

	var results []*types.CanvasRecord

	if len(courseIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Order("lesson_number ASC, canvas_index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (crr *canvasRecordRepo) GetByCourseAndLesson(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, lessonNumber int) ([]*types.CanvasRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = crr.db
	}

	var results []*types.CanvasRecord

	if err := transaction.WithContext(ctx).
		Where("course_id = ? AND lesson_number = ?", courseID, lessonNumber).
		Order("canvas_index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

// UpsertBatch writes all records in one statement, replacing payloads for
// rows whose (course_id, lesson_number, canvas_index) already exists.
func (crr *canvasRecordRepo) UpsertBatch(ctx context.Context, tx *gorm.DB, records []*types.CanvasRecord) ([]*types.CanvasRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = crr.db
	}

	if len(records) == 0 {
		return []*types.CanvasRecord{}, nil
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "course_id"}, {Name: "lesson_number"}, {Name: "canvas_index"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"canvas_data", "canvas_metadata", "updated_at",
			}),
		}).
		Create(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (crr *canvasRecordRepo) FullDeleteByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = crr.db
	}

	if len(courseIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).Unscoped().
		Where("course_id IN ?", courseIDs).
		Delete(&types.CanvasRecord{}).Error
}

// FullDeleteOutsideLessonRange removes canvases for lessons past the current
// lesson count after a trim.
func (crr *canvasRecordRepo) FullDeleteOutsideLessonRange(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, maxLessonNumber int) error {
	transaction := tx
	if transaction == nil {
		transaction = crr.db
	}

	return transaction.WithContext(ctx).Unscoped().
		Where("course_id = ? AND lesson_number > ?", courseID, maxLessonNumber).
		Delete(&types.CanvasRecord{}).Error
}

// FullDeleteExtraCanvases removes indexes a rebuilt lesson no longer
// produces, for instance when a three-canvas lesson collapses to one.
func (crr *canvasRecordRepo) FullDeleteExtraCanvases(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, lessonNumber int, keepIndexes []int) error {
	transaction := tx
	if transaction == nil {
		transaction = crr.db
	}

	query := transaction.WithContext(ctx).Unscoped().
		Where("course_id = ? AND lesson_number = ?", courseID, lessonNumber)
	if len(keepIndexes) > 0 {
		query = query.Where("canvas_index NOT IN ?", keepIndexes)
	}
	return query.Delete(&types.CanvasRecord{}).Error
}
