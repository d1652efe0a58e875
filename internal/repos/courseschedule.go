package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
	"github.com/ParticlesofMind/neptino-sub010/internal/types"
)

type CourseScheduleRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, schedule *types.CourseSchedule) (*types.CourseSchedule, error)
	GetByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*types.CourseSchedule, error)
	FullDeleteByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) error
}

type courseScheduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseScheduleRepo(db *gorm.DB, baseLog *logger.Logger) CourseScheduleRepo {
	repoLog := baseLog.With("repo", "CourseScheduleRepo")
	return &courseScheduleRepo{db: db, log: repoLog}
}

func (csr *courseScheduleRepo) Upsert(ctx context.Context, tx *gorm.DB, schedule *types.CourseSchedule) (*types.CourseSchedule, error) {
	transaction := tx
	if transaction == nil {
		transaction = csr.db
	}

	if schedule == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "course_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"session_count", "start_time", "end_time", "breaks", "duration_minutes", "updated_at",
			}),
		}).
		Create(schedule).Error; err != nil {
		return nil, err
	}

	return schedule, nil
}

func (csr *courseScheduleRepo) GetByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*types.CourseSchedule, error) {
	transaction := tx
	if transaction == nil {
		transaction = csr.db
	}

	var results []*types.CourseSchedule

	if len(courseIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (csr *courseScheduleRepo) FullDeleteByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = csr.db
	}

	if len(courseIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).Unscoped().
		Where("course_id IN ?", courseIDs).
		Delete(&types.CourseSchedule{}).Error
}
