package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
	"github.com/ParticlesofMind/neptino-sub010/internal/types"
)

// ErrStaleVersion is returned when a versioned save loses the race against a
// newer write. Callers reload and retry on top of the fresh payload.
var ErrStaleVersion = errors.New("curriculum version is stale")

type CurriculumRepo interface {
	Create(ctx context.Context, tx *gorm.DB, record *types.CurriculumRecord) (*types.CurriculumRecord, error)
	GetByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*types.CurriculumRecord, error)
	SaveVersioned(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, payload datatypes.JSON, expectedVersion int64) (*types.CurriculumRecord, error)
	FullDeleteByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) error
}

type curriculumRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCurriculumRepo(db *gorm.DB, baseLog *logger.Logger) CurriculumRepo {
	repoLog := baseLog.With("repo", "CurriculumRepo")
	return &curriculumRepo{db: db, log: repoLog}
}

func (cr *curriculumRepo) Create(ctx context.Context, tx *gorm.DB, record *types.CurriculumRecord) (*types.CurriculumRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if record == nil {
		return nil, nil
	}
	if record.Version == 0 {
		record.Version = 1
	}

	if err := transaction.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}

	return record, nil
}

func (cr *curriculumRepo) GetByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*types.CurriculumRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.CurriculumRecord

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

// SaveVersioned replaces the payload only when the stored version still
// matches expectedVersion, then bumps the version by one.
func (cr *curriculumRepo) SaveVersioned(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, payload datatypes.JSON, expectedVersion int64) (*types.CurriculumRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	result := transaction.WithContext(ctx).
		Model(&types.CurriculumRecord{}).
		Where("course_id = ? AND version = ?", courseID, expectedVersion).
		Updates(map[string]interface{}{
			"payload": payload,
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrStaleVersion
	}

	var record types.CurriculumRecord
	if err := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		First(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (cr *curriculumRepo) FullDeleteByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(courseIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).Unscoped().
		Where("course_id IN ?", courseIDs).
		Delete(&types.CurriculumRecord{}).Error
}
