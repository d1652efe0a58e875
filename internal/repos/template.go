package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
	"github.com/ParticlesofMind/neptino-sub010/internal/types"
)

type TemplateRepo interface {
	Create(ctx context.Context, tx *gorm.DB, templates []*types.Template) ([]*types.Template, error)
	UpsertGlobalBySlug(ctx context.Context, tx *gorm.DB, templates []*types.Template) ([]*types.Template, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, templateIDs []uuid.UUID) ([]*types.Template, error)
	GetBySlugs(ctx context.Context, tx *gorm.DB, slugs []string) ([]*types.Template, error)
	ListGlobal(ctx context.Context, tx *gorm.DB) ([]*types.Template, error)
	ListForCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Template, error)
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, templateIDs []uuid.UUID) error
	FullDeleteByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) error
}

type templateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTemplateRepo(db *gorm.DB, baseLog *logger.Logger) TemplateRepo {
	repoLog := baseLog.With("repo", "TemplateRepo")
	return &templateRepo{db: db, log: repoLog}
}

func (tr *templateRepo) Create(ctx context.Context, tx *gorm.DB, templates []*types.Template) ([]*types.Template, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if len(templates) == 0 {
		return []*types.Template{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&templates).Error; err != nil {
		return nil, err
	}

	return templates, nil
}

// UpsertGlobalBySlug reseeds the builtin catalog. Slug collides only within
// the global scope; course templates keep their own rows.
func (tr *templateRepo) UpsertGlobalBySlug(ctx context.Context, tx *gorm.DB, templates []*types.Template) ([]*types.Template, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if len(templates) == 0 {
		return []*types.Template{}, nil
	}

	for _, tmpl := range templates {
		var existing types.Template
		err := transaction.WithContext(ctx).
			Where("slug = ? AND course_id IS NULL", tmpl.Slug).
			First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if createErr := transaction.WithContext(ctx).Create(tmpl).Error; createErr != nil {
				return nil, createErr
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		tmpl.ID = existing.ID
		if err := transaction.WithContext(ctx).
			Model(&existing).
			Clauses(clause.Returning{}).
			Updates(map[string]interface{}{
				"name":          tmpl.Name,
				"template_type": tmpl.TemplateType,
				"description":   tmpl.Description,
				"definition":    tmpl.Definition,
			}).Error; err != nil {
			return nil, err
		}
	}

	return templates, nil
}

func (tr *templateRepo) GetByIDs(ctx context.Context, tx *gorm.DB, templateIDs []uuid.UUID) ([]*types.Template, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Template

	if len(templateIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", templateIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (tr *templateRepo) GetBySlugs(ctx context.Context, tx *gorm.DB, slugs []string) ([]*types.Template, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Template

	if len(slugs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("slug IN ?", slugs).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (tr *templateRepo) ListGlobal(ctx context.Context, tx *gorm.DB) ([]*types.Template, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Template

	if err := transaction.WithContext(ctx).
		Where("course_id IS NULL").
		Order("slug ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (tr *templateRepo) ListForCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Template, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Template

	if err := transaction.WithContext(ctx).
		Where("course_id IS NULL OR course_id = ? OR scope = ?", courseID, types.TemplateScopeShared).
		Order("slug ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (tr *templateRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, templateIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if len(templateIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", templateIDs).
		Delete(&types.Template{}).Error
}

func (tr *templateRepo) FullDeleteByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if len(courseIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).Unscoped().
		Where("course_id IN ?", courseIDs).
		Delete(&types.Template{}).Error
}
