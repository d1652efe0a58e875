package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ParticlesofMind/neptino-sub010/internal/apierr"
	"github.com/ParticlesofMind/neptino-sub010/internal/curriculum"
	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
	"github.com/ParticlesofMind/neptino-sub010/internal/repos"
	"github.com/ParticlesofMind/neptino-sub010/internal/sse"
	"github.com/ParticlesofMind/neptino-sub010/internal/ssedata"
	"github.com/ParticlesofMind/neptino-sub010/internal/templatedefs"
	"github.com/ParticlesofMind/neptino-sub010/internal/types"
)

type CreateTemplateInput struct {
	Slug         string                        `json:"slug"`
	Name         string                        `json:"name"`
	TemplateType string                        `json:"template_type"`
	Description  string                        `json:"description"`
	Scope        string                        `json:"scope"`
	Definition   curriculum.TemplateDefinition `json:"definition"`
}

type TemplateService interface {
	ListForCourse(ctx context.Context, course *types.Course, placements []curriculum.TemplatePlacement) ([]curriculum.TemplateSummary, error)
	ResolveDefinition(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, templateID string) (*curriculum.TemplateDefinition, string, error)
	CreateCourseTemplate(ctx context.Context, course *types.Course, input CreateTemplateInput) (*types.Template, error)
	SeedBuiltins(ctx context.Context, loader *templatedefs.Loader) (int, error)
}

type templateService struct {
	db           *gorm.DB
	log          *logger.Logger
	templateRepo repos.TemplateRepo
}

func NewTemplateService(db *gorm.DB, log *logger.Logger, templateRepo repos.TemplateRepo) TemplateService {
	serviceLog := log.With("service", "TemplateService")
	return &templateService{db: db, log: serviceLog, templateRepo: templateRepo}
}

func decodeDefinition(raw datatypes.JSON) *curriculum.TemplateDefinition {
	if len(raw) == 0 {
		return nil
	}
	var def curriculum.TemplateDefinition
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil
	}
	return &def
}

func summarize(t *types.Template) curriculum.TemplateSummary {
	return curriculum.TemplateSummary{
		ID:          t.ID.String(),
		TemplateID:  t.Slug,
		Name:        t.Name,
		Type:        t.TemplateType,
		Description: t.Description,
		Scope:       t.Scope,
		Definition:  decodeDefinition(t.Definition),
	}
}

// ListForCourse returns the catalog visible to one course: global plus
// course-scoped rows, filtered by the course type allow-list. Placements
// whose template no longer resolves surface as IsMissing entries so the
// editor can show them instead of silently dropping them.
func (ts *templateService) ListForCourse(ctx context.Context, course *types.Course, placements []curriculum.TemplatePlacement) ([]curriculum.TemplateSummary, error) {
	rows, err := ts.templateRepo.ListForCourse(ctx, nil, course.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	courseType := curriculum.CourseType(course.CourseType)
	summaries := make([]curriculum.TemplateSummary, 0, len(rows))
	known := make(map[string]bool, len(rows))
	for _, row := range rows {
		if !curriculum.TemplateTypeAllowed(courseType, row.TemplateType) {
			continue
		}
		summaries = append(summaries, summarize(row))
		known[row.Slug] = true
		known[row.ID.String()] = true
	}

	for _, p := range placements {
		if known[p.TemplateID] || known[p.TemplateSlug] {
			continue
		}
		summaries = append(summaries, curriculum.TemplateSummary{
			ID:         p.TemplateID,
			TemplateID: p.TemplateSlug,
			Name:       p.TemplateName,
			IsMissing:  true,
		})
	}

	return summaries, nil
}

// ResolveDefinition finds a template by surrogate id or slug and returns its
// block definition with the template type.
func (ts *templateService) ResolveDefinition(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, templateID string) (*curriculum.TemplateDefinition, string, error) {
	if templateID == "" {
		return nil, "", nil
	}

	if id, err := uuid.Parse(templateID); err == nil {
		rows, err := ts.templateRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
		if err != nil {
			return nil, "", fmt.Errorf("failed to resolve template: %w", err)
		}
		if len(rows) > 0 {
			return decodeDefinition(rows[0].Definition), rows[0].TemplateType, nil
		}
	}

	rows, err := ts.templateRepo.GetBySlugs(ctx, tx, []string{templateID})
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve template by slug: %w", err)
	}
	for _, row := range rows {
		if row.CourseID == nil || *row.CourseID == courseID || row.Scope == types.TemplateScopeShared {
			return decodeDefinition(row.Definition), row.TemplateType, nil
		}
	}

	return nil, "", nil
}

func (ts *templateService) CreateCourseTemplate(ctx context.Context, course *types.Course, input CreateTemplateInput) (*types.Template, error) {
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		return nil, apierr.New(400, "missing_slug", fmt.Errorf("template slug is required"))
	}
	if input.TemplateType == "" {
		return nil, apierr.New(400, "missing_type", fmt.Errorf("template type is required"))
	}
	if !curriculum.TemplateTypeAllowed(curriculum.CourseType(course.CourseType), input.TemplateType) {
		return nil, apierr.New(400, "type_not_allowed", fmt.Errorf("template type %q is not allowed for %s courses", input.TemplateType, course.CourseType))
	}

	scope := input.Scope
	switch scope {
	case "":
		scope = types.TemplateScopeCourse
	case types.TemplateScopeCourse, types.TemplateScopeShared:
	default:
		return nil, apierr.New(400, "invalid_scope", fmt.Errorf("template scope must be %q or %q", types.TemplateScopeCourse, types.TemplateScopeShared))
	}

	defJSON, err := json.Marshal(input.Definition)
	if err != nil {
		return nil, fmt.Errorf("failed to encode template definition: %w", err)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = slug
	}

	tmpl := &types.Template{
		ID:           uuid.New(),
		CourseID:     &course.ID,
		Slug:         slug,
		Name:         name,
		TemplateType: input.TemplateType,
		Description:  strings.TrimSpace(input.Description),
		Scope:        scope,
		Definition:   datatypes.JSON(defJSON),
	}
	if _, err := ts.templateRepo.Create(ctx, nil, []*types.Template{tmpl}); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	if ssd := ssedata.GetSSEData(ctx); ssd != nil {
		ssd.AppendMessage(sse.SSEMessage{
			Channel: sse.CourseChannel(course.ID),
			Event:   sse.SSEEventTemplateCreated,
			Data:    map[string]any{"slug": tmpl.Slug},
		})
	}

	return tmpl, nil
}

// SeedBuiltins upserts the built-in catalog into the global scope. Encoding
// runs concurrently; the upsert itself is one transaction so a partial seed
// never lands.
func (ts *templateService) SeedBuiltins(ctx context.Context, loader *templatedefs.Loader) (int, error) {
	defs := loader.All()
	rows := make([]*types.Template, len(defs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, def := range defs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			defJSON, err := json.Marshal(def.Definition)
			if err != nil {
				return fmt.Errorf("failed to encode definition %q: %w", def.Slug, err)
			}
			rows[i] = &types.Template{
				ID:           uuid.New(),
				Slug:         def.Slug,
				Name:         def.Name,
				TemplateType: def.Type,
				Description:  def.Description,
				Scope:        types.TemplateScopeGlobal,
				Definition:   datatypes.JSON(defJSON),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ts.templateRepo.UpsertGlobalBySlug(ctx, tx, rows)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed templates: %w", err)
	}

	return len(rows), nil
}
