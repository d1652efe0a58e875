package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
	"github.com/ParticlesofMind/neptino-sub010/internal/services"
	"github.com/ParticlesofMind/neptino-sub010/internal/sse"
	"github.com/ParticlesofMind/neptino-sub010/internal/sse/bus"
	"github.com/ParticlesofMind/neptino-sub010/internal/templatedefs"
)

type Services struct {
	Auth       services.AuthService
	User       services.UserService
	Course     services.CourseService
	Template   services.TemplateService
	Curriculum services.CurriculumService
	CanvasSync services.CanvasSyncService
	Autosave   services.AutosaveService
	Emitter    services.SSEEmitter
	Bus        bus.Bus
}

func wireServices(cfg Config, db *gorm.DB, log *logger.Logger, r *Repos, hub *sse.SSEHub) (*Services, error) {
	authService := services.NewAuthService(
		db, log, r.User, r.UserToken,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)
	userService := services.NewUserService(db, log, r.User)
	courseService := services.NewCourseService(
		db, log, r.Course, r.CourseSchedule, r.Curriculum, r.Template, r.CanvasRecord,
	)
	templateService := services.NewTemplateService(db, log, r.Template)
	curriculumService := services.NewCurriculumService(
		db, log, r.Curriculum, r.CourseSchedule, courseService, templateService,
	)
	canvasSyncService := services.NewCanvasSyncService(
		db, log, r.CanvasRecord, r.Curriculum, courseService, templateService,
		cfg.Canvas, cfg.BuildConcurrency,
	)
	autosaveService := services.NewAutosaveService(log, cfg.AutosaveInterval)

	var emitter services.SSEEmitter = &services.HubEmitter{Hub: hub}
	var sseBus bus.Bus
	if cfg.RedisAddr != "" {
		b, err := bus.NewRedisBus(log, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			return nil, fmt.Errorf("failed to connect redis sse bus: %w", err)
		}
		if err := b.StartForwarder(context.Background(), hub.Broadcast); err != nil {
			return nil, fmt.Errorf("failed to start sse forwarder: %w", err)
		}
		emitter = &services.RedisEmitter{Bus: b}
		sseBus = b
	}

	return &Services{
		Auth:       authService,
		User:       userService,
		Course:     courseService,
		Template:   templateService,
		Curriculum: curriculumService,
		CanvasSync: canvasSyncService,
		Autosave:   autosaveService,
		Emitter:    emitter,
		Bus:        sseBus,
	}, nil
}

// seedTemplates loads the built-in catalog (plus an optional override
// directory) and upserts it into the global scope on startup.
func seedTemplates(ctx context.Context, cfg Config, log *logger.Logger, templateService services.TemplateService) error {
	loader := templatedefs.NewLoader()
	if err := loader.LoadBuiltins(); err != nil {
		return fmt.Errorf("failed to load builtin templates: %w", err)
	}
	if cfg.TemplateSeedDir != "" {
		if err := loader.LoadDir(cfg.TemplateSeedDir); err != nil {
			return fmt.Errorf("failed to load templates from %s: %w", cfg.TemplateSeedDir, err)
		}
	}
	count, err := templateService.SeedBuiltins(ctx, loader)
	if err != nil {
		return fmt.Errorf("failed to seed templates: %w", err)
	}
	log.Info("Seeded template catalog", "count", count)
	return nil
}
