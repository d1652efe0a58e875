package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ParticlesofMind/neptino-sub010/internal/db"
	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
	"github.com/ParticlesofMind/neptino-sub010/internal/repos"
	"github.com/ParticlesofMind/neptino-sub010/internal/services"
	"github.com/ParticlesofMind/neptino-sub010/internal/templatedefs"
)

// Seeds the global template catalog. Safe to re-run: rows are matched by
// slug and updated in place.
func main() {
	dir := flag.String("dir", "", "optional directory of extra template YAML files")
	flag.Parse()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres automigrate failed", "error", err)
	}

	templateRepo := repos.NewTemplateRepo(pg.DB(), log)
	templateService := services.NewTemplateService(pg.DB(), log, templateRepo)

	loader := templatedefs.NewLoader()
	if err := loader.LoadBuiltins(); err != nil {
		log.Fatal("Failed to load builtin templates", "error", err)
	}
	if *dir != "" {
		if err := loader.LoadDir(*dir); err != nil {
			log.Fatal("Failed to load templates", "dir", *dir, "error", err)
		}
	}

	count, err := templateService.SeedBuiltins(context.Background(), loader)
	if err != nil {
		log.Fatal("Template seeding failed", "error", err)
	}
	log.Info("Seeded template catalog", "count", count)
}
