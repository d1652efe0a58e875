package app

import (
	"gorm.io/gorm"

	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
	"github.com/ParticlesofMind/neptino-sub010/internal/repos"
)

type Repos struct {
	User           repos.UserRepo
	UserToken      repos.UserTokenRepo
	Course         repos.CourseRepo
	CourseSchedule repos.CourseScheduleRepo
	Curriculum     repos.CurriculumRepo
	Template       repos.TemplateRepo
	CanvasRecord   repos.CanvasRecordRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) *Repos {
	return &Repos{
		User:           repos.NewUserRepo(db, log),
		UserToken:      repos.NewUserTokenRepo(db, log),
		Course:         repos.NewCourseRepo(db, log),
		CourseSchedule: repos.NewCourseScheduleRepo(db, log),
		Curriculum:     repos.NewCurriculumRepo(db, log),
		Template:       repos.NewTemplateRepo(db, log),
		CanvasRecord:   repos.NewCanvasRecordRepo(db, log),
	}
}
