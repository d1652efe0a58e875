package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TemplateScopeGlobal = "global"
	TemplateScopeCourse = "course"
	TemplateScopeShared = "shared"
)

// Template is a reusable page layout. Global templates (CourseID nil) come
// from the builtin catalog; course-scoped ones belong to a single course;
// shared ones keep their owning course but are visible to every course.
type Template struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID     *uuid.UUID     `gorm:"type:uuid;index" json:"course_id,omitempty"`
	Course       *Course        `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"-"`
	Slug         string         `gorm:"column:slug;not null;index" json:"slug"`
	Name         string         `gorm:"column:name;not null" json:"name"`
	TemplateType string         `gorm:"column:template_type;not null" json:"template_type"`
	Description  string         `gorm:"column:description" json:"description"`
	Scope        string         `gorm:"column:scope;not null;default:'global'" json:"scope"`
	Definition   datatypes.JSON `gorm:"column:definition;type:jsonb" json:"definition"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Template) TableName() string { return "template" }
