package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CanvasRecord is one rendered page of one lesson. A lesson may own several
// canvases (program/resources, content, assignment); the triple
// (course_id, lesson_number, canvas_index) is unique.
type CanvasRecord struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_canvas_course_lesson_index" json:"course_id"`
	Course         *Course        `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"-"`
	LessonNumber   int            `gorm:"column:lesson_number;not null;uniqueIndex:idx_canvas_course_lesson_index" json:"lesson_number"`
	CanvasIndex    int            `gorm:"column:canvas_index;not null;uniqueIndex:idx_canvas_course_lesson_index" json:"canvas_index"`
	CanvasData     datatypes.JSON `gorm:"column:canvas_data;type:jsonb;not null" json:"canvas_data"`
	CanvasMetadata datatypes.JSON `gorm:"column:canvas_metadata;type:jsonb" json:"canvas_metadata"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (CanvasRecord) TableName() string { return "canvas_record" }
