package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CourseSchedule holds the session plan a curriculum is derived from.
// StartTime and EndTime are wall-clock strings in "15:04" form; Breaks is a
// JSON array of {start,end} windows in the same form.
type CourseSchedule struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"course_id"`
	Course          *Course        `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"-"`
	SessionCount    int            `gorm:"column:session_count;not null;default:0" json:"session_count"`
	StartTime       string         `gorm:"column:start_time" json:"start_time"`
	EndTime         string         `gorm:"column:end_time" json:"end_time"`
	Breaks          datatypes.JSON `gorm:"column:breaks;type:jsonb" json:"breaks"`
	DurationMinutes int            `gorm:"column:duration_minutes;not null;default:0" json:"duration_minutes"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (CourseSchedule) TableName() string { return "course_schedule" }
