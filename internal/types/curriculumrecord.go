package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CurriculumRecord stores the full curriculum document as one JSONB payload
// per course. Version increments on every successful save and guards against
// concurrent overwrites.
type CurriculumRecord struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"course_id"`
	Course    *Course        `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"-"`
	Payload   datatypes.JSON `gorm:"column:payload;type:jsonb;not null" json:"payload"`
	Version   int64          `gorm:"column:version;not null;default:1" json:"version"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (CurriculumRecord) TableName() string { return "curriculum_record" }
