package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ParticlesofMind/neptino-sub010/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "hashed",
		FirstName: "Test",
		LastName:  "User",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      "Test Course",
		CourseType: "custom",
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedCurriculum(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, payload string) *types.CurriculumRecord {
	tb.Helper()
	rec := &types.CurriculumRecord{
		ID:       uuid.New(),
		CourseID: courseID,
		Payload:  datatypes.JSON([]byte(payload)),
		Version:  1,
	}
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		tb.Fatalf("seed curriculum: %v", err)
	}
	return rec
}
