package repos

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/ParticlesofMind/neptino-sub010/internal/repos/testutil"
)

func TestCurriculumRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewCurriculumRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "curriculum@example.com")
	course := testutil.SeedCourse(t, ctx, tx, u.ID)

	rec := testutil.SeedCurriculum(t, ctx, tx, course.ID, `{"moduleOrganization":"linear"}`)

	if rows, err := repo.GetByCourseIDs(ctx, tx, []uuid.UUID{course.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByCourseIDs: err=%v len=%d", err, len(rows))
	}

	updated, err := repo.SaveVersioned(ctx, tx, course.ID, datatypes.JSON([]byte(`{"moduleOrganization":"equal"}`)), rec.Version)
	if err != nil {
		t.Fatalf("SaveVersioned: %v", err)
	}
	if updated.Version != rec.Version+1 {
		t.Fatalf("version not bumped: got %d want %d", updated.Version, rec.Version+1)
	}

	if _, err := repo.SaveVersioned(ctx, tx, course.ID, datatypes.JSON([]byte(`{}`)), rec.Version); !errors.Is(err, ErrStaleVersion) {
		t.Fatalf("stale save should fail with ErrStaleVersion, got %v", err)
	}

	if err := repo.FullDeleteByCourseIDs(ctx, tx, []uuid.UUID{course.ID}); err != nil {
		t.Fatalf("FullDeleteByCourseIDs: %v", err)
	}
	if rows, err := repo.GetByCourseIDs(ctx, tx, []uuid.UUID{course.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after delete GetByCourseIDs: err=%v len=%d", err, len(rows))
	}
}
