package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/ParticlesofMind/neptino-sub010/internal/repos/testutil"
	"github.com/ParticlesofMind/neptino-sub010/internal/types"
)

func TestTemplateRepoUpsertGlobal(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewTemplateRepo(db, testutil.Logger(t))

	seed := []*types.Template{{
		ID:           uuid.New(),
		Slug:         "lesson",
		Name:         "Lesson",
		TemplateType: "lesson",
		Scope:        types.TemplateScopeGlobal,
		Definition:   datatypes.JSON([]byte(`{"type":"lesson","blocks":[]}`)),
	}}
	if _, err := repo.UpsertGlobalBySlug(ctx, tx, seed); err != nil {
		t.Fatalf("UpsertGlobalBySlug: %v", err)
	}

	// Reseeding the same slug updates in place.
	seed[0].Name = "Lesson v2"
	if _, err := repo.UpsertGlobalBySlug(ctx, tx, seed); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	rows, err := repo.ListGlobal(ctx, tx)
	if err != nil {
		t.Fatalf("ListGlobal: %v", err)
	}
	count := 0
	for _, row := range rows {
		if row.Slug == "lesson" {
			count++
			if row.Name != "Lesson v2" {
				t.Fatalf("reseed did not update name: %q", row.Name)
			}
		}
	}
	if count != 1 {
		t.Fatalf("reseed duplicated slug: %d rows", count)
	}
}

func TestTemplateRepoListForCourse(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewTemplateRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "template@example.com")
	course := testutil.SeedCourse(t, ctx, tx, u.ID)
	other := testutil.SeedCourse(t, ctx, tx, u.ID)

	mine := &types.Template{
		ID:           uuid.New(),
		CourseID:     &course.ID,
		Slug:         "custom-quiz",
		Name:         "Custom Quiz",
		TemplateType: "quiz",
		Scope:        types.TemplateScopeCourse,
		Definition:   datatypes.JSON([]byte(`{"type":"quiz","blocks":[]}`)),
	}
	theirs := &types.Template{
		ID:           uuid.New(),
		CourseID:     &other.ID,
		Slug:         "other-quiz",
		Name:         "Other Quiz",
		TemplateType: "quiz",
		Scope:        types.TemplateScopeCourse,
		Definition:   datatypes.JSON([]byte(`{"type":"quiz","blocks":[]}`)),
	}
	shared := &types.Template{
		ID:           uuid.New(),
		CourseID:     &other.ID,
		Slug:         "shared-quiz",
		Name:         "Shared Quiz",
		TemplateType: "quiz",
		Scope:        types.TemplateScopeShared,
		Definition:   datatypes.JSON([]byte(`{"type":"quiz","blocks":[]}`)),
	}
	if _, err := repo.Create(ctx, tx, []*types.Template{mine, theirs, shared}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.ListForCourse(ctx, tx, course.ID)
	if err != nil {
		t.Fatalf("ListForCourse: %v", err)
	}
	found := map[string]bool{}
	for _, row := range rows {
		found[row.Slug] = true
	}
	if found["other-quiz"] {
		t.Fatalf("ListForCourse leaked another course's private template")
	}
	if !found["custom-quiz"] {
		t.Fatalf("ListForCourse missing course-scoped template")
	}
	if !found["shared-quiz"] {
		t.Fatalf("ListForCourse missing shared template from another course")
	}
}
