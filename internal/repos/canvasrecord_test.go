package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/ParticlesofMind/neptino-sub010/internal/repos/testutil"
	"github.com/ParticlesofMind/neptino-sub010/internal/types"
)

func canvasRow(courseID uuid.UUID, lesson, index int, data string) *types.CanvasRecord {
	return &types.CanvasRecord{
		ID:           uuid.New(),
		CourseID:     courseID,
		LessonNumber: lesson,
		CanvasIndex:  index,
		CanvasData:   datatypes.JSON([]byte(data)),
	}
}

func TestCanvasRecordRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewCanvasRecordRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "canvas@example.com")
	course := testutil.SeedCourse(t, ctx, tx, u.ID)

	rows := []*types.CanvasRecord{
		canvasRow(course.ID, 1, 1, `{"v":"a"}`),
		canvasRow(course.ID, 1, 2, `{"v":"b"}`),
		canvasRow(course.ID, 2, 1, `{"v":"c"}`),
	}
	if _, err := repo.UpsertBatch(ctx, tx, rows); err != nil {
		t.Fatalf("UpsertBatch: %v", err)
	}

	if got, err := repo.GetByCourseAndLesson(ctx, tx, course.ID, 1); err != nil || len(got) != 2 {
		t.Fatalf("GetByCourseAndLesson: err=%v len=%d", err, len(got))
	}

	// Same key, new payload: should replace, not duplicate.
	if _, err := repo.UpsertBatch(ctx, tx, []*types.CanvasRecord{
		canvasRow(course.ID, 1, 1, `{"v":"a2"}`),
	}); err != nil {
		t.Fatalf("UpsertBatch replace: %v", err)
	}
	got, err := repo.GetByCourseAndLesson(ctx, tx, course.ID, 1)
	if err != nil || len(got) != 2 {
		t.Fatalf("after replace: err=%v len=%d", err, len(got))
	}
	if string(got[0].CanvasData) != `{"v": "a2"}` && string(got[0].CanvasData) != `{"v":"a2"}` {
		t.Fatalf("payload not replaced: %s", got[0].CanvasData)
	}

	if err := repo.FullDeleteExtraCanvases(ctx, tx, course.ID, 1, []int{1}); err != nil {
		t.Fatalf("FullDeleteExtraCanvases: %v", err)
	}
	if got, err := repo.GetByCourseAndLesson(ctx, tx, course.ID, 1); err != nil || len(got) != 1 {
		t.Fatalf("after extra delete: err=%v len=%d", err, len(got))
	}

	if err := repo.FullDeleteOutsideLessonRange(ctx, tx, course.ID, 1); err != nil {
		t.Fatalf("FullDeleteOutsideLessonRange: %v", err)
	}
	if all, err := repo.GetByCourseIDs(ctx, tx, []uuid.UUID{course.ID}); err != nil || len(all) != 1 {
		t.Fatalf("after range delete: err=%v len=%d", err, len(all))
	}

	if err := repo.FullDeleteByCourseIDs(ctx, tx, []uuid.UUID{course.ID}); err != nil {
		t.Fatalf("FullDeleteByCourseIDs: %v", err)
	}
	if all, err := repo.GetByCourseIDs(ctx, tx, []uuid.UUID{course.ID}); err != nil || len(all) != 0 {
		t.Fatalf("after course delete: err=%v len=%d", err, len(all))
	}
}
