package curriculum

import (
	"reflect"
	"testing"
)

func catalog() []TemplateSummary {
	return []TemplateSummary{
		{ID: "id-lesson", TemplateID: "builtin-lesson", Name: "Lesson", Type: "lesson"},
		{ID: "id-quiz", TemplateID: "builtin-quiz", Name: "Quiz", Type: "quiz"},
	}
}

func TestFindPlacementSlugFallback(t *testing.T) {
	placements := []TemplatePlacement{
		{TemplateID: "stale-id", TemplateSlug: "builtin-lesson", PlacementType: PlacementAllLessons},
	}
	if p := FindPlacement("stale-id", placements, catalog()); p == nil {
		t.Fatalf("exact id match failed")
	}
	// id-lesson is the reloaded surrogate id; the slug must still resolve.
	if p := FindPlacement("id-lesson", placements, catalog()); p == nil || p.TemplateSlug != "builtin-lesson" {
		t.Fatalf("slug fallback failed: %+v", p)
	}
	if p := FindPlacement("id-quiz", placements, catalog()); p != nil {
		t.Fatalf("unexpected match for unplaced template: %+v", p)
	}
}

func TestUpdatePlacementChoiceNoneRemoves(t *testing.T) {
	placements := UpdatePlacementChoice(nil, catalog(), "id-quiz", "builtin-quiz", "Quiz", PlacementEndOfCourse, 10)
	if len(placements) != 1 {
		t.Fatalf("expected 1 placement, got %d", len(placements))
	}
	placements = UpdatePlacementChoice(placements, catalog(), "id-quiz", "builtin-quiz", "Quiz", PlacementNone, 10)
	if len(placements) != 0 {
		t.Fatalf("none should remove the entry, got %d", len(placements))
	}
}

func TestUpdatePlacementChoicePreservesSameType(t *testing.T) {
	placements := []TemplatePlacement{{
		TemplateID:    "id-quiz",
		TemplateSlug:  "builtin-quiz",
		PlacementType: PlacementSpecificLessons,
		LessonNumbers: []int{2, 5},
	}}
	placements = UpdatePlacementChoice(placements, catalog(), "id-quiz", "builtin-quiz", "Quiz", PlacementSpecificLessons, 10)
	if got := placements[0].LessonNumbers; !reflect.DeepEqual(got, []int{2, 5}) {
		t.Fatalf("same-type re-select lost selections: %v", got)
	}
	placements = UpdatePlacementChoice(placements, catalog(), "id-quiz", "builtin-quiz", "Quiz", PlacementSpecificModules, 10)
	if len(placements[0].LessonNumbers) != 0 || len(placements[0].ModuleNumbers) != 0 {
		t.Fatalf("type switch should start empty: %+v", placements[0])
	}
}

func TestUpdatePlacementChoiceSeedsRange(t *testing.T) {
	placements := UpdatePlacementChoice(nil, catalog(), "id-quiz", "builtin-quiz", "Quiz", PlacementLessonRanges, 12)
	want := []LessonRange{{Start: 1, End: 12}}
	if !reflect.DeepEqual(placements[0].LessonRanges, want) {
		t.Fatalf("seeded ranges = %v, want %v", placements[0].LessonRanges, want)
	}
	placements = UpdatePlacementChoice(nil, catalog(), "id-quiz", "builtin-quiz", "Quiz", PlacementLessonRanges, 0)
	want = []LessonRange{{Start: 1, End: 1}}
	if !reflect.DeepEqual(placements[0].LessonRanges, want) {
		t.Fatalf("empty curriculum seeds %v, want %v", placements[0].LessonRanges, want)
	}
}

func TestToggleLessonSelectionIdempotentPair(t *testing.T) {
	placements := []TemplatePlacement{{
		TemplateID:    "id-quiz",
		TemplateSlug:  "builtin-quiz",
		PlacementType: PlacementSpecificLessons,
		LessonNumbers: []int{1, 4},
	}}
	toggled := ToggleLessonSelection(placements, catalog(), "id-quiz", "builtin-quiz", "Quiz", 3, true, 10)
	if got := toggled[0].LessonNumbers; !reflect.DeepEqual(got, []int{1, 3, 4}) {
		t.Fatalf("after check: %v", got)
	}
	back := ToggleLessonSelection(toggled, catalog(), "id-quiz", "builtin-quiz", "Quiz", 3, false, 10)
	if got := back[0].LessonNumbers; !reflect.DeepEqual(got, []int{1, 4}) {
		t.Fatalf("toggle pair not idempotent: %v", got)
	}
}

func TestToggleConvertsPlacementTypeFirst(t *testing.T) {
	placements := []TemplatePlacement{{
		TemplateID:    "id-quiz",
		TemplateSlug:  "builtin-quiz",
		PlacementType: PlacementEndOfCourse,
	}}
	toggled := ToggleModuleSelection(placements, catalog(), "id-quiz", "builtin-quiz", "Quiz", 2, true, 10)
	if toggled[0].PlacementType != PlacementSpecificModules {
		t.Fatalf("expected conversion to specific-modules, got %q", toggled[0].PlacementType)
	}
	if !reflect.DeepEqual(toggled[0].ModuleNumbers, []int{2}) {
		t.Fatalf("module membership = %v", toggled[0].ModuleNumbers)
	}
}

func TestUpdateLessonRangeClamps(t *testing.T) {
	placements := []TemplatePlacement{{
		TemplateID:    "id-quiz",
		PlacementType: PlacementLessonRanges,
		LessonRanges:  []LessonRange{{Start: 2, End: 5}},
	}}
	out := UpdateLessonRange(placements, "id-quiz", 0, "start", 9)
	if out[0].LessonRanges[0].Start != 5 {
		t.Fatalf("start should clamp to end, got %d", out[0].LessonRanges[0].Start)
	}
	out = UpdateLessonRange(placements, "id-quiz", 0, "end", 1)
	if out[0].LessonRanges[0].End != 2 {
		t.Fatalf("end should clamp to start, got %d", out[0].LessonRanges[0].End)
	}
	out = UpdateLessonRange(placements, "id-quiz", 0, "start", -3)
	if out[0].LessonRanges[0].Start != 1 {
		t.Fatalf("start should clamp to 1, got %d", out[0].LessonRanges[0].Start)
	}
}

func TestAddRemoveLessonRange(t *testing.T) {
	placements := []TemplatePlacement{{
		TemplateID:    "id-quiz",
		PlacementType: PlacementLessonRanges,
		LessonRanges:  []LessonRange{{Start: 1, End: 3}},
	}}
	out := AddLessonRange(placements, "id-quiz", 10)
	if len(out[0].LessonRanges) != 2 || out[0].LessonRanges[1] != (LessonRange{Start: 1, End: 10}) {
		t.Fatalf("AddLessonRange: %v", out[0].LessonRanges)
	}
	out = RemoveLessonRange(out, "id-quiz", 0)
	if len(out[0].LessonRanges) != 1 || out[0].LessonRanges[0] != (LessonRange{Start: 1, End: 10}) {
		t.Fatalf("RemoveLessonRange: %v", out[0].LessonRanges)
	}
}

func TestApplyToLessonsFirstRegisteredWins(t *testing.T) {
	placements := []TemplatePlacement{
		{TemplateID: "id-lesson", PlacementType: PlacementAllLessons},
		{TemplateID: "id-quiz", PlacementType: PlacementSpecificLessons, LessonNumbers: []int{3}},
	}
	lessons := RenumberLessons(make([]Lesson, 5))
	out := ApplyToLessons(placements, lessons)
	if out[2].TemplateID != "id-lesson" {
		t.Fatalf("lesson 3 template = %q, want first-registered id-lesson", out[2].TemplateID)
	}
}

func TestApplyToLessonsRanges(t *testing.T) {
	placements := []TemplatePlacement{
		{TemplateID: "id-quiz", PlacementType: PlacementLessonRanges, LessonRanges: []LessonRange{{Start: 1, End: 3}, {Start: 7, End: 9}}},
	}
	lessons := RenumberLessons(make([]Lesson, 10))
	out := ApplyToLessons(placements, lessons)
	want := map[int]bool{1: true, 2: true, 3: true, 7: true, 8: true, 9: true}
	for _, l := range out {
		if want[l.LessonNumber] && l.TemplateID != "id-quiz" {
			t.Fatalf("lesson %d should carry the template", l.LessonNumber)
		}
		if !want[l.LessonNumber] && l.TemplateID != "" {
			t.Fatalf("lesson %d should be untouched, got %q", l.LessonNumber, l.TemplateID)
		}
	}
}

func TestApplyToLessonsLeavesNonMatchesAlone(t *testing.T) {
	lessons := RenumberLessons(make([]Lesson, 2))
	lessons[1].TemplateID = "previously-assigned"
	placements := []TemplatePlacement{
		{TemplateID: "id-quiz", PlacementType: PlacementSpecificLessons, LessonNumbers: []int{1}},
	}
	out := ApplyToLessons(placements, lessons)
	if out[1].TemplateID != "previously-assigned" {
		t.Fatalf("non-matching lesson was cleared: %q", out[1].TemplateID)
	}
}

func TestSyncWithTemplatesDropsAndRelabels(t *testing.T) {
	placements := []TemplatePlacement{
		{TemplateID: "old-id", TemplateSlug: "builtin-lesson", TemplateName: "Old Name", PlacementType: PlacementAllLessons},
		{TemplateID: "gone", TemplateSlug: "deleted-template", PlacementType: PlacementEndOfCourse},
	}
	out := SyncWithTemplates(placements, catalog())
	if len(out) != 1 {
		t.Fatalf("dangling placement should drop, got %d entries", len(out))
	}
	if out[0].TemplateID != "id-lesson" || out[0].TemplateName != "Lesson" {
		t.Fatalf("placement not relabeled: %+v", out[0])
	}
}

func TestSyncWithModulesAndLessons(t *testing.T) {
	placements := []TemplatePlacement{
		{TemplateID: "a", PlacementType: PlacementSpecificModules, ModuleNumbers: []int{1, 2, 9}},
		{TemplateID: "b", PlacementType: PlacementSpecificLessons, LessonNumbers: []int{1, 8, 14}},
		{TemplateID: "c", PlacementType: PlacementLessonRanges, LessonRanges: []LessonRange{{Start: 5, End: 20}, {Start: 15, End: 18}}},
	}
	modules := []Module{{ModuleNumber: 1}, {ModuleNumber: 2}}
	out := SyncWithModules(placements, modules)
	if !reflect.DeepEqual(out[0].ModuleNumbers, []int{1, 2}) {
		t.Fatalf("module prune: %v", out[0].ModuleNumbers)
	}
	out = SyncWithLessons(out, 10)
	if !reflect.DeepEqual(out[1].LessonNumbers, []int{1, 8}) {
		t.Fatalf("lesson prune: %v", out[1].LessonNumbers)
	}
	if !reflect.DeepEqual(out[2].LessonRanges, []LessonRange{{Start: 5, End: 10}}) {
		t.Fatalf("range clamp: %v", out[2].LessonRanges)
	}
}
