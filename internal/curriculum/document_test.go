package curriculum

import (
	"encoding/json"
	"math"
	"testing"
)

func TestDecodeDocumentLegacyArray(t *testing.T) {
	raw := []byte(`[{"lessonNumber":1,"title":"Intro"},{"lessonNumber":2}]`)
	doc := DecodeDocument(raw)
	if doc.ModuleOrganization != OrganizationLinear {
		t.Fatalf("legacy array should decode as linear, got %q", doc.ModuleOrganization)
	}
	if len(doc.Lessons) != 2 || doc.Lessons[0].Title != "Intro" {
		t.Fatalf("legacy lessons: %+v", doc.Lessons)
	}
	if doc.Lessons[1].Topics == nil {
		t.Fatalf("missing topics must default to empty slice")
	}
}

func TestDecodeDocumentDefaults(t *testing.T) {
	doc := DecodeDocument(nil)
	if doc.ModuleOrganization != OrganizationLinear || doc.CourseType != CourseTypeCustom {
		t.Fatalf("empty payload defaults wrong: %+v", doc)
	}
	if doc.TemplatePlacements == nil {
		t.Fatalf("placements must default to empty slice")
	}

	doc = DecodeDocument([]byte(`{"moduleOrganization":"sideways","courseType":"luxury"}`))
	if doc.ModuleOrganization != OrganizationLinear || doc.CourseType != CourseTypeCustom {
		t.Fatalf("unknown enums should default: %+v", doc)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := Document{
		Structure:          &StructureConfig{DurationType: PresetSingle, ScheduledLessonDuration: 55, TopicsPerLesson: 2, CompetenciesPerLesson: 1, ObjectivesPerTopic: 1, TasksPerObjective: 2},
		ModuleOrganization: OrganizationEqual,
		Modules:            OrganizeModules(NewStructure(4, tripleConfig()), OrganizationEqual, nil, nil),
		TemplatePlacements: []TemplatePlacement{{TemplateID: "x", PlacementType: PlacementAllLessons}},
		CourseType:         CourseTypeEssential,
	}
	raw, err := EncodeDocument(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back := DecodeDocument(raw)
	if back.ModuleOrganization != OrganizationEqual || back.CourseType != CourseTypeEssential {
		t.Fatalf("round trip lost enums: %+v", back)
	}
	if len(back.AllLessons()) != 4 {
		t.Fatalf("round trip lost lessons: %d", len(back.AllLessons()))
	}
}

func TestEncodeDocumentRejectsUnserializable(t *testing.T) {
	doc := Document{
		Lessons: []Lesson{{LessonNumber: 1, Topics: []Topic{{Title: "bad"}}}},
	}
	// force a value json cannot encode through the generic data path
	type poisoned struct {
		Document
		Extra any `json:"extra"`
	}
	p := poisoned{Document: doc, Extra: math.NaN()}
	if _, err := json.Marshal(p); err == nil {
		t.Fatalf("expected NaN to be unserializable")
	}
	if _, err := EncodeDocument(doc); err != nil {
		t.Fatalf("plain document should serialize: %v", err)
	}
}

func TestAllowedTemplateTypes(t *testing.T) {
	if !TemplateTypeAllowed(CourseTypeMinimalist, "quiz") {
		t.Fatalf("minimalist allows quiz")
	}
	if TemplateTypeAllowed(CourseTypeMinimalist, "certificate") {
		t.Fatalf("minimalist does not allow certificate")
	}
	if !TemplateTypeAllowed(CourseTypeEssential, "assessment") {
		t.Fatalf("essential allows assessment")
	}
	if TemplateTypeAllowed(CourseTypeEssential, "report") {
		t.Fatalf("essential does not allow report")
	}
	if !TemplateTypeAllowed(CourseTypeComplete, "module_orientation") {
		t.Fatalf("complete allows module_orientation")
	}
	if !TemplateTypeAllowed(CourseTypeCustom, "anything-at-all") {
		t.Fatalf("custom allows everything")
	}
}

func TestSetAllLessonsRedistributes(t *testing.T) {
	doc := Document{
		Modules: OrganizeModules(NewStructure(6, tripleConfig()), OrganizationEqual, nil, nil),
	}
	lessons := doc.AllLessons()
	lessons[0].Title = "edited"
	doc.SetAllLessons(lessons)
	if doc.Modules[0].Lessons[0].Title != "edited" {
		t.Fatalf("edit did not land back in module")
	}
	total := 0
	for _, m := range doc.Modules {
		total += len(m.Lessons)
	}
	if total != 6 {
		t.Fatalf("lesson count drifted: %d", total)
	}
}
