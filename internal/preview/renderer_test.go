package preview

import (
	"strings"
	"testing"

	"github.com/ParticlesofMind/neptino-sub010/internal/curriculum"
)

func sampleDoc() curriculum.Document {
	return curriculum.Document{
		ModuleOrganization: curriculum.OrganizationEqual,
		Modules: []curriculum.Module{
			{
				ModuleNumber: 1,
				Title:        "Foundations",
				Lessons: []curriculum.Lesson{
					{LessonNumber: 1, Title: "Intro", TemplateID: "tpl-1", Topics: []curriculum.Topic{
						{Title: "A", Objectives: []string{"o1", "o2"}, Tasks: []string{"t1", "t2", "t3", "t4"}},
					}},
					{LessonNumber: 2},
				},
			},
			{
				ModuleNumber: 2,
				Title:        "Module 2",
				Lessons:      []curriculum.Lesson{{LessonNumber: 3, Title: "Review"}},
			},
		},
		TemplatePlacements: []curriculum.TemplatePlacement{
			{TemplateID: "tpl-1", TemplateName: "Lesson", PlacementType: curriculum.PlacementAllLessons},
			{TemplateID: "tpl-2", TemplateName: "Quiz", PlacementType: curriculum.PlacementLessonRanges,
				LessonRanges: []curriculum.LessonRange{{Start: 1, End: 2}}},
			{TemplateID: "tpl-3", TemplateName: "Assessment", PlacementType: curriculum.PlacementSpecificModules,
				ModuleNumbers: []int{2}},
		},
	}
}

func TestRenderOutline(t *testing.T) {
	p, err := NewRenderer().Render(sampleDoc())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		`data-organization="equal"`,
		`data-module="1"`,
		"<h3>Foundations</h3>",
		`data-lesson="1"`,
		`data-template="tpl-1"`,
		"1 topics · 2 objectives · 4 tasks",
		"Lesson 2",
		"<h3>Module 2</h3>",
	} {
		if !strings.Contains(p.Outline, want) {
			t.Fatalf("outline missing %q:\n%s", want, p.Outline)
		}
	}
	if strings.Contains(p.Outline, `data-lesson="2" data-template`) {
		t.Fatalf("lesson without template should not carry data-template")
	}
}

func TestRenderOutlineFlatLessons(t *testing.T) {
	doc := curriculum.Document{
		ModuleOrganization: curriculum.OrganizationLinear,
		Lessons:            []curriculum.Lesson{{LessonNumber: 1, Title: "Only"}},
	}
	p, err := NewRenderer().Render(doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(p.Outline, "<h3>Module 1</h3>") || !strings.Contains(p.Outline, "Only") {
		t.Fatalf("flat lessons should render under an implicit module:\n%s", p.Outline)
	}
}

func TestRenderPlacements(t *testing.T) {
	p, err := NewRenderer().Render(sampleDoc())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"Lesson", "all-lessons",
		"Quiz", "lessons 1-2",
		"Assessment", "modules 2",
	} {
		if !strings.Contains(p.Placements, want) {
			t.Fatalf("placements missing %q:\n%s", want, p.Placements)
		}
	}
}

func TestRenderPlacementsEmpty(t *testing.T) {
	p, err := NewRenderer().Render(curriculum.Document{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(p.Placements, "No template placements configured.") {
		t.Fatalf("empty placements should render the empty state:\n%s", p.Placements)
	}
}

func TestRenderEscapesUserText(t *testing.T) {
	doc := curriculum.Document{
		Modules: []curriculum.Module{{ModuleNumber: 1, Title: "<script>x</script>",
			Lessons: []curriculum.Lesson{{LessonNumber: 1, Title: "a<b"}}}},
	}
	p, err := NewRenderer().Render(doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(p.Outline, "<script>") {
		t.Fatalf("module title must be escaped:\n%s", p.Outline)
	}
	if !strings.Contains(p.Outline, "a&lt;b") {
		t.Fatalf("lesson title must be escaped:\n%s", p.Outline)
	}
}
