package canvas

import (
	"testing"

	"github.com/ParticlesofMind/neptino-sub010/internal/curriculum"
)

func lessonTemplate() *curriculum.TemplateDefinition {
	return &curriculum.TemplateDefinition{
		Type: "lesson",
		Blocks: []curriculum.TemplateBlock{
			{Type: "header", Label: "Course header", Height: 50},
			{Type: "program", Label: "Program"},
			{Type: "resources", Label: "Resources", Height: 80},
			{Type: "content", Label: "Content"},
			{Type: "assignment", Label: "Assignment", Height: 120},
			{Type: "footer", Label: "Page footer", Height: 40},
		},
	}
}

func sampleLesson() curriculum.Lesson {
	cfg := curriculum.ContentLoadConfig{
		TopicsPerLesson:       2,
		CompetenciesPerLesson: 1,
		ObjectivesPerTopic:    2,
		TasksPerObjective:     2,
	}
	lesson := curriculum.NewStructure(1, cfg)[0]
	lesson.Title = "Photosynthesis"
	lesson.Topics[0].Title = "Light reactions"
	lesson.Topics[0].Objectives[0] = "Name the inputs"
	lesson.Topics[0].Tasks[0] = "Label the diagram"
	return lesson
}

func TestBuildLessonPayloadFrame(t *testing.T) {
	b := NewBuilder(DefaultConfig())
	payload, meta := b.BuildLessonPayload(sampleLesson(), lessonTemplate(), 0)

	if payload.Version != PayloadVersion || payload.Engine != EngineTag {
		t.Fatalf("missing version tags: %q %q", payload.Version, payload.Engine)
	}
	if payload.Header.Label != "Course header" || payload.Header.Height != 50 {
		t.Fatalf("header band wrong: %+v", payload.Header)
	}
	if payload.Footer.Label != "Page footer" {
		t.Fatalf("footer band wrong: %+v", payload.Footer)
	}
	// body holds the four non-header/footer blocks in definition order
	if len(payload.Body.Children) != 4 {
		t.Fatalf("body children = %d, want 4", len(payload.Body.Children))
	}
	order := []string{"program", "resources", "content", "assignment"}
	for i, want := range order {
		if payload.Body.Children[i].BlockType != want {
			t.Fatalf("block %d = %q, want %q", i, payload.Body.Children[i].BlockType, want)
		}
	}
	if meta.Structure.Topics != 2 || meta.Structure.Objectives != 4 || meta.Structure.Tasks != 8 {
		t.Fatalf("metadata structure summary wrong: %+v", meta.Structure)
	}
}

func TestBuildLessonPayloadPlaceholderBands(t *testing.T) {
	b := NewBuilder(DefaultConfig())
	tmpl := &curriculum.TemplateDefinition{
		Type:   "quiz",
		Blocks: []curriculum.TemplateBlock{{Type: "content", Label: "Questions"}},
	}
	payload, _ := b.BuildLessonPayload(sampleLesson(), tmpl, 0)
	if payload.Header.Label != "header (placeholder)" {
		t.Fatalf("expected synthesized header, got %q", payload.Header.Label)
	}
	if payload.Footer.Label != "footer (placeholder)" {
		t.Fatalf("expected synthesized footer, got %q", payload.Footer.Label)
	}
}

func TestContentBlockGrowsAndNests(t *testing.T) {
	b := NewBuilder(DefaultConfig())
	payload, _ := b.BuildLessonPayload(sampleLesson(), lessonTemplate(), 0)

	var content, resources *Node
	for i := range payload.Body.Children {
		switch payload.Body.Children[i].BlockType {
		case "content":
			content = &payload.Body.Children[i]
		case "resources":
			resources = &payload.Body.Children[i]
		}
	}
	if content == nil || content.FlexGrow != 1 {
		t.Fatalf("content must flex-grow: %+v", content)
	}
	if resources == nil || resources.FlexGrow != 0 || resources.Height != 80 {
		t.Fatalf("non-content blocks stay fixed: %+v", resources)
	}
	// topic -> objective -> task nesting
	if len(content.Children) != 2 {
		t.Fatalf("topic nodes = %d, want 2", len(content.Children))
	}
	topic := content.Children[0]
	if len(topic.Children) != 2 {
		t.Fatalf("objective nodes = %d, want 2", len(topic.Children))
	}
	if len(topic.Children[0].Children) != 2 {
		t.Fatalf("task nodes = %d, want 2", len(topic.Children[0].Children))
	}
	if topic.Children[0].Children[0].Text != "Label the diagram" {
		t.Fatalf("task text missing: %+v", topic.Children[0].Children[0])
	}
}

func TestProgramViewDistributesTasksByIndex(t *testing.T) {
	lesson := curriculum.Lesson{
		LessonNumber: 1,
		Topics: []curriculum.Topic{{
			Title:      "Only topic",
			Objectives: []string{"o1", "o2"},
			Tasks:      []string{"t1", "t2", "t3"}, // ceil(3/2)=2 per objective
		}},
	}
	lesson.Competencies = curriculum.DeriveCompetencies(lesson.Topics, 1)

	b := NewBuilder(DefaultConfig())
	payload, _ := b.BuildLessonPayload(lesson, lessonTemplate(), 0)

	var program *Node
	for i := range payload.Body.Children {
		if payload.Body.Children[i].BlockType == "program" {
			program = &payload.Body.Children[i]
		}
	}
	if program == nil || len(program.Children) != 1 {
		t.Fatalf("program competencies: %+v", program)
	}
	topic := program.Children[0].Children[0]
	if len(topic.Children) != 2 {
		t.Fatalf("program objectives = %d", len(topic.Children))
	}
	if len(topic.Children[0].Children) != 2 || len(topic.Children[1].Children) != 1 {
		t.Fatalf("task split = %d/%d, want 2/1",
			len(topic.Children[0].Children), len(topic.Children[1].Children))
	}
	if topic.Children[1].Children[0].Text != "t3" {
		t.Fatalf("index-range slicing broken: %+v", topic.Children[1].Children[0])
	}
}

func TestBuildLessonPayloadsThreeWaySplit(t *testing.T) {
	b := NewBuilder(DefaultConfig())
	built := b.BuildLessonPayloads(sampleLesson(), lessonTemplate(), 0)
	if len(built) != 3 {
		t.Fatalf("canvas count = %d, want 3", len(built))
	}
	byIndex := map[int][]string{}
	for _, bc := range built {
		for _, child := range bc.Payload.Body.Children {
			byIndex[bc.Index] = append(byIndex[bc.Index], child.BlockType)
		}
		// all sub-canvases share the template's header/footer
		if bc.Payload.Header.Label != "Course header" || bc.Payload.Footer.Label != "Page footer" {
			t.Fatalf("canvas %d lost shared bands", bc.Index)
		}
	}
	if got := byIndex[IndexProgramResources]; len(got) != 2 || got[0] != "program" || got[1] != "resources" {
		t.Fatalf("canvas 1 blocks: %v", got)
	}
	if got := byIndex[IndexContent]; len(got) != 1 || got[0] != "content" {
		t.Fatalf("canvas 2 blocks: %v", got)
	}
	if got := byIndex[IndexAssignment]; len(got) != 1 || got[0] != "assignment" {
		t.Fatalf("canvas 3 blocks: %v", got)
	}
}

func TestBuildLessonPayloadsSparseGroups(t *testing.T) {
	b := NewBuilder(DefaultConfig())
	tmpl := &curriculum.TemplateDefinition{
		Type: "lesson",
		Blocks: []curriculum.TemplateBlock{
			{Type: "header"},
			{Type: "content", Label: "Content"},
			{Type: "footer"},
		},
	}
	built := b.BuildLessonPayloads(sampleLesson(), tmpl, 0)
	if len(built) != 1 || built[0].Index != IndexContent {
		t.Fatalf("expected only the content canvas, got %+v", built)
	}
}

func TestBuildLessonPayloadsFallbacks(t *testing.T) {
	b := NewBuilder(DefaultConfig())

	// lesson template with no body blocks at all: single-canvas fallback
	empty := &curriculum.TemplateDefinition{
		Type:   "lesson",
		Blocks: []curriculum.TemplateBlock{{Type: "header"}, {Type: "footer"}},
	}
	built := b.BuildLessonPayloads(sampleLesson(), empty, 0)
	if len(built) != 1 || built[0].Index != 1 {
		t.Fatalf("empty groups must fall back to one canvas: %+v", built)
	}

	// non-lesson templates always produce exactly one canvas
	quiz := &curriculum.TemplateDefinition{
		Type:   "quiz",
		Blocks: []curriculum.TemplateBlock{{Type: "content"}, {Type: "assignment"}},
	}
	built = b.BuildLessonPayloads(sampleLesson(), quiz, 0)
	if len(built) != 1 || built[0].Index != 1 {
		t.Fatalf("non-lesson template split: %+v", built)
	}

	// missing lesson number uses the fallback
	lesson := sampleLesson()
	lesson.LessonNumber = 0
	_, meta := b.BuildLessonPayload(lesson, nil, 9)
	if meta.LessonNumber != 9 {
		t.Fatalf("fallback lesson number not applied: %d", meta.LessonNumber)
	}
}

func TestRenderThumbnail(t *testing.T) {
	b := NewBuilder(DefaultConfig())
	payload, _ := b.BuildLessonPayload(sampleLesson(), lessonTemplate(), 0)
	png, err := RenderThumbnail(payload, ThumbnailOptions{Width: 200})
	if err != nil {
		t.Fatalf("RenderThumbnail: %v", err)
	}
	if len(png) == 0 {
		t.Fatalf("empty PNG")
	}
	// PNG signature
	if png[0] != 0x89 || string(png[1:4]) != "PNG" {
		t.Fatalf("not a PNG: % x", png[:4])
	}
}
