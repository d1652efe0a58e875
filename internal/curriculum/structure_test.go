package curriculum

import "testing"

func tripleConfig() ContentLoadConfig {
	return ContentLoadConfig{
		Type:                  PresetTriple,
		TopicsPerLesson:       3,
		CompetenciesPerLesson: 2,
		ObjectivesPerTopic:    2,
		TasksPerObjective:     2,
	}
}

func TestNewStructureShape(t *testing.T) {
	lessons := NewStructure(5, tripleConfig())
	if len(lessons) != 5 {
		t.Fatalf("lesson count = %d", len(lessons))
	}
	for i, l := range lessons {
		if l.LessonNumber != i+1 {
			t.Fatalf("lesson numbers not contiguous: %d at index %d", l.LessonNumber, i)
		}
		if len(l.Topics) != 3 {
			t.Fatalf("topics = %d", len(l.Topics))
		}
		for _, topic := range l.Topics {
			if len(topic.Objectives) != 2 || len(topic.Tasks) != 4 {
				t.Fatalf("topic shape %d/%d, want 2/4", len(topic.Objectives), len(topic.Tasks))
			}
		}
		// 3 topics over 2 competencies chunk as [2,1]
		if len(l.Competencies) != 2 || len(l.Competencies[0].Topics) != 2 || len(l.Competencies[1].Topics) != 1 {
			t.Fatalf("competency chunking wrong: %+v", l.Competencies)
		}
	}
}

func TestResizePreservesTextRoundTrip(t *testing.T) {
	cfg := tripleConfig()
	lessons := NewStructure(5, cfg)
	lessons[0].Title = "Kick-off"
	lessons[0].Topics[1].Title = "Fractions"
	lessons[0].Topics[1].Objectives[0] = "Recognize halves"
	lessons[0].Topics[1].Tasks[3] = "Worksheet 4"

	fresh := NewStructure(5, cfg)
	out := ResizeStructurePreservingContent(lessons, fresh)
	if out[0].Title != "Kick-off" {
		t.Fatalf("lesson title lost")
	}
	if out[0].Topics[1].Title != "Fractions" {
		t.Fatalf("topic title lost")
	}
	if out[0].Topics[1].Objectives[0] != "Recognize halves" {
		t.Fatalf("objective text lost")
	}
	if out[0].Topics[1].Tasks[3] != "Worksheet 4" {
		t.Fatalf("task text lost")
	}
	// identical shape in and out
	for i := range out {
		got := SummarizeLesson(out[i])
		want := SummarizeLesson(fresh[i])
		if got != want {
			t.Fatalf("shape changed at lesson %d: %+v vs %+v", i+1, got, want)
		}
	}
}

func TestResizeDiscardsTruncatedSlots(t *testing.T) {
	big := tripleConfig()
	small := ContentLoadConfig{TopicsPerLesson: 1, CompetenciesPerLesson: 1, ObjectivesPerTopic: 1, TasksPerObjective: 1}

	lessons := NewStructure(2, big)
	lessons[0].Topics[0].Objectives[1] = "second objective"
	lessons[0].Topics[2].Title = "third topic"

	out := ResizeStructurePreservingContent(lessons, NewStructure(2, small))
	if len(out[0].Topics) != 1 || len(out[0].Topics[0].Objectives) != 1 {
		t.Fatalf("shrunk shape wrong: %+v", out[0].Topics)
	}
	if out[0].Topics[0].Objectives[0] != "" {
		t.Fatalf("unexpected carry-over into objective 0: %q", out[0].Topics[0].Objectives[0])
	}
}

func TestValidateLessonCountTrims(t *testing.T) {
	cfg := tripleConfig()
	lessons := NewStructure(6, cfg)
	lessons[5].Title = "doomed"
	out := ValidateLessonCount(lessons, 4, cfg)
	if len(out) != 4 {
		t.Fatalf("len = %d, want 4", len(out))
	}
	for i, l := range out {
		if l.LessonNumber != i+1 {
			t.Fatalf("renumbering broken at %d", i)
		}
	}
}

func TestValidateLessonCountGrowsPreservingText(t *testing.T) {
	cfg := tripleConfig()
	lessons := NewStructure(2, cfg)
	lessons[1].Title = "survivor"
	out := ValidateLessonCount(lessons, 5, cfg)
	if len(out) != 5 {
		t.Fatalf("len = %d, want 5", len(out))
	}
	if out[1].Title != "survivor" {
		t.Fatalf("text lost on grow")
	}
	if out[4].LessonNumber != 5 {
		t.Fatalf("new lessons misnumbered: %d", out[4].LessonNumber)
	}
}

func TestValidateLessonCountEqualNoop(t *testing.T) {
	cfg := tripleConfig()
	lessons := NewStructure(3, cfg)
	lessons[0].Title = "untouched"
	out := ValidateLessonCount(lessons, 3, cfg)
	if len(out) != 3 || out[0].Title != "untouched" {
		t.Fatalf("equal counts must not rebuild")
	}
}

func TestFlattenCompetencies(t *testing.T) {
	lesson := NewStructure(1, tripleConfig())[0]
	lesson.Topics[0].Title = "a"
	lesson.Topics[1].Title = "b"
	lesson.Topics[2].Title = "c"
	lesson.Competencies = DeriveCompetencies(lesson.Topics, 2)
	flat := FlattenCompetencies(lesson.Competencies)
	if len(flat) != 3 || flat[0].Title != "a" || flat[2].Title != "c" {
		t.Fatalf("flatten order wrong: %+v", flat)
	}
}
