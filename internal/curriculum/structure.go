package curriculum

import "fmt"

// NewStructure builds numLessons empty lessons shaped by cfg: each lesson
// gets TopicsPerLesson topics, each topic ObjectivesPerTopic empty objectives
// and ObjectivesPerTopic*TasksPerObjective empty tasks. Competencies are
// derived immediately.
func NewStructure(numLessons int, cfg ContentLoadConfig) []Lesson {
	if numLessons < 0 {
		numLessons = 0
	}
	lessons := make([]Lesson, 0, numLessons)
	for i := 1; i <= numLessons; i++ {
		lesson := Lesson{
			LessonNumber: i,
			Topics:       make([]Topic, 0, cfg.TopicsPerLesson),
		}
		for j := 0; j < cfg.TopicsPerLesson; j++ {
			lesson.Topics = append(lesson.Topics, Topic{
				Objectives: make([]string, cfg.ObjectivesPerTopic),
				Tasks:      make([]string, cfg.ObjectivesPerTopic*cfg.TasksPerObjective),
			})
		}
		lesson.Competencies = DeriveCompetencies(lesson.Topics, cfg.CompetenciesPerLesson)
		lessons = append(lessons, lesson)
	}
	return lessons
}

// DeriveCompetencies chunks topics into competencyCount groups of
// ceil(topicCount/competencyCount) topics each, in topic order.
func DeriveCompetencies(topics []Topic, competencyCount int) []Competency {
	if competencyCount < 1 {
		competencyCount = 1
	}
	if competencyCount > len(topics) && len(topics) > 0 {
		competencyCount = len(topics)
	}
	if len(topics) == 0 {
		return []Competency{}
	}
	chunk := (len(topics) + competencyCount - 1) / competencyCount
	out := make([]Competency, 0, competencyCount)
	for i := 0; i < len(topics); i += chunk {
		end := i + chunk
		if end > len(topics) {
			end = len(topics)
		}
		out = append(out, Competency{
			CompetencyNumber: len(out) + 1,
			Topics:           append([]Topic(nil), topics[i:end]...),
		})
	}
	return out
}

// FlattenCompetencies rebuilds a lesson's flat topic list from its
// competencies, in competency order.
func FlattenCompetencies(competencies []Competency) []Topic {
	var out []Topic
	for _, c := range competencies {
		out = append(out, c.Topics...)
	}
	return out
}

// ResizeStructurePreservingContent copies text positionally from old into
// fresh wherever a slot exists in both shapes: lesson titles, topic titles,
// objectives and tasks by index. Text in slots the new shape lacks is
// discarded; new slots stay empty. Competencies are re-derived per lesson.
func ResizeStructurePreservingContent(old, fresh []Lesson) []Lesson {
	out := make([]Lesson, len(fresh))
	copy(out, fresh)
	for i := range out {
		if i >= len(old) {
			break
		}
		prev := old[i]
		if prev.Title != "" {
			out[i].Title = prev.Title
		}
		topics := make([]Topic, len(out[i].Topics))
		copy(topics, out[i].Topics)
		for j := range topics {
			if j >= len(prev.Topics) {
				break
			}
			pt := prev.Topics[j]
			if pt.Title != "" {
				topics[j].Title = pt.Title
			}
			objectives := append([]string(nil), topics[j].Objectives...)
			for k := range objectives {
				if k < len(pt.Objectives) {
					objectives[k] = pt.Objectives[k]
				}
			}
			topics[j].Objectives = objectives
			tasks := append([]string(nil), topics[j].Tasks...)
			for k := range tasks {
				if k < len(pt.Tasks) {
					tasks[k] = pt.Tasks[k]
				}
			}
			topics[j].Tasks = tasks
		}
		out[i].Topics = topics
		competencyCount := len(out[i].Competencies)
		if competencyCount == 0 {
			competencyCount = DefaultCompetencyStrategy(len(topics))
		}
		out[i].Competencies = DeriveCompetencies(topics, competencyCount)
	}
	return out
}

// ValidateLessonCount reconciles the lesson list against the scheduled
// session count. Excess lessons are truncated; a shortfall regenerates to the
// scheduled count, preserving existing text positionally. Equal counts no-op.
func ValidateLessonCount(lessons []Lesson, scheduled int, cfg ContentLoadConfig) []Lesson {
	if scheduled < 0 {
		scheduled = 0
	}
	switch {
	case len(lessons) == scheduled:
		return lessons
	case len(lessons) > scheduled:
		return RenumberLessons(append([]Lesson(nil), lessons[:scheduled]...))
	default:
		fresh := NewStructure(scheduled, cfg)
		return RenumberLessons(ResizeStructurePreservingContent(lessons, fresh))
	}
}

// RenumberLessons makes lesson numbers contiguous 1..N in list order.
func RenumberLessons(lessons []Lesson) []Lesson {
	out := make([]Lesson, len(lessons))
	copy(out, lessons)
	for i := range out {
		out[i].LessonNumber = i + 1
	}
	return out
}

// DefaultLessonTitle names an untitled lesson by its number.
func DefaultLessonTitle(lesson Lesson) string {
	if lesson.Title != "" {
		return lesson.Title
	}
	return fmt.Sprintf("Lesson %d", lesson.LessonNumber)
}
