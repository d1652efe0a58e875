package curriculum

// Topic is one teaching unit inside a lesson. Tasks are stored flat;
// the owning objective of tasks[i] is i / tasksPerObjective.
type Topic struct {
	Title      string   `json:"title"`
	Objectives []string `json:"objectives"`
	Tasks      []string `json:"tasks"`
}

// Competency is a derived grouping of a lesson's topics, persisted alongside
// the flat topic list for round-trip fidelity.
type Competency struct {
	Title            string  `json:"title"`
	CompetencyNumber int     `json:"competencyNumber,omitempty"`
	Topics           []Topic `json:"topics"`
}

type Lesson struct {
	LessonNumber int          `json:"lessonNumber"`
	Title        string       `json:"title"`
	Topics       []Topic      `json:"topics"`
	ModuleNumber int          `json:"moduleNumber,omitempty"`
	TemplateID   string       `json:"templateId,omitempty"`
	Competencies []Competency `json:"competencies,omitempty"`
}

type Module struct {
	ModuleNumber int      `json:"moduleNumber"`
	Title        string   `json:"title"`
	Lessons      []Lesson `json:"lessons"`
}

type PresetKey string

const (
	PresetMini     PresetKey = "mini"
	PresetSingle   PresetKey = "single"
	PresetDouble   PresetKey = "double"
	PresetTriple   PresetKey = "triple"
	PresetHalfFull PresetKey = "halfFull"
	PresetFullDay  PresetKey = "fullDay"
)

type ContentLoadConfig struct {
	Type                  PresetKey `json:"type"`
	Duration              int       `json:"duration"`
	TopicsPerLesson       int       `json:"topicsPerLesson"`
	CompetenciesPerLesson int       `json:"competenciesPerLesson"`
	ObjectivesPerTopic    int       `json:"objectivesPerTopic"`
	TasksPerObjective     int       `json:"tasksPerObjective"`
	IsRecommended         bool      `json:"isRecommended"`
	RecommendationText    string    `json:"recommendationText"`
}

type ModuleOrganization string

const (
	OrganizationLinear ModuleOrganization = "linear"
	OrganizationEqual  ModuleOrganization = "equal"
	OrganizationTiered ModuleOrganization = "tiered"
	OrganizationCustom ModuleOrganization = "custom"
)

type CourseType string

const (
	CourseTypeMinimalist CourseType = "minimalist"
	CourseTypeEssential  CourseType = "essential"
	CourseTypeComplete   CourseType = "complete"
	CourseTypeCustom     CourseType = "custom"
)

type PlacementType string

const (
	PlacementEndOfEachModule PlacementType = "end-of-each-module"
	PlacementSpecificModules PlacementType = "specific-modules"
	PlacementSpecificLessons PlacementType = "specific-lessons"
	PlacementEndOfCourse     PlacementType = "end-of-course"
	PlacementAllLessons      PlacementType = "all-lessons"
	PlacementLessonRanges    PlacementType = "lesson-ranges"
	// PlacementNone removes a placement entry; it is never stored.
	PlacementNone PlacementType = "none"
)

type LessonRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// TemplatePlacement attaches one template to a scope. ModuleNumbers and
// LessonNumbers stay sorted ascending and deduplicated.
type TemplatePlacement struct {
	TemplateID    string        `json:"templateId"`
	TemplateSlug  string        `json:"templateSlug"`
	TemplateName  string        `json:"templateName"`
	PlacementType PlacementType `json:"placementType"`
	ModuleNumbers []int         `json:"moduleNumbers,omitempty"`
	LessonNumbers []int         `json:"lessonNumbers,omitempty"`
	LessonRanges  []LessonRange `json:"lessonRanges,omitempty"`
}

// TemplateSummary is a read-only catalog snapshot. TemplateID is the stable
// slug; ID is the surrogate row id, which may change across reseeds.
type TemplateSummary struct {
	ID          string              `json:"id"`
	TemplateID  string              `json:"templateId"`
	Name        string              `json:"name"`
	Type        string              `json:"type"`
	Description string              `json:"description,omitempty"`
	IsMissing   bool                `json:"isMissing,omitempty"`
	Scope       string              `json:"scope"`
	Definition  *TemplateDefinition `json:"definition,omitempty"`
}

// TemplateDefinition is the ordered block layout of a template.
type TemplateDefinition struct {
	Type   string          `json:"type" yaml:"type"`
	Blocks []TemplateBlock `json:"blocks" yaml:"blocks"`
}

type TemplateBlock struct {
	Type   string  `json:"type" yaml:"type"`
	Label  string  `json:"label,omitempty" yaml:"label,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`
}

// StructureConfig is the persisted shape of the content-load settings inside
// the curriculum document.
type StructureConfig struct {
	DurationType            PresetKey `json:"durationType"`
	ScheduledLessonDuration int       `json:"scheduledLessonDuration"`
	TopicsPerLesson         int       `json:"topicsPerLesson"`
	CompetenciesPerLesson   int       `json:"competenciesPerLesson"`
	ObjectivesPerTopic      int       `json:"objectivesPerTopic"`
	TasksPerObjective       int       `json:"tasksPerObjective"`
}

// Document is the opaque curriculum payload persisted per course.
type Document struct {
	Structure          *StructureConfig    `json:"structure,omitempty"`
	ModuleOrganization ModuleOrganization  `json:"moduleOrganization"`
	Modules            []Module            `json:"modules,omitempty"`
	Lessons            []Lesson            `json:"lessons,omitempty"` // legacy flat form
	TemplatePlacements []TemplatePlacement `json:"templatePlacements"`
	CourseType         CourseType          `json:"courseType"`
}

// StructureSummary counts a lesson's topics, objectives and tasks.
type StructureSummary struct {
	Topics     int `json:"topics"`
	Objectives int `json:"objectives"`
	Tasks      int `json:"tasks"`
}

func SummarizeLesson(lesson Lesson) StructureSummary {
	var s StructureSummary
	s.Topics = len(lesson.Topics)
	for _, t := range lesson.Topics {
		s.Objectives += len(t.Objectives)
		s.Tasks += len(t.Tasks)
	}
	return s
}
