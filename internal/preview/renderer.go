package preview

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/ParticlesofMind/neptino-sub010/internal/curriculum"
)

// Renderer turns curriculum state into the two HTML preview surfaces the
// editor injects side by side: the module/lesson outline and the placement
// summary. Rendering is a pure function of the document.
type Renderer struct {
	outline    *template.Template
	placements *template.Template
}

// Preview is the rendered pair returned by the API.
type Preview struct {
	Outline    string `json:"outline"`
	Placements string `json:"placements"`
}

const outlineTmpl = `<div class="curriculum-outline" data-organization="{{.Organization}}">
{{- range .Modules}}
  <section class="module" data-module="{{.ModuleNumber}}">
    <h3>{{.Title}}</h3>
    <ol>
    {{- range .Lessons}}
      <li class="lesson" data-lesson="{{.LessonNumber}}"{{if .TemplateID}} data-template="{{.TemplateID}}"{{end}}>
        <span class="lesson-title">{{.Title}}</span>
        <span class="lesson-shape">{{.Shape}}</span>
      </li>
    {{- end}}
    </ol>
  </section>
{{- end}}
</div>`

const placementsTmpl = `<div class="placement-summary">
{{- if not .Placements}}
  <p class="empty">No template placements configured.</p>
{{- else}}
  <ul>
  {{- range .Placements}}
    <li class="placement" data-template="{{.TemplateID}}">
      <span class="template-name">{{.TemplateName}}</span>
      <span class="placement-type">{{.PlacementType}}</span>
      {{- if .Detail}}<span class="placement-detail">{{.Detail}}</span>{{end}}
    </li>
  {{- end}}
  </ul>
{{- end}}
</div>`

func NewRenderer() *Renderer {
	return &Renderer{
		outline:    template.Must(template.New("outline").Parse(outlineTmpl)),
		placements: template.Must(template.New("placements").Parse(placementsTmpl)),
	}
}

type outlineModule struct {
	ModuleNumber int
	Title        string
	Lessons      []outlineLesson
}

type outlineLesson struct {
	LessonNumber int
	Title        string
	TemplateID   string
	Shape        string
}

type placementRow struct {
	TemplateID    string
	TemplateName  string
	PlacementType curriculum.PlacementType
	Detail        string
}

func (r *Renderer) Render(doc curriculum.Document) (Preview, error) {
	outline, err := r.renderOutline(doc)
	if err != nil {
		return Preview{}, err
	}
	placements, err := r.renderPlacements(doc.TemplatePlacements)
	if err != nil {
		return Preview{}, err
	}
	return Preview{Outline: outline, Placements: placements}, nil
}

func (r *Renderer) renderOutline(doc curriculum.Document) (string, error) {
	modules := doc.Modules
	if len(modules) == 0 {
		modules = []curriculum.Module{{ModuleNumber: 1, Title: "Module 1", Lessons: doc.Lessons}}
	}
	view := struct {
		Organization curriculum.ModuleOrganization
		Modules      []outlineModule
	}{Organization: doc.ModuleOrganization}

	for _, m := range modules {
		om := outlineModule{ModuleNumber: m.ModuleNumber, Title: m.Title}
		for _, l := range m.Lessons {
			s := curriculum.SummarizeLesson(l)
			om.Lessons = append(om.Lessons, outlineLesson{
				LessonNumber: l.LessonNumber,
				Title:        curriculum.DefaultLessonTitle(l),
				TemplateID:   l.TemplateID,
				Shape:        fmt.Sprintf("%d topics · %d objectives · %d tasks", s.Topics, s.Objectives, s.Tasks),
			})
		}
		view.Modules = append(view.Modules, om)
	}

	var sb strings.Builder
	if err := r.outline.Execute(&sb, view); err != nil {
		return "", fmt.Errorf("render outline: %w", err)
	}
	return sb.String(), nil
}

func (r *Renderer) renderPlacements(placements []curriculum.TemplatePlacement) (string, error) {
	view := struct {
		Placements []placementRow
	}{}
	for _, p := range placements {
		view.Placements = append(view.Placements, placementRow{
			TemplateID:    p.TemplateID,
			TemplateName:  p.TemplateName,
			PlacementType: p.PlacementType,
			Detail:        placementDetail(p),
		})
	}
	var sb strings.Builder
	if err := r.placements.Execute(&sb, view); err != nil {
		return "", fmt.Errorf("render placements: %w", err)
	}
	return sb.String(), nil
}

func placementDetail(p curriculum.TemplatePlacement) string {
	switch p.PlacementType {
	case curriculum.PlacementSpecificModules:
		return "modules " + joinInts(p.ModuleNumbers)
	case curriculum.PlacementSpecificLessons:
		return "lessons " + joinInts(p.LessonNumbers)
	case curriculum.PlacementLessonRanges:
		parts := make([]string, 0, len(p.LessonRanges))
		for _, r := range p.LessonRanges {
			parts = append(parts, fmt.Sprintf("%d-%d", r.Start, r.End))
		}
		return "lessons " + strings.Join(parts, ", ")
	default:
		return ""
	}
}

func joinInts(nums []int) string {
	parts := make([]string, 0, len(nums))
	for _, n := range nums {
		parts = append(parts, fmt.Sprint(n))
	}
	return strings.Join(parts, ", ")
}
