package curriculum

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeDocument parses a persisted curriculum payload. The oldest schema
// stored a bare lesson array; that decodes as a linear-organization document.
// Missing fields default rather than fail: a half-written payload must never
// lock a teacher out of their course.
func DecodeDocument(raw []byte) Document {
	doc := Document{
		ModuleOrganization: OrganizationLinear,
		CourseType:         CourseTypeCustom,
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return normalizeDocument(doc)
	}
	if trimmed[0] == '[' {
		var lessons []Lesson
		if err := json.Unmarshal(trimmed, &lessons); err == nil {
			doc.Lessons = lessons
		}
		return normalizeDocument(doc)
	}
	_ = json.Unmarshal(trimmed, &doc)
	return normalizeDocument(doc)
}

func normalizeDocument(doc Document) Document {
	switch doc.ModuleOrganization {
	case OrganizationLinear, OrganizationEqual, OrganizationTiered, OrganizationCustom:
	default:
		doc.ModuleOrganization = OrganizationLinear
	}
	switch doc.CourseType {
	case CourseTypeMinimalist, CourseTypeEssential, CourseTypeComplete, CourseTypeCustom:
	default:
		doc.CourseType = CourseTypeCustom
	}
	if doc.TemplatePlacements == nil {
		doc.TemplatePlacements = []TemplatePlacement{}
	}
	for i := range doc.Modules {
		doc.Modules[i].Lessons = normalizeLessons(doc.Modules[i].Lessons)
	}
	doc.Lessons = normalizeLessons(doc.Lessons)
	return doc
}

func normalizeLessons(lessons []Lesson) []Lesson {
	for i := range lessons {
		if lessons[i].Topics == nil {
			lessons[i].Topics = []Topic{}
		}
		for j := range lessons[i].Topics {
			if lessons[i].Topics[j].Objectives == nil {
				lessons[i].Topics[j].Objectives = []string{}
			}
			if lessons[i].Topics[j].Tasks == nil {
				lessons[i].Topics[j].Tasks = []string{}
			}
		}
	}
	return lessons
}

// EncodeDocument is the serialize probe run before every save: an
// unencodable document becomes a typed error instead of a corrupt row.
func EncodeDocument(doc Document) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("curriculum document not serializable: %w", err)
	}
	return raw, nil
}

// AllLessons returns the document's lessons in module order, falling back to
// the legacy flat list when no modules exist.
func (d Document) AllLessons() []Lesson {
	if len(d.Modules) == 0 {
		return d.Lessons
	}
	var out []Lesson
	for _, m := range d.Modules {
		out = append(out, m.Lessons...)
	}
	return out
}

// SetAllLessons writes lessons back in module order, slicing the flat list at
// each module's current size. A trailing surplus lands in the last module.
func (d *Document) SetAllLessons(lessons []Lesson) {
	if len(d.Modules) == 0 {
		d.Lessons = lessons
		return
	}
	idx := 0
	for i := range d.Modules {
		n := len(d.Modules[i].Lessons)
		if idx+n > len(lessons) {
			n = len(lessons) - idx
			if n < 0 {
				n = 0
			}
		}
		if i == len(d.Modules)-1 {
			n = len(lessons) - idx
		}
		d.Modules[i].Lessons = lessons[idx : idx+n]
		idx += n
	}
}

// AllowedTemplateTypes maps a course type to the template types its
// placement UI offers. This filters the catalog listing, not the data.
func AllowedTemplateTypes(courseType CourseType) []string {
	switch courseType {
	case CourseTypeMinimalist:
		return []string{"lesson", "quiz"}
	case CourseTypeEssential:
		return []string{"lesson", "quiz", "feedback", "assessment", "certificate"}
	case CourseTypeComplete:
		return []string{
			"lesson", "quiz", "feedback", "assessment", "report", "review",
			"project", "module_orientation", "course_orientation", "certificate",
		}
	default:
		return nil // custom: no filter
	}
}

func TemplateTypeAllowed(courseType CourseType, templateType string) bool {
	allowed := AllowedTemplateTypes(courseType)
	if allowed == nil {
		return true
	}
	for _, t := range allowed {
		if t == templateType {
			return true
		}
	}
	return false
}
