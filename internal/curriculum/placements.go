package curriculum

import "sort"

// Placement functions are pure: they take and return placement slices and
// never mutate their inputs.

// FindPlacement matches by surrogate template id first, then falls back to
// the stable slug. A reseeded template keeps its slug but gets a new id, and
// stored placements must keep resolving across that.
func FindPlacement(templateID string, placements []TemplatePlacement, templates []TemplateSummary) *TemplatePlacement {
	for i := range placements {
		if placements[i].TemplateID == templateID {
			p := placements[i]
			return &p
		}
	}
	slug := slugForTemplateID(templateID, templates)
	if slug == "" {
		return nil
	}
	for i := range placements {
		if placements[i].TemplateSlug == slug {
			p := placements[i]
			return &p
		}
	}
	return nil
}

func slugForTemplateID(templateID string, templates []TemplateSummary) string {
	for _, t := range templates {
		if t.ID == templateID {
			return t.TemplateID
		}
	}
	return ""
}

// UpdatePlacementChoice sets or clears a template's placement. Choice "none"
// removes the entry. Re-selecting the type an entry already has preserves its
// selections; switching types starts empty, except lesson-ranges which seeds
// one full-course range.
func UpdatePlacementChoice(placements []TemplatePlacement, templates []TemplateSummary, templateID, templateSlug, templateName string, choice PlacementType, lessonCount int) []TemplatePlacement {
	out := make([]TemplatePlacement, 0, len(placements)+1)
	var prior *TemplatePlacement
	for _, p := range placements {
		if p.TemplateID == templateID || (templateSlug != "" && p.TemplateSlug == templateSlug) {
			prior = &TemplatePlacement{}
			*prior = p
			continue
		}
		out = append(out, p)
	}
	if choice == PlacementNone || choice == "" {
		return out
	}

	entry := TemplatePlacement{
		TemplateID:    templateID,
		TemplateSlug:  templateSlug,
		TemplateName:  templateName,
		PlacementType: choice,
	}
	if prior != nil && prior.PlacementType == choice {
		entry.ModuleNumbers = append([]int(nil), prior.ModuleNumbers...)
		entry.LessonNumbers = append([]int(nil), prior.LessonNumbers...)
		entry.LessonRanges = append([]LessonRange(nil), prior.LessonRanges...)
	} else if choice == PlacementLessonRanges {
		end := lessonCount
		if end < 1 {
			end = 1
		}
		entry.LessonRanges = []LessonRange{{Start: 1, End: end}}
	}
	return append(out, entry)
}

// ToggleModuleSelection flips a module's membership in a specific-modules
// placement, converting the placement to that type first when needed.
func ToggleModuleSelection(placements []TemplatePlacement, templates []TemplateSummary, templateID, templateSlug, templateName string, moduleNumber int, isChecked bool, lessonCount int) []TemplatePlacement {
	existing := FindPlacement(templateID, placements, templates)
	if existing == nil || existing.PlacementType != PlacementSpecificModules {
		placements = UpdatePlacementChoice(placements, templates, templateID, templateSlug, templateName, PlacementSpecificModules, lessonCount)
	}
	return toggleMembership(placements, templateID, templateSlug, moduleNumber, isChecked, func(p *TemplatePlacement) *[]int {
		return &p.ModuleNumbers
	})
}

// ToggleLessonSelection flips a lesson's membership in a specific-lessons
// placement, converting the placement to that type first when needed.
func ToggleLessonSelection(placements []TemplatePlacement, templates []TemplateSummary, templateID, templateSlug, templateName string, lessonNumber int, isChecked bool, lessonCount int) []TemplatePlacement {
	existing := FindPlacement(templateID, placements, templates)
	if existing == nil || existing.PlacementType != PlacementSpecificLessons {
		placements = UpdatePlacementChoice(placements, templates, templateID, templateSlug, templateName, PlacementSpecificLessons, lessonCount)
	}
	return toggleMembership(placements, templateID, templateSlug, lessonNumber, isChecked, func(p *TemplatePlacement) *[]int {
		return &p.LessonNumbers
	})
}

func toggleMembership(placements []TemplatePlacement, templateID, templateSlug string, number int, isChecked bool, field func(*TemplatePlacement) *[]int) []TemplatePlacement {
	out := make([]TemplatePlacement, len(placements))
	copy(out, placements)
	for i := range out {
		if out[i].TemplateID != templateID && (templateSlug == "" || out[i].TemplateSlug != templateSlug) {
			continue
		}
		membership := field(&out[i])
		next := make([]int, 0, len(*membership)+1)
		for _, n := range *membership {
			if n != number {
				next = append(next, n)
			}
		}
		if isChecked {
			next = append(next, number)
		}
		*membership = sortedUnique(next)
	}
	return out
}

func sortedUnique(nums []int) []int {
	if len(nums) == 0 {
		return nums
	}
	sort.Ints(nums)
	out := nums[:1]
	for _, n := range nums[1:] {
		if n != out[len(out)-1] {
			out = append(out, n)
		}
	}
	return out
}

func AddLessonRange(placements []TemplatePlacement, templateID string, lessonCount int) []TemplatePlacement {
	out := make([]TemplatePlacement, len(placements))
	copy(out, placements)
	end := lessonCount
	if end < 1 {
		end = 1
	}
	for i := range out {
		if out[i].TemplateID == templateID && out[i].PlacementType == PlacementLessonRanges {
			out[i].LessonRanges = append(append([]LessonRange(nil), out[i].LessonRanges...), LessonRange{Start: 1, End: end})
		}
	}
	return out
}

func RemoveLessonRange(placements []TemplatePlacement, templateID string, rangeIndex int) []TemplatePlacement {
	out := make([]TemplatePlacement, len(placements))
	copy(out, placements)
	for i := range out {
		if out[i].TemplateID != templateID || out[i].PlacementType != PlacementLessonRanges {
			continue
		}
		if rangeIndex < 0 || rangeIndex >= len(out[i].LessonRanges) {
			continue
		}
		ranges := append([]LessonRange(nil), out[i].LessonRanges[:rangeIndex]...)
		out[i].LessonRanges = append(ranges, out[i].LessonRanges[rangeIndex+1:]...)
	}
	return out
}

// UpdateLessonRange edits one bound of a range. Start clamps to [1, end] and
// end clamps to >= start, so conflicting simultaneous edits resolve
// last-write-wins without ever producing an inverted range.
func UpdateLessonRange(placements []TemplatePlacement, templateID string, rangeIndex int, field string, value int) []TemplatePlacement {
	out := make([]TemplatePlacement, len(placements))
	copy(out, placements)
	for i := range out {
		if out[i].TemplateID != templateID || out[i].PlacementType != PlacementLessonRanges {
			continue
		}
		if rangeIndex < 0 || rangeIndex >= len(out[i].LessonRanges) {
			continue
		}
		ranges := append([]LessonRange(nil), out[i].LessonRanges...)
		r := ranges[rangeIndex]
		switch field {
		case "start":
			if value < 1 {
				value = 1
			}
			if value > r.End {
				value = r.End
			}
			r.Start = value
		case "end":
			if value < r.Start {
				value = r.Start
			}
			r.End = value
		}
		ranges[rangeIndex] = r
		out[i].LessonRanges = ranges
	}
	return out
}

// SyncWithTemplates drops placements whose template no longer resolves by id
// or slug, and relabels surviving entries with the catalog's current
// surrogate id and display name.
func SyncWithTemplates(placements []TemplatePlacement, templates []TemplateSummary) []TemplatePlacement {
	out := make([]TemplatePlacement, 0, len(placements))
	for _, p := range placements {
		var match *TemplateSummary
		for i := range templates {
			if templates[i].ID == p.TemplateID || (p.TemplateSlug != "" && templates[i].TemplateID == p.TemplateSlug) {
				match = &templates[i]
				break
			}
		}
		if match == nil {
			continue
		}
		p.TemplateID = match.ID
		p.TemplateSlug = match.TemplateID
		p.TemplateName = match.Name
		out = append(out, p)
	}
	return out
}

// SyncWithModules prunes module numbers that no longer exist.
func SyncWithModules(placements []TemplatePlacement, modules []Module) []TemplatePlacement {
	valid := make(map[int]bool, len(modules))
	for _, m := range modules {
		valid[m.ModuleNumber] = true
	}
	out := make([]TemplatePlacement, len(placements))
	copy(out, placements)
	for i := range out {
		if out[i].PlacementType != PlacementSpecificModules {
			continue
		}
		kept := make([]int, 0, len(out[i].ModuleNumbers))
		for _, n := range out[i].ModuleNumbers {
			if valid[n] {
				kept = append(kept, n)
			}
		}
		out[i].ModuleNumbers = kept
	}
	return out
}

// SyncWithLessons prunes lesson numbers outside 1..lessonCount and clamps
// ranges to the lesson list, dropping ranges that fall entirely outside it.
func SyncWithLessons(placements []TemplatePlacement, lessonCount int) []TemplatePlacement {
	out := make([]TemplatePlacement, len(placements))
	copy(out, placements)
	for i := range out {
		switch out[i].PlacementType {
		case PlacementSpecificLessons:
			kept := make([]int, 0, len(out[i].LessonNumbers))
			for _, n := range out[i].LessonNumbers {
				if n >= 1 && n <= lessonCount {
					kept = append(kept, n)
				}
			}
			out[i].LessonNumbers = kept
		case PlacementLessonRanges:
			kept := make([]LessonRange, 0, len(out[i].LessonRanges))
			for _, r := range out[i].LessonRanges {
				if r.Start > lessonCount || r.End < 1 {
					continue
				}
				if r.Start < 1 {
					r.Start = 1
				}
				if r.End > lessonCount {
					r.End = lessonCount
				}
				kept = append(kept, r)
			}
			out[i].LessonRanges = kept
		}
	}
	return out
}

// ApplyToLessons stamps each lesson with the first matching lesson-scoped
// placement in declaration order. Lessons matching none keep whatever
// template id they already carry.
func ApplyToLessons(placements []TemplatePlacement, lessons []Lesson) []Lesson {
	out := make([]Lesson, len(lessons))
	copy(out, lessons)
	for i := range out {
		for _, p := range placements {
			if placementMatchesLesson(p, out[i].LessonNumber) {
				out[i].TemplateID = p.TemplateID
				break
			}
		}
	}
	return out
}

func placementMatchesLesson(p TemplatePlacement, lessonNumber int) bool {
	switch p.PlacementType {
	case PlacementAllLessons:
		return true
	case PlacementSpecificLessons:
		for _, n := range p.LessonNumbers {
			if n == lessonNumber {
				return true
			}
		}
	case PlacementLessonRanges:
		for _, r := range p.LessonRanges {
			if lessonNumber >= r.Start && lessonNumber <= r.End {
				return true
			}
		}
	}
	return false
}
