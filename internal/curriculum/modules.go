package curriculum

import "fmt"

// OrganizeModules rebuilds the module list for an organization strategy.
// Stored titles are reapplied by module number, untitled modules get a
// default name, and lessons are renumbered 1..N in module order with their
// ModuleNumber set.
func OrganizeModules(lessons []Lesson, org ModuleOrganization, customBoundaries []int, titles map[int]string) []Module {
	var modules []Module
	switch org {
	case OrganizationEqual:
		modules = DistributeEqual(lessons)
	case OrganizationTiered:
		modules = DistributeTiered(lessons)
	case OrganizationCustom:
		modules = DistributeCustom(lessons, customBoundaries)
	default:
		modules = DistributeLinear(lessons)
	}
	return finalizeModules(modules, titles)
}

// DistributeLinear places every lesson in a single module 1.
func DistributeLinear(lessons []Lesson) []Module {
	out := append([]Lesson(nil), lessons...)
	return []Module{{ModuleNumber: 1, Lessons: out}}
}

// equalModuleCount buckets the lesson count into a module count.
func equalModuleCount(lessonCount int) int {
	switch {
	case lessonCount <= 3:
		return 1
	case lessonCount <= 6:
		return 2
	case lessonCount <= 12:
		return 3
	case lessonCount <= 24:
		return 4
	default:
		return (lessonCount + 5) / 6
	}
}

// DistributeEqual partitions lessons into near-equal modules. The remainder
// goes to the leading modules, so 11 lessons over 3 modules is [4,4,3],
// never [4,3,4] or [3,4,4].
func DistributeEqual(lessons []Lesson) []Module {
	if len(lessons) == 0 {
		return []Module{{ModuleNumber: 1, Lessons: []Lesson{}}}
	}
	n := equalModuleCount(len(lessons))
	base := len(lessons) / n
	remainder := len(lessons) % n

	modules := make([]Module, 0, n)
	idx := 0
	for i := 1; i <= n; i++ {
		size := base
		if i <= remainder {
			size++
		}
		modules = append(modules, Module{
			ModuleNumber: i,
			Lessons:      append([]Lesson(nil), lessons[idx:idx+size]...),
		})
		idx += size
	}
	return modules
}

// DistributeTiered splits lessons into intro/core/assessment at roughly
// 20/60/20, each tier at least one lesson. Fewer than three lessons fall
// back to one module per lesson.
func DistributeTiered(lessons []Lesson) []Module {
	n := len(lessons)
	if n == 0 {
		return []Module{{ModuleNumber: 1, Lessons: []Lesson{}}}
	}
	if n < 3 {
		modules := make([]Module, 0, n)
		for i := range lessons {
			modules = append(modules, Module{
				ModuleNumber: i + 1,
				Lessons:      append([]Lesson(nil), lessons[i:i+1]...),
			})
		}
		return modules
	}
	intro := ceilFraction(n, 0.2)
	assessment := ceilFraction(n, 0.2)
	core := n - intro - assessment
	if core < 1 {
		core = 1
		assessment = n - intro - core
	}
	return []Module{
		{ModuleNumber: 1, Lessons: append([]Lesson(nil), lessons[:intro]...)},
		{ModuleNumber: 2, Lessons: append([]Lesson(nil), lessons[intro:intro+core]...)},
		{ModuleNumber: 3, Lessons: append([]Lesson(nil), lessons[intro+core:]...)},
	}
}

func ceilFraction(n int, f float64) int {
	v := int(float64(n) * f)
	if float64(v) < float64(n)*f {
		v++
	}
	if v < 1 {
		v = 1
	}
	return v
}

// DistributeCustom slices the lesson list at user-defined end-lesson
// boundaries. Boundaries are sanitized: clamped to the lesson count, strictly
// increasing, and a missing final boundary is implied.
func DistributeCustom(lessons []Lesson, boundaries []int) []Module {
	if len(lessons) == 0 {
		return []Module{{ModuleNumber: 1, Lessons: []Lesson{}}}
	}
	clean := make([]int, 0, len(boundaries))
	prev := 0
	for _, b := range boundaries {
		if b <= prev {
			continue
		}
		if b > len(lessons) {
			b = len(lessons)
		}
		if b <= prev {
			continue
		}
		clean = append(clean, b)
		prev = b
	}
	if len(clean) == 0 || clean[len(clean)-1] != len(lessons) {
		clean = append(clean, len(lessons))
	}

	modules := make([]Module, 0, len(clean))
	start := 0
	for i, end := range clean {
		modules = append(modules, Module{
			ModuleNumber: i + 1,
			Lessons:      append([]Lesson(nil), lessons[start:end]...),
		})
		start = end
	}
	return modules
}

func finalizeModules(modules []Module, titles map[int]string) []Module {
	lessonNumber := 0
	for i := range modules {
		if title, ok := titles[modules[i].ModuleNumber]; ok && title != "" {
			modules[i].Title = title
		} else if modules[i].Title == "" {
			modules[i].Title = fmt.Sprintf("Module %d", modules[i].ModuleNumber)
		}
		for j := range modules[i].Lessons {
			lessonNumber++
			modules[i].Lessons[j].LessonNumber = lessonNumber
			modules[i].Lessons[j].ModuleNumber = modules[i].ModuleNumber
		}
	}
	return modules
}

// ModuleTitleRegistry extracts the current module titles keyed by number so
// they survive a strategy change or regeneration.
func ModuleTitleRegistry(modules []Module) map[int]string {
	out := make(map[int]string, len(modules))
	for _, m := range modules {
		if m.Title != "" {
			out[m.ModuleNumber] = m.Title
		}
	}
	return out
}
