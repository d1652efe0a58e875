package curriculum

import "testing"

func lessonsOf(n int) []Lesson {
	return RenumberLessons(make([]Lesson, n))
}

func moduleSizes(modules []Module) []int {
	out := make([]int, 0, len(modules))
	for _, m := range modules {
		out = append(out, len(m.Lessons))
	}
	return out
}

func TestDistributeEqualRemainderLeading(t *testing.T) {
	modules := DistributeEqual(lessonsOf(11))
	sizes := moduleSizes(modules)
	if len(sizes) != 3 || sizes[0] != 4 || sizes[1] != 4 || sizes[2] != 3 {
		t.Fatalf("11 lessons = %v, want [4 4 3]", sizes)
	}
}

func TestDistributeEqualInvariants(t *testing.T) {
	for n := 1; n <= 60; n++ {
		modules := DistributeEqual(lessonsOf(n))
		total := 0
		min, max := 1<<30, 0
		for _, m := range modules {
			total += len(m.Lessons)
			if len(m.Lessons) < min {
				min = len(m.Lessons)
			}
			if len(m.Lessons) > max {
				max = len(m.Lessons)
			}
		}
		if total != n {
			t.Fatalf("n=%d: module sizes sum to %d", n, total)
		}
		if max-min > 1 {
			t.Fatalf("n=%d: sizes differ by more than 1: %v", n, moduleSizes(modules))
		}
		sizes := moduleSizes(modules)
		for i := 1; i < len(sizes); i++ {
			if sizes[i] > sizes[i-1] {
				t.Fatalf("n=%d: larger modules must come first: %v", n, sizes)
			}
		}
	}
}

func TestDistributeEqualBuckets(t *testing.T) {
	cases := map[int]int{1: 1, 3: 1, 4: 2, 6: 2, 7: 3, 12: 3, 13: 4, 24: 4, 25: 5, 30: 5, 31: 6}
	for n, want := range cases {
		if got := len(DistributeEqual(lessonsOf(n))); got != want {
			t.Fatalf("n=%d: module count = %d, want %d", n, got, want)
		}
	}
}

func TestDistributeTiered(t *testing.T) {
	modules := DistributeTiered(lessonsOf(10))
	sizes := moduleSizes(modules)
	if len(sizes) != 3 || sizes[0] != 2 || sizes[2] != 2 || sizes[1] != 6 {
		t.Fatalf("10 lessons tiered = %v, want [2 6 2]", sizes)
	}
	modules = DistributeTiered(lessonsOf(3))
	sizes = moduleSizes(modules)
	if len(sizes) != 3 || sizes[0] != 1 || sizes[1] != 1 || sizes[2] != 1 {
		t.Fatalf("3 lessons tiered = %v, want [1 1 1]", sizes)
	}
}

func TestDistributeCustomSanitizesBoundaries(t *testing.T) {
	modules := DistributeCustom(lessonsOf(10), []int{3, 3, 2, 7, 99})
	sizes := moduleSizes(modules)
	if len(sizes) != 3 || sizes[0] != 3 || sizes[1] != 4 || sizes[2] != 3 {
		t.Fatalf("custom boundaries = %v, want [3 4 3]", sizes)
	}
	// missing final boundary is implied
	modules = DistributeCustom(lessonsOf(5), []int{2})
	sizes = moduleSizes(modules)
	if len(sizes) != 2 || sizes[0] != 2 || sizes[1] != 3 {
		t.Fatalf("implied tail = %v, want [2 3]", sizes)
	}
}

func TestOrganizeModulesLinearForcesModuleOne(t *testing.T) {
	lessons := lessonsOf(4)
	for i := range lessons {
		lessons[i].ModuleNumber = 7
	}
	modules := OrganizeModules(lessons, OrganizationLinear, nil, nil)
	if len(modules) != 1 {
		t.Fatalf("linear should yield one module, got %d", len(modules))
	}
	for _, l := range modules[0].Lessons {
		if l.ModuleNumber != 1 {
			t.Fatalf("lesson %d module = %d, want 1", l.LessonNumber, l.ModuleNumber)
		}
	}
}

func TestOrganizeModulesTitlesSurviveStrategyChange(t *testing.T) {
	lessons := lessonsOf(12)
	equal := OrganizeModules(lessons, OrganizationEqual, nil, map[int]string{2: "Core Skills"})
	if equal[1].Title != "Core Skills" {
		t.Fatalf("stored title not applied: %q", equal[1].Title)
	}
	if equal[0].Title != "Module 1" {
		t.Fatalf("default title missing: %q", equal[0].Title)
	}
	registry := ModuleTitleRegistry(equal)
	tiered := OrganizeModules(lessons, OrganizationTiered, nil, registry)
	if tiered[1].Title != "Core Skills" {
		t.Fatalf("title lost across strategy change: %q", tiered[1].Title)
	}
}

func TestOrganizeModulesRenumbersLessons(t *testing.T) {
	modules := OrganizeModules(lessonsOf(11), OrganizationEqual, nil, nil)
	next := 1
	for _, m := range modules {
		for _, l := range m.Lessons {
			if l.LessonNumber != next {
				t.Fatalf("lesson number %d, want %d", l.LessonNumber, next)
			}
			if l.ModuleNumber != m.ModuleNumber {
				t.Fatalf("lesson %d carries module %d inside module %d", l.LessonNumber, l.ModuleNumber, m.ModuleNumber)
			}
			next++
		}
	}
	if next != 12 {
		t.Fatalf("renumbering covered %d lessons, want 11", next-1)
	}
}
