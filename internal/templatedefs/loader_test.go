package templatedefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBuiltins(t *testing.T) {
	l := NewLoader()
	if err := l.LoadBuiltins(); err != nil {
		t.Fatalf("LoadBuiltins: %v", err)
	}
	lesson := l.Get("builtin-lesson")
	if lesson == nil {
		t.Fatalf("builtin-lesson missing")
	}
	if lesson.Type != "lesson" || lesson.Definition.Type != "lesson" {
		t.Fatalf("lesson type wrong: %q/%q", lesson.Type, lesson.Definition.Type)
	}
	types := map[string]bool{}
	for _, block := range lesson.Definition.Blocks {
		types[block.Type] = true
	}
	for _, want := range []string{"header", "program", "resources", "content", "assignment", "footer"} {
		if !types[want] {
			t.Fatalf("lesson template missing %q block", want)
		}
	}
	if l.Get("builtin-quiz") == nil || l.Get("builtin-assessment") == nil || l.Get("builtin-certificate") == nil {
		t.Fatalf("builtin set incomplete: %d defs", len(l.All()))
	}
}

func TestLoadDirOverridesBuiltins(t *testing.T) {
	dir := t.TempDir()
	override := `slug: builtin-quiz
name: Custom Quiz
type: quiz
definition:
  type: quiz
  blocks:
    - type: content
      label: Overridden
`
	if err := os.WriteFile(filepath.Join(dir, "quiz.yaml"), []byte(override), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	l := NewLoader()
	if err := l.LoadBuiltins(); err != nil {
		t.Fatalf("LoadBuiltins: %v", err)
	}
	if err := l.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if got := l.Get("builtin-quiz"); got == nil || got.Name != "Custom Quiz" {
		t.Fatalf("override not applied: %+v", got)
	}
}

func TestLoadDirRejectsBadDefinition(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: no slug\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	l := NewLoader()
	if err := l.LoadDir(dir); err == nil {
		t.Fatalf("expected error for slugless template")
	}
}
