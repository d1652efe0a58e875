package templatedefs

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ParticlesofMind/neptino-sub010/internal/curriculum"
)

//go:embed defs/*.yaml
var builtinFS embed.FS

// Definition is one seedable template: catalog fields plus its block layout.
type Definition struct {
	Slug        string                        `yaml:"slug"`
	Name        string                        `yaml:"name"`
	Type        string                        `yaml:"type"`
	Description string                        `yaml:"description"`
	Definition  curriculum.TemplateDefinition `yaml:"definition"`
}

// Loader holds a catalog of template definitions keyed by slug.
type Loader struct {
	mu   sync.RWMutex
	defs map[string]*Definition
}

func NewLoader() *Loader {
	return &Loader{defs: make(map[string]*Definition)}
}

// LoadBuiltins parses the embedded template files. The embedded set ships
// with the binary, so seeding never depends on a deploy-time directory.
func (l *Loader) LoadBuiltins() error {
	entries, err := builtinFS.ReadDir("defs")
	if err != nil {
		return fmt.Errorf("read embedded templates: %w", err)
	}
	for _, entry := range entries {
		raw, err := builtinFS.ReadFile("defs/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read embedded template %s: %w", entry.Name(), err)
		}
		if err := l.add(entry.Name(), raw); err != nil {
			return err
		}
	}
	return nil
}

// LoadDir layers template files from a directory over the builtins, so a
// deployment can override or extend the embedded set.
func (l *Loader) LoadDir(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil
	}
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read template file %s: %w", file, err)
		}
		if err := l.add(filepath.Base(file), raw); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) add(source string, raw []byte) error {
	var def Definition
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return fmt.Errorf("parse template %s: %w", source, err)
	}
	def.Slug = strings.TrimSpace(def.Slug)
	if def.Slug == "" {
		return fmt.Errorf("template %s: missing slug", source)
	}
	if def.Name == "" {
		def.Name = def.Slug
	}
	if def.Type == "" {
		def.Type = def.Definition.Type
	}
	if len(def.Definition.Blocks) == 0 {
		return fmt.Errorf("template %s: no blocks", source)
	}
	l.mu.Lock()
	l.defs[def.Slug] = &def
	l.mu.Unlock()
	return nil
}

func (l *Loader) Get(slug string) *Definition {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.defs[slug]
}

// All returns the catalog sorted by slug for deterministic seeding.
func (l *Loader) All() []*Definition {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Definition, 0, len(l.defs))
	for _, d := range l.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}
