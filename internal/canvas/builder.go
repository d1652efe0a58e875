package canvas

import (
	"fmt"

	"github.com/ParticlesofMind/neptino-sub010/internal/curriculum"
)

// Builder synthesizes canvas payloads from a lesson and a template
// definition. It is stateless beyond its geometry config.
type Builder struct {
	cfg Config
}

func NewBuilder(cfg Config) *Builder {
	if cfg.Dimensions.Width <= 0 || cfg.Dimensions.Height <= 0 {
		cfg = DefaultConfig()
	}
	return &Builder{cfg: cfg}
}

const (
	blockHeader     = "header"
	blockFooter     = "footer"
	blockProgram    = "program"
	blockResources  = "resources"
	blockContent    = "content"
	blockAssignment = "assignment"
)

// BuildLessonPayload builds a single layout tree: header band, body container
// with one node per non-header/footer block in definition order, footer band.
// A missing template yields the placeholder frame around an empty body.
func (b *Builder) BuildLessonPayload(lesson curriculum.Lesson, tmpl *curriculum.TemplateDefinition, fallbackNumber int) (Payload, Metadata) {
	lessonNumber := lesson.LessonNumber
	if lessonNumber == 0 {
		lessonNumber = fallbackNumber
	}
	var blocks []curriculum.TemplateBlock
	templateType := ""
	if tmpl != nil {
		blocks = tmpl.Blocks
		templateType = tmpl.Type
	}
	body := b.buildBody(lesson, lessonNumber, templateType, bodyBlocks(blocks))
	payload := b.framePayload(lessonNumber, blocks, body)
	meta := Metadata{
		CanvasIndex:  1,
		LessonNumber: lessonNumber,
		LessonTitle:  curriculum.DefaultLessonTitle(lesson),
		TemplateType: templateType,
		Structure:    curriculum.SummarizeLesson(lesson),
	}
	return payload, meta
}

// BuildLessonPayloads splits a "lesson" template into up to three canvases:
// program/resources (1), content (2), assignment (3). Each non-empty group
// gets a full tree sharing the same header and footer. Empty groups emit
// nothing; all groups empty falls back to the single-canvas path. Non-lesson
// templates always produce exactly one canvas at index 1.
func (b *Builder) BuildLessonPayloads(lesson curriculum.Lesson, tmpl *curriculum.TemplateDefinition, fallbackNumber int) []BuiltCanvas {
	if tmpl == nil || tmpl.Type != "lesson" {
		payload, meta := b.BuildLessonPayload(lesson, tmpl, fallbackNumber)
		return []BuiltCanvas{{Index: 1, Payload: payload, Metadata: meta}}
	}

	lessonNumber := lesson.LessonNumber
	if lessonNumber == 0 {
		lessonNumber = fallbackNumber
	}

	groups := []struct {
		index int
		types map[string]bool
	}{
		{IndexProgramResources, map[string]bool{blockProgram: true, blockResources: true}},
		{IndexContent, map[string]bool{blockContent: true}},
		{IndexAssignment, map[string]bool{blockAssignment: true}},
	}

	var out []BuiltCanvas
	for _, g := range groups {
		var grouped []curriculum.TemplateBlock
		for _, block := range bodyBlocks(tmpl.Blocks) {
			if g.types[block.Type] {
				grouped = append(grouped, block)
			}
		}
		if len(grouped) == 0 {
			continue
		}
		body := b.buildBody(lesson, lessonNumber, tmpl.Type, grouped)
		out = append(out, BuiltCanvas{
			Index:   g.index,
			Payload: b.framePayload(lessonNumber, tmpl.Blocks, body),
			Metadata: Metadata{
				CanvasIndex:  g.index,
				LessonNumber: lessonNumber,
				LessonTitle:  curriculum.DefaultLessonTitle(lesson),
				TemplateType: tmpl.Type,
				Structure:    curriculum.SummarizeLesson(lesson),
			},
		})
	}
	if len(out) == 0 {
		payload, meta := b.BuildLessonPayload(lesson, tmpl, fallbackNumber)
		return []BuiltCanvas{{Index: 1, Payload: payload, Metadata: meta}}
	}
	return out
}

func bodyBlocks(blocks []curriculum.TemplateBlock) []curriculum.TemplateBlock {
	var out []curriculum.TemplateBlock
	for _, block := range blocks {
		if block.Type == blockHeader || block.Type == blockFooter {
			continue
		}
		out = append(out, block)
	}
	return out
}

func (b *Builder) framePayload(lessonNumber int, blocks []curriculum.TemplateBlock, body Node) Payload {
	return Payload{
		Version:    PayloadVersion,
		Engine:     EngineTag,
		Dimensions: b.cfg.Dimensions,
		Margins:    b.cfg.Margins,
		Header:     b.bandNode(blockHeader, blocks, b.cfg.Margins.Top, lessonNumber),
		Body:       body,
		Footer:     b.bandNode(blockFooter, blocks, b.cfg.Margins.Bottom, lessonNumber),
	}
}

// bandNode builds the top or bottom margin band from the matching template
// block, synthesizing a placeholder when the template lacks one.
func (b *Builder) bandNode(kind string, blocks []curriculum.TemplateBlock, height float64, lessonNumber int) Node {
	for _, block := range blocks {
		if block.Type == kind {
			label := block.Label
			if label == "" {
				label = kind
			}
			h := block.Height
			if h <= 0 {
				h = height
			}
			return Node{
				ID:        fmt.Sprintf("%s-%d", kind, lessonNumber),
				Kind:      kind,
				BlockType: kind,
				Label:     label,
				Height:    h,
			}
		}
	}
	return Node{
		ID:        fmt.Sprintf("%s-%d", kind, lessonNumber),
		Kind:      kind,
		BlockType: kind,
		Label:     kind + " (placeholder)",
		Height:    height,
	}
}

func (b *Builder) buildBody(lesson curriculum.Lesson, lessonNumber int, templateType string, blocks []curriculum.TemplateBlock) Node {
	body := Node{
		ID:   fmt.Sprintf("body-%d", lessonNumber),
		Kind: "body",
	}
	for i, block := range blocks {
		node := Node{
			ID:        fmt.Sprintf("block-%d-%d-%s", lessonNumber, i+1, block.Type),
			Kind:      "block",
			BlockType: block.Type,
			Label:     block.Label,
			Height:    block.Height,
		}
		switch block.Type {
		case blockContent:
			// content fills the remaining page space
			node.FlexGrow = 1
			node.Height = 0
			node.Children = contentChildren(lesson, lessonNumber)
		case blockProgram:
			if templateType == "lesson" {
				node.Children = programChildren(lesson, lessonNumber)
			}
		}
		body.Children = append(body.Children, node)
	}
	return body
}

// contentChildren maps the lesson's topic structure into nested nodes:
// topic -> objectives -> the tasks owned by each objective.
func contentChildren(lesson curriculum.Lesson, lessonNumber int) []Node {
	var out []Node
	for ti, topic := range lesson.Topics {
		topicNode := Node{
			ID:    fmt.Sprintf("topic-%d-%d", lessonNumber, ti+1),
			Kind:  "topic",
			Label: topic.Title,
		}
		perObjective := 0
		if len(topic.Objectives) > 0 {
			perObjective = len(topic.Tasks) / len(topic.Objectives)
		}
		for oi, objective := range topic.Objectives {
			objNode := Node{
				ID:   fmt.Sprintf("objective-%d-%d-%d", lessonNumber, ti+1, oi+1),
				Kind: "objective",
				Text: objective,
			}
			start := oi * perObjective
			end := start + perObjective
			if oi == len(topic.Objectives)-1 {
				end = len(topic.Tasks)
			}
			for k := start; k < end && k < len(topic.Tasks); k++ {
				objNode.Children = append(objNode.Children, Node{
					ID:   fmt.Sprintf("task-%d-%d-%d-%d", lessonNumber, ti+1, oi+1, k+1),
					Kind: "task",
					Text: topic.Tasks[k],
				})
			}
			topicNode.Children = append(topicNode.Children, objNode)
		}
		out = append(out, topicNode)
	}
	return out
}

// programChildren builds the nested competencies -> topics -> objectives ->
// tasks program view. Tasks distribute across objectives by index range with
// tasksPerObjective = ceil(allTasks/objectives), ignoring ownership metadata.
func programChildren(lesson curriculum.Lesson, lessonNumber int) []Node {
	competencies := lesson.Competencies
	if len(competencies) == 0 {
		competencies = curriculum.DeriveCompetencies(lesson.Topics, curriculum.DefaultCompetencyStrategy(len(lesson.Topics)))
	}
	var out []Node
	for ci, comp := range competencies {
		compNode := Node{
			ID:    fmt.Sprintf("competency-%d-%d", lessonNumber, ci+1),
			Kind:  "competency",
			Label: comp.Title,
		}
		for ti, topic := range comp.Topics {
			topicNode := Node{
				ID:    fmt.Sprintf("program-topic-%d-%d-%d", lessonNumber, ci+1, ti+1),
				Kind:  "topic",
				Label: topic.Title,
			}
			perObjective := 0
			if len(topic.Objectives) > 0 {
				perObjective = (len(topic.Tasks) + len(topic.Objectives) - 1) / len(topic.Objectives)
			}
			for oi, objective := range topic.Objectives {
				objNode := Node{
					ID:   fmt.Sprintf("program-objective-%d-%d-%d-%d", lessonNumber, ci+1, ti+1, oi+1),
					Kind: "objective",
					Text: objective,
				}
				start := oi * perObjective
				end := start + perObjective
				for k := start; k < end && k < len(topic.Tasks); k++ {
					objNode.Children = append(objNode.Children, Node{
						ID:   fmt.Sprintf("program-task-%d-%d-%d-%d-%d", lessonNumber, ci+1, ti+1, oi+1, k+1),
						Kind: "task",
						Text: topic.Tasks[k],
					})
				}
				topicNode.Children = append(topicNode.Children, objNode)
			}
			compNode.Children = append(compNode.Children, topicNode)
		}
		out = append(out, compNode)
	}
	return out
}
