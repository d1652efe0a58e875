package canvas

import "github.com/ParticlesofMind/neptino-sub010/internal/curriculum"

const (
	// PayloadVersion tags every generated layout tree so older editors can
	// detect payloads they cannot render.
	PayloadVersion = "2"
	EngineTag      = "neptino-layout"
)

// Canvas indices for the lesson template's three sub-canvases.
const (
	IndexProgramResources = 1
	IndexContent          = 2
	IndexAssignment       = 3
)

type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Margins struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// Config carries the page geometry resolved from app configuration.
type Config struct {
	Dimensions Dimensions
	Margins    Margins
}

func DefaultConfig() Config {
	return Config{
		Dimensions: Dimensions{Width: 794, Height: 1123}, // A4 at 96dpi
		Margins:    Margins{Top: 57, Bottom: 57, Left: 57, Right: 57},
	}
}

// Node is one element of the hierarchical layout tree.
type Node struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"` // header | footer | body | block | topic | objective | task | competency
	BlockType string  `json:"blockType,omitempty"`
	Label     string  `json:"label,omitempty"`
	Text      string  `json:"text,omitempty"`
	Height    float64 `json:"height,omitempty"`
	FlexGrow  float64 `json:"flexGrow,omitempty"`
	Children  []Node  `json:"children,omitempty"`
}

// Payload is one canvas record's layout tree plus geometry.
type Payload struct {
	Version    string     `json:"version"`
	Engine     string     `json:"engine"`
	Dimensions Dimensions `json:"dimensions"`
	Margins    Margins    `json:"margins"`
	Header     Node       `json:"header"`
	Body       Node       `json:"body"`
	Footer     Node       `json:"footer"`
}

// Metadata describes a canvas without re-parsing its layout tree.
type Metadata struct {
	CanvasIndex  int                         `json:"canvasIndex"`
	LessonNumber int                         `json:"lessonNumber"`
	LessonTitle  string                      `json:"lessonTitle"`
	TemplateID   string                      `json:"templateId,omitempty"`
	TemplateType string                      `json:"templateType,omitempty"`
	Structure    curriculum.StructureSummary `json:"structure"`
}

// BuiltCanvas pairs a payload with its metadata and target index.
type BuiltCanvas struct {
	Index    int
	Payload  Payload
	Metadata Metadata
}
