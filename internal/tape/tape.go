// Package tape shapes normalized transcripts into Tape v1 documents.
package tape

// SchemaURL identifies the Tape v1 schema.
const SchemaURL = "https://the-tape.ai/schemas/tape.schema.json"

// Version is the Tape document version string.
const Version = "1.0"

// Document is the final shareable replay artifact. Once built it is
// read-only input for the player and any future signing step.
type Document struct {
	Schema   string    `json:"$schema"`
	Version  string    `json:"version"`
	Metadata Metadata  `json:"metadata"`
	Summary  Summary   `json:"summary"`
	Steps    []DocStep `json:"steps"`
}

// Metadata describes the recorded session.
type Metadata struct {
	Title           string   `json:"title"`
	RecordedAt      string   `json:"recorded_at"`
	DurationSeconds float64  `json:"duration_seconds"`
	Agent           Agent    `json:"agent"`
	Tags            []string `json:"tags"`
}

// Agent identifies the authoring agent.
type Agent struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Summary holds aggregate counts over the step sequence.
type Summary struct {
	Steps     int      `json:"steps"`
	ToolsUsed []string `json:"tools_used"`
	Errors    int      `json:"errors"`
}

// DocStep is one replayable step. Timestamp is always an explicit null:
// only relative elapsed seconds are meaningful, absolute wall-clock time
// is deliberately not embedded.
type DocStep struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	Timestamp      *string `json:"timestamp"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Content        Content `json:"content"`
}

// Content is the type-shaped payload of a step. Fields are populated
// per step type; unused ones are omitted from the JSON.
type Content struct {
	Text         string `json:"text,omitempty"`
	Tool         string `json:"tool,omitempty"`
	Description  string `json:"description,omitempty"`
	Output       string `json:"output,omitempty"`
	Message      string `json:"message,omitempty"`
	StackPreview string `json:"stack_preview,omitempty"`
	Details      string `json:"details,omitempty"`
}
