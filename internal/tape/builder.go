package tape

import (
	"fmt"
	"sort"

	"github.com/jettrobinson87/the-tape/internal/normalize"
	"github.com/jettrobinson87/the-tape/internal/redact"
)

// Build shapes a normalized transcript into a Tape v1 document, applying
// the redactor to every user-visible text field. It is a pure shaping
// pass: steps are neither reordered nor dropped, and no pairing or
// timestamp logic happens here.
func Build(t *normalize.Transcript, r redact.Applier) *Document {
	steps := make([]DocStep, 0, len(t.Steps))
	toolSet := make(map[string]struct{})
	errors := 0

	for i, s := range t.Steps {
		text := r.Apply(s.Text)
		code := r.Apply(s.Code)
		tool := ""
		if s.Tool != "" {
			tool = r.Apply(s.Tool)
		}

		var content Content
		switch s.Type {
		case normalize.StepUser, normalize.StepThought:
			content.Text = text
		case normalize.StepAction:
			content.Tool = tool
			if content.Tool == "" {
				content.Tool = "tool"
			}
			content.Description = text
			if code != "" {
				content.Output = code
			}
			toolSet[content.Tool] = struct{}{}
		case normalize.StepError:
			content.Message = text
			if content.Message == "" {
				content.Message = "Error"
			}
			if code != "" {
				content.StackPreview = code
			}
			errors++
		default:
			content.Description = text
			if content.Description == "" {
				content.Description = "Result"
			}
			if code != "" {
				content.Details = code
			}
		}

		steps = append(steps, DocStep{
			ID:             fmt.Sprintf("step_%d", i+1),
			Type:           s.Type,
			Timestamp:      nil,
			ElapsedSeconds: s.Elapsed,
			Content:        content,
		})
	}

	toolsUsed := make([]string, 0, len(toolSet))
	for tool := range toolSet {
		toolsUsed = append(toolsUsed, tool)
	}
	sort.Strings(toolsUsed)

	return &Document{
		Schema:  SchemaURL,
		Version: Version,
		Metadata: Metadata{
			Title:           r.Apply(t.Title),
			RecordedAt:      t.RecordedAt,
			DurationSeconds: t.Duration,
			Agent:           Agent{Name: "OpenClaw Agent", Version: "unknown"},
			Tags:            []string{"exported"},
		},
		Summary: Summary{
			Steps:     len(steps),
			ToolsUsed: toolsUsed,
			Errors:    errors,
		},
		Steps: steps,
	}
}
