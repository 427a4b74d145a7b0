package player

import (
	"fmt"
	"io"

	"github.com/jettrobinson87/the-tape/internal/tape"
)

// stepGlyph maps step types to their display glyphs.
var stepGlyph = map[string]string{
	"user":    "💬",
	"thought": "💭",
	"action":  "🔧",
	"result":  "📤",
	"error":   "❌",
}

// StepGlyph returns a glyph for the given step type.
// Returns "•" for unknown types.
func StepGlyph(stepType string) string {
	if glyph, ok := stepGlyph[stepType]; ok {
		return glyph
	}
	return "•"
}

// StepLabel returns the short one-line label for a step.
func StepLabel(step tape.DocStep) string {
	switch step.Type {
	case "user", "thought":
		return step.Content.Text
	case "action":
		return step.Content.Tool
	case "error":
		return step.Content.Message
	default:
		return step.Content.Description
	}
}

// TruncateText truncates text to maxLen characters, replacing newlines
// with spaces. If truncated, adds "..." suffix.
func TruncateText(s string, maxLen int) string {
	text := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\n' || r == '\r' {
			r = ' '
		}
		text = append(text, r)
	}

	if len(text) <= maxLen {
		return string(text)
	}
	if maxLen <= 3 {
		return string(text[:maxLen])
	}
	return string(text[:maxLen-3]) + "..."
}

func formatElapsed(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Dump writes a plain-text rendering of the tape, one step per line.
// Used for non-interactive output (piping).
func Dump(w io.Writer, doc *tape.Document) {
	fmt.Fprintf(w, "%s\n", doc.Metadata.Title)
	fmt.Fprintf(w, "Recorded: %s  Duration: %.0fs  Steps: %d  Errors: %d\n\n",
		doc.Metadata.RecordedAt, doc.Metadata.DurationSeconds, doc.Summary.Steps, doc.Summary.Errors)

	for _, step := range doc.Steps {
		fmt.Fprintf(w, "[%s] %s %s %s\n", step.ID, formatElapsed(step.ElapsedSeconds),
			StepGlyph(step.Type), TruncateText(StepLabel(step), 100))
	}
}
