package player

import (
	"strings"
	"testing"

	"github.com/jettrobinson87/the-tape/internal/tape"
)

func TestStepGlyph(t *testing.T) {
	tests := []struct {
		stepType string
		want     string
	}{
		{"user", "💬"},
		{"thought", "💭"},
		{"action", "🔧"},
		{"result", "📤"},
		{"error", "❌"},
		{"mystery", "•"},
	}
	for _, tt := range tests {
		if got := StepGlyph(tt.stepType); got != tt.want {
			t.Errorf("StepGlyph(%q) = %q, want %q", tt.stepType, got, tt.want)
		}
	}
}

func TestStepLabel(t *testing.T) {
	tests := []struct {
		name string
		step tape.DocStep
		want string
	}{
		{
			name: "user shows text",
			step: tape.DocStep{Type: "user", Content: tape.Content{Text: "fix the bug"}},
			want: "fix the bug",
		},
		{
			name: "thought shows text",
			step: tape.DocStep{Type: "thought", Content: tape.Content{Text: "hmm"}},
			want: "hmm",
		},
		{
			name: "action shows tool",
			step: tape.DocStep{Type: "action", Content: tape.Content{Tool: "grep"}},
			want: "grep",
		},
		{
			name: "error shows message",
			step: tape.DocStep{Type: "error", Content: tape.Content{Message: "boom"}},
			want: "boom",
		},
		{
			name: "result shows description",
			step: tape.DocStep{Type: "result", Content: tape.Content{Description: "Result"}},
			want: "Result",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StepLabel(tt.step); got != tt.want {
				t.Errorf("StepLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"short untouched", "hello", 10, "hello"},
		{"exact fit", "hello", 5, "hello"},
		{"truncated with ellipsis", "hello world", 8, "hello..."},
		{"newlines become spaces", "a\nb\rc", 10, "a b c"},
		{"tiny max skips ellipsis", "hello", 3, "hel"},
		{"multibyte runes", "héllo wörld", 8, "héllo..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateText(tt.in, tt.maxLen); got != tt.want {
				t.Errorf("TruncateText(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00"},
		{7, "00:07"},
		{65, "01:05"},
		{3599.9, "59:59"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.seconds); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestDump(t *testing.T) {
	doc := &tape.Document{
		Metadata: tape.Metadata{Title: "fix bug", RecordedAt: "2026-01-05T10:00:00Z", DurationSeconds: 15},
		Summary:  tape.Summary{Steps: 2, Errors: 0},
		Steps: []tape.DocStep{
			{ID: "step_0", Type: "user", ElapsedSeconds: 0, Content: tape.Content{Text: "please fix\nthe login bug"}},
			{ID: "step_1", Type: "action", ElapsedSeconds: 65, Content: tape.Content{Tool: "grep"}},
		},
	}

	var sb strings.Builder
	Dump(&sb, doc)
	out := sb.String()

	for _, want := range []string{
		"fix bug\n",
		"Duration: 15s",
		"[step_0] 00:00 💬 please fix the login bug",
		"[step_1] 01:05 🔧 grep",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Dump() output missing %q\noutput:\n%s", want, out)
		}
	}
}
