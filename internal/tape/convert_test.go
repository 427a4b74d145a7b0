package tape

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/jettrobinson87/the-tape/internal/normalize"
)

const sampleTranscript = `{"type":"session","timestamp":"2026-01-01T00:00:00Z"}
{"type":"message","message":{"role":"user","content":[{"type":"text","text":"fix bug"}]}}
{"type":"message","message":{"role":"assistant","content":[{"type":"toolCall","name":"grep","args":{"q":"TODO"}}]}}
{"type":"message","role":"toolResult","message":{"content":[{"type":"text","text":"3 matches"}]}}`

func TestConvertEndToEnd(t *testing.T) {
	doc, err := Convert([]byte(sampleTranscript), "session", "", true)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}

	if doc.Schema != SchemaURL {
		t.Errorf("$schema = %q, want %q", doc.Schema, SchemaURL)
	}
	if doc.Version != "1.0" {
		t.Errorf("version = %q, want 1.0", doc.Version)
	}
	if doc.Metadata.Title != "fix bug" {
		t.Errorf("title = %q, want %q", doc.Metadata.Title, "fix bug")
	}
	if doc.Metadata.RecordedAt != "2026-01-01T00:00:00Z" {
		t.Errorf("recorded_at = %q, want session timestamp", doc.Metadata.RecordedAt)
	}

	if len(doc.Steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(doc.Steps))
	}
	if doc.Steps[0].Type != "user" || doc.Steps[0].Content.Text != "fix bug" {
		t.Errorf("steps[0] = %+v, want user step %q", doc.Steps[0], "fix bug")
	}
	if doc.Steps[1].Type != "action" || doc.Steps[1].Content.Tool != "grep" {
		t.Errorf("steps[1] = %+v, want action step with tool grep", doc.Steps[1])
	}
	if !strings.Contains(doc.Steps[1].Content.Output, "3 matches") {
		t.Errorf("action output = %q, want it to contain %q", doc.Steps[1].Content.Output, "3 matches")
	}

	if !reflect.DeepEqual(doc.Summary.ToolsUsed, []string{"grep"}) {
		t.Errorf("tools_used = %v, want [grep]", doc.Summary.ToolsUsed)
	}
	if doc.Summary.Errors != 0 {
		t.Errorf("errors = %d, want 0", doc.Summary.Errors)
	}
}

func TestConvertDeterministic(t *testing.T) {
	first, err := Convert([]byte(sampleTranscript), "session", "", true)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	second, err := Convert([]byte(sampleTranscript), "session", "", true)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if !bytes.Equal(a, b) {
		t.Error("identical input did not produce byte-identical output")
	}
}

func TestConvertUnusableTranscript(t *testing.T) {
	inputs := []string{
		"",
		"plain text\nmore text",
		`{"type":"session","timestamp":"2026-01-01T00:00:00Z"}`,
		`{"type":"unknown-thing"}`,
	}

	for _, input := range inputs {
		doc, err := Convert([]byte(input), "hint", "", true)
		if !errors.Is(err, normalize.ErrNoMessages) {
			t.Errorf("Convert(%q) error = %v, want ErrNoMessages", input, err)
		}
		if doc != nil {
			t.Errorf("Convert(%q) returned a document despite error", input)
		}
	}
}

func TestConvertPassThrough(t *testing.T) {
	built, err := Convert([]byte(sampleTranscript), "session", "", true)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	data, err := json.MarshalIndent(built, "", "  ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	again, err := Convert(data, "ignored", "", true)
	if err != nil {
		t.Fatalf("Convert(tape) error: %v", err)
	}
	if !reflect.DeepEqual(built, again) {
		t.Error("well-formed tape input was not passed through unchanged")
	}
}

func TestConvertTitleOverride(t *testing.T) {
	doc, err := Convert([]byte(sampleTranscript), "session", "login fix, annotated", true)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if doc.Metadata.Title != "login fix, annotated" {
		t.Errorf("title = %q, want the override", doc.Metadata.Title)
	}

	// The override is user input and still gets redacted.
	doc, err = Convert([]byte(sampleTranscript), "session", "session with alice@example.com", true)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if doc.Metadata.Title != "session with [email-redacted]" {
		t.Errorf("title = %q, want redacted override", doc.Metadata.Title)
	}
}

func TestConvertNoRedact(t *testing.T) {
	input := `{"type":"message","message":{"role":"user","content":[{"type":"text","text":"mail alice@example.com"}]}}`

	doc, err := Convert([]byte(input), "hint", "", false)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if doc.Steps[0].Content.Text != "mail alice@example.com" {
		t.Errorf("text = %q, want unredacted", doc.Steps[0].Content.Text)
	}

	doc, err = Convert([]byte(input), "hint", "", true)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if doc.Steps[0].Content.Text != "mail [email-redacted]" {
		t.Errorf("text = %q, want redacted", doc.Steps[0].Content.Text)
	}
}
