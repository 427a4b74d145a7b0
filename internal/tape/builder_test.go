package tape

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/jettrobinson87/the-tape/internal/normalize"
	"github.com/jettrobinson87/the-tape/internal/redact"
)

func defaultRedactor(t *testing.T) *redact.Redactor {
	t.Helper()
	r, err := redact.NewDefault()
	if err != nil {
		t.Fatalf("redact.NewDefault() error: %v", err)
	}
	return r
}

func TestBuildContentShapes(t *testing.T) {
	transcript := &normalize.Transcript{
		Title:      "shapes",
		RecordedAt: "2026-01-01T00:00:00Z",
		Duration:   4,
		Steps: []normalize.Step{
			{Type: normalize.StepUser, Elapsed: 0, Text: "hello"},
			{Type: normalize.StepThought, Elapsed: 1, Text: "hmm"},
			{Type: normalize.StepAction, Elapsed: 2, Text: "grep", Code: "call:\n{}", Tool: "grep"},
			{Type: normalize.StepError, Elapsed: 3, Text: "Tool error", Code: "stack trace"},
			{Type: normalize.StepResult, Elapsed: 4, Text: "done", Code: "detail"},
		},
	}

	doc := Build(transcript, redact.Noop{})

	if len(doc.Steps) != 5 {
		t.Fatalf("got %d steps, want 5", len(doc.Steps))
	}

	if doc.Steps[0].Content.Text != "hello" {
		t.Errorf("user content = %+v, want {text}", doc.Steps[0].Content)
	}
	if doc.Steps[1].Content.Text != "hmm" {
		t.Errorf("thought content = %+v, want {text}", doc.Steps[1].Content)
	}

	action := doc.Steps[2].Content
	if action.Tool != "grep" || action.Description != "grep" || action.Output != "call:\n{}" {
		t.Errorf("action content = %+v, want tool/description/output", action)
	}

	errContent := doc.Steps[3].Content
	if errContent.Message != "Tool error" || errContent.StackPreview != "stack trace" {
		t.Errorf("error content = %+v, want message/stack_preview", errContent)
	}

	result := doc.Steps[4].Content
	if result.Description != "done" || result.Details != "detail" {
		t.Errorf("result content = %+v, want description/details", result)
	}

	for i, s := range doc.Steps {
		wantID := []string{"step_1", "step_2", "step_3", "step_4", "step_5"}[i]
		if s.ID != wantID {
			t.Errorf("steps[%d].ID = %q, want %q", i, s.ID, wantID)
		}
		if s.Timestamp != nil {
			t.Errorf("steps[%d].Timestamp = %v, want nil", i, s.Timestamp)
		}
	}

	if doc.Summary.Steps != 5 || doc.Summary.Errors != 1 {
		t.Errorf("summary = %+v, want 5 steps 1 error", doc.Summary)
	}
	if !reflect.DeepEqual(doc.Summary.ToolsUsed, []string{"grep"}) {
		t.Errorf("tools_used = %v, want [grep]", doc.Summary.ToolsUsed)
	}
}

func TestBuildRedactsAllTextFields(t *testing.T) {
	transcript := &normalize.Transcript{
		Title:      "help with alice@example.com",
		RecordedAt: "2026-01-01T00:00:00Z",
		Steps: []normalize.Step{
			{Type: normalize.StepUser, Text: "my key is sk-abcdefghijklmnopqrstuvwx"},
			{Type: normalize.StepAction, Text: "fetch", Tool: "fetch",
				Code: "call:\n{\"url\": \"postgres://u:p@h/db\"}"},
		},
	}

	doc := Build(transcript, defaultRedactor(t))

	if doc.Metadata.Title != "help with [email-redacted]" {
		t.Errorf("title = %q, want email redacted", doc.Metadata.Title)
	}
	if !strings.Contains(doc.Steps[0].Content.Text, "sk-REDACTED") {
		t.Errorf("user text = %q, want key redacted", doc.Steps[0].Content.Text)
	}
	if strings.Contains(doc.Steps[0].Content.Text, "abcdefghijklmnopqrstuvwx") {
		t.Errorf("user text = %q, key suffix survived", doc.Steps[0].Content.Text)
	}
	if !strings.Contains(doc.Steps[1].Content.Output, "[db-connection-redacted]") {
		t.Errorf("action output = %q, want database URI redacted", doc.Steps[1].Content.Output)
	}
}

func TestBuildToolsSortedDistinct(t *testing.T) {
	transcript := &normalize.Transcript{
		Title: "t", RecordedAt: "2026-01-01T00:00:00Z",
		Steps: []normalize.Step{
			{Type: normalize.StepAction, Text: "write", Tool: "write"},
			{Type: normalize.StepAction, Text: "bash", Tool: "bash"},
			{Type: normalize.StepAction, Text: "write", Tool: "write"},
		},
	}

	doc := Build(transcript, redact.Noop{})
	if !reflect.DeepEqual(doc.Summary.ToolsUsed, []string{"bash", "write"}) {
		t.Errorf("tools_used = %v, want [bash write]", doc.Summary.ToolsUsed)
	}
}

func TestBuildEmptyActionOutputOmitted(t *testing.T) {
	transcript := &normalize.Transcript{
		Title: "t", RecordedAt: "2026-01-01T00:00:00Z",
		Steps: []normalize.Step{
			{Type: normalize.StepAction, Text: "noop", Tool: "noop"},
		},
	}

	doc := Build(transcript, redact.Noop{})
	data, err := json.Marshal(doc.Steps[0])
	if err != nil {
		t.Fatalf("marshal step: %v", err)
	}
	if strings.Contains(string(data), `"output"`) {
		t.Errorf("step JSON %s contains output for empty detail", data)
	}
}

func TestBuildTimestampIsExplicitNull(t *testing.T) {
	transcript := &normalize.Transcript{
		Title: "t", RecordedAt: "2026-01-01T00:00:00Z",
		Steps: []normalize.Step{{Type: normalize.StepUser, Text: "hi"}},
	}

	doc := Build(transcript, redact.Noop{})
	data, err := json.Marshal(doc.Steps[0])
	if err != nil {
		t.Fatalf("marshal step: %v", err)
	}
	if !strings.Contains(string(data), `"timestamp":null`) {
		t.Errorf("step JSON %s lacks explicit null timestamp", data)
	}
}
