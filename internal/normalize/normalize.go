// Package normalize turns parsed transcript records into the canonical
// step sequence used by the tape builder. It is a single forward pass;
// step order and call/result pairing depend on the walk being sequential.
package normalize

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jettrobinson87/the-tape/internal/record"
)

// ErrNoMessages is returned when the input contains no message-shaped
// records at all, meaning it is not a recognizable transcript.
var ErrNoMessages = errors.New("no message records found in transcript")

// Step types.
const (
	StepUser    = "user"
	StepThought = "thought"
	StepAction  = "action"
	StepResult  = "result"
	StepError   = "error"
)

// Serialization caps for embedded payload text. These bound the size of a
// single step, not the whole tape.
const (
	maxArgsLen    = 6000
	maxPartLen    = 2000
	maxPayloadLen = 4000

	maxTitleLen = 64
)

const truncationMarker = "\n…(truncated)…"

// errPattern is the tool-outcome error heuristic. Combined with explicit
// error flags it can misclassify benign text mentioning "exception"; that
// false-positive rate is accepted.
var errPattern = regexp.MustCompile(`(?i)error|exception|traceback`)

// Step is one canonical unit of the replay sequence.
type Step struct {
	Type    string  // user, thought, action, result, error
	Elapsed float64 // seconds since the session's first timestamp
	Text    string  // short label or description
	Code    string  // optional longer body / detail payload
	Tool    string  // tool name, action steps only
}

// Transcript is the normalized output consumed by the tape builder.
type Transcript struct {
	Title      string
	RecordedAt string
	Duration   float64
	Steps      []Step
}

// Normalize walks records in order and produces the canonical step
// sequence. filenameHint is the fallback title when no user text exists.
func Normalize(records []record.Record, filenameHint string) (*Transcript, error) {
	var session *record.Record
	var messages []record.Record
	for i := range records {
		switch records[i].Shape() {
		case record.ShapeSession:
			if session == nil {
				session = &records[i]
			}
		case record.ShapeMessage:
			messages = append(messages, records[i])
		}
		// Unknown shapes are ignored.
	}

	if len(messages) == 0 {
		return nil, ErrNoMessages
	}

	startTime := messages[0].Time()
	if startTime.IsZero() && session != nil {
		startTime = session.Time()
	}
	if startTime.IsZero() {
		startTime = time.Now().UTC()
	}

	var steps []Step
	var toolStack []int // indices of open action steps, most recent last

	for i := range messages {
		rec := &messages[i]

		ts := rec.Time()
		if ts.IsZero() {
			ts = startTime
		}
		elapsed := ts.Sub(startTime).Seconds()
		if elapsed < 0 {
			elapsed = 0
		}

		switch rec.EffectiveRole() {
		case "user":
			for _, c := range rec.ContentBlocks() {
				if c.Type == "text" && c.Text != "" {
					steps = append(steps, Step{Type: StepUser, Elapsed: elapsed, Text: c.Text})
				}
			}

		case "assistant":
			for _, c := range rec.ContentBlocks() {
				switch c.Type {
				case "thinking":
					if text := firstNonEmpty(c.Text, c.Thinking); text != "" {
						steps = append(steps, Step{Type: StepThought, Elapsed: elapsed, Text: text})
					}
				case "text":
					if c.Text != "" {
						steps = append(steps, Step{Type: StepResult, Elapsed: elapsed, Text: c.Text})
					}
				case "toolCall":
					tool := firstNonEmpty(c.Name, c.Tool, "tool")
					args := firstRaw(c.Args, c.Arguments, c.Params, c.Input)
					code := ""
					if args != nil {
						code = boundedJSON(args, maxArgsLen)
					}
					steps = append(steps, Step{Type: StepAction, Elapsed: elapsed, Text: tool, Code: code, Tool: tool})
					toolStack = append(toolStack, len(steps)-1)
				}
			}

		case "toolResult":
			payload := resultPayload(rec)
			isErr := rec.MarkedAsError() || errPattern.MatchString(payload)

			if n := len(toolStack); n > 0 {
				idx := toolStack[n-1]
				toolStack = toolStack[:n-1]
				if idx >= 0 && idx < len(steps) && steps[idx].Type == StepAction {
					var combined []string
					if steps[idx].Code != "" {
						combined = append(combined, "call:\n"+steps[idx].Code)
					}
					label := "result:\n"
					if isErr {
						label = "error:\n"
					}
					combined = append(combined, label+payload)
					steps[idx].Code = strings.Join(combined, "\n\n")
					if isErr {
						steps = append(steps, Step{Type: StepError, Elapsed: elapsed, Text: "Tool error", Code: payload})
					}
					continue
				}
			}

			// Orphan result: no open call to attach to.
			if isErr {
				steps = append(steps, Step{Type: StepError, Elapsed: elapsed, Text: "Tool error", Code: payload})
			} else {
				steps = append(steps, Step{Type: StepResult, Elapsed: elapsed, Text: "Tool result", Code: payload})
			}
		}
	}

	return &Transcript{
		Title:      resolveTitle(steps, filenameHint, session),
		RecordedAt: resolveRecordedAt(session),
		Duration:   maxElapsed(steps),
		Steps:      steps,
	}, nil
}

// resultPayload builds the combined outcome text of a toolResult record:
// text blocks joined in order, else a bounded serialization of the whole
// message payload (the record itself for flattened records).
func resultPayload(rec *record.Record) string {
	blocks := rec.ContentBlocks()

	var parts []string
	if len(blocks) > 0 {
		for _, c := range blocks {
			if c.Type == "text" && c.Text != "" {
				parts = append(parts, c.Text)
			} else {
				parts = append(parts, boundedJSON(c.Raw(), maxPartLen))
			}
		}
	} else if rec.Message != nil {
		parts = append(parts, boundedJSON(rec.Message.Raw, maxPayloadLen))
	} else {
		parts = append(parts, boundedJSON(rec.Raw, maxPayloadLen))
	}

	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n\n")
}

// boundedJSON renders raw JSON as indented text, truncated with an
// explicit marker beyond maxLen.
func boundedJSON(raw json.RawMessage, maxLen int) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		s = str
	} else {
		var buf strings.Builder
		var v any
		if err := json.Unmarshal(raw, &v); err == nil {
			enc := json.NewEncoder(&buf)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			if err := enc.Encode(v); err == nil {
				s = strings.TrimSuffix(buf.String(), "\n")
			}
		}
		if s == "" {
			s = string(raw)
		}
	}

	if len(s) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + truncationMarker
	}
	return s
}

func resolveTitle(steps []Step, filenameHint string, session *record.Record) string {
	for _, s := range steps {
		if s.Type == StepUser && strings.TrimSpace(s.Text) != "" {
			t := strings.TrimSpace(s.Text)
			if r := []rune(t); len(r) > maxTitleLen {
				return string(r[:maxTitleLen]) + "…"
			}
			return t
		}
	}
	if filenameHint != "" {
		return filenameHint
	}
	if session != nil {
		if key := firstNonEmpty(session.SessionKey, session.Key); key != "" {
			return key
		}
	}
	return "Untitled session"
}

func resolveRecordedAt(session *record.Record) string {
	if session != nil && session.Timestamp != "" {
		return session.Timestamp
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func maxElapsed(steps []Step) float64 {
	var max float64
	for _, s := range steps {
		if s.Elapsed > max {
			max = s.Elapsed
		}
	}
	return max
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstRaw(values ...json.RawMessage) json.RawMessage {
	for _, v := range values {
		if len(v) > 0 && string(v) != "null" {
			return v
		}
	}
	return nil
}
