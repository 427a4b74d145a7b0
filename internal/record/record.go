// Package record parses raw session transcripts into structured records.
// Transcripts are line-delimited JSON with loosely specified shapes;
// anything unrecognized is dropped rather than treated as an error.
package record

import (
	"encoding/json"
	"time"
)

// Shape identifies the recognized record shapes. Anything else is
// ShapeUnknown and is ignored by downstream stages.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeSession
	ShapeMessage
)

// Record represents a single parsed JSONL line. Some producers flatten
// the message fields onto the record itself, so error flags and content
// exist at both levels.
type Record struct {
	Type       string          `json:"type"`
	Role       string          `json:"role,omitempty"`
	Timestamp  string          `json:"timestamp,omitempty"`
	SessionKey string          `json:"sessionKey,omitempty"`
	Key        string          `json:"key,omitempty"`
	Message    *Message        `json:"message,omitempty"`
	Error      json.RawMessage `json:"error,omitempty"`
	IsError    json.RawMessage `json:"isError,omitempty"`
	RawContent json.RawMessage `json:"content,omitempty"`

	// Raw keeps the full record line for the whole-payload fallback when
	// a message-less toolResult carries no content blocks.
	Raw json.RawMessage `json:"-"`
}

// Message contains the role and content payload of a message record.
// Error and IsError are kept raw because transcripts carry them as bools,
// strings, or objects depending on the producer.
type Message struct {
	Role       string          `json:"role,omitempty"`
	Error      json.RawMessage `json:"error,omitempty"`
	IsError    json.RawMessage `json:"isError,omitempty"`
	RawContent json.RawMessage `json:"content,omitempty"`

	// Raw keeps the full message object for the whole-payload fallback
	// when a toolResult carries no content blocks.
	Raw json.RawMessage `json:"-"`
}

// ContentBlock is one typed part of a message's content list.
type ContentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	Thinking  string          `json:"thinking,omitempty"`
	Name      string          `json:"name,omitempty"`
	Tool      string          `json:"tool,omitempty"`
	Args      json.RawMessage `json:"args,omitempty"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
	Params    json.RawMessage `json:"params,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`

	raw json.RawMessage
}

// Raw returns the original JSON of the block, for bounded serialization
// of non-text result parts.
func (b *ContentBlock) Raw() json.RawMessage {
	return b.raw
}

// UnmarshalJSON keeps the original bytes alongside the decoded fields.
func (b *ContentBlock) UnmarshalJSON(data []byte) error {
	type alias ContentBlock
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*b = ContentBlock(a)
	b.raw = append(json.RawMessage(nil), data...)
	return nil
}

// UnmarshalJSON keeps the full message object for fallback serialization.
func (m *Message) UnmarshalJSON(data []byte) error {
	type alias Message
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = Message(a)
	m.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// UnmarshalJSON keeps the full record line for fallback serialization.
func (r *Record) UnmarshalJSON(data []byte) error {
	type alias Record
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = Record(a)
	r.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// Shape classifies the record by its discriminant fields.
func (r *Record) Shape() Shape {
	switch {
	case r.Type == "session":
		return ShapeSession
	case r.Type == "message" || r.Message != nil:
		return ShapeMessage
	default:
		return ShapeUnknown
	}
}

// EffectiveRole returns the message role, falling back to the record-level
// role and then "assistant" when neither is set.
func (r *Record) EffectiveRole() string {
	if r.Message != nil && r.Message.Role != "" {
		return r.Message.Role
	}
	if r.Role != "" {
		return r.Role
	}
	return "assistant"
}

// ContentBlocks returns the message's content list, falling back to the
// record-level content field. A non-list content yields nil.
func (r *Record) ContentBlocks() []ContentBlock {
	if r.Message != nil {
		if blocks := decodeBlocks(r.Message.RawContent); blocks != nil {
			return blocks
		}
	}
	return decodeBlocks(r.RawContent)
}

func decodeBlocks(raw json.RawMessage) []ContentBlock {
	if len(raw) == 0 {
		return nil
	}
	var blocks []ContentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return nil
	}
	return blocks
}

// Time parses the record's timestamp. The zero time signals missing or
// unparseable; a bad timestamp never aborts a conversion.
func (r *Record) Time() time.Time {
	return ParseTime(r.Timestamp)
}

// ParseTime parses an ISO-8601 timestamp, returning the zero time on failure.
func ParseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// MarkedAsError reports whether the record explicitly flags its payload as
// an error outcome. Flags on the message object take effect when one is
// present; flattened records carry them at the top level instead.
func (r *Record) MarkedAsError() bool {
	if r.Message != nil {
		return truthy(r.Message.Error) || truthy(r.Message.IsError)
	}
	return truthy(r.Error) || truthy(r.IsError)
}

func truthy(raw json.RawMessage) bool {
	switch string(raw) {
	case "", "null", "false", `""`, "0":
		return false
	}
	return true
}
