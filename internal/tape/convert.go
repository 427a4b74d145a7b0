package tape

import (
	"encoding/json"
	"fmt"

	"github.com/jettrobinson87/the-tape/internal/normalize"
	"github.com/jettrobinson87/the-tape/internal/record"
	"github.com/jettrobinson87/the-tape/internal/redact"
)

// Convert runs the whole core pipeline on raw transcript text: parse,
// normalize, build. filenameHint is used for the fallback title; a
// non-empty titleOverride replaces the derived title outright, though it
// still passes through redaction. The call owns all of its state, so
// concurrent conversions of independent inputs are safe.
func Convert(raw []byte, filenameHint, titleOverride string, redactEnabled bool) (*Document, error) {
	// Pass-through: an already-built tape needs no conversion.
	if doc, ok := detectTape(raw); ok {
		return doc, nil
	}

	records := record.Parse(raw)

	transcript, err := normalize.Normalize(records, filenameHint)
	if err != nil {
		return nil, err
	}
	if titleOverride != "" {
		transcript.Title = titleOverride
	}

	var applier redact.Applier = redact.Noop{}
	if redactEnabled {
		r, err := redact.NewDefault()
		if err != nil {
			return nil, fmt.Errorf("compile redaction rules: %w", err)
		}
		applier = r
	}

	return Build(transcript, applier), nil
}

// detectTape recognizes input that is already a well-formed Tape v1
// document and decodes it as-is.
func detectTape(raw []byte) (*Document, bool) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false
	}
	if doc.Schema != SchemaURL || doc.Version != Version {
		return nil, false
	}
	return &doc, true
}
