// Package workspace resolves where tapes are written and persists them.
// The conversion core performs no I/O; everything filesystem-shaped
// lives here.
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jettrobinson87/the-tape/internal/tape"
)

// EnvWorkspace names the environment variable that supplies the
// workspace root when no flag is given.
const EnvWorkspace = "THE_TAPE_WORKSPACE"

// Resolve picks the workspace root: explicit flag value, then the
// environment, then the current directory.
func Resolve(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv(EnvWorkspace); env != "" {
		return env, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("cannot determine workspace root: %w", err)
	}
	return cwd, nil
}

// TapesDir returns the tape output directory under the workspace root.
func TapesDir(root string) string {
	return filepath.Join(root, "tapes")
}

// OutputPath builds the conventional output path for a document:
// <workspace>/tapes/<ISO-date>-<slugified-title>.tape.json.
func OutputPath(root string, doc *tape.Document) string {
	date := time.Now().UTC().Format("2006-01-02")
	if t := recordedDate(doc.Metadata.RecordedAt); t != "" {
		date = t
	}
	name := fmt.Sprintf("%s-%s.tape.json", date, tape.Slugify(doc.Metadata.Title))
	return filepath.Join(TapesDir(root), name)
}

func recordedDate(recordedAt string) string {
	if t, err := time.Parse(time.RFC3339, recordedAt); err == nil {
		return t.UTC().Format("2006-01-02")
	}
	return ""
}

// WriteDocument persists a document as pretty-printed JSON, creating the
// output directory as needed.
func WriteDocument(path string, doc *tape.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tape: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create tapes directory: %w", err)
	}

	return atomicWriteFile(path, data, 0644)
}

// ReadDocument loads a tape document from disk.
func ReadDocument(path string) (*tape.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tape: %w", err)
	}
	var doc tape.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse tape %s: %w", filepath.Base(path), err)
	}
	return &doc, nil
}
