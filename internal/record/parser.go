package record

import (
	"bufio"
	"bytes"
	"encoding/json"
)

// Parse splits raw transcript text into non-empty lines and parses each
// independently. Lines that fail to parse are skipped; a single corrupt
// line never aborts the whole conversion.
func Parse(content []byte) []Record {
	var records []Record

	scanner := bufio.NewScanner(bytes.NewReader(content))
	// Increase buffer size for large lines (agent responses can be big)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			continue // Skip malformed lines
		}
		records = append(records, rec)
	}

	return records
}
