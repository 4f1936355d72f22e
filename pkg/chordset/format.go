package chordset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format represents an export file format
type Format string

const (
	FormatJSON    Format = "json"
	FormatZip     Format = "zip"
	FormatText    Format = "text"
	FormatMIDI    Format = "midi"
	FormatUnknown Format = "unknown"
)

// DetectFormat detects the format of a file based on extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return FormatJSON
	case ".zip":
		return FormatZip
	case ".txt":
		return FormatText
	case ".mid", ".midi":
		return FormatMIDI
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content
func DetectFormatFromContent(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	if len(data) < 4 {
		return FormatUnknown
	}

	switch string(data[:4]) {
	case "PK\x03\x04":
		return FormatZip
	case "MThd":
		return FormatMIDI
	}
	return FormatText
}

// FileName returns the export name for a 1-based file number, e.g. user_chord_set_07.json
func FileName(n int) string {
	return fmt.Sprintf("%s%02d.json", FilePrefix, n)
}

// Encode renders a document as indented JSON
func Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode chord set: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses a chord-set document and checks its type id
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode chord set: %w", err)
	}
	if doc.TypeID != TypeID {
		return nil, fmt.Errorf("unexpected typeId %q", doc.TypeID)
	}
	return &doc, nil
}

// WriteFile writes data to path, refusing paths whose extension does not match want
func WriteFile(path string, want Format, data []byte) error {
	if got := DetectFormat(path); got != want {
		if got == FormatUnknown {
			return errors.New("cannot determine output format from filename")
		}
		return fmt.Errorf("output file is %s, expected %s", got, want)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
