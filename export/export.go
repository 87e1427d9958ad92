// Package export renders extracted text into downloadable formats.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Format identifies an output rendering.
type Format string

const (
	FormatText Format = "txt"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Text returns the extracted text unchanged.
func Text(text string) []byte {
	return []byte(text)
}

// CSV renders the text one line per row under an "Extracted Text"
// header.
func CSV(text string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Extracted Text"}); err != nil {
		return nil, err
	}
	for _, line := range strings.Split(text, "\n") {
		if err := w.Write([]string{line}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// jsonDocument is the JSON export shape.
type jsonDocument struct {
	ExtractedText       string `json:"extracted_text"`
	ExtractionTimestamp string `json:"extraction_timestamp"`
	Lines               int    `json:"lines"`
}

// JSON renders the text with an extraction timestamp and line count.
func JSON(text string) ([]byte, error) {
	doc := jsonDocument{
		ExtractedText:       text,
		ExtractionTimestamp: time.Now().UTC().Format(time.RFC3339),
		Lines:               len(strings.Split(text, "\n")),
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Render dispatches on format, defaulting to plain text for anything
// unrecognized.
func Render(text string, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return CSV(text)
	case FormatJSON:
		return JSON(text)
	case FormatText, "":
		return Text(text), nil
	default:
		return Text(text), nil
	}
}

// ContentType returns the MIME type for a format.
func ContentType(format Format) string {
	switch format {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText, "":
		return FormatText, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}
