package extract

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/jpfrost94/universal-text-extractor/joblog"
)

// Plain reads a text file as-is, replacing invalid UTF-8 sequences so
// the result is always valid for downstream rendering.
func Plain(ctx context.Context, path string) (string, joblog.Log) {
	var lg joblog.Log
	lg.Infof("Processing plain text file")

	data, err := os.ReadFile(path)
	if err != nil {
		lg.Errorf("Could not read text file: %v", err)
		return fmt.Sprintf("[Error extracting text: %v]", err), lg
	}

	text := string(data)
	if !utf8.ValidString(text) {
		lg.Warnf("File contains invalid UTF-8, replacing bad sequences")
		text = strings.ToValidUTF8(text, "�")
	}
	lg.Infof("Successfully read %d bytes of text", len(data))
	return text, lg
}
