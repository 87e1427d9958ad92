package extract

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/jpfrost94/universal-text-extractor/joblog"
)

// RTF extracts plain text from an RTF document. A small control-word
// reader handles the common escapes; if it chokes on the input, a
// cruder regex strip has the final word.
func RTF(ctx context.Context, path string) (string, joblog.Log) {
	var lg joblog.Log
	lg.Infof("Processing RTF file")

	data, err := os.ReadFile(path)
	if err != nil {
		lg.Errorf("Could not read RTF file: %v", err)
		return fmt.Sprintf("[Error extracting RTF text: %v]", err), lg
	}

	text := rtfToText(string(data))
	if strings.TrimSpace(text) == "" {
		lg.Warnf("Control word reader produced no text, falling back to pattern strip")
		text = rtfStrip(string(data))
	}
	if strings.TrimSpace(text) == "" {
		lg.Warnf("No text found in RTF file")
		return "[No text could be extracted from this RTF file.]", lg
	}
	lg.Infof("Successfully extracted text from RTF file")
	return text, lg
}

// destination groups whose content never reaches the reader
var rtfSkipGroups = map[string]bool{
	"fonttbl":    true,
	"colortbl":   true,
	"stylesheet": true,
	"info":       true,
	"pict":       true,
	"object":     true,
	"header":     true,
	"footer":     true,
	"*":          true,
}

func rtfToText(src string) string {
	var (
		sb    strings.Builder
		skip  int // group nesting depth inside a skipped destination
		depth int
	)
	i := 0
	for i < len(src) {
		c := src[i]
		switch c {
		case '{':
			depth++
			if skip > 0 {
				skip++
			}
			i++
		case '}':
			depth--
			if skip > 0 {
				skip--
			}
			i++
		case '\\':
			word, param, hasParam, next := rtfControl(src, i)
			i = next
			if skip > 0 {
				continue
			}
			switch word {
			case "par", "line", "row":
				sb.WriteByte('\n')
			case "tab", "cell":
				sb.WriteByte('\t')
			case "'":
				if hasParam {
					sb.WriteByte(byte(param))
				}
			case "u":
				if hasParam {
					r := rune(param)
					if r < 0 {
						r += 65536
					}
					sb.WriteRune(r)
					// consume the ANSI fallback character
					if i < len(src) && src[i] != '\\' && src[i] != '{' && src[i] != '}' {
						i++
					}
				}
			case "{", "}", "\\":
				sb.WriteString(word)
			default:
				if rtfSkipGroups[word] {
					skip = 1
				}
			}
		case '\r', '\n':
			i++
		default:
			if skip == 0 {
				sb.WriteByte(c)
			}
			i++
		}
	}
	return strings.TrimSpace(sb.String())
}

// rtfControl reads the control word or symbol starting at the
// backslash at src[i] and returns it with its numeric parameter.
func rtfControl(src string, i int) (word string, param int, hasParam bool, next int) {
	i++ // backslash
	if i >= len(src) {
		return "", 0, false, i
	}
	c := src[i]
	if !isAlpha(c) {
		// control symbol
		if c == '\'' && i+2 < len(src) {
			if n, err := strconv.ParseInt(src[i+1:i+3], 16, 32); err == nil {
				return "'", int(n), true, i + 3
			}
		}
		return string(c), 0, false, i + 1
	}
	start := i
	for i < len(src) && isAlpha(src[i]) {
		i++
	}
	word = src[start:i]
	numStart := i
	if i < len(src) && (src[i] == '-' || isDigit(src[i])) {
		i++
		for i < len(src) && isDigit(src[i]) {
			i++
		}
		if n, err := strconv.Atoi(src[numStart:i]); err == nil {
			param, hasParam = n, true
		}
	}
	// a single space terminates the control word and is eaten
	if i < len(src) && src[i] == ' ' {
		i++
	}
	return word, param, hasParam, i
}

func isAlpha(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

var (
	rtfControlRe = regexp.MustCompile(`\\[a-zA-Z]+-?\d* ?|\\'[0-9a-fA-F]{2}|\\[^a-zA-Z]`)
	rtfBraceRe   = regexp.MustCompile(`[{}]`)
	rtfBlankRe   = regexp.MustCompile(`\n{3,}`)
)

// rtfStrip is the last-resort extractor: remove every control word and
// brace and keep whatever is left.
func rtfStrip(src string) string {
	out := rtfControlRe.ReplaceAllString(src, " ")
	out = rtfBraceRe.ReplaceAllString(out, "")
	out = rtfBlankRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
