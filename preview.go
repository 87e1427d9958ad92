package textextract

import "strings"

// previewMaxLen is the approximate maximum character length for a preview.
const previewMaxLen = 300

// Preview returns the leading sentences of extracted text, cut at a
// sentence boundary near the length limit so display layers never show
// a mid-word truncation. Bracketed placeholder results come back whole.
func Preview(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= previewMaxLen {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "[") {
		if end := strings.Index(trimmed, "]"); end >= 0 {
			return trimmed[:end+1]
		}
	}

	var sb strings.Builder
	for _, sentence := range splitSentences(trimmed) {
		if sb.Len() > 0 && sb.Len()+len(sentence)+1 > previewMaxLen {
			break
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(sentence)
		if sb.Len() >= previewMaxLen {
			break
		}
	}
	out := sb.String()

	// A single oversized sentence still has to be cut; back up to the
	// last word boundary.
	if len(out) > previewMaxLen {
		cut := strings.LastIndexByte(out[:previewMaxLen], ' ')
		if cut <= 0 {
			cut = previewMaxLen
		}
		out = strings.TrimSpace(out[:cut]) + "..."
	}
	return out
}

// splitSentences splits text at period/question/exclamation boundaries
// followed by whitespace or end of string. Newlines also terminate a
// sentence, so marker lines and list items stay intact.
func splitSentences(text string) []string {
	var sentences []string
	var cur strings.Builder

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			sentences = append(sentences, s)
		}
		cur.Reset()
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\n' {
			flush()
			continue
		}
		cur.WriteRune(runes[i])
		if runes[i] == '.' || runes[i] == '?' || runes[i] == '!' {
			if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t' {
				flush()
			}
		}
	}
	flush()
	return sentences
}
