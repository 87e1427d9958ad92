package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf16"

	"github.com/jhillyerd/enmime"
	"github.com/richardlehane/mscfb"

	"github.com/jpfrost94/universal-text-extractor/joblog"
)

// EML extracts the headers and body of an RFC 5322 message. The plain
// text part is preferred; an HTML-only message gets its markup
// stripped. Attachments are listed but never decoded.
func EML(ctx context.Context, path string) (string, joblog.Log) {
	var lg joblog.Log
	lg.Infof("Processing EML file")

	f, err := os.Open(path)
	if err != nil {
		lg.Errorf("Could not read EML file: %v", err)
		return fmt.Sprintf("[Error extracting EML text: %v]", err), lg
	}
	defer f.Close()

	env, err := enmime.ReadEnvelope(f)
	if err != nil {
		lg.Errorf("Could not parse EML file: %v", err)
		return fmt.Sprintf("[Error extracting EML text: %v]", err), lg
	}

	var sb strings.Builder
	for _, h := range []string{"From", "To", "Cc", "Subject", "Date"} {
		if v := env.GetHeader(h); v != "" {
			fmt.Fprintf(&sb, "%s: %s\n", h, v)
		}
	}
	sb.WriteByte('\n')

	// enmime downconverts an HTML-only body into env.Text itself, so
	// the part tree decides whether the text came from a real
	// text/plain part or from markup.
	hasPlainPart := env.Root != nil && env.Root.DepthMatchFirst(func(p *enmime.Part) bool {
		return p.ContentType == "text/plain"
	}) != nil

	switch {
	case strings.TrimSpace(env.Text) != "" && hasPlainPart:
		sb.WriteString(env.Text)
	case strings.TrimSpace(env.Text) != "":
		lg.Infof("No plain text part, converted HTML body to text")
		sb.WriteString(env.Text)
	case strings.TrimSpace(env.HTML) != "":
		lg.Infof("No plain text part, stripping HTML body")
		out := htmlScriptRe.ReplaceAllString(env.HTML, " ")
		out = htmlTagRe.ReplaceAllString(out, " ")
		sb.WriteString(strings.Join(strings.Fields(out), " "))
	default:
		lg.Warnf("Message has no text body")
	}

	if len(env.Attachments) > 0 {
		sb.WriteString("\n\nAttachments:\n")
		for _, a := range env.Attachments {
			fmt.Fprintf(&sb, "- %s\n", a.FileName)
		}
	}

	lg.Infof("Successfully extracted text from EML file")
	return sb.String(), lg
}

// Outlook MAPI property streams that carry the fields we surface.
// The suffix encodes the property type: 001F is UTF-16, 001E is the
// 8-bit codepage variant.
var msgProps = []struct {
	label string
	tag   string
}{
	{"From", "0C1A"},    // sender name
	{"To", "0E04"},      // display-to
	{"Subject", "0037"}, // subject
	{"", "1000"},        // body
}

// MSG extracts sender, recipients, subject and body from an Outlook
// MSG compound file by reading the relevant property streams.
func MSG(ctx context.Context, path string) (string, joblog.Log) {
	var lg joblog.Log
	lg.Infof("Processing Outlook MSG file")

	f, err := os.Open(path)
	if err != nil {
		lg.Errorf("Could not read MSG file: %v", err)
		return PlaceholderMSGFailed, lg
	}
	defer f.Close()

	doc, err := mscfb.New(f)
	if err != nil {
		lg.Errorf("Could not open MSG compound file: %v", err)
		return PlaceholderMSGFailed, lg
	}

	props := make(map[string]string)
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		tag, unicode, ok := msgStreamTag(entry.Name)
		if !ok || len(entry.Path) > 0 {
			continue // nested streams belong to attachments and recipients
		}
		data, err := io.ReadAll(entry)
		if err != nil {
			continue
		}
		if unicode {
			props[tag] = decodeUTF16LE(data)
		} else if _, exists := props[tag]; !exists {
			props[tag] = string(data)
		}
	}

	var sb strings.Builder
	for _, p := range msgProps {
		v := strings.TrimSpace(props[p.tag])
		if v == "" {
			continue
		}
		if p.label == "" {
			sb.WriteByte('\n')
			sb.WriteString(v)
			sb.WriteByte('\n')
		} else {
			fmt.Fprintf(&sb, "%s: %s\n", p.label, v)
		}
	}

	if strings.TrimSpace(sb.String()) == "" {
		lg.Warnf("No readable property streams found in MSG file")
		return PlaceholderMSGFailed, lg
	}
	lg.Infof("Successfully extracted text from MSG file")
	return sb.String(), lg
}

// msgStreamTag parses a "__substg1.0_TTTTSSSS" stream name into the
// property tag and whether the payload is UTF-16.
func msgStreamTag(name string) (tag string, unicode bool, ok bool) {
	const prefix = "__substg1.0_"
	if !strings.HasPrefix(name, prefix) || len(name) != len(prefix)+8 {
		return "", false, false
	}
	tag = name[len(prefix) : len(prefix)+4]
	switch name[len(prefix)+4:] {
	case "001F":
		return tag, true, true
	case "001E":
		return tag, false, true
	}
	return "", false, false
}

func decodeUTF16LE(data []byte) string {
	u := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		u = append(u, uint16(data[i])|uint16(data[i+1])<<8)
	}
	return strings.TrimRight(string(utf16.Decode(u)), "\x00")
}
