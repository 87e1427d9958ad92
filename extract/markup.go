package extract

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/jpfrost94/universal-text-extractor/joblog"
)

// HTML extracts readable text from an HTML page, dropping script and
// style content. The page title, when present, leads the output.
func HTML(ctx context.Context, path string) (string, joblog.Log) {
	var lg joblog.Log
	lg.Infof("Processing HTML file")

	f, err := os.Open(path)
	if err != nil {
		lg.Errorf("Could not read HTML file: %v", err)
		return fmt.Sprintf("[Error extracting HTML text: %v]", err), lg
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		lg.Warnf("HTML parse failed: %v, falling back to tag strip", err)
		return htmlStripFile(path, &lg), lg
	}

	title, body := htmlText(doc)
	var sb strings.Builder
	if title != "" {
		fmt.Fprintf(&sb, "Title: %s\n\n", title)
	}
	sb.WriteString(body)

	if strings.TrimSpace(sb.String()) == "" {
		lg.Warnf("No text found in HTML file")
		return "[No text could be extracted from this HTML file.]", lg
	}
	lg.Infof("Successfully extracted text from HTML file")
	return sb.String(), lg
}

// elements whose children never contribute visible text
var htmlSkipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"head":     true,
}

// elements that start a new line in the rendered text
var htmlBlockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "blockquote": true, "pre": true,
	"ul": true, "ol": true, "table": true,
}

func htmlText(doc *html.Node) (title, body string) {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if n.Data == "title" && title == "" {
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			}
			if htmlSkipTags[n.Data] && n.Data != "head" {
				return
			}
			if htmlBlockTags[n.Data] {
				sb.WriteByte('\n')
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
					sb.WriteByte(' ')
				}
				sb.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			// only the title matters inside head
			if n.Type == html.ElementNode && n.Data == "head" &&
				(c.Type != html.ElementNode || c.Data != "title") {
				continue
			}
			walk(c)
		}
	}
	walk(doc)

	lines := strings.Split(sb.String(), "\n")
	var kept []string
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			kept = append(kept, t)
		}
	}
	return title, strings.Join(kept, "\n")
}

var (
	htmlScriptRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
)

func htmlStripFile(path string, lg *joblog.Log) string {
	data, err := os.ReadFile(path)
	if err != nil {
		lg.Errorf("Could not read HTML file: %v", err)
		return fmt.Sprintf("[Error extracting HTML text: %v]", err)
	}
	out := htmlScriptRe.ReplaceAllString(string(data), " ")
	out = htmlTagRe.ReplaceAllString(out, " ")
	out = strings.Join(strings.Fields(out), " ")
	if out == "" {
		return "[No text could be extracted from this HTML file.]"
	}
	return out
}

// XML renders an XML document as an indented tag outline with
// attributes and character data, falling back to a raw text scrape
// when the document does not parse.
func XML(ctx context.Context, path string) (string, joblog.Log) {
	var lg joblog.Log
	lg.Infof("Processing XML file")

	data, err := os.ReadFile(path)
	if err != nil {
		lg.Errorf("Could not read XML file: %v", err)
		return fmt.Sprintf("[Error extracting XML text: %v]", err), lg
	}

	text, err := xmlOutline(data)
	if err != nil {
		lg.Warnf("XML parse failed: %v, falling back to text scrape", err)
		text = xmlScrape(data)
	}
	if strings.TrimSpace(text) == "" {
		lg.Warnf("No text found in XML file")
		return "[No text could be extracted from this XML file.]", lg
	}
	lg.Infof("Successfully extracted text from XML file")
	return text, lg
}

func xmlOutline(data []byte) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	var (
		sb    strings.Builder
		depth int
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			indent := strings.Repeat("  ", depth)
			sb.WriteString(indent + t.Name.Local)
			for _, a := range t.Attr {
				fmt.Fprintf(&sb, " [%s=%s]", a.Name.Local, a.Value)
			}
			sb.WriteByte('\n')
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if text := strings.TrimSpace(string(t)); text != "" {
				sb.WriteString(strings.Repeat("  ", depth) + text + "\n")
			}
		}
	}
	return sb.String(), nil
}

var xmlTextRe = regexp.MustCompile(`>([^<]+)<`)

func xmlScrape(data []byte) string {
	var parts []string
	for _, m := range xmlTextRe.FindAllStringSubmatch(string(data), -1) {
		if t := strings.TrimSpace(m[1]); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}
