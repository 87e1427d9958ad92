package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"

	"github.com/jpfrost94/universal-text-extractor/joblog"
)

// Word extracts text from DOC/DOCX files. The tag decides the branch,
// so sniffed extensionless files route the same as named ones. DOCX
// runs a two-step waterfall (fast run-text scan, then a structural
// paragraph+table parse); legacy DOC gets a best-effort compound-file
// scan behind an explicit limited-support marker.
func Word(ctx context.Context, path, tag string) (string, joblog.Log) {
	var lg joblog.Log

	if tag == "doc" {
		lg.Warnf("Legacy DOC format detected, limited extraction support")
		text, err := docCompoundText(path)
		if err != nil {
			lg.Warnf("Compound file scan failed: %v", err)
		}
		if strings.TrimSpace(text) != "" {
			lg.Infof("Recovered text from legacy DOC compound file")
			return PlaceholderDocLegacy + "\n\n" + text, lg
		}
		return PlaceholderDocLegacy, lg
	}

	text, ok := runWaterfall(&lg, []strategy{
		{"docx run-text scan", func() (string, error) { return docxRunText(path) }},
		{"docx structural parse", func() (string, error) { return docxStructural(path) }},
	})
	if ok {
		return text, lg
	}

	lg.Warnf("All document extraction methods failed")
	return PlaceholderDocFailed, lg
}

// docxRunText streams word/document.xml and concatenates every text
// run, one paragraph per line. Fast, no structure.
func docxRunText(path string) (string, error) {
	data, err := readZipEntry(path, "word/document.xml")
	if err != nil {
		return "", err
	}

	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	var sb strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parsing document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// DOCX body XML, simplified to paragraphs, runs and tables.
type wordDocument struct {
	Body wordBody `xml:"body"`
}

type wordBody struct {
	Paras  []wordPara  `xml:"p"`
	Tables []wordTable `xml:"tbl"`
}

type wordPara struct {
	Runs []wordRun `xml:"r"`
}

type wordRun struct {
	Text []string `xml:"t"`
}

type wordTable struct {
	Rows []wordRow `xml:"tr"`
}

type wordRow struct {
	Cells []wordCell `xml:"tc"`
}

type wordCell struct {
	Paras []wordPara `xml:"p"`
}

// docxStructural parses paragraphs and tables separately; table rows
// are flattened to pipe-delimited lines after a divider so tabular
// content stays recognizable.
func docxStructural(path string) (string, error) {
	data, err := readZipEntry(path, "word/document.xml")
	if err != nil {
		return "", err
	}

	var doc wordDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parsing document.xml: %w", err)
	}

	var paras []string
	for _, p := range doc.Body.Paras {
		if t := paraText(p); t != "" {
			paras = append(paras, t)
		}
	}

	var tableLines []string
	for _, tbl := range doc.Body.Tables {
		for _, row := range tbl.Rows {
			cells := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				var parts []string
				for _, p := range cell.Paras {
					if t := paraText(p); t != "" {
						parts = append(parts, t)
					}
				}
				cells = append(cells, strings.Join(parts, " "))
			}
			tableLines = append(tableLines, strings.Join(cells, " | "))
		}
	}

	text := strings.Join(paras, "\n")
	if len(tableLines) > 0 {
		text += "\n\n--- Tables ---\n" + strings.Join(tableLines, "\n")
	}
	return text, nil
}

func paraText(p wordPara) string {
	var sb strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Text {
			sb.WriteString(t)
		}
	}
	return strings.TrimSpace(sb.String())
}

// docCompoundText scans the WordDocument stream of a legacy DOC
// compound file for UTF-16 text runs. The binary piece table is not
// interpreted, so recovery is partial.
func docCompoundText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	doc, err := mscfb.New(f)
	if err != nil {
		return "", fmt.Errorf("opening compound file: %w", err)
	}

	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name != "WordDocument" {
			continue
		}
		data, err := io.ReadAll(entry)
		if err != nil {
			return "", fmt.Errorf("reading WordDocument stream: %w", err)
		}
		return scanUTF16Runs(data), nil
	}
	return "", fmt.Errorf("no WordDocument stream found")
}

// scanUTF16Runs pulls out runs of printable UTF-16LE characters of a
// minimum length, which is where DOC body text lives.
func scanUTF16Runs(data []byte) string {
	const minRun = 16

	var out []string
	var run []uint16
	flush := func() {
		if len(run) >= minRun {
			out = append(out, strings.TrimSpace(string(utf16.Decode(run))))
		}
		run = run[:0]
	}

	for i := 0; i+1 < len(data); i += 2 {
		u := uint16(data[i]) | uint16(data[i+1])<<8
		r := rune(u)
		if u == '\r' {
			run = append(run, '\n')
			continue
		}
		if u < 0x20 || u == 0xffff || !unicode.IsPrint(r) && r != '\n' {
			flush()
			continue
		}
		run = append(run, u)
	}
	flush()

	return strings.Join(out, "\n")
}

// readZipEntry returns the contents of one file inside a ZIP archive.
func readZipEntry(path, name string) ([]byte, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}
