package extract

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jpfrost94/universal-text-extractor/joblog"
)

// OpenDocument extracts text from ODT and ODP files by parsing the
// content.xml entry of the package. Headings keep their outline level,
// paragraphs arrive in document order.
func OpenDocument(ctx context.Context, path string) (string, joblog.Log) {
	var lg joblog.Log
	lg.Infof("Processing OpenDocument file")

	data, err := readZipEntry(path, "content.xml")
	if err != nil {
		lg.Errorf("Could not read document content: %v", err)
		return PlaceholderODFFailed, lg
	}

	text, err := odfBodyText(data)
	if err != nil {
		lg.Errorf("Could not parse document content: %v", err)
		return PlaceholderODFFailed, lg
	}
	if strings.TrimSpace(text) == "" {
		lg.Warnf("No text found in OpenDocument file")
		return PlaceholderODFFailed, lg
	}
	lg.Infof("Successfully extracted text from OpenDocument file")
	return text, lg
}

// odfBodyText walks the content stream collecting headings and
// paragraphs. Heading levels 1 through 5 get a "Heading N: " prefix.
func odfBodyText(data []byte) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(string(data)))

	var (
		lines    []string
		cur      strings.Builder
		inPara   bool
		heading  int
		paraElem string
	)
	flush := func() {
		if !inPara {
			return
		}
		line := cur.String()
		if strings.TrimSpace(line) != "" {
			if heading >= 1 && heading <= 5 {
				line = fmt.Sprintf("Heading %d: %s", heading, line)
			}
			lines = append(lines, line)
		}
		cur.Reset()
		inPara = false
		heading = 0
	}

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
			switch t.Name.Local {
			case "p", "h":
				flush()
				inPara = true
				paraElem = t.Name.Local
				if t.Name.Local == "h" {
					heading = 1
					for _, a := range t.Attr {
						if a.Name.Local == "outline-level" {
							if n, err := strconv.Atoi(a.Value); err == nil {
								heading = n
							}
						}
					}
				}
			case "tab":
				if inPara {
					cur.WriteByte('\t')
				}
			case "s":
				if inPara {
					cur.WriteByte(' ')
				}
			case "line-break":
				if inPara {
					cur.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Local == paraElem {
				flush()
			}
		case xml.CharData:
			if inPara {
				cur.Write(t)
			}
		}
	}
	flush()
	return strings.Join(lines, "\n"), nil
}

// odfTables reads the tables of an ODS spreadsheet into marked
// sections of pipe-delimited rows.
func odfTables(path string) (string, error) {
	data, err := readZipEntry(path, "content.xml")
	if err != nil {
		return "", err
	}

	dec := xml.NewDecoder(strings.NewReader(string(data)))

	var (
		sections []string
		rows     []string
		cells    []string
		cur      strings.Builder
		inCell   bool
		repeat   int
		tableNum int
	)
	endTable := func() {
		tableNum++
		if len(rows) == 0 {
			return
		}
		sections = append(sections,
			fmt.Sprintf("--- Table %d ---\n%s\n", tableNum, strings.Join(rows, "\n")))
		rows = nil
	}

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
			switch t.Name.Local {
			case "table-cell":
				inCell = true
				cur.Reset()
				repeat = 1
				for _, a := range t.Attr {
					if a.Name.Local == "number-columns-repeated" {
						if n, err := strconv.Atoi(a.Value); err == nil && n > 0 && n < 1024 {
							repeat = n
						}
					}
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "table-cell":
				for i := 0; i < repeat; i++ {
					cells = append(cells, cur.String())
				}
				inCell = false
			case "table-row":
				// trailing empty cells are filler, not data
				for len(cells) > 0 && strings.TrimSpace(cells[len(cells)-1]) == "" {
					cells = cells[:len(cells)-1]
				}
				if len(cells) > 0 {
					rows = append(rows, strings.Join(cells, " | "))
				}
				cells = nil
			case "table":
				endTable()
			}
		case xml.CharData:
			if inCell {
				cur.Write(t)
			}
		}
	}

	if len(sections) == 0 {
		return "", nil
	}
	return strings.Join(sections, "\n"), nil
}
