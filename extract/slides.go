package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jpfrost94/universal-text-extractor/joblog"
)

// Slides extracts text from PPT/PPTX presentations, slide by slide
// with titles surfaced first. The tag decides the branch; legacy PPT
// is marked rather than parsed.
func Slides(ctx context.Context, path, tag string) (string, joblog.Log) {
	var lg joblog.Log

	if tag == "ppt" {
		lg.Warnf("Legacy PPT format detected, limited extraction support")
		return PlaceholderPPTLegacy, lg
	}

	lg.Infof("Attempting to extract text using pptx slide traversal")
	text, err := pptxSlides(path)
	if err != nil {
		lg.Warnf("pptx extraction failed: %v", err)
		return fmt.Sprintf("[Error extracting presentation text: %v]", err), lg
	}
	if strings.TrimSpace(text) == "" {
		lg.Infof("No text found in presentation")
		return PlaceholderPPTNoText, lg
	}
	lg.Infof("Successfully extracted text from presentation")
	return text, lg
}

// Slide XML, simplified to the shape tree with placeholder types.
type slideXML struct {
	CSld struct {
		SpTree struct {
			Shapes []slideShape `xml:"sp"`
		} `xml:"spTree"`
	} `xml:"cSld"`
}

type slideShape struct {
	NvSpPr struct {
		NvPr struct {
			Ph *slidePh `xml:"ph"`
		} `xml:"nvPr"`
	} `xml:"nvSpPr"`
	TxBody *slideTxBody `xml:"txBody"`
}

type slidePh struct {
	Type string `xml:"type,attr"`
}

type slideTxBody struct {
	Paras []slideParagraph `xml:"p"`
}

type slideParagraph struct {
	Runs []slideRun `xml:"r"`
}

type slideRun struct {
	Text string `xml:"t"`
}

func (s slideShape) isTitle() bool {
	ph := s.NvSpPr.NvPr.Ph
	return ph != nil && (ph.Type == "title" || ph.Type == "ctrTitle")
}

func (s slideShape) text() string {
	if s.TxBody == nil {
		return ""
	}
	var lines []string
	for _, p := range s.TxBody.Paras {
		var sb strings.Builder
		for _, r := range p.Runs {
			sb.WriteString(r.Text)
		}
		if t := strings.TrimSpace(sb.String()); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}

// pptxSlides walks ppt/slides/slideN.xml in slide order, emitting a
// marker per slide with the title placeholder first and the remaining
// shapes after it.
func pptxSlides(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("opening PPTX: %w", err)
	}
	defer r.Close()

	slideFiles := make(map[int]*zip.File)
	var nums []int
	for _, f := range r.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			if n := slideNumber(f.Name); n > 0 {
				slideFiles[n] = f
				nums = append(nums, n)
			}
		}
	}
	sort.Ints(nums)

	var slides []string
	for _, n := range nums {
		rc, err := slideFiles[n].Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}

		var slide slideXML
		if err := xml.Unmarshal(data, &slide); err != nil {
			continue
		}

		parts := []string{fmt.Sprintf("--- Slide %d ---", n)}
		for _, sp := range slide.CSld.SpTree.Shapes {
			if sp.isTitle() {
				if t := sp.text(); t != "" {
					parts = append(parts, "Title: "+t)
				}
			}
		}
		for _, sp := range slide.CSld.SpTree.Shapes {
			if sp.isTitle() {
				continue
			}
			if t := sp.text(); t != "" {
				parts = append(parts, t)
			}
		}

		if len(parts) > 1 {
			slides = append(slides, strings.Join(parts, "\n"))
		}
	}

	return strings.Join(slides, "\n\n"), nil
}

func slideNumber(name string) int {
	name = strings.TrimPrefix(name, "ppt/slides/slide")
	name = strings.TrimSuffix(name, ".xml")
	var n int
	fmt.Sscanf(name, "%d", &n)
	return n
}
