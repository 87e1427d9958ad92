package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/jpfrost94/universal-text-extractor/joblog"
)

// EPUB extracts the book text in spine order, preceded by the title
// and author from the package metadata.
func EPUB(ctx context.Context, filePath string) (string, joblog.Log) {
	var lg joblog.Log
	lg.Infof("Processing EPUB file")

	zr, err := zip.OpenReader(filePath)
	if err != nil {
		lg.Errorf("Could not open EPUB file: %v", err)
		return fmt.Sprintf("[Error extracting EPUB text: %v]", err), lg
	}
	defer zr.Close()

	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		entries[f.Name] = f
	}

	opfPath, err := epubOPFPath(entries)
	if err != nil {
		lg.Warnf("Could not locate package document: %v", err)
	}

	var sb strings.Builder
	var docs []string
	if opfPath != "" {
		meta, spine, err := epubPackage(entries, opfPath)
		if err != nil {
			lg.Warnf("Could not parse package document: %v", err)
		} else {
			if meta.Title != "" {
				fmt.Fprintf(&sb, "Title: %s\n", meta.Title)
			}
			if meta.Creator != "" {
				fmt.Fprintf(&sb, "Author: %s\n", meta.Creator)
			}
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			docs = spine
		}
	}
	if len(docs) == 0 {
		// no usable spine, fall back to every content document in the archive
		for name := range entries {
			switch strings.ToLower(path.Ext(name)) {
			case ".xhtml", ".html", ".htm":
				docs = append(docs, name)
			}
		}
		sort.Strings(docs)
	}

	var chapters []string
	for _, name := range docs {
		f, ok := entries[name]
		if !ok {
			continue
		}
		text, err := epubChapterText(f)
		if err != nil {
			lg.Warnf("Skipping chapter %s: %v", name, err)
			continue
		}
		if strings.TrimSpace(text) != "" {
			chapters = append(chapters, text)
		}
	}

	if len(chapters) == 0 && sb.Len() == 0 {
		lg.Warnf("No text found in EPUB file")
		return "[No text could be extracted from this EPUB file.]", lg
	}
	sb.WriteString(strings.Join(chapters, "\n\n"))
	lg.Infof("Successfully extracted text from %d EPUB content documents", len(chapters))
	return sb.String(), lg
}

type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type epubOPF struct {
	Metadata struct {
		Title   string `xml:"title"`
		Creator string `xml:"creator"`
	} `xml:"metadata"`
	Manifest struct {
		Items []struct {
			ID   string `xml:"id,attr"`
			Href string `xml:"href,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		Refs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

type epubMeta struct {
	Title   string
	Creator string
}

func epubOPFPath(entries map[string]*zip.File) (string, error) {
	f, ok := entries["META-INF/container.xml"]
	if !ok {
		return "", fmt.Errorf("no META-INF/container.xml entry")
	}
	data, err := readAllZip(f)
	if err != nil {
		return "", err
	}
	var c epubContainer
	if err := xml.Unmarshal(data, &c); err != nil {
		return "", err
	}
	if len(c.Rootfiles) == 0 || c.Rootfiles[0].FullPath == "" {
		return "", fmt.Errorf("container names no rootfile")
	}
	return c.Rootfiles[0].FullPath, nil
}

func epubPackage(entries map[string]*zip.File, opfPath string) (epubMeta, []string, error) {
	f, ok := entries[opfPath]
	if !ok {
		return epubMeta{}, nil, fmt.Errorf("missing package document %s", opfPath)
	}
	data, err := readAllZip(f)
	if err != nil {
		return epubMeta{}, nil, err
	}
	var opf epubOPF
	if err := xml.Unmarshal(data, &opf); err != nil {
		return epubMeta{}, nil, err
	}

	hrefByID := make(map[string]string, len(opf.Manifest.Items))
	for _, item := range opf.Manifest.Items {
		hrefByID[item.ID] = item.Href
	}
	base := path.Dir(opfPath)
	var spine []string
	for _, ref := range opf.Spine.Refs {
		href, ok := hrefByID[ref.IDRef]
		if !ok {
			continue
		}
		name := href
		if base != "." {
			name = path.Join(base, href)
		}
		spine = append(spine, name)
	}
	meta := epubMeta{
		Title:   strings.TrimSpace(opf.Metadata.Title),
		Creator: strings.TrimSpace(opf.Metadata.Creator),
	}
	return meta, spine, nil
}

func epubChapterText(f *zip.File) (string, error) {
	data, err := readAllZip(f)
	if err != nil {
		return "", err
	}
	out := htmlScriptRe.ReplaceAllString(string(data), " ")
	out = htmlTagRe.ReplaceAllString(out, " ")
	lines := strings.Split(out, "\n")
	var kept []string
	for _, l := range lines {
		if fields := strings.Fields(l); len(fields) > 0 {
			kept = append(kept, strings.Join(fields, " "))
		}
	}
	return strings.Join(kept, "\n"), nil
}

func readAllZip(f *zip.File) ([]byte, error) {
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
