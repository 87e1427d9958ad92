package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	ledongthuc "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/jpfrost94/universal-text-extractor/joblog"
)

// PDF extracts text from a PDF through a three-step waterfall: the
// text layer first, pdfcpu content streams second, and finally, when
// OCR is enabled, rasterize-and-recognize. Pages that lack a text layer
// are rescued with OCR individually during the first step.
func PDF(ctx context.Context, path string, opts Options) (string, bool, joblog.Log) {
	var lg joblog.Log
	ocrUsed := false

	lg.Infof("Attempting to extract text using pdf text layer")
	text, used, err := pdfTextLayer(ctx, path, opts, &lg)
	ocrUsed = ocrUsed || used
	switch {
	case err != nil:
		lg.Warnf("pdf text layer extraction failed: %v", err)
	case strings.TrimSpace(text) != "":
		lg.Infof("Successfully extracted text from PDF using pdf text layer")
		return text, ocrUsed, lg
	default:
		lg.Infof("No text extracted with pdf text layer")
	}

	lg.Infof("Attempting to extract text using pdfcpu content streams")
	text, err = pdfContentStreams(path)
	switch {
	case err != nil:
		lg.Warnf("pdfcpu extraction failed: %v", err)
	case strings.TrimSpace(text) != "":
		lg.Infof("Successfully extracted text from PDF using pdfcpu")
		return text, ocrUsed, lg
	default:
		lg.Infof("No text extracted with pdfcpu")
	}

	if opts.UseOCR && opts.ocrAvailable() {
		lg.Infof("PDF appears to be scanned/image-based. Attempting full document OCR.")
		text, err = pdfFullOCR(ctx, path, opts, &lg)
		ocrUsed = true
		if err != nil {
			lg.Warnf("Full document OCR failed: %v", err)
		} else if strings.TrimSpace(text) != "" {
			lg.Infof("Completed full document OCR")
			return text, ocrUsed, lg
		}
	}

	lg.Warnf("Could not extract any text from the PDF")
	return PlaceholderPDFNoText, ocrUsed, lg
}

// pdfTextLayer walks pages with the ledongthuc reader. A page without a
// text layer is rescued through OCR when enabled; the returned text is
// blank when no page produced anything, so the waterfall can move on.
func pdfTextLayer(ctx context.Context, path string, opts Options, lg *joblog.Log) (string, bool, error) {
	f, reader, err := ledongthuc.Open(path)
	if err != nil {
		return "", false, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	ocrUsed := false
	hasText := false
	var out strings.Builder

	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return "", ocrUsed, err
		}

		var pageText string
		page := reader.Page(i)
		if !page.V.IsNull() {
			pageText, _ = page.GetPlainText(nil)
		}

		if strings.TrimSpace(pageText) == "" && opts.UseOCR && opts.ocrAvailable() {
			lg.Infof("Page %d appears to be scanned/image-based. Attempting OCR.", i)
			pageText = pdfPageOCR(ctx, path, i, opts, lg)
			ocrUsed = true
		}

		if strings.TrimSpace(pageText) != "" {
			hasText = true
		}
		fmt.Fprintf(&out, "\n--- Page %d ---\n%s\n", i, pageText)
	}

	if !hasText {
		return "", ocrUsed, nil
	}
	return out.String(), ocrUsed, nil
}

// pdfPageOCR extracts the embedded images of one page and recognizes
// them. Scanned PDFs store each page as a single full-page image, so
// this is the per-page rasterization path. Temp artifacts are removed
// before returning.
func pdfPageOCR(ctx context.Context, path string, pageNr int, opts Options, lg *joblog.Log) string {
	tmpDir, err := os.MkdirTemp("", "textextract-pdfpage-*")
	if err != nil {
		lg.Warnf("Could not create temp dir for page OCR: %v", err)
		return ""
	}
	defer os.RemoveAll(tmpDir)

	pages := []string{strconv.Itoa(pageNr)}
	if err := api.ExtractImagesFile(path, tmpDir, pages, nil); err != nil {
		lg.Warnf("Extracting page %d images failed: %v", pageNr, err)
		return ""
	}

	var parts []string
	for _, img := range sortedFiles(tmpDir) {
		text := ocrImageFile(ctx, img, opts, lg)
		if strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

// pdfContentStreams pulls text-showing operators out of each page's
// content stream via pdfcpu. Cruder than a text layer walk, but it
// recovers text from documents the primary reader cannot open.
func pdfContentStreams(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return "", fmt.Errorf("pdfcpu read: %w", err)
	}

	hasText := false
	var out strings.Builder
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		var pageText string
		if r, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr); err == nil && r != nil {
			data, err := io.ReadAll(r)
			if err == nil {
				pageText = textFromContentStream(data)
			}
		}
		if strings.TrimSpace(pageText) != "" {
			hasText = true
		}
		fmt.Fprintf(&out, "\n--- Page %d ---\n%s\n", pageNr, pageText)
	}

	if !hasText {
		return "", nil
	}
	return out.String(), nil
}

// pdfFullOCR rasterizes the whole document and recognizes every page.
// pdftoppm renders true page images when present; otherwise the
// embedded page images from pdfcpu stand in. The chain is exhaustive
// once triggered: every page is attempted even when earlier ones fail.
func pdfFullOCR(ctx context.Context, path string, opts Options, lg *joblog.Log) (string, error) {
	tmpDir, err := os.MkdirTemp("", "textextract-pdfocr-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	var pageImages []string
	if opts.Caps != nil && opts.Caps.PDFToPPM {
		prefix := filepath.Join(tmpDir, "page")
		cmd := exec.CommandContext(ctx, "pdftoppm", "-png", "-r", "150", path, prefix)
		if out, err := cmd.CombinedOutput(); err != nil {
			lg.Warnf("pdftoppm rasterization failed: %v: %s", err, strings.TrimSpace(string(out)))
		} else {
			pageImages = sortedFiles(tmpDir)
		}
	}
	if len(pageImages) == 0 {
		if err := api.ExtractImagesFile(path, tmpDir, nil, nil); err != nil {
			return "", fmt.Errorf("extracting page images: %w", err)
		}
		pageImages = sortedFiles(tmpDir)
	}
	if len(pageImages) == 0 {
		return "", nil
	}

	var out strings.Builder
	for i, img := range pageImages {
		pageText := ocrImageFile(ctx, img, opts, lg)
		fmt.Fprintf(&out, "\n--- Page %d ---\n%s\n", i+1, pageText)
	}
	return out.String(), nil
}

// sortedFiles lists the regular files in dir in page order. pdftoppm
// zero-pads its page numbers but pdfcpu does not, so names compare
// digit run by digit run rather than byte by byte.
func sortedFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Slice(files, func(i, j int) bool {
		return numericLess(filepath.Base(files[i]), filepath.Base(files[j]))
	})
	return files
}

// numericLess orders names treating each digit run as one number, so
// page_10 sorts after page_2.
func numericLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		if isDigit(a[0]) && isDigit(b[0]) {
			an, aRest := leadingInt(a)
			bn, bRest := leadingInt(b)
			if an != bn {
				return an < bn
			}
			a, b = aRest, bRest
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func leadingInt(s string) (int, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	n, _ := strconv.Atoi(s[:i])
	return n, s[i:]
}
