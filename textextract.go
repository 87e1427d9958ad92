// Package textextract extracts plain text from documents, images,
// presentations, spreadsheets, web pages, email and ebooks. Each
// format runs a waterfall of strategies; scanned or image-based inputs
// fall back to OCR when it is available. Extraction never fails from
// the caller's point of view: unreadable content becomes an explicit
// bracketed placeholder plus a machine-readable outcome tag, and the
// per-request log trail tells the rest of the story.
package textextract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jpfrost94/universal-text-extractor/analytics"
	"github.com/jpfrost94/universal-text-extractor/capability"
	"github.com/jpfrost94/universal-text-extractor/extract"
	"github.com/jpfrost94/universal-text-extractor/fileformat"
	"github.com/jpfrost94/universal-text-extractor/imageprep"
	"github.com/jpfrost94/universal-text-extractor/joblog"
	"github.com/jpfrost94/universal-text-extractor/ocr"
)

// Outcome classifies an extraction result.
type Outcome string

const (
	// OutcomeSuccess means real content was extracted.
	OutcomeSuccess Outcome = "success"

	// OutcomePartial means some content came out alongside a
	// limitation marker (legacy formats, OCR with no hits on some
	// pages).
	OutcomePartial Outcome = "partial"

	// OutcomeFailed means the result is a placeholder only.
	OutcomeFailed Outcome = "failed"
)

// Request describes one extraction.
type Request struct {
	// Path is the file to extract from.
	Path string `json:"path"`

	// FileType optionally declares the format ("pdf", "docx", ...).
	// Blank means auto-detect.
	FileType string `json:"file_type,omitempty"`

	// UseOCR enables OCR for images and scanned PDFs. Nil defers to
	// the service configuration.
	UseOCR *bool `json:"use_ocr,omitempty"`

	// OCRLanguage overrides the configured OCR language.
	OCRLanguage string `json:"ocr_language,omitempty"`

	// Handwriting selects handwriting-tuned recognition.
	Handwriting bool `json:"handwriting,omitempty"`

	// Preprocess overrides the configured image preprocessing; nil
	// defers to the service configuration.
	Preprocess *imageprep.Params `json:"preprocess,omitempty"`
}

// Result is what every readable input produces.
type Result struct {
	// Text is the extracted content, or a bracketed placeholder.
	Text string `json:"text"`

	// FileType is the tag the extraction ran under.
	FileType string `json:"file_type"`

	// Category is the format family ("Documents", "Images", ...).
	Category string `json:"category"`

	// OCRUsed reports whether an OCR backend was invoked for this
	// request, regardless of what it yielded.
	OCRUsed bool `json:"ocr_used"`

	// Outcome tags the result for machine consumers.
	Outcome Outcome `json:"outcome"`

	// Logs is the ordered trail of extraction steps.
	Logs []joblog.Entry `json:"logs"`

	// Duration is the wall-clock extraction time.
	Duration time.Duration `json:"duration_ms"`
}

// Service is the extraction pipeline entry point. It is safe for
// concurrent use.
type Service struct {
	cfg    Config
	caps   *capability.Registry
	engine *ocr.Engine
	stats  *analytics.Store
}

// New builds a Service: probes local OCR capabilities, assembles the
// backend engine, and opens the analytics store unless disabled.
func New(cfg Config) (*Service, error) {
	caps := capability.Detect()
	s := &Service{
		cfg:    cfg,
		caps:   caps,
		engine: ocr.NewEngine(caps),
	}

	if !cfg.DisableAnalytics {
		store, err := analytics.New(cfg.resolveDBPath())
		if err != nil {
			return nil, fmt.Errorf("opening analytics store: %w", err)
		}
		s.stats = store
	}
	return s, nil
}

// Close releases the analytics store.
func (s *Service) Close() error {
	if s.stats != nil {
		return s.stats.Close()
	}
	return nil
}

// Capabilities returns the probed OCR capability registry.
func (s *Service) Capabilities() capability.Registry {
	return *s.caps
}

// Analytics returns the underlying analytics store, or nil when
// disabled.
func (s *Service) Analytics() *analytics.Store {
	return s.stats
}

// SupportedFormats lists the accepted extensions grouped by category.
func (s *Service) SupportedFormats() map[string][]string {
	return fileformat.Supported()
}

// ExtractTextFromFile runs the extraction pipeline on one file. The
// only error path is an unreadable input; every other condition,
// unsupported formats and extractor panics included, comes back as a
// Result whose text carries a bracketed marker.
func (s *Service) ExtractTextFromFile(ctx context.Context, req Request) (*Result, error) {
	info, err := os.Stat(req.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, req.Path)
		}
		return nil, fmt.Errorf("textextract: stat %s: %w", req.Path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, req.Path)
	}

	start := time.Now()
	var lg joblog.Log

	tag := strings.ToLower(strings.TrimSpace(req.FileType))
	if tag == "" {
		tag = fileformat.Detect(req.Path)
		lg.Infof("Auto-detected file type: %s", tag)
	}

	res := &Result{
		FileType: tag,
		Category: fileformat.Category(tag),
	}

	text, ocrUsed := s.dispatch(ctx, req, tag, &lg)
	res.Text = text
	res.OCRUsed = ocrUsed
	res.Outcome = classifyOutcome(text)
	res.Logs = lg.Entries()
	res.Duration = time.Since(start)

	if s.stats != nil {
		ev := analytics.Event{
			Filename:   filepath.Base(req.Path),
			FileType:   tag,
			Category:   res.Category,
			FileSize:   info.Size(),
			OCRUsed:    ocrUsed,
			Outcome:    string(res.Outcome),
			DurationMs: res.Duration.Milliseconds(),
			TextLength: len(text),
		}
		if err := s.stats.Record(ctx, ev); err != nil {
			lg.Warnf("Could not record extraction analytics: %v", err)
			res.Logs = lg.Entries()
		}
	}
	return res, nil
}

// dispatch routes the request to the per-family extractor. Panics in
// extractors are caught here so a malformed file can never take the
// service down.
func (s *Service) dispatch(ctx context.Context, req Request, tag string, lg *joblog.Log) (text string, ocrUsed bool) {
	defer func() {
		if r := recover(); r != nil {
			lg.Errorf("Extractor panicked: %v", r)
			text = fmt.Sprintf("[Error extracting text: %v]", r)
		}
	}()

	opts := s.extractOptions(req)
	var sub joblog.Log

	switch tag {
	case "pdf":
		text, ocrUsed, sub = extract.PDF(ctx, req.Path, opts)
	case "doc", "docx":
		text, sub = extract.Word(ctx, req.Path, tag)
	case "rtf":
		text, sub = extract.RTF(ctx, req.Path)
	case "odt", "odp":
		text, sub = extract.OpenDocument(ctx, req.Path)
	case "txt", "text":
		text, sub = extract.Plain(ctx, req.Path)
	case "jpg", "jpeg", "png", "tiff", "tif", "bmp", "gif", "webp", "heic", "heif", "image":
		text, ocrUsed, sub = extract.Image(ctx, req.Path, opts)
	case "ppt", "pptx":
		text, sub = extract.Slides(ctx, req.Path, tag)
	case "xls", "xlsx", "ods", "csv":
		text, sub = extract.Spreadsheet(ctx, req.Path, tag)
	case "html", "htm":
		text, sub = extract.HTML(ctx, req.Path)
	case "xml":
		text, sub = extract.XML(ctx, req.Path)
	case "eml":
		text, sub = extract.EML(ctx, req.Path)
	case "msg":
		text, sub = extract.MSG(ctx, req.Path)
	case "epub":
		text, sub = extract.EPUB(ctx, req.Path)
	default:
		lg.Warnf("Unsupported file type: %s", tag)
		return fmt.Sprintf("[Unsupported file type: %s]", tag), false
	}

	lg.Append(sub.Entries()...)
	return text, ocrUsed
}

// extractOptions merges the request with the configured defaults.
func (s *Service) extractOptions(req Request) extract.Options {
	useOCR := s.cfg.OCR.Enabled
	if req.UseOCR != nil {
		useOCR = *req.UseOCR
	}
	lang := req.OCRLanguage
	if lang == "" {
		lang = s.cfg.OCR.Language
	}

	opts := extract.Options{
		UseOCR:      useOCR,
		OCRLanguage: lang,
		Handwriting: req.Handwriting || s.cfg.OCR.Handwriting,
		Engine:      s.engine,
		Caps:        s.caps,
	}
	switch {
	case req.Preprocess != nil:
		opts.Preprocess = req.Preprocess
	case s.cfg.Preprocessing.Enhance:
		params := s.cfg.Preprocessing
		opts.Preprocess = &params
	}
	return opts
}

// classifyOutcome maps result text onto the Outcome tags. Placeholder
// text means failure; a limitation marker followed by content means
// partial; anything else is success.
func classifyOutcome(text string) Outcome {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return OutcomeFailed
	}

	if !strings.HasPrefix(trimmed, "[") {
		return OutcomeSuccess
	}

	// Marker followed by real content.
	if idx := strings.Index(trimmed, "]"); idx >= 0 && strings.TrimSpace(trimmed[idx+1:]) != "" {
		return OutcomePartial
	}
	return OutcomeFailed
}
