// Package ocr wraps optical-character-recognition backends behind one
// image-to-text contract. Backends are tried in priority order; every
// backend failure is caught and logged, never propagated. A final empty
// result is replaced by an explicit placeholder so that the empty
// string always means "not attempted".
package ocr

import (
	"context"
	"strings"

	"github.com/jpfrost94/universal-text-extractor/capability"
	"github.com/jpfrost94/universal-text-extractor/joblog"
)

// Placeholder results. These exact strings are part of the output
// contract consumed by display layers.
const (
	PlaceholderUnavailable = "[OCR is not available. No text could be extracted from this image.]"
	PlaceholderNoText      = "[No text was detected in this image.]"
)

// Request describes one recognition call.
type Request struct {
	// ImagePath points at a decodable image file on disk.
	ImagePath string

	// Language is an OCR language code in either Tesseract ("eng") or
	// ISO-639-1 ("en") vocabulary; the engine normalizes before the
	// request reaches a backend.
	Language string

	// Handwriting selects page-segmentation settings tuned for
	// freeform text blocks.
	Handwriting bool
}

// Backend is one OCR implementation.
type Backend interface {
	Name() string
	Recognize(ctx context.Context, req Request) (string, error)
}

// Engine runs the backend waterfall.
type Engine struct {
	backends []Backend
}

// NewEngine assembles the backend list from the capability registry:
// the Tesseract CLI first, then the in-process bindings when compiled.
func NewEngine(caps *capability.Registry) *Engine {
	e := &Engine{}
	if caps != nil && caps.TesseractCLI {
		e.backends = append(e.backends, &tesseractCLI{})
	}
	if caps != nil && caps.GosseractOCR {
		e.backends = append(e.backends, newGosseractBackend())
	}
	return e
}

// NewEngineWithBackends builds an engine over an explicit backend list,
// for tests and embedders with custom recognizers.
func NewEngineWithBackends(backends ...Backend) *Engine {
	return &Engine{backends: backends}
}

// Available reports whether any backend can run.
func (e *Engine) Available() bool { return len(e.backends) > 0 }

// Backends names the configured backends in priority order.
func (e *Engine) Backends() []string {
	names := make([]string, len(e.backends))
	for i, b := range e.backends {
		names[i] = b.Name()
	}
	return names
}

// Recognize extracts text from the image. It never returns an error and
// never returns an empty string: no backends yields the unavailable
// placeholder, and an exhausted waterfall yields the no-text
// placeholder.
func (e *Engine) Recognize(ctx context.Context, req Request, lg *joblog.Log) string {
	if len(e.backends) == 0 {
		lg.Warnf("No OCR backends available")
		return PlaceholderUnavailable
	}

	req.Language = NormalizeTesseract(req.Language)

	for _, b := range e.backends {
		text, err := b.Recognize(ctx, req)
		if err != nil {
			lg.Warnf("%s OCR failed: %v", b.Name(), err)
			continue
		}
		if strings.TrimSpace(text) != "" {
			lg.Infof("Recognized text with %s backend", b.Name())
			return text
		}
		lg.Infof("%s OCR returned no text", b.Name())
	}

	return PlaceholderNoText
}
