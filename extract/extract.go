// Package extract implements one text-extraction strategy chain per
// document family. Every extractor shares the same shape: try
// strategies in priority order, log each attempt, take the first that
// yields non-blank text, and surface total failure as a bracketed
// placeholder instead of an error.
package extract

import (
	"strings"

	"github.com/jpfrost94/universal-text-extractor/capability"
	"github.com/jpfrost94/universal-text-extractor/imageprep"
	"github.com/jpfrost94/universal-text-extractor/joblog"
	"github.com/jpfrost94/universal-text-extractor/ocr"
)

// Options carries the OCR and preprocessing collaborators into the
// extractors that can use them. Extractors that never OCR ignore it.
type Options struct {
	UseOCR      bool
	OCRLanguage string
	Handwriting bool

	// Preprocess is only set when the caller asked for enhancement;
	// nil means the raw image goes straight to the OCR engine.
	Preprocess *imageprep.Params

	Engine *ocr.Engine
	Caps   *capability.Registry
}

// ocrAvailable reports whether the options carry a usable OCR engine.
func (o Options) ocrAvailable() bool {
	return o.Engine != nil && o.Engine.Available()
}

// strategy is one attempt in an extractor's waterfall.
type strategy struct {
	name string
	run  func() (string, error)
}

// runWaterfall tries each strategy in order and returns the first
// non-blank result. Failures and empty results are logged and skipped;
// nothing aborts the chain.
func runWaterfall(lg *joblog.Log, strategies []strategy) (string, bool) {
	for _, s := range strategies {
		lg.Infof("Attempting to extract text using %s", s.name)
		text, err := s.run()
		if err != nil {
			lg.Warnf("%s extraction failed: %v", s.name, err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			lg.Infof("No text extracted with %s", s.name)
			continue
		}
		lg.Infof("Successfully extracted text using %s", s.name)
		return text, true
	}
	return "", false
}
