// Package capability probes optional runtime dependencies once at
// process start. Components query the resulting registry instead of
// branching on failed lookups mid-request.
package capability

import "os/exec"

// Registry holds the availability flags for optional capabilities.
// Construct one with Detect at startup, or by hand in tests.
type Registry struct {
	// TesseractCLI reports whether the tesseract binary is on PATH.
	TesseractCLI bool

	// GosseractOCR reports whether the in-process Tesseract bindings
	// were compiled in (the "ocr" build tag).
	GosseractOCR bool

	// PDFToPPM reports whether the pdftoppm binary is on PATH, used to
	// rasterize whole PDFs for document-level OCR.
	PDFToPPM bool
}

// Detect probes the environment and returns the populated registry.
func Detect() *Registry {
	return &Registry{
		TesseractCLI: lookPath("tesseract"),
		GosseractOCR: gosseractCompiled,
		PDFToPPM:     lookPath("pdftoppm"),
	}
}

func lookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// OCRAvailable reports whether at least one OCR backend can run.
func (r *Registry) OCRAvailable() bool {
	return r.TesseractCLI || r.GosseractOCR
}

// OCRBackends names the available OCR backends, primary first.
func (r *Registry) OCRBackends() []string {
	var backends []string
	if r.TesseractCLI {
		backends = append(backends, "tesseract")
	}
	if r.GosseractOCR {
		backends = append(backends, "gosseract")
	}
	return backends
}
