//go:build !ocr

package ocr

import (
	"context"
	"errors"
)

// Without the "ocr" build tag the in-process bindings are absent. The
// capability registry reports GosseractOCR=false in this configuration,
// so this stub is never reached through NewEngine; it exists so code
// that constructs the backend directly fails loudly instead of at link
// time.
type gosseractBackend struct{}

func newGosseractBackend() Backend { return &gosseractBackend{} }

func (g *gosseractBackend) Name() string { return "gosseract" }

func (g *gosseractBackend) Recognize(ctx context.Context, req Request) (string, error) {
	return "", errors.New("gosseract backend requires building with the ocr tag")
}
