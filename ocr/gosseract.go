//go:build ocr

package ocr

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// gosseractBackend runs Tesseract in-process through the gosseract
// bindings. The client is expensive to initialize and tied to one
// language, so it is created lazily, keyed by the current language, and
// rebuilt only when the requested language differs. Initialization is
// idempotent; the mutex keeps concurrent different-language requests
// from clobbering each other's client.
type gosseractBackend struct {
	mu     sync.Mutex
	lang   string
	client *gosseract.Client
}

func newGosseractBackend() Backend { return &gosseractBackend{} }

func (g *gosseractBackend) Name() string { return "gosseract" }

func (g *gosseractBackend) Recognize(ctx context.Context, req Request) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	lang := NormalizeTesseract(req.Language)
	if g.client == nil || g.lang != lang {
		if g.client != nil {
			g.client.Close()
		}
		client := gosseract.NewClient()
		if err := client.SetLanguage(lang); err != nil {
			client.Close()
			return "", fmt.Errorf("gosseract language %q: %w", lang, err)
		}
		g.client = client
		g.lang = lang
	}

	psm := gosseract.PSM_AUTO
	if req.Handwriting {
		psm = gosseract.PSM_SINGLE_BLOCK
		if err := g.client.SetWhitelist(handwritingWhitelist); err != nil {
			return "", fmt.Errorf("gosseract whitelist: %w", err)
		}
	} else {
		// Clear any whitelist left by a previous handwriting call.
		if err := g.client.SetWhitelist(""); err != nil {
			return "", fmt.Errorf("gosseract whitelist reset: %w", err)
		}
	}
	if err := g.client.SetPageSegMode(psm); err != nil {
		return "", fmt.Errorf("gosseract page seg mode: %w", err)
	}

	if err := g.client.SetImage(req.ImagePath); err != nil {
		return "", fmt.Errorf("gosseract image: %w", err)
	}

	text, err := g.client.Text()
	if err != nil {
		return "", fmt.Errorf("gosseract recognize: %w", err)
	}
	return strings.ReplaceAll(text, "\r\n", "\n"), nil
}
