package extract

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jpfrost94/universal-text-extractor/imageprep"
	"github.com/jpfrost94/universal-text-extractor/ocr"
)

type staticBackend struct {
	text string
	got  ocr.Request
}

func (b *staticBackend) Name() string { return "static" }

func (b *staticBackend) Recognize(ctx context.Context, req ocr.Request) (string, error) {
	b.got = req
	return b.text, nil
}

func pngFixture(t *testing.T, dir string, w, h int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.White)
		}
	}
	path := filepath.Join(dir, "pic.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating image fixture: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding image fixture: %v", err)
	}
	return path
}

func TestImageWithoutOCR(t *testing.T) {
	dir := t.TempDir()
	path := pngFixture(t, dir, 64, 48)

	text, ocrUsed, _ := Image(context.Background(), path, Options{})

	if ocrUsed {
		t.Error("ocrUsed = true without OCR requested")
	}
	if !strings.Contains(text, "[Image: 64x48, Format: PNG]") {
		t.Errorf("metadata line missing: %q", text)
	}
	if !strings.Contains(text, "OCR was not enabled.") {
		t.Errorf("enable-OCR hint missing: %q", text)
	}
}

func TestImageWithOCR(t *testing.T) {
	dir := t.TempDir()
	path := pngFixture(t, dir, 32, 32)

	backend := &staticBackend{text: "recognized words"}
	opts := Options{
		UseOCR:      true,
		OCRLanguage: "fr",
		Engine:      ocr.NewEngineWithBackends(backend),
	}

	text, ocrUsed, lg := Image(context.Background(), path, opts)

	if !ocrUsed {
		t.Error("ocrUsed = false on OCR path")
	}
	if text != "recognized words" {
		t.Errorf("text = %q", text)
	}
	if backend.got.Language != "fra" {
		t.Errorf("language not normalized for backend: %q", backend.got.Language)
	}
	msgs := strings.Join(lg.Messages(), "\n")
	if !strings.Contains(msgs, "Performed OCR on image with language: fr") {
		t.Errorf("missing OCR log:\n%s", msgs)
	}
}

func TestImageOCRWithPreprocessing(t *testing.T) {
	dir := t.TempDir()
	path := pngFixture(t, dir, 32, 32)

	backend := &staticBackend{text: "clean scan"}
	params := imageprep.DefaultParams()
	opts := Options{
		UseOCR:     true,
		Preprocess: &params,
		Engine:     ocr.NewEngineWithBackends(backend),
	}

	text, _, lg := Image(context.Background(), path, opts)

	if text != "clean scan" {
		t.Errorf("text = %q", text)
	}
	if backend.got.ImagePath == path {
		t.Error("backend received the original file, want the preprocessed temp image")
	}
	if _, err := os.Stat(backend.got.ImagePath); !os.IsNotExist(err) {
		t.Errorf("preprocessed temp image not cleaned up: %v", err)
	}
	msgs := strings.Join(lg.Messages(), "\n")
	if !strings.Contains(msgs, "Preprocessing image before OCR") {
		t.Errorf("missing preprocessing log:\n%s", msgs)
	}
}

func TestImageOCRNoBackends(t *testing.T) {
	dir := t.TempDir()
	path := pngFixture(t, dir, 16, 16)

	text, ocrUsed, _ := Image(context.Background(), path, Options{
		UseOCR: true,
		Engine: ocr.NewEngineWithBackends(),
	})

	if !ocrUsed {
		t.Error("ocrUsed should be true when OCR was requested, even without backends")
	}
	if text != ocr.PlaceholderUnavailable {
		t.Errorf("text = %q, want unavailable placeholder", text)
	}
}
