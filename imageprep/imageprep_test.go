package imageprep

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/jpfrost94/universal-text-extractor/joblog"
)

// gradientImage builds a horizontal gray gradient with a colored stripe
// so grayscale conversion is observable.
func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(x * 255 / (w - 1))
			if y == 0 {
				img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
				continue
			}
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

// ---------------------------------------------------------------------------
// Step ordering and binarization
// ---------------------------------------------------------------------------

func TestApplyFullPipelineIsBimodal(t *testing.T) {
	params := &Params{
		Enhance:        true,
		Grayscale:      true,
		Contrast:       2.0,
		Threshold:      100,
		NoiseReduction: true,
	}
	out := Apply(gradientImage(64, 64), params)

	// Grayscale must be applied before the threshold: the result has to
	// be strictly bimodal at {0, 255} on every channel.
	nrgba, ok := out.(*image.NRGBA)
	if !ok {
		t.Fatalf("Apply returned %T, want *image.NRGBA", out)
	}
	b := nrgba.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := nrgba.NRGBAAt(x, y)
			for _, v := range []uint8{c.R, c.G, c.B} {
				if v != 0 && v != 255 {
					t.Fatalf("pixel (%d,%d) channel value %d; binarized output must be 0 or 255", x, y, v)
				}
			}
			if c.R != c.G || c.G != c.B {
				t.Fatalf("pixel (%d,%d) = %v is not gray", x, y, c)
			}
		}
	}
}

func TestApplyThresholdSkippedWithoutGrayscale(t *testing.T) {
	params := &Params{
		Enhance:   true,
		Grayscale: false,
		Contrast:  1.0,
		Threshold: 100,
	}
	out := Apply(gradientImage(32, 8), params)

	nrgba, ok := out.(*image.NRGBA)
	if !ok {
		t.Fatalf("Apply returned %T", out)
	}
	// The colored stripe survives: thresholding never ran on color input.
	c := nrgba.NRGBAAt(5, 0)
	if c.R == c.G && c.G == c.B {
		t.Errorf("color stripe pixel %v became gray; threshold must not run without grayscale", c)
	}
}

func TestApplyThresholdAboveRangeClamps(t *testing.T) {
	// 300 must behave like 255 (everything below white goes black),
	// not wrap around to 44.
	params := &Params{Enhance: true, Grayscale: true, Contrast: 1.0, Threshold: 300}
	out := Apply(gradientImage(32, 8), params)

	nrgba, ok := out.(*image.NRGBA)
	if !ok {
		t.Fatalf("Apply returned %T", out)
	}
	b := nrgba.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c := nrgba.NRGBAAt(x, y); c.R != 0 {
				t.Fatalf("pixel (%d,%d) = %d; cutoff 255 leaves no pixel above it", x, y, c.R)
			}
		}
	}
}

func TestApplyEnhanceOffIsIdentity(t *testing.T) {
	src := gradientImage(16, 4)
	out := Apply(src, &Params{Enhance: false, Grayscale: true, Threshold: 130})
	if out != image.Image(src) {
		t.Error("Enhance=false should return the input unchanged")
	}
}

func TestApplyNilParamsUsesDefaults(t *testing.T) {
	out := Apply(gradientImage(16, 16), nil)
	nrgba, ok := out.(*image.NRGBA)
	if !ok {
		t.Fatalf("Apply returned %T", out)
	}
	// Default params binarize, so the output is bimodal gray.
	c := nrgba.NRGBAAt(2, 2)
	if c.R != 0 && c.R != 255 {
		t.Errorf("default params should binarize; got channel value %d", c.R)
	}
}

// ---------------------------------------------------------------------------
// Decode failure degradation
// ---------------------------------------------------------------------------

func TestPreprocessDecodeFailureIsPassThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	var lg joblog.Log
	img := Preprocess(path, nil, &lg)
	if img != nil {
		t.Error("decode failure should yield nil image (caller falls back to raw path)")
	}
	entries := lg.Entries()
	if len(entries) != 1 || entries[0].Level != joblog.LevelWarning {
		t.Errorf("expected one warning entry, got %+v", entries)
	}
}

func TestPreprocessRoundTrip(t *testing.T) {
	path := writePNG(t, gradientImage(24, 24))

	var lg joblog.Log
	img := Preprocess(path, &Params{Enhance: true, Grayscale: true, Contrast: 1.0}, &lg)
	if img == nil {
		t.Fatal("Preprocess returned nil for a valid PNG")
	}
	if len(lg.Entries()) != 0 {
		t.Errorf("unexpected log entries on success: %v", lg.Messages())
	}
}

// ---------------------------------------------------------------------------
// Temp artifact lifecycle
// ---------------------------------------------------------------------------

func TestSaveTempCleanup(t *testing.T) {
	path, cleanup, err := SaveTemp(gradientImage(8, 8))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("temp image not materialized: %v", err)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("cleanup did not remove %s", path)
	}
}

// ---------------------------------------------------------------------------
// Median filter
// ---------------------------------------------------------------------------

func TestMedianRemovesSaltNoise(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 9, 9))
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			img.SetNRGBA(x, y, color.NRGBA{A: 255}) // black field
		}
	}
	img.SetNRGBA(4, 4, color.NRGBA{R: 255, G: 255, B: 255, A: 255}) // one white speck

	out := median3x3(img)
	if c := out.NRGBAAt(4, 4); c.R != 0 {
		t.Errorf("median filter left the isolated speck: %v", c)
	}
}
