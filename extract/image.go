package extract

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/jpfrost94/universal-text-extractor/imageprep"
	"github.com/jpfrost94/universal-text-extractor/joblog"
	"github.com/jpfrost94/universal-text-extractor/ocr"
)

// Image handles plain image files. With OCR requested the image is
// optionally preprocessed and recognized; without it the result is a
// metadata line so the caller sees something useful either way.
func Image(ctx context.Context, path string, opts Options) (string, bool, joblog.Log) {
	var lg joblog.Log

	if opts.UseOCR {
		text := ocrImageFile(ctx, path, opts, &lg)
		lg.Infof("Performed OCR on image with language: %s", opts.OCRLanguage)
		return text, true, lg
	}

	lg.Infof("OCR not enabled for image file")
	cfg, format, err := decodeConfig(path)
	if err != nil {
		lg.Warnf("Could not read image metadata: %v", err)
		return PlaceholderImageNoOCR, false, lg
	}
	text := fmt.Sprintf("[Image: %dx%d, Format: %s]\n", cfg.Width, cfg.Height, strings.ToUpper(format))
	text += "OCR was not enabled. Enable OCR to extract text content from this image."
	return text, false, lg
}

func decodeConfig(path string) (image.Config, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer f.Close()
	return image.DecodeConfig(f)
}

// ocrImageFile runs the shared preprocess-then-recognize step used by
// the image extractor and the PDF OCR rescue paths. Preprocessing only
// happens when the caller supplied params with Enhance set; a
// preprocessing failure falls back to the raw file. The temporary
// preprocessed artifact is removed before returning.
func ocrImageFile(ctx context.Context, path string, opts Options, lg *joblog.Log) string {
	imagePath := path

	if opts.Preprocess != nil && opts.Preprocess.Enhance {
		lg.Infof("Preprocessing image before OCR")
		if img := imageprep.Preprocess(path, opts.Preprocess, lg); img != nil {
			tmpPath, cleanup, err := imageprep.SaveTemp(img)
			if err != nil {
				lg.Warnf("Could not save preprocessed image (%v), using original", err)
			} else {
				defer cleanup()
				imagePath = tmpPath
			}
		}
	}

	if opts.Engine == nil {
		lg.Warnf("No OCR backends available")
		return ocr.PlaceholderUnavailable
	}
	return opts.Engine.Recognize(ctx, ocr.Request{
		ImagePath:   imagePath,
		Language:    opts.OCRLanguage,
		Handwriting: opts.Handwriting,
	}, lg)
}
