package ocr

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"context"
)

// handwritingWhitelist restricts recognition to characters that occur
// in freeform handwritten notes, which cuts down on symbol noise.
const handwritingWhitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789.,!?;: "

// tesseractCLI shells out to the tesseract binary. It is the primary
// backend: no process state, one subprocess per call.
type tesseractCLI struct {
	// binary overrides the executable name, for tests.
	binary string
}

func (t *tesseractCLI) Name() string { return "tesseract" }

func (t *tesseractCLI) Recognize(ctx context.Context, req Request) (string, error) {
	lang := NormalizeTesseract(req.Language)

	if !req.Handwriting {
		return t.run(ctx, req.ImagePath, lang)
	}

	// Handwriting mode: uniform-block segmentation with a character
	// whitelist, retried once in single-word mode when blank.
	text, err := t.run(ctx, req.ImagePath, lang,
		"--psm", "6", "-c", "tessedit_char_whitelist="+handwritingWhitelist)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) != "" {
		return text, nil
	}
	return t.run(ctx, req.ImagePath, lang, "--psm", "8")
}

func (t *tesseractCLI) run(ctx context.Context, imagePath, lang string, extra ...string) (string, error) {
	bin := t.binary
	if bin == "" {
		bin = "tesseract"
	}
	args := append([]string{imagePath, "stdout", "-l", lang}, extra...)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract %s: %w (%s)", lang, err, strings.TrimSpace(stderr.String()))
	}

	text := stdout.String()
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimRight(text, "\n") + "\n", nil
}
