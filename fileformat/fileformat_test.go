package fileformat

import (
	"os"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// Extension table
// ---------------------------------------------------------------------------

func TestDetectSupportedExtensions(t *testing.T) {
	// Every supported extension must resolve to itself (lookup idempotence).
	for cat, exts := range Supported() {
		for _, ext := range exts {
			t.Run(ext, func(t *testing.T) {
				got := Detect("/tmp/sample." + ext)
				if got != ext {
					t.Errorf("Detect(*.%s) = %q, want %q", ext, got, ext)
				}
				if Category(ext) != cat {
					t.Errorf("Category(%q) = %q, want %q", ext, Category(ext), cat)
				}
			})
		}
	}
}

func TestDetectCaseInsensitive(t *testing.T) {
	cases := map[string]string{
		"report.PDF":    "pdf",
		"SCAN.Jpeg":     "jpeg",
		"Deck.PPTX":     "pptx",
		"notes.TXT":     "txt",
		"Mail.EML":      "eml",
		"book.EPUB":     "epub",
		"data.Csv":      "csv",
		"page.HTM":      "htm",
		"letter.Rtf":    "rtf",
		"writeup.ODT":   "odt",
		"numbers.XLSX":  "xlsx",
		"photo.HEIC":    "heic",
		"archive.TIFF":  "tiff",
		"old-doc.DOC":   "doc",
		"old-sheet.XLS": "xls",
	}
	for path, want := range cases {
		if got := Detect(path); got != want {
			t.Errorf("Detect(%q) = %q, want %q", path, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// Content sniffing fallback
// ---------------------------------------------------------------------------

func TestDetectSniffsUnknownExtension(t *testing.T) {
	dir := t.TempDir()

	// A PNG signature behind a bogus extension should sniff as "image".
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}
	pngPath := filepath.Join(dir, "picture.xyz")
	if err := os.WriteFile(pngPath, png, 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Detect(pngPath); got != "image" {
		t.Errorf("Detect(png-as-.xyz) = %q, want %q", got, "image")
	}

	// A PDF signature behind a bogus extension should sniff as "pdf".
	pdfPath := filepath.Join(dir, "report.bin2")
	if err := os.WriteFile(pdfPath, []byte("%PDF-1.4\n%stub\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Detect(pdfPath); got != "pdf" {
		t.Errorf("Detect(pdf-as-.bin2) = %q, want %q", got, "pdf")
	}
}

func TestDetectUnknown(t *testing.T) {
	dir := t.TempDir()

	// Random binary bytes with no recognizable signature.
	path := filepath.Join(dir, "blob.xyz")
	if err := os.WriteFile(path, []byte{0x00, 0x01, 0x02, 0x03, 0xfe, 0xff}, 0o644); err != nil {
		t.Fatal(err)
	}
	got := Detect(path)
	// mimetype classifies arbitrary bytes as application/octet-stream,
	// which has no coarse mapping.
	if got != Unknown {
		t.Errorf("Detect(random blob) = %q, want %q", got, Unknown)
	}

	// Missing file: cannot sniff, must still not panic.
	if got := Detect(filepath.Join(dir, "missing.xyz")); got != Unknown {
		t.Errorf("Detect(missing file) = %q, want %q", got, Unknown)
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func TestIsImage(t *testing.T) {
	for _, ext := range Supported()["Images"] {
		if !IsImage(ext) {
			t.Errorf("IsImage(%q) = false, want true", ext)
		}
	}
	for _, ext := range []string{"pdf", "txt", "eml", Unknown, ""} {
		if IsImage(ext) {
			t.Errorf("IsImage(%q) = true, want false", ext)
		}
	}
}

func TestMapMIME(t *testing.T) {
	cases := map[string]string{
		"image/webp":       "image",
		"text/plain":       "text",
		"application/pdf":  "pdf",
		"application/msword": "doc",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "doc",
		"application/vnd.ms-powerpoint": "ppt",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation": "ppt",
		"application/vnd.ms-excel": "xls",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": "xls",
		"application/octet-stream": Unknown,
	}
	for mime, want := range cases {
		if got := mapMIME(mime); got != want {
			t.Errorf("mapMIME(%q) = %q, want %q", mime, got, want)
		}
	}
}
