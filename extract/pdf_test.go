package extract

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSortedFilesUnpaddedPageNumbers(t *testing.T) {
	dir := t.TempDir()
	// pdfcpu names extracted images without zero-padding.
	for _, name := range []string{
		"doc_10_Im0.png", "doc_2_Im0.png", "doc_1_Im0.png", "doc_11_Im0.png",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"doc_1_Im0.png", "doc_2_Im0.png", "doc_10_Im0.png", "doc_11_Im0.png"}
	got := sortedFiles(dir)
	if len(got) != len(want) {
		t.Fatalf("sortedFiles returned %d files, want %d", len(got), len(want))
	}
	for i, w := range want {
		if filepath.Base(got[i]) != w {
			t.Errorf("position %d = %s, want %s", i, filepath.Base(got[i]), w)
		}
	}
}

func TestNumericLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"page-2.png", "page-10.png", true},
		{"page-10.png", "page-2.png", false},
		{"page-02.png", "page-10.png", true}, // pdftoppm pads, still correct
		{"page-3.png", "page-3.png", false},
		{"a.png", "b.png", true},
		{"page-3.png", "page-3a.png", true},
	}

	for _, tt := range tests {
		if got := numericLess(tt.a, tt.b); got != tt.want {
			t.Errorf("numericLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
