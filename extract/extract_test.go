package extract

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jpfrost94/universal-text-extractor/joblog"
)

// ---------------------------------------------------------------------------
// Waterfall tests
// ---------------------------------------------------------------------------

func TestRunWaterfallFirstNonBlankWins(t *testing.T) {
	called := []string{}
	mk := func(name, out string, err error) strategy {
		return strategy{name, func() (string, error) {
			called = append(called, name)
			return out, err
		}}
	}

	var lg joblog.Log
	text, ok := runWaterfall(&lg, []strategy{
		mk("broken", "", errors.New("boom")),
		mk("blank", "   \n", nil),
		mk("good", "hello", nil),
		mk("never", "later", nil),
	})
	if !ok || text != "hello" {
		t.Fatalf("runWaterfall = %q, %v; want %q, true", text, ok, "hello")
	}
	if want := []string{"broken", "blank", "good"}; strings.Join(called, ",") != strings.Join(want, ",") {
		t.Errorf("strategies called = %v, want %v", called, want)
	}

	msgs := strings.Join(lg.Messages(), "\n")
	for _, want := range []string{
		"broken extraction failed: boom",
		"No text extracted with blank",
		"Successfully extracted text using good",
	} {
		if !strings.Contains(msgs, want) {
			t.Errorf("log missing %q; got:\n%s", want, msgs)
		}
	}
}

func TestRunWaterfallExhausted(t *testing.T) {
	var lg joblog.Log
	text, ok := runWaterfall(&lg, []strategy{
		{"one", func() (string, error) { return "", errors.New("nope") }},
		{"two", func() (string, error) { return "", nil }},
	})
	if ok || text != "" {
		t.Fatalf("runWaterfall = %q, %v; want empty, false", text, ok)
	}
}

// ---------------------------------------------------------------------------
// Fixture helpers shared by the extractor tests
// ---------------------------------------------------------------------------

// writeZipFixture creates an archive at dir/name containing the given
// entries and returns its path.
func writeZipFixture(t *testing.T, dir, name string, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating fixture %s: %v", name, err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for entryName, content := range entries {
		zf, err := w.Create(entryName)
		if err != nil {
			t.Fatalf("creating zip entry %s: %v", entryName, err)
		}
		if _, err := zf.Write([]byte(content)); err != nil {
			t.Fatalf("writing zip entry %s: %v", entryName, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing fixture %s: %v", name, err)
	}
	return path
}

// writeFileFixture creates a plain file at dir/name.
func writeFileFixture(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}
