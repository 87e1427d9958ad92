package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/jpfrost94/universal-text-extractor/capability"
	"github.com/jpfrost94/universal-text-extractor/joblog"
)

// fakeBackend scripts one backend's behavior for waterfall tests.
type fakeBackend struct {
	name  string
	text  string
	err   error
	calls int
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Recognize(ctx context.Context, req Request) (string, error) {
	f.calls++
	return f.text, f.err
}

// ---------------------------------------------------------------------------
// Waterfall
// ---------------------------------------------------------------------------

func TestRecognizeNoBackends(t *testing.T) {
	e := NewEngineWithBackends()
	var lg joblog.Log

	got := e.Recognize(context.Background(), Request{ImagePath: "x.png"}, &lg)
	if got != PlaceholderUnavailable {
		t.Errorf("Recognize with no backends = %q, want unavailable placeholder", got)
	}
	if e.Available() {
		t.Error("Available() = true with no backends")
	}
}

func TestRecognizePrimaryWins(t *testing.T) {
	primary := &fakeBackend{name: "primary", text: "hello world"}
	secondary := &fakeBackend{name: "secondary", text: "should not run"}
	e := NewEngineWithBackends(primary, secondary)

	var lg joblog.Log
	got := e.Recognize(context.Background(), Request{ImagePath: "x.png"}, &lg)
	if got != "hello world" {
		t.Errorf("Recognize = %q, want primary result", got)
	}
	if secondary.calls != 0 {
		t.Error("secondary backend ran even though primary succeeded")
	}
}

func TestRecognizeFallsBackOnError(t *testing.T) {
	primary := &fakeBackend{name: "primary", err: errors.New("boom")}
	secondary := &fakeBackend{name: "secondary", text: "rescued"}
	e := NewEngineWithBackends(primary, secondary)

	var lg joblog.Log
	got := e.Recognize(context.Background(), Request{ImagePath: "x.png"}, &lg)
	if got != "rescued" {
		t.Errorf("Recognize = %q, want secondary result", got)
	}

	// The failure is in the trail, not propagated.
	foundWarn := false
	for _, e := range lg.Entries() {
		if e.Level == joblog.LevelWarning {
			foundWarn = true
		}
	}
	if !foundWarn {
		t.Errorf("primary failure not logged: %v", lg.Messages())
	}
}

func TestRecognizeFallsBackOnBlankText(t *testing.T) {
	primary := &fakeBackend{name: "primary", text: "  \n\t "}
	secondary := &fakeBackend{name: "secondary", text: "from secondary"}
	e := NewEngineWithBackends(primary, secondary)

	var lg joblog.Log
	if got := e.Recognize(context.Background(), Request{ImagePath: "x.png"}, &lg); got != "from secondary" {
		t.Errorf("Recognize = %q, want fallback on whitespace-only result", got)
	}
}

func TestRecognizeExhaustedReturnsNoTextPlaceholder(t *testing.T) {
	e := NewEngineWithBackends(
		&fakeBackend{name: "a", err: errors.New("fail")},
		&fakeBackend{name: "b", text: ""},
	)
	var lg joblog.Log
	got := e.Recognize(context.Background(), Request{ImagePath: "x.png"}, &lg)
	if got != PlaceholderNoText {
		t.Errorf("Recognize = %q, want no-text placeholder", got)
	}
	if got == "" {
		t.Error("final result must never be the empty string")
	}
}

// ---------------------------------------------------------------------------
// Engine assembly
// ---------------------------------------------------------------------------

func TestNewEngineRespectsCapabilities(t *testing.T) {
	cases := []struct {
		name string
		reg  capability.Registry
		want []string
	}{
		{"none", capability.Registry{}, nil},
		{"cli only", capability.Registry{TesseractCLI: true}, []string{"tesseract"}},
		{"both ordered", capability.Registry{TesseractCLI: true, GosseractOCR: true}, []string{"tesseract", "gosseract"}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(&tt.reg)
			got := e.Backends()
			if len(got) != len(tt.want) {
				t.Fatalf("Backends() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("backend %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Language normalization
// ---------------------------------------------------------------------------

func TestNormalizeTesseract(t *testing.T) {
	cases := map[string]string{
		"en":      "eng",
		"fr":      "fra",
		"zh":      "chi_sim",
		"eng":     "eng",     // already Tesseract form
		"chi_sim": "chi_sim", // already Tesseract form
		"xx":      "xx",      // unmapped passes through
		"":        "eng",     // default
	}
	for in, want := range cases {
		if got := NormalizeTesseract(in); got != want {
			t.Errorf("NormalizeTesseract(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeISO(t *testing.T) {
	cases := map[string]string{
		"eng":     "en",
		"deu":     "de",
		"chi_sim": "zh",
		"en":      "en",
		"xx":      "xx",
		"":        "en",
	}
	for in, want := range cases {
		if got := NormalizeISO(in); got != want {
			t.Errorf("NormalizeISO(%q) = %q, want %q", in, got, want)
		}
	}
}
