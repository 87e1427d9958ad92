package extract

import (
	"strings"
	"testing"
)

func TestTextFromContentStream(t *testing.T) {
	stream := []byte(`BT
/F1 12 Tf
72 712 Td
(Hello) Tj
[(Wo) -20 (rld)] TJ
T*
(Next line) Tj
ET`)

	got := textFromContentStream(stream)
	if !strings.Contains(got, "Hello") {
		t.Errorf("Tj operand lost: %q", got)
	}
	if !strings.Contains(got, "World") {
		t.Errorf("TJ array fragments not joined: %q", got)
	}
	if !strings.Contains(got, "Next line") {
		t.Errorf("text after T* lost: %q", got)
	}
	if strings.Contains(got, "/F1") || strings.Contains(got, "712") {
		t.Errorf("operator noise leaked: %q", got)
	}
}

func TestDecodePDFString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"escaped parens", `a\(b\)c`, "a(b)c"},
		{"newline escape", `line\nbreak`, "line\nbreak"},
		{"octal escape", `\101BC`, "ABC"},
		{"backslash", `a\\b`, `a\b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodePDFString([]byte(tt.in)); got != tt.want {
				t.Errorf("decodePDFString(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeStreamText(t *testing.T) {
	in := "a    b\t\tc\nd\x00e"
	got := normalizeStreamText(in)
	if got != "a b c\nde" {
		t.Errorf("normalizeStreamText = %q, want %q", got, "a b c\nde")
	}
}
