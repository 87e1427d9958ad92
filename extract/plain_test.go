package extract

import (
	"context"
	"strings"
	"testing"
)

func TestPlainText(t *testing.T) {
	dir := t.TempDir()
	path := writeFileFixture(t, dir, "note.txt", "hello\nworld")

	text, _ := Plain(context.Background(), path)
	if text != "hello\nworld" {
		t.Errorf("text = %q, want file contents unchanged", text)
	}
}

func TestPlainTextInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := writeFileFixture(t, dir, "latin1.txt", "caf\xe9")

	text, lg := Plain(context.Background(), path)
	if !strings.Contains(text, "caf�") {
		t.Errorf("invalid byte not replaced: %q", text)
	}
	msgs := strings.Join(lg.Messages(), "\n")
	if !strings.Contains(msgs, "invalid UTF-8") {
		t.Errorf("missing replacement warning:\n%s", msgs)
	}
}

func TestPlainTextMissingFile(t *testing.T) {
	text, _ := Plain(context.Background(), t.TempDir()+"/absent.txt")
	if !strings.HasPrefix(text, "[Error extracting text:") {
		t.Errorf("text = %q, want error marker", text)
	}
}
