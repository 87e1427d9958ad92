package joblog

import (
	"testing"
)

func TestLogOrdering(t *testing.T) {
	var lg Log
	lg.Infof("first")
	lg.Warnf("second %d", 2)
	lg.Errorf("third")

	msgs := lg.Messages()
	want := []string{"first", "second 2", "third"}
	if len(msgs) != len(want) {
		t.Fatalf("got %d entries, want %d", len(msgs), len(want))
	}
	for i := range want {
		if msgs[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, msgs[i], want[i])
		}
	}

	levels := []Level{LevelInfo, LevelWarning, LevelError}
	for i, e := range lg.Entries() {
		if e.Level != levels[i] {
			t.Errorf("entry %d level = %q, want %q", i, e.Level, levels[i])
		}
		if e.Time.IsZero() {
			t.Errorf("entry %d has zero timestamp", i)
		}
	}
}

func TestLogAppendMergesChild(t *testing.T) {
	var parent, child Log
	parent.Infof("parent start")
	child.Infof("child a")
	child.Warnf("child b")
	parent.Append(child.Entries()...)
	parent.Infof("parent end")

	want := []string{"parent start", "child a", "child b", "parent end"}
	got := parent.Messages()
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestZeroValueUsable(t *testing.T) {
	var lg Log
	if len(lg.Entries()) != 0 {
		t.Fatal("zero value should have no entries")
	}
	lg.Infof("ok")
	if len(lg.Entries()) != 1 {
		t.Fatal("expected one entry after Infof")
	}
}
