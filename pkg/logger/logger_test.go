package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":  DEBUG,
		" ERROR": ERROR,
		"INFO":   INFO,
		"":       INFO,
		"trace":  INFO,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "ERROR")

	l.Debugf("hidden debug %d", 1)
	l.Printf("hidden info %d", 2)
	l.Errorf("visible error %d", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("filtered messages leaked: %q", out)
	}
	if !strings.Contains(out, "visible error 3") {
		t.Errorf("error message missing: %q", out)
	}
	if l.Level() != ERROR {
		t.Errorf("Level = %v", l.Level())
	}
}
