package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)
	defer SetLevel(Notice)

	logger := New("test")

	SetLevel(Notice)
	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Notice("shown notice")

	SetLevel(Debug)
	logger.Debugf("shown %s", "debug")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below the level leaked:\n%s", out)
	}
	if !strings.Contains(out, "shown notice") || !strings.Contains(out, "shown debug") {
		t.Errorf("expected messages missing:\n%s", out)
	}
	if !strings.Contains(out, "[test]") {
		t.Errorf("expected module name in output:\n%s", out)
	}
}

func TestParseVerbosity(t *testing.T) {
	tests := []struct {
		verbose, veryVerbose bool
		expected             Level
	}{
		{false, false, Notice},
		{true, false, Info},
		{false, true, Debug},
		{true, true, Debug},
	}

	for _, tt := range tests {
		if got := ParseVerbosity(tt.verbose, tt.veryVerbose); got != tt.expected {
			t.Errorf("ParseVerbosity(%v, %v) = %v, want %v", tt.verbose, tt.veryVerbose, got, tt.expected)
		}
	}
}
