package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	log := NewLogger("gscsync-test", "info", false)
	b := &bytes.Buffer{}
	log.SetOutput(b)
	log.Debug("this debug line should be suppressed")
	log.Info("this info line should appear")
	out := b.String()
	if strings.Contains(out, "should be suppressed") {
		t.Fatal("debug output was not suppressed at info level")
	}
	if !strings.Contains(out, "should appear") {
		t.Fatal("info output is missing")
	}
	if !strings.Contains(out, "gscsync-test") {
		t.Fatal("service field is missing from log output")
	}
}
