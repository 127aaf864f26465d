package console

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		wantInfo  bool
		wantDebug bool
	}{
		{"quiet", LevelQuiet, false, false},
		{"normal", LevelNormal, true, false},
		{"verbose", LevelVerbose, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			log := New(&out, &errOut, tt.level)

			log.Info("info message")
			log.Debug("debug message")
			log.Warn("warn message")
			log.Error("error message")

			if got := strings.Contains(out.String(), "info message"); got != tt.wantInfo {
				t.Errorf("info printed = %v, want %v", got, tt.wantInfo)
			}
			if got := strings.Contains(out.String(), "debug message"); got != tt.wantDebug {
				t.Errorf("debug printed = %v, want %v", got, tt.wantDebug)
			}
			if !strings.Contains(out.String(), "warn message") {
				t.Error("warnings must always be printed")
			}
			if !strings.Contains(errOut.String(), "error message") {
				t.Error("errors must go to the error writer")
			}
			if strings.Contains(out.String(), "error message") {
				t.Error("errors must not go to the regular writer")
			}
		})
	}
}

func TestLoggerProgress(t *testing.T) {
	var out bytes.Buffer
	log := New(&out, &out, LevelNormal)

	log.Progress(2, 10, "⬇️ ", "ephemeral")

	want := "   [2/10] ⬇️  ephemeral\n"
	if out.String() != want {
		t.Errorf("Progress() wrote %q, want %q", out.String(), want)
	}
}

func TestLoggerPlainTextOnBuffers(t *testing.T) {
	var out bytes.Buffer
	log := New(&out, &out, LevelNormal)

	log.Header("COMPLETE")

	if strings.Contains(out.String(), "\x1b[") {
		t.Errorf("Expected no ANSI escapes for a non-terminal writer, got %q", out.String())
	}
	if strings.TrimSpace(out.String()) != "=== COMPLETE ===" {
		t.Errorf("Header() wrote %q", out.String())
	}
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Info("nothing")
	log.Error("nothing")
	if log.Level() != LevelQuiet {
		t.Errorf("Discard() level = %v, want LevelQuiet", log.Level())
	}
}
