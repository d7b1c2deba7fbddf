package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// captureStdout runs f with os.Stdout redirected to a pipe and returns the output.
func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	f()

	_ = w.Close()
	b, _ := io.ReadAll(r)
	_ = r.Close()
	return string(b)
}

func lastNonEmptyLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return lines[i]
		}
	}
	return ""
}

func TestLogger_IncludesStackAndServiceOnError(t *testing.T) {
	out := captureStdout(t, func() {
		log := New("travis-test")
		log.Error().Stack().Err(errors.New("serial write failed")).Msg("send dropped")
	})

	line := lastNonEmptyLine(out)
	if line == "" {
		t.Fatalf("no output captured")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("invalid json log: %v\n%s", err, line)
	}
	if svc, _ := payload["service"].(string); svc != "travis-test" {
		t.Fatalf("expected service=travis-test, got %v", payload["service"])
	}
	if lvl, _ := payload["level"].(string); lvl != "error" {
		t.Fatalf("expected level=error, got %v", payload["level"])
	}
	if _, ok := payload["stack"]; !ok {
		t.Fatalf("expected stack field in error log: %s", line)
	}
}

func TestConsoleLogger_WritesPlainText(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsole("travis-test", &buf)
	log.Info().Str("port", "COM4").Msg("serial connected")

	out := buf.String()
	if !strings.Contains(out, "serial connected") || !strings.Contains(out, "port=COM4") {
		t.Fatalf("unexpected console output: %q", out)
	}
}

func TestLevel(t *testing.T) {
	if Level("DEBUG") != zerolog.DebugLevel {
		t.Fatalf("expected debug level")
	}
	if Level("nonsense") != zerolog.InfoLevel {
		t.Fatalf("expected info fallback")
	}
}
