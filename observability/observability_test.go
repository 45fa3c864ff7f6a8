package observability

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debug("debug", String("k", "v"))
	l.Info("info", Int("n", 1))
	l.Warn("warn", Bool("b", true))
	l.Error("error", Error("err", errors.New("boom")))
	if _, ok := l.With(Float("f", 1.5)).(NopLogger); !ok {
		t.Fatalf("With should return a NopLogger")
	}
}

func TestSlogLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	l := NewSlogLogger(slog.New(h)).With(String("section", "rows"))

	l.Debug("next record", Int("recIndex", 3), Bool("pageBreak", false))

	out := buf.String()
	for _, want := range []string{"next record", "section=rows", "recIndex=3", "pageBreak=false"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output %q missing %q", out, want)
		}
	}
}

func TestSlogLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	l := NewSlogLogger(slog.New(h))

	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info entry should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warn entry missing: %q", out)
	}
}
