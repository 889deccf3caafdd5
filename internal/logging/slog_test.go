package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "state transition", "from", "awaiting_name", "to", "awaiting_address")
	log.Info(ctx, "landmark created", "id", 6)
	log.Warn(ctx, "photo not stored", "user_id", 42)
	log.Error(ctx, "workflow aborted", "flow", "intake")

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "to=awaiting_address",
		"level=INFO", "id=6",
		"level=WARN", "user_id=42",
		"level=ERROR", "flow=intake",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("component", "front").Info(context.Background(), "message received", "kind", "text")

	out := buf.String()
	for _, want := range []string{"component=front", "kind=text", `msg="message received"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestNop_WritesNothing(t *testing.T) {
	log := Nop()
	log.Error(context.TODO(), "ignored", "k", "v")
	log.With("a", 1).Info(context.TODO(), "ignored")
}
