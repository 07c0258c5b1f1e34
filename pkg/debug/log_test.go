package debug

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/recera/nodeditor/pkg/scheduler"
)

func TestMessage(t *testing.T) {
	got := Message("[Scheduler] Loop ended with", 3, "tasks pending")
	if got != "[Scheduler] Loop ended with 3 tasks pending" {
		t.Errorf("Unexpected message %q", got)
	}
}

func TestEnableLogging_TracesScheduler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	EnableLogging(logger)
	defer EnableLogging(nil)

	s := scheduler.NewScheduler(4)
	s.SetErrorHandler(func(error) bool { return true })
	s.Start()
	if err := s.Run(context.Background(), func() { panic("boom") }); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "task panic: boom") {
		t.Errorf("Expected panic trace, got %s", out)
	}
	if !strings.Contains(out, "[Scheduler] Starting loop") {
		t.Errorf("Expected loop start trace, got %s", out)
	}
	if !strings.Contains(out, "level=DEBUG") {
		t.Errorf("Expected debug records, got %s", out)
	}
}

func TestEnableLogging_SkipsAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	EnableLogging(logger)
	defer EnableLogging(nil)

	s := scheduler.NewScheduler(1)
	s.Start()
	s.Stop()

	if buf.Len() != 0 {
		t.Errorf("Expected no output at info level, got %s", buf.String())
	}
}
