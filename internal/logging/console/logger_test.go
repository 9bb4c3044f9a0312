package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-featuregate/internal/logging"
	"github.com/goliatone/go-featuregate/internal/logging/console"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
	})

	logger := provider.GetLogger("featuregate.gate")
	logger = logging.WithFields(logger, map[string]any{"module": "featuregate.gate"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"run_id": "run-1234",
	})
	logger = logger.WithContext(ctx)

	logger.Warn("config.validation.error", "error", errors.New("missing key"), "features", []string{"auth", "convex"})

	got := strings.TrimSpace(buf.String())
	want := `2024-03-14T15:09:26.535897Z WARN config.validation.error error="missing key" features=auth,convex logger=featuregate.gate module=featuregate.gate run_id=run-1234`
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{Writer: &buf, MinLevel: &minLevel})

	logger := provider.GetLogger("featuregate.test")
	logger.Debug("ignored.debug")
	logger.Info("included.info")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], "included.info") {
		t.Fatalf("expected only the info entry, got %q", buf.String())
	}
}

func TestConsoleLogger_PositionalArguments(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	provider.GetLogger("x").Info("odd.args", 42, "value", "dangling")

	got := buf.String()
	if !strings.Contains(got, "field_0=value") || !strings.Contains(got, "field_1=dangling") {
		t.Fatalf("expected positional fields, got %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	if level, ok := console.ParseLevel("Warning"); !ok || level != console.LevelWarn {
		t.Fatalf("expected warn level, got %v %v", level, ok)
	}
	if level, ok := console.ParseLevel("verbose"); ok || level != console.LevelInfo {
		t.Fatalf("expected info fallback for unknown level, got %v %v", level, ok)
	}
}
