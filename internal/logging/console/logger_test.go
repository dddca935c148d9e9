package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-breadcrumb/internal/logging"
	"github.com/goliatone/go-breadcrumb/internal/logging/console"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
	})

	logger := logging.ModuleLogger(provider, "breadcrumb.builder")
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"request_id": "req-1234",
	})
	logger = logger.WithContext(ctx)

	itemID := uuid.MustParse("8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999")
	logger.Debug("breadcrumbs.build.completed",
		"item_id", itemID,
		"path_info", "/products/widgets",
		"items", 4,
		"label", "Widget A",
	)

	got := strings.TrimSpace(buf.String())
	want := `2024-03-14T15:09:26.535897Z DEBUG breadcrumbs.build.completed item_id=8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999 items=4 label="Widget A" logger=breadcrumb.builder module=breadcrumb.builder path_info=/products/widgets request_id=req-1234`
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("breadcrumb.test")
	logger.Debug("ignored.debug", "foo", "bar")
	logger.Info("included.info", "foo", "bar")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "included.info") {
		t.Fatalf("expected info log to be written, got %s", lines[0])
	}
}

func TestConsoleLogger_OddArgumentsAndErrors(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return time.Unix(0, 0) },
	})
	provider.GetLogger("x").Error("failed", "err", errors.New("menu not found"), "dangling")

	got := strings.TrimSpace(buf.String())
	if !strings.Contains(got, `err="menu not found"`) || !strings.Contains(got, "arg_2=dangling") {
		t.Fatalf("unexpected entry %s", got)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]console.Level{
		"trace":   console.LevelTrace,
		" DEBUG ": console.LevelDebug,
		"info":    console.LevelInfo,
		"warning": console.LevelWarn,
		"error":   console.LevelError,
	}
	for raw, want := range cases {
		got, err := console.ParseLevel(raw)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", raw, got, err)
		}
	}
	if _, err := console.ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
