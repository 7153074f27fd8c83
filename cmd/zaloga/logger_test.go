package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelRouterSplitsByLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := slog.New(newLogHandler(&out, &errOut, "development"))

	logger.Debug("hidden")
	logger.Info("item created", "id", 1)
	logger.Warn("slow query")
	logger.Error("request failed")

	if strings.Contains(out.String(), "hidden") || strings.Contains(errOut.String(), "hidden") {
		t.Error("debug records should be dropped")
	}
	if !strings.Contains(out.String(), "item created") || !strings.Contains(out.String(), "slow query") {
		t.Errorf("info and warn should go to stdout, got %q", out.String())
	}
	if strings.Contains(out.String(), "request failed") {
		t.Error("error records should not go to stdout")
	}
	if !strings.Contains(errOut.String(), "request failed") {
		t.Errorf("error records should go to stderr, got %q", errOut.String())
	}
}

func TestLevelRouterKeepsAttrs(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := slog.New(newLogHandler(&out, &errOut, "development")).With("component", "api")

	logger.Error("boom")
	if !strings.Contains(errOut.String(), "component=api") {
		t.Errorf("expected attrs on stderr handler, got %q", errOut.String())
	}
}

func TestProductionLogsAreJSON(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := slog.New(newLogHandler(&out, &errOut, "production"))

	logger.Info("server started", "addr", ":8080")

	var record map[string]any
	if err := json.Unmarshal(out.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", out.String(), err)
	}
	if record["msg"] != "server started" || record["addr"] != ":8080" {
		t.Errorf("unexpected record %v", record)
	}
}
