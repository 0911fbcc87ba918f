package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observed(redact bool) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &Logger{SugaredLogger: zap.New(core).Sugar(), redact: redact}, logs
}

func TestLoggerRedactsSecretsAndAnswers(t *testing.T) {
	log, logs := observed(true)

	log.Info("submission",
		"webhook_url", "https://discord.com/api/webhooks/1/abc",
		"api_key", "k",
		"text", "As an AI...",
		"nom", "Ada Moreau",
		"score", 45,
	)

	entry := logs.All()[0]
	fields := entry.ContextMap()
	for _, key := range []string{"webhook_url", "api_key", "text"} {
		if fields[key] != "[REDACTED]" {
			t.Errorf("%s = %v, want [REDACTED]", key, fields[key])
		}
	}
	if nom, _ := fields["nom"].(string); !strings.HasPrefix(nom, "hash:") {
		t.Errorf("nom = %v, want hashed value", fields["nom"])
	}
	if fields["score"] != int64(45) {
		t.Errorf("score = %v (%T), want 45", fields["score"], fields["score"])
	}
}

func TestLoggerWithKeepsRedaction(t *testing.T) {
	log, logs := observed(true)

	log.With("database_url", "postgres://u:p@h/db").Warn("connect failed")
	if got := logs.All()[0].ContextMap()["database_url"]; got != "[REDACTED]" {
		t.Errorf("database_url = %v, want [REDACTED]", got)
	}
}

func TestLoggerRedactionDisabled(t *testing.T) {
	log, logs := observed(false)

	log.Debug("raw", "token", "abc")
	if got := logs.All()[0].ContextMap()["token"]; got != "abc" {
		t.Errorf("token = %v, want abc", got)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Options{Level: "chatty"}); err == nil {
		t.Error("expected error for unknown level")
	}
	log, err := New(Options{Mode: "prod", Level: "warn"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if log.SugaredLogger.Desugar().Core().Enabled(zap.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
}
