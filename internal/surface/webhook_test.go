package surface_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lsmc/candidature/internal/application"
	"github.com/lsmc/candidature/internal/surface"
	pkgsurface "github.com/lsmc/candidature/pkg/surface"
)

func TestWebhookPublisher_Publish(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	p := surface.NewWebhookPublisher(srv.URL)
	msg := pkgsurface.BuildConfirmationPayload(&application.Application{Nom: "Ada", Poste: "Interne"})
	if err := p.Publish(context.Background(), msg); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	if !strings.HasPrefix(got["content"].(string), "Confirmation:") {
		t.Errorf("unexpected content %v", got["content"])
	}
}

func TestWebhookPublisher_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Unknown Webhook"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	err := surface.NewWebhookPublisher(srv.URL).Publish(context.Background(), pkgsurface.WebhookMessage{})
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "Unknown Webhook") {
		t.Errorf("error should carry status and body, got %v", err)
	}
}

func TestWebhookPublisher_NotConfigured(t *testing.T) {
	p := surface.NewWebhookPublisher("")
	if p.Configured() {
		t.Error("expected unconfigured publisher")
	}
	err := p.Publish(context.Background(), pkgsurface.WebhookMessage{})
	if !errors.Is(err, surface.ErrWebhookNotConfigured) {
		t.Errorf("expected ErrWebhookNotConfigured, got %v", err)
	}
}

func TestWebhookPublisher_RateLimitHonorsContext(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := surface.NewWebhookPublisher(srv.URL, surface.WithRateLimit(time.Hour, 1))

	if err := p.Publish(context.Background(), pkgsurface.WebhookMessage{}); err != nil {
		t.Fatalf("first publish: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := p.Publish(ctx, pkgsurface.WebhookMessage{}); err == nil {
		t.Fatal("expected second publish to be rate limited")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected 1 request to reach the webhook, got %d", n)
	}
}

func TestWebhookPublisher_NoRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := surface.NewWebhookPublisher(srv.URL, surface.WithRateLimit(0, 0))
	for i := 0; i < 10; i++ {
		if err := p.Publish(context.Background(), pkgsurface.WebhookMessage{}); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}
}
