package deliver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rmcnabb/farewatch/pkg/errors"
)

func testReport() Report {
	return Report{
		Subject: "Fare watch: 2 fares from NZD 899",
		HTML:    []byte("<html><body>report</body></html>"),
		RunID:   "run-1",
	}
}

func TestBrevo_Deliver(t *testing.T) {
	var got brevoMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("api-key") != "key-1" {
			t.Errorf("api-key header = %q", r.Header.Get("api-key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	b, err := NewBrevo("key-1", "alerts@example.com", []string{"me@example.com", "you@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	b.Endpoint = server.URL

	if err := b.Deliver(context.Background(), testReport()); err != nil {
		t.Fatalf("Deliver failed: %v", err)
	}
	if got.Sender.Email != "alerts@example.com" {
		t.Errorf("sender = %q", got.Sender.Email)
	}
	if len(got.To) != 2 {
		t.Errorf("recipients = %v", got.To)
	}
	if got.Subject != "Fare watch: 2 fares from NZD 899" {
		t.Errorf("subject = %q", got.Subject)
	}
}

func TestBrevo_Deliver_MissingKey(t *testing.T) {
	b, err := NewBrevo("", "alerts@example.com", []string{"me@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	err = b.Deliver(context.Background(), testReport())
	if !errors.Is(err, errors.ErrCodeConfigMissing) {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestBrevo_Deliver_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()

	b, _ := NewBrevo("key-1", "alerts@example.com", []string{"me@example.com"})
	b.Endpoint = server.URL

	err := b.Deliver(context.Background(), testReport())
	if !errors.Is(err, errors.ErrCodeDelivery) {
		t.Errorf("expected delivery error, got %v", err)
	}
}

func TestNewBrevo_Invalid(t *testing.T) {
	if _, err := NewBrevo("key", "", []string{"me@example.com"}); err == nil {
		t.Error("missing sender should be rejected")
	}
	if _, err := NewBrevo("key", "alerts@example.com", nil); err == nil {
		t.Error("missing recipients should be rejected")
	}
}

func TestWebhook_Deliver(t *testing.T) {
	var got webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
	}))
	defer server.Close()

	wh, err := NewWebhook(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if err := wh.Deliver(context.Background(), testReport()); err != nil {
		t.Fatalf("Deliver failed: %v", err)
	}
	if got.RunID != "run-1" || got.Subject == "" || got.HTML == "" {
		t.Errorf("payload = %+v", got)
	}
}

func TestWebhook_Deliver_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	wh, _ := NewWebhook(server.URL)
	err := wh.Deliver(context.Background(), testReport())
	if !errors.Is(err, errors.ErrCodeDelivery) {
		t.Errorf("expected delivery error, got %v", err)
	}
}

func TestDryRun_Deliver(t *testing.T) {
	d := NewDryRun(nil)
	if err := d.Deliver(context.Background(), testReport()); err != nil {
		t.Errorf("dry run should never fail: %v", err)
	}
}
