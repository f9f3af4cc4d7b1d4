package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNotificationService_Disabled(t *testing.T) {
	svc := NewNotificationService("")
	if svc.IsEnabled() {
		t.Fatal("service without webhook reports enabled")
	}
	if err := svc.NotifyPasswordReset(context.Background(), "a@clinic.test", "http://x/reset"); err != nil {
		t.Errorf("NotifyPasswordReset: %v", err)
	}
}

func TestNotificationService_PostsWebhook(t *testing.T) {
	var got webhookMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	svc := NewNotificationService(srv.URL)
	if err := svc.NotifyPasswordReset(context.Background(), "a@clinic.test", "http://x/reset?token=abc"); err != nil {
		t.Fatalf("NotifyPasswordReset: %v", err)
	}
	if got.Event != "password_reset" || got.To != "a@clinic.test" || got.Data["link"] != "http://x/reset?token=abc" {
		t.Errorf("webhook payload = %+v", got)
	}
}

func TestNotificationService_WebhookFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if err := NewNotificationService(srv.URL).NotifyPasswordReset(context.Background(), "a@clinic.test", "l"); err == nil {
		t.Error("expected error for 502 response")
	}
}
