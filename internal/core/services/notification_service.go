package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// NotificationService posts notifications to an outbound webhook (a mail
// relay or chat integration). Without a webhook URL it only logs.
type NotificationService struct {
	webhookURL string
	client     *http.Client
}

// NewNotificationService creates a new notification service
func NewNotificationService(webhookURL string) *NotificationService {
	return &NotificationService{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// IsEnabled reports whether a webhook URL is configured
func (s *NotificationService) IsEnabled() bool {
	return s.webhookURL != ""
}

type webhookMessage struct {
	Event   string            `json:"event"`
	To      string            `json:"to"`
	Subject string            `json:"subject"`
	Text    string            `json:"text"`
	Data    map[string]string `json:"data,omitempty"`
}

// NotifyPasswordReset sends the reset link for email
func (s *NotificationService) NotifyPasswordReset(ctx context.Context, email, link string) error {
	if !s.IsEnabled() {
		log.Info().Str("email", email).Str("link", link).Msg("📧 Password reset link (webhook disabled)")
		return nil
	}

	return s.post(ctx, webhookMessage{
		Event:   "password_reset",
		To:      email,
		Subject: "Reset your CarePath password",
		Text:    fmt.Sprintf("Use the link below to reset your password. It expires in one hour.\n\n%s", link),
		Data:    map[string]string{"link": link},
	})
}

func (s *NotificationService) post(ctx context.Context, msg webhookMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("notification webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification webhook returned %d", resp.StatusCode)
	}
	return nil
}
