package services

import (
	"context"
	"time"
)

// PasswordResetNotifier delivers a password reset link to a user
type PasswordResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, email, link string) error
}

// systemClock is the default clock of every service; tests replace it
func systemClock() time.Time {
	return time.Now().UTC()
}
