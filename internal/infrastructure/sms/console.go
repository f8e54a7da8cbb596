package sms

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ConsoleSender logs messages instead of delivering them. Default backend for
// local development.
type ConsoleSender struct{}

func NewConsoleSender() *ConsoleSender { return &ConsoleSender{} }

func (s *ConsoleSender) Send(_ context.Context, to, message string) (string, error) {
	slog.Info("SMS (console provider)", "to", to, "message", message)
	return fmt.Sprintf("console_%d", time.Now().UnixMilli()), nil
}
