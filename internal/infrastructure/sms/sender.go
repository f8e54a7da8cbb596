// Package sms provides the outbound SMS transport behind a single Sender
// interface. The backend is chosen once at startup from configuration and
// injected into whatever needs to send; nothing in this package is looked up
// lazily or held as package-level state.
package sms

import (
	"context"
	"fmt"

	"github.com/propertyhub/api/internal/config"
)

// Sender delivers a text message to a phone number in international form.
// Implementations return a provider message id for log correlation.
type Sender interface {
	Send(ctx context.Context, to, message string) (messageID string, err error)
}

// NewSenderFromConfig selects and constructs the configured backend.
func NewSenderFromConfig(cfg *config.Config) (Sender, error) {
	switch cfg.SMSProvider {
	case "console", "":
		return NewConsoleSender(), nil
	case "sns":
		return NewSNSSender(cfg)
	case "vonage":
		return NewVonageSender(cfg.VonageAPIKey, cfg.VonageAPISecret, cfg.SMSFrom), nil
	default:
		return nil, fmt.Errorf("unsupported SMS provider: %s", cfg.SMSProvider)
	}
}
