package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const vonageEndpoint = "https://rest.nexmo.com/sms/json"

// VonageSender delivers messages via the Vonage SMS REST API.
type VonageSender struct {
	apiKey    string
	apiSecret string
	from      string
	client    *http.Client
	endpoint  string
}

func NewVonageSender(apiKey, apiSecret, from string) *VonageSender {
	return &VonageSender{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		from:      from,
		client:    &http.Client{Timeout: 10 * time.Second},
		endpoint:  vonageEndpoint,
	}
}

type vonageResponse struct {
	Messages []struct {
		MessageID string `json:"message-id"`
		Status    string `json:"status"`
		ErrorText string `json:"error-text"`
	} `json:"messages"`
}

func (s *VonageSender) Send(ctx context.Context, to, message string) (string, error) {
	form := url.Values{
		"api_key":    {s.apiKey},
		"api_secret": {s.apiSecret},
		"from":       {s.from},
		"to":         {strings.TrimPrefix(to, "+")},
		"text":       {message},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("vonage request: %w", err)
	}
	defer resp.Body.Close()

	var body vonageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("vonage response: %w", err)
	}
	if len(body.Messages) == 0 {
		return "", fmt.Errorf("vonage: empty response")
	}
	// Status "0" is success; anything else carries an error-text.
	if m := body.Messages[0]; m.Status != "0" {
		return "", fmt.Errorf("vonage: status %s: %s", m.Status, m.ErrorText)
	}
	return body.Messages[0].MessageID, nil
}
