package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/propertyhub/api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSenderFromConfig_Console(t *testing.T) {
	s, err := NewSenderFromConfig(&config.Config{SMSProvider: "console"})
	require.NoError(t, err)
	assert.IsType(t, &ConsoleSender{}, s)
}

func TestNewSenderFromConfig_DefaultsToConsole(t *testing.T) {
	s, err := NewSenderFromConfig(&config.Config{})
	require.NoError(t, err)
	assert.IsType(t, &ConsoleSender{}, s)
}

func TestNewSenderFromConfig_Vonage(t *testing.T) {
	s, err := NewSenderFromConfig(&config.Config{SMSProvider: "vonage", VonageAPIKey: "k", VonageAPISecret: "s", SMSFrom: "PropertyHub"})
	require.NoError(t, err)
	assert.IsType(t, &VonageSender{}, s)
}

func TestNewSenderFromConfig_Unknown(t *testing.T) {
	_, err := NewSenderFromConfig(&config.Config{SMSProvider: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestConsoleSender_ReturnsMessageID(t *testing.T) {
	msgID, err := NewConsoleSender().Send(context.Background(), "+97699119911", "code: 123456")
	require.NoError(t, err)
	assert.NotEmpty(t, msgID)
}

func TestVonageSender_Success(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"api_key": r.PostFormValue("api_key"),
			"to":      r.PostFormValue("to"),
			"text":    r.PostFormValue("text"),
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"messages": []map[string]string{{"message-id": "msg-1", "status": "0"}},
		})
	}))
	defer srv.Close()

	s := NewVonageSender("key", "secret", "PropertyHub")
	s.endpoint = srv.URL

	msgID, err := s.Send(context.Background(), "+97699119911", "code: 123456")
	require.NoError(t, err)
	assert.Equal(t, "msg-1", msgID)
	assert.Equal(t, "key", gotForm["api_key"])
	// Vonage wants the number without the plus sign.
	assert.Equal(t, "97699119911", gotForm["to"])
	assert.Equal(t, "code: 123456", gotForm["text"])
}

func TestVonageSender_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"messages": []map[string]string{{"status": "2", "error-text": "Missing to param"}},
		})
	}))
	defer srv.Close()

	s := NewVonageSender("key", "secret", "PropertyHub")
	s.endpoint = srv.URL

	_, err := s.Send(context.Background(), "+97699119911", "code: 123456")
	assert.ErrorContains(t, err, "Missing to param")
}

func TestVonageSender_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"messages": []map[string]string{}})
	}))
	defer srv.Close()

	s := NewVonageSender("key", "secret", "PropertyHub")
	s.endpoint = srv.URL

	_, err := s.Send(context.Background(), "+97699119911", "code: 123456")
	assert.Error(t, err)
}
