package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_Emit(t *testing.T) {
	var (
		gotBody      []byte
		gotUserAgent string
		gotContent   string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotContent = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second, zap.NewNop())
	client.Emit(EventDonationCompleted, map[string]interface{}{
		"donation_id": 42,
		"amount":      250.0,
	})

	require.Equal(t, "DonationPlatform/1.0", gotUserAgent)
	require.Equal(t, "application/json", gotContent)

	var payload struct {
		EventType string                 `json:"event_type"`
		Timestamp string                 `json:"timestamp"`
		Data      map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	require.Equal(t, EventDonationCompleted, payload.EventType)
	require.Equal(t, 250.0, payload.Data["amount"])

	_, err := time.Parse(time.RFC3339, payload.Timestamp)
	require.NoError(t, err)
}

func TestClient_Emit_NeverPanicsOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second, zap.NewNop())
	// Rejected delivery is logged and swallowed.
	client.Emit(EventUserLogin, map[string]interface{}{"user_id": 1})

	// A dead endpoint behaves the same way.
	dead := NewClient("http://127.0.0.1:1", 200*time.Millisecond, zap.NewNop())
	dead.Emit(EventUserLogin, map[string]interface{}{"user_id": 1})
}

func TestClient_Emit_DropsWithoutURL(t *testing.T) {
	client := NewClient("", 0, zap.NewNop())
	client.Emit(EventUserRegistration, map[string]interface{}{"user_id": 1})
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.Emit(EventUserLogin, map[string]interface{}{"user_id": 1})
	r.Emit(EventDonationCompleted, map[string]interface{}{"donation_id": 2})

	require.Len(t, r.Events(), 2)
	require.Len(t, r.ByType(EventDonationCompleted), 1)
	require.Empty(t, r.ByType(EventCampaignCreated))
}
