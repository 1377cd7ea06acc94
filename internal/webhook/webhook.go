// Package webhook delivers domain events to an external automation endpoint.
// Delivery is best-effort: a single synchronous attempt with a bounded
// timeout. Failures are logged and never surfaced to the caller, so a dead
// endpoint cannot block or roll back the transition that produced the event.
package webhook

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/givestream/donation-platform/internal/constants"
)

// Event types emitted by the platform. Payload shapes are consumed by
// downstream automations; field names must stay stable.
const (
	EventUserRegistration         = "user_registration"
	EventUserLogin                = "user_login"
	EventOrganisationCreated      = "organisation_created"
	EventOrganisationVerification = "organisation_verification"
	EventCampaignCreated          = "campaign_created"
	EventDonationCompleted        = "donation_completed"
)

// Emitter sends a domain event. Implementations must not block the caller
// beyond their configured timeout and must not return delivery errors.
type Emitter interface {
	Emit(eventType string, data map[string]interface{})
}

type envelope struct {
	EventType string                 `json:"event_type"`
	Timestamp string                 `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Client posts events as JSON to a configured URL.
type Client struct {
	url        string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates an Emitter posting to url. An empty url yields a client
// that drops every event with a warning, mirroring an unconfigured endpoint.
func NewClient(url string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = constants.DefaultWebhookTimeout
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Emit sends one event. Errors are logged, never returned.
func (c *Client) Emit(eventType string, data map[string]interface{}) {
	if c.url == "" {
		c.log.Warn("webhook URL not configured, dropping event", zap.String("event_type", eventType))
		return
	}

	payload := envelope{
		EventType: eventType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		c.log.Error("failed to marshal webhook payload", zap.String("event_type", eventType), zap.Error(err))
		return
	}

	req, err := http.NewRequest(http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		c.log.Error("failed to build webhook request", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "DonationPlatform/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("webhook request failed", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("webhook rejected",
			zap.String("event_type", eventType),
			zap.Int("status", resp.StatusCode),
		)
		return
	}

	c.log.Info("webhook sent", zap.String("event_type", eventType))
}
