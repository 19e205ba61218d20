package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Outbound events the Make scenario accepts.
const (
	EventUserRegistered = "user_registered"
	EventDailyDigest    = "scholarships_daily_update"
)

var allowedEvents = map[string]bool{
	EventUserRegistered: true,
	EventDailyDigest:    true,
}

// MakePayload is the body posted to the Make webhook.
type MakePayload struct {
	Email      string `json:"email"`
	EventTitle string `json:"event_title"`
	IsTest     bool   `json:"is_test"`
	Subject    string `json:"subject"`
	HTML       string `json:"html"`
}

// MakeService delivers notification events to the outbound Make webhook.
type MakeService interface {
	BuildPayload(email, eventTitle, htmlBody, subject string, isTest bool) (*MakePayload, error)
	Notify(ctx context.Context, payload *MakePayload)
}

type makeService struct {
	webhookURL string
	apiKey     string
	testEmail  string
	client     *retryablehttp.Client
}

func NewMakeService(webhookURL, apiKey, testEmail string) MakeService {
	client := retryablehttp.NewClient()
	client.RetryMax = 1
	client.HTTPClient.Timeout = 7 * time.Second
	client.Logger = nil

	return &makeService{
		webhookURL: webhookURL,
		apiKey:     apiKey,
		testEmail:  testEmail,
		client:     client,
	}
}

// BuildPayload implements MakeService. Test payloads are rerouted to the
// configured test address.
func (m *makeService) BuildPayload(email, eventTitle, htmlBody, subject string, isTest bool) (*MakePayload, error) {
	if !allowedEvents[eventTitle] {
		return nil, fmt.Errorf("invalid event_title: %s", eventTitle)
	}
	if strings.TrimSpace(htmlBody) == "" {
		return nil, fmt.Errorf("html must be non-empty")
	}

	resolved := email
	if isTest {
		resolved = m.testEmail
	}
	resolved = strings.TrimSpace(resolved)
	if resolved == "" {
		return nil, fmt.Errorf("email must be non-empty")
	}

	return &MakePayload{
		Email:      resolved,
		EventTitle: eventTitle,
		IsTest:     isTest,
		Subject:    subject,
		HTML:       htmlBody,
	}, nil
}

// Notify implements MakeService. Delivery is best effort: failures are logged
// and never propagated to the caller.
func (m *makeService) Notify(ctx context.Context, payload *MakePayload) {
	if m.webhookURL == "" || m.apiKey == "" {
		log.Println("⚠️  Make webhook not configured; skipping event")
		return
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		log.Printf("❌ Make payload encode failed: %v\n", err)
		return
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, m.webhookURL, bytes.NewReader(encoded))
	if err != nil {
		log.Printf("❌ Make request build failed: %v\n", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-make-apikey", m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		log.Printf("❌ Make webhook error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("❌ Make webhook failed: status=%d body=%s\n", resp.StatusCode, body)
	}
}
