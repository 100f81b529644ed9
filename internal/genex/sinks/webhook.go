package sinks

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/biocircuit/genesim/internal/genex"
)

// WebhookSink POSTs every snapshot batch to a webhook URL as a JSON
// StreamEnvelope.
type WebhookSink struct {
	runID   string
	url     string
	client  *http.Client
	headers map[string]string
}

// NewWebhookSink creates a webhook sink targeting url.
func NewWebhookSink(url string) *WebhookSink {
	return &WebhookSink{
		runID:   uuid.NewString(),
		url:     url,
		client:  &http.Client{Timeout: 5 * time.Second},
		headers: make(map[string]string),
	}
}

// SetHeader sets a custom header to include in webhook requests.
func (s *WebhookSink) SetHeader(key, value string) {
	s.headers[key] = value
}

// RunID returns the identifier stamped on every delivered envelope.
func (s *WebhookSink) RunID() string {
	return s.runID
}

// Write delivers one snapshot batch.
func (s *WebhookSink) Write(rows []genex.CountRow) error {
	data, err := genex.EncodeRowsJSON(rows)
	if err != nil {
		return err
	}
	body := []byte(fmt.Sprintf(`{"run_id":%q,"rows":%s}`, s.runID, data))

	req, err := http.NewRequest(http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range s.headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Close is a no-op for webhook sinks.
func (s *WebhookSink) Close() error {
	return nil
}
