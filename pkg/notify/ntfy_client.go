package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// NtfyClient sends notifications to an ntfy server.
type NtfyClient struct {
	serverURL string
	topic     string
	client    *http.Client
}

// NewNtfyClient creates a new ntfy client.
func NewNtfyClient(serverURL, topic string) *NtfyClient {
	return &NtfyClient{
		serverURL: serverURL,
		topic:     topic,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Send posts the notification to the configured topic.
func (c *NtfyClient) Send(n Notification) error {
	message := n.Message
	if message == "" {
		message = n.Pattern
	}

	payload := map[string]interface{}{
		"topic":   c.topic,
		"title":   n.Title,
		"message": message,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.serverURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ntfy returned status %d", resp.StatusCode)
	}

	return nil
}
