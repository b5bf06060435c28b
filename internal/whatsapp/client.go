package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"crm-gateway/internal/config"
)

// Client talks to the WhatsApp Graph API for direct sends and builds wa.me
// links for the "open WhatsApp" confirmation path.
type Client struct {
	Config *config.Config
	HTTP   *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{Config: cfg, HTTP: &http.Client{}}
}

type textObj struct {
	Body string `json:"body"`
}

type genericMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             *textObj `json:"text,omitempty"`
}

func (c *Client) sendRequest(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Config.WhatsAppToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return respBody, fmt.Errorf("API error: %s - %s", resp.Status, string(respBody))
	}
	return respBody, nil
}

// SendMessage sends a plain text message through the Graph API.
func (c *Client) SendMessage(ctx context.Context, to, body string) error {
	endpoint := fmt.Sprintf("https://graph.facebook.com/v19.0/%s/messages", c.Config.PhoneNumberID)
	msg := genericMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             &textObj{Body: body},
	}
	_, err := c.sendRequest(ctx, "POST", endpoint, msg)
	return err
}

// MessageLink builds a wa.me URL that opens a chat with the message
// pre-filled. Non-digit characters in the phone are dropped.
func MessageLink(phone, text string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits.String(), url.QueryEscape(text))
}
