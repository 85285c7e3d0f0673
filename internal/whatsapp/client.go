// Package whatsapp is the outbound gateway client for the Meta Cloud API.
// Credentials and the test-mode flag are read fresh from the settings store
// on every send, so an admin toggling test mode takes effect immediately.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"leadgate_backend/internal/settings"
	"leadgate_backend/platform/logger"
	"leadgate_backend/platform/phone"
)

const defaultBaseURL = "https://graph.facebook.com/v18.0"

// SendResult reports the outcome of an outbound send.
type SendResult struct {
	Success   bool
	Detail    string
	Simulated bool
}

// CredentialsReader provides the gateway credentials; settings.Service
// satisfies it.
type CredentialsReader interface {
	GatewayCredentials(ctx context.Context) (settings.Credentials, error)
}

type Client struct {
	baseURL string
	creds   CredentialsReader
	http    *http.Client
	log     *logger.Logger
}

type messagePayload struct {
	MessagingProduct string      `json:"messaging_product"`
	RecipientType    string      `json:"recipient_type"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Text             textPayload `json:"text"`
}

type textPayload struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type apiResponse struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient creates a gateway client.
func NewClient(creds CredentialsReader, log *logger.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		creds:   creds,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// NewClientWithBaseURL creates a client against a non-default endpoint.
// Used by tests to point at a local server.
func NewClientWithBaseURL(baseURL string, creds CredentialsReader, log *logger.Logger) *Client {
	c := NewClient(creds, log)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// Send delivers a text message to the destination phone number. When test
// mode is on, or credentials are absent, the send short-circuits to a
// simulated success without any network call, and the result records that.
func (c *Client) Send(ctx context.Context, destinationPhone, bodyText string) (SendResult, error) {
	creds, err := c.creds.GatewayCredentials(ctx)
	if err != nil {
		return SendResult{Detail: "failed to read gateway credentials"}, err
	}

	if creds.TestMode || creds.AccessToken == "" || creds.PhoneNumberID == "" {
		c.log.Warn("whatsapp send simulated", "to", destinationPhone, "test_mode", creds.TestMode)
		return SendResult{Success: true, Detail: "simulated send (test mode)", Simulated: true}, nil
	}

	wirePhone := phone.WireFormat(destinationPhone)

	payload := messagePayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               wirePhone,
		Type:             "text",
		Text:             textPayload{Body: bodyText},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return SendResult{Detail: "failed to encode message"}, err
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, creds.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return SendResult{Detail: "failed to build request"}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return SendResult{Detail: "gateway unreachable"}, fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusOK {
		c.log.Info("whatsapp sent", "to", wirePhone)
		return SendResult{Success: true, Detail: "sent"}, nil
	}

	data, _ := io.ReadAll(resp.Body)
	detail := gatewayErrorDetail(data, resp.StatusCode)
	c.log.Error("whatsapp send rejected", "to", wirePhone, "status", resp.StatusCode, "detail", detail)
	return SendResult{Success: false, Detail: detail}, nil
}

func gatewayErrorDetail(data []byte, status int) string {
	var parsed apiResponse
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Error != nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return fmt.Sprintf("gateway returned status %d", status)
}
