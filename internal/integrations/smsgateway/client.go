package smsgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger is the logging surface the client needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// DeliveryRecorder counts delivery outcomes for metrics.
type DeliveryRecorder interface {
	SMSDelivery(status string)
}

// Client sends booking confirmation texts through the external SMS gateway.
type Client struct {
	baseURL    string
	senderID   string
	httpClient *http.Client
	log        Logger
	recorder   DeliveryRecorder
}

// NewClient creates a gateway client.
func NewClient(baseURL, senderID string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		senderID: senderID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// WithRecorder attaches a delivery outcome recorder. Used when metrics are
// enabled.
func (c *Client) WithRecorder(recorder DeliveryRecorder) *Client {
	c.recorder = recorder
	return c
}

func (c *Client) recordDelivery(status string) {
	if c.recorder != nil {
		c.recorder.SMSDelivery(status)
	}
}

// Send delivers one message through the gateway.
func (c *Client) Send(ctx context.Context, to, body string) (*SendResponse, error) {
	payload, err := json.Marshal(Message{To: to, SenderID: c.senderID, Body: body})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode message: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/v1/messages", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted:
		// continue
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var sendResp SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sendResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &sendResp, nil
}

// SendWithGracefulDegradation delivers a message, downgrading any gateway
// failure to ErrServiceDegraded. The confirmation text is best effort: a
// booking must never fail because the gateway is down.
func (c *Client) SendWithGracefulDegradation(ctx context.Context, to, body string) (*SendResponse, error) {
	resp, err := c.Send(ctx, to, body)
	if err != nil {
		c.log.Error("SMS gateway unavailable, applying graceful degradation for to=%s: %v", to, err)
		c.recordDelivery("degraded")
		return nil, fmt.Errorf("%w: to=%s, error=%v", ErrServiceDegraded, to, err)
	}

	c.log.Info("Confirmation SMS accepted by gateway: to=%s, message_id=%s", to, resp.MessageID)
	c.recordDelivery("delivered")
	return resp, nil
}
