// Package push implements the best-effort push-notification channel.
// The command queue is always the channel of record; anything here is
// latency optimization only.
package push

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const fcmEndpoint = "https://fcm.googleapis.com/fcm/send"

// FCMClient sends notifications through the FCM HTTP API.
type FCMClient struct {
	client    *resty.Client
	serverKey string
}

// NewFCMClient creates an FCM client authenticated with the given
// server key.
func NewFCMClient(serverKey string) *FCMClient {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &FCMClient{
		client:    client,
		serverKey: serverKey,
	}
}

type fcmMessage struct {
	To           string          `json:"to"`
	Notification fcmNotification `json:"notification"`
	Data         map[string]any  `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

// Push delivers a notification to a single device token.
func (c *FCMClient) Push(ctx context.Context, token, title, body string, data map[string]any) error {
	var result fcmResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "key="+c.serverKey).
		SetBody(fcmMessage{
			To:           token,
			Notification: fcmNotification{Title: title, Body: body},
			Data:         data,
		}).
		SetResult(&result).
		Post(fcmEndpoint)
	if err != nil {
		return fmt.Errorf("fcm request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("fcm returned status %d", resp.StatusCode())
	}
	if result.Failure > 0 && result.Success == 0 {
		return fmt.Errorf("fcm rejected the message")
	}
	return nil
}

// NullPusher is used when no push provider is configured. Devices
// still receive everything through the command queue on their next
// poll.
type NullPusher struct{}

// NewNullPusher creates a no-op pusher.
func NewNullPusher() *NullPusher {
	return &NullPusher{}
}

// Push reports the provider as unavailable.
func (p *NullPusher) Push(ctx context.Context, token, title, body string, data map[string]any) error {
	return fmt.Errorf("no push provider configured")
}
