// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package genai provides the HTTP client for the hosted Coach chat API.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jeranaias/coach-tui/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the chat API client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnreachable
	ErrTypeTimeout
	ErrTypeUnauthorized
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable  = &ClientError{Type: ErrTypeUnreachable, Message: "chat API is unreachable"}
	ErrTimeout      = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrUnauthorized = &ClientError{Type: ErrTypeUnauthorized, Message: "API key rejected"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the chat API client.
type ClientConfig struct {
	// BaseURL of the hosted API (default: https://api.coach.morganforge.dev)
	BaseURL string

	// APIKey sent as a bearer token. Empty disables the header (test servers).
	APIKey string

	// Model to request (default: "coach-2.5")
	Model string

	// System instruction prepended to every exchange. Defaults to
	// SystemInstruction; settable for tests and config overrides.
	System string

	// ConnectTimeout bounds establishing the streaming connection. The
	// stream body itself is unbounded: a reply takes as long as it takes,
	// and cancellation goes through the context.
	ConnectTimeout time.Duration

	// RequestsPerMinute throttles outgoing chat requests (0 = no limit).
	RequestsPerMinute int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "https://api.coach.morganforge.dev",
		Model:             "coach-2.5",
		System:            SystemInstruction,
		ConnectTimeout:    10 * time.Second,
		RequestsPerMinute: 30,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the hosted chat API.
//
// The Client is stateless with respect to conversations: all context travels
// in the History value passed to StreamChat. It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new chat API client.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.coach.morganforge.dev"
	}
	if config.Model == "" {
		config.Model = "coach-2.5"
	}
	if config.System == "" {
		config.System = SystemInstruction
	}
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = 10 * time.Second
	}

	limit := rate.Inf
	if config.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(config.RequestsPerMinute) / 60.0)
	}

	return &Client{
		config: config,
		// No overall client timeout: streaming responses stay open for the
		// life of the reply and cancellation goes through the context.
		// Connection setup and first headers are bounded separately.
		httpClient: &http.Client{
			Transport: &http.Transport{
				DialContext:           (&net.Dialer{Timeout: config.ConnectTimeout}).DialContext,
				TLSHandshakeTimeout:   config.ConnectTimeout,
				ResponseHeaderTimeout: config.ConnectTimeout,
			},
		},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.config.Model
}

// =============================================================================
// STREAMING CHAT
// =============================================================================

// StreamChat sends one user message with its conversational context and
// returns a channel of reply fragments.
//
// The sequence is lazy and finite: fragments arrive as the model produces
// them, the final fragment has Done set, and the channel is closed
// afterwards. On failure a single fragment with Err set is delivered before
// close, whether the failure happens before or after partial content.
// Cancelling the context tears the stream down.
func (c *Client) StreamChat(ctx context.Context, history History, text string) <-chan Fragment {
	ch := make(chan Fragment)

	go func() {
		defer close(ch)

		if err := c.stream(ctx, history, text, ch); err != nil {
			select {
			case ch <- Fragment{Err: err}:
			case <-ctx.Done():
			}
		}
	}()

	return ch
}

// stream performs the HTTP exchange and forwards decoded fragments to out.
func (c *Client) stream(ctx context.Context, history History, text string, out chan<- Fragment) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &ClientError{Type: ErrTypeTimeout, Message: "request throttled", Cause: err}
	}

	messages := make([]Turn, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, Turn{Role: model.RoleUser, Text: text})

	body, err := json.Marshal(chatRequest{
		Model:    c.config.Model,
		System:   c.config.System,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/chat/stream", bytes.NewReader(body))
	if err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	log.Debug().Int("history_turns", len(history)).Str("model", c.config.Model).Msg("opening chat stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return ErrTimeout
		}
		return &ClientError{Type: ErrTypeUnreachable, Message: "chat API is unreachable", Cause: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: apiErr.Error}
		}
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "stream request failed: " + resp.Status}
	}

	reader := newStreamReader(resp.Body)
	err = reader.process(ctx, out)
	log.Debug().Err(err).Msg("chat stream closed")
	return err
}

// isTimeout reports whether err is a network-level timeout.
func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
