package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"Edelweiss/internal/domain/models"
	dservice "Edelweiss/internal/domain/service"
	xhttp "Edelweiss/pkg/http"
	applogger "Edelweiss/pkg/logger"
)

const (
	predictFallbackMessage = "Prediction failed"
	chatFallbackMessage    = "Chat request failed"
)

// TransportError is the single failure type surfaced to callers. Message
// carries the upstream detail when one was provided, otherwise a generic
// operation-specific fallback.
type TransportError struct {
	Message string
	Status  int
	Err     error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client calls the external prediction service over HTTP. It implements
// service.Forecaster. Responses are never cached; each call is exactly one
// network request.
type Client struct {
	baseURL  string
	http     *xhttp.Client
	chatHTTP *xhttp.Client
	logger   *applogger.Logger
}

// New creates a prediction service client.
func New(baseURL string, timeout, chatTimeout time.Duration, l *applogger.Logger) dservice.Forecaster {
	return &Client{
		baseURL:  baseURL,
		http:     xhttp.NewClient(xhttp.WithTimeout(timeout)),
		chatHTTP: xhttp.NewClient(xhttp.WithTimeout(chatTimeout)),
		logger:   l,
	}
}

type predictPayload struct {
	Symbol   string `json:"symbol"`
	Lookback int    `json:"lookback"`
}

type chatPayload struct {
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

// Predict requests a prediction for symbol.
func (c *Client) Predict(ctx context.Context, symbol string, lookback int) (*models.PredictionResponse, error) {
	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/predict",
		Body:   predictPayload{Symbol: symbol, Lookback: lookback},
	})
	if err != nil {
		c.logger.Warn("predict request failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return nil, &TransportError{Message: predictFallbackMessage, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.upstreamError(resp.StatusCode, resp.Body, predictFallbackMessage)
	}

	var out models.PredictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &TransportError{Message: predictFallbackMessage, Err: err}
	}
	return &out, nil
}

// Chat forwards a chat message with optional dashboard context and returns
// the raw upstream reply.
func (c *Client) Chat(ctx context.Context, message string, chatCtx map[string]any) (json.RawMessage, error) {
	resp, err := c.chatHTTP.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/chat",
		Body:   chatPayload{Message: message, Context: chatCtx},
	})
	if err != nil {
		c.logger.Warn("chat request failed", applogger.Error(err))
		return nil, &TransportError{Message: chatFallbackMessage, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.upstreamError(resp.StatusCode, resp.Body, chatFallbackMessage)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Message: chatFallbackMessage, Err: err}
	}
	return json.RawMessage(raw), nil
}

// upstreamError extracts the {"detail": ...} message the upstream sends on
// failures. A missing or unreadable detail falls back to the generic message.
func (c *Client) upstreamError(status int, body io.Reader, fallback string) error {
	msg := fallback
	var eb errorBody
	if err := json.NewDecoder(body).Decode(&eb); err == nil && eb.Detail != "" {
		msg = eb.Detail
	}
	return &TransportError{Message: msg, Status: status}
}
