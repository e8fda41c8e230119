// Package whatsapp conversa com o microserviço que mantém a sessão do
// WhatsApp Web da loja.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BruksfildServices01/alpha-clean/internal/logging"
)

const apiKeyHeader = "X-API-Key"

type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logging.Logger
}

// APIError é uma resposta não-2xx do microserviço.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp: status %d: %s", e.StatusCode, e.Message)
}

type StatusResponse struct {
	Connected bool   `json:"connected"`
	State     string `json:"state"`
	Phone     string `json:"phone,omitempty"`
}

type QRResponse struct {
	QR        string `json:"qr"`
	Connected bool   `json:"connected"`
}

type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("whatsapp: base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.do(ctx, http.MethodGet, "/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) QR(ctx context.Context) (*QRResponse, error) {
	var out QRResponse
	if err := c.do(ctx, http.MethodGet, "/qr", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Connect(ctx context.Context) (*ActionResponse, error) {
	return c.action(ctx, "/connect", nil)
}

func (c *Client) Disconnect(ctx context.Context) (*ActionResponse, error) {
	return c.action(ctx, "/disconnect", nil)
}

// SendTest envia a mensagem de teste para o número informado.
func (c *Client) SendTest(ctx context.Context, phone string) (*ActionResponse, error) {
	to, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	return c.action(ctx, "/test", map[string]string{
		"phone":   to,
		"message": "Mensagem de teste da Alpha Clean ✅",
	})
}

func (c *Client) Send(ctx context.Context, phone, message string) error {
	to, err := NormalizePhone(phone)
	if err != nil {
		return err
	}
	if strings.TrimSpace(message) == "" {
		return errors.New("whatsapp: empty message")
	}

	res, err := c.action(ctx, "/send", map[string]string{
		"phone":   to,
		"message": message,
	})
	if err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("whatsapp: send rejected: %s", res.Message)
	}
	return nil
}

func (c *Client) action(ctx context.Context, path string, body any) (*ActionResponse, error) {
	var out ActionResponse
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("whatsapp: marshal body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("whatsapp: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("whatsapp request failed", "path", path, "error", err)
		return fmt.Errorf("whatsapp: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("whatsapp: read body: %w", err)
	}

	if resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("whatsapp: decode %s: %w", path, err)
	}
	return nil
}

func errorMessage(data []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(data))
}
