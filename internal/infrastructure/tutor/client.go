package tutor

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
)

// Классы ошибок провайдера. Оркестратор чата подбирает по ним фолбэк-ответ.
var (
	ErrNoProviders   = errors.New("no providers configured")
	ErrExhausted     = errors.New("all providers exhausted")
	ErrQuotaExceeded = errors.New("insufficient_quota")
	ErrTimeout       = errors.New("provider timeout")
)

type Message struct {
	Role    string `json:"role"` // system / user / assistant
	Content string `json:"content"`
}

// Provider — внешний AI-учитель: упорядоченные сообщения на входе, текст на выходе.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoProviders
	}

	bodyBytes, err := json.Marshal(chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewBuffer(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Таймаут клиента или контекста считаем восстановимым
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode >= 400 {
		return "", classifyStatus(resp.StatusCode, raw)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrExhausted)
	}

	return parsed.Choices[0].Message.Content, nil
}

func classifyStatus(status int, body []byte) error {
	text := string(body)

	switch {
	case strings.Contains(text, "insufficient_quota"):
		return fmt.Errorf("%w: status=%d", ErrQuotaExceeded, status)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: status=%d", ErrExhausted, status)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status=%d", ErrQuotaExceeded, status)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: status=%d", ErrTimeout, status)
	}
	return fmt.Errorf("provider error: status=%d body=%s", status, text)
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
