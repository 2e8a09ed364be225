package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultTimeout = 60 * time.Second

// Client-side limiter: 50 requests per minute with small bursts, to stay
// inside the deployment's quota.
const (
	defaultRateLimit = 50.0 / 60.0
	defaultBurst     = 5
)

// Config carries the Azure OpenAI connection settings. Values come from the
// process configuration, never from ambient environment reads.
type Config struct {
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
	Timeout    time.Duration
}

// Client is a thin HTTP client for an Azure OpenAI chat-completions
// deployment. It sends a message list and returns the first choice's text.
type Client struct {
	endpoint   string
	apiKey     string
	deployment string
	apiVersion string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("azure endpoint required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("azure API key required")
	}
	if cfg.Deployment == "" {
		return nil, fmt.Errorf("azure deployment name required")
	}
	if cfg.APIVersion == "" {
		return nil, fmt.Errorf("azure API version required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		deployment: cfg.Deployment,
		apiVersion: cfg.APIVersion,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
	}, nil
}

type chatRequest struct {
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Chat sends the messages to the chat-completions endpoint and returns the
// content of the first reply choice. The reply is free text; callers decide
// what to make of it.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	jsonData, err := json.Marshal(chatRequest{Messages: messages})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, c.deployment, c.apiVersion)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completion API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp apiError
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("completion API error (%d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return "", fmt.Errorf("completion API error (%d): %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from completion API")
	}

	return chatResp.Choices[0].Message.Content, nil
}
