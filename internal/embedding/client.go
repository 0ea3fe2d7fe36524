// Package embedding calls an OpenAI-compatible /embeddings endpoint.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	client     *http.Client
	maxRetries int
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		client:     &http.Client{Timeout: timeout},
		maxRetries: 5,
	}
}

type embedReq struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embedResp struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Embed returns the vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, errors.New("embedding: unexpected batch size in response")
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in one request, preserving input order.
// 429 and 5xx responses are retried with exponential backoff, honoring
// Retry-After when the server sends one.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embedReq{Input: texts, Model: c.model})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/embeddings", c.baseURL)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay(attempt - 1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil {
					select {
					case <-ctx.Done():
						_ = resp.Body.Close()
						return nil, ctx.Err()
					case <-time.After(time.Duration(secs) * time.Second):
					}
				}
			}
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("embedding: %s", resp.Status)
			continue
		}

		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("embedding: %s: %s", resp.Status, bytes.TrimSpace(payload))
		}

		var decoded embedResp
		if err := json.Unmarshal(payload, &decoded); err != nil {
			return nil, err
		}
		if decoded.Error != nil && decoded.Error.Message != "" {
			return nil, errors.New(decoded.Error.Message)
		}
		if len(decoded.Data) != len(texts) {
			return nil, fmt.Errorf("embedding: got %d vectors for %d inputs", len(decoded.Data), len(texts))
		}

		out := make([][]float32, len(texts))
		for _, d := range decoded.Data {
			if d.Index < 0 || d.Index >= len(out) {
				return nil, fmt.Errorf("embedding: index %d out of range", d.Index)
			}
			out[d.Index] = d.Embedding
		}
		return out, nil
	}
	return nil, lastErr
}

func retryDelay(attempt int) time.Duration {
	base := 200 * time.Millisecond
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
