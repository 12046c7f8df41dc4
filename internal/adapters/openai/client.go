// Package openai implements the session analyzer over the OpenAI Responses
// API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/handora/gamesapi/internal/ports"
)

const systemPrompt = "You are a hand-rehabilitation coach reviewing gameplay telemetry " +
	"from a therapy mini-game. Summarize the player's performance in two or three " +
	"plain, encouraging sentences. Do not invent numbers that are not in the metrics."

// Config configures the OpenAI analyzer. APIKey may be empty, in which case
// every call fails with ports.ErrNotConfigured.
type Config struct {
	APIKey       string
	Model        string
	ResponsesURL string
	Timeout      time.Duration
	HTTPClient   *http.Client
}

// Client calls the OpenAI Responses API.
type Client struct {
	cfg Config
}

// NewClient builds an analyzer client, filling in endpoint and transport
// defaults.
func NewClient(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if strings.TrimSpace(cfg.ResponsesURL) == "" {
		cfg.ResponsesURL = "https://api.openai.com/v1/responses"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{cfg: cfg}
}

// Analyze performs one blocking text-completion round trip. The call is
// bounded by the configured timeout regardless of the caller's context.
func (c *Client) Analyze(ctx context.Context, prompt string, metrics map[string]float64) (string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", ports.ErrNotConfigured
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("prompt is required")
	}

	input := systemPrompt + "\n\n" + prompt
	if len(metrics) > 0 {
		encoded, err := json.Marshal(metrics)
		if err != nil {
			return "", fmt.Errorf("marshal metrics: %w", err)
		}
		input += "\n\nSession metrics: " + string(encoded)
	}

	requestBody, err := json.Marshal(map[string]any{
		"model": c.cfg.Model,
		"input": input,
	})
	if err != nil {
		return "", fmt.Errorf("marshal analyze request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ResponsesURL, bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Credential material is sent only as an Authorization header and is
	// never echoed in errors or response payloads.
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("analyze request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, err := io.ReadAll(io.LimitReader(res.Body, 4096))
		if err != nil {
			return "", fmt.Errorf("read analyze error body: %w", err)
		}
		return "", fmt.Errorf("analyze request status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		OutputText string `json:"output_text"`
		Output     []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode analyze response: %w", err)
	}

	outputText := strings.TrimSpace(payload.OutputText)
	if outputText == "" {
		for _, item := range payload.Output {
			for _, content := range item.Content {
				if text := strings.TrimSpace(content.Text); text != "" {
					outputText = text
					break
				}
			}
			if outputText != "" {
				break
			}
		}
	}
	if outputText == "" {
		return "", fmt.Errorf("analyze response missing output text")
	}
	return outputText, nil
}
