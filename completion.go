package main

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

// errMissingAPIKey aborts a request before anything is sent; the user is
// pointed at the settings command instead.
var errMissingAPIKey = errors.New("no API key configured: run `redline settings -api-key <key>` first")

// transportError covers network and non-2xx HTTP failures.
type transportError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *transportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("completion request failed: %s", e.Status)
	}
	return fmt.Sprintf("completion request failed: %d %s", e.StatusCode, e.Status)
}

// envelopeError covers a response that decoded as JSON but is missing the
// expected choices/message/content shape.
type envelopeError struct {
	Reason string
}

func (e *envelopeError) Error() string {
	return "invalid completion response: " + e.Reason
}

// parseError covers assistant content that could not be turned into diff
// segments.
type parseError struct {
	Reason string
}

func (e *parseError) Error() string {
	return "failed to parse diff segments: " + e.Reason
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string        `json:"model"`
	Stream   bool          `json:"stream"`
	Messages []chatMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// completionClient talks to an OpenAI-compatible chat-completions endpoint.
type completionClient struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

func newCompletionClient(baseURL, model, apiKey string, timeout time.Duration) *completionClient {
	if timeout <= 0 {
		timeout = 35 * time.Second
	}
	return &completionClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Complete sends the messages and returns the raw assistant content.
func (c *completionClient) Complete(ctx context.Context, messages []chatMessage) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", errMissingAPIKey
	}
	body, err := json.Marshal(completionRequest{
		Model:    c.model,
		Stream:   false,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &transportError{Status: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", &transportError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       strings.TrimSpace(string(detail)),
		}
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &envelopeError{Reason: err.Error()}
	}
	if len(parsed.Choices) == 0 {
		return "", &envelopeError{Reason: "no choices in response"}
	}
	content := parsed.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", &envelopeError{Reason: "empty message content"}
	}
	return content, nil
}

// RequestEdit runs one completion round and decodes the diff segments.
func (c *completionClient) RequestEdit(ctx context.Context, messages []chatMessage) ([]segment, error) {
	content, err := c.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}
	return decodeSegments(content)
}

// userErrorMessage maps an error from a completion round to the status line
// string shown to the user. Each failure class reads differently so the user
// can tell a flaky network from a misbehaving model.
func userErrorMessage(err error) string {
	var tErr *transportError
	var eErr *envelopeError
	var pErr *parseError
	switch {
	case errors.Is(err, errMissingAPIKey):
		return err.Error()
	case errors.As(err, &tErr):
		return "Error: " + tErr.Error()
	case errors.As(err, &eErr):
		return "Error: " + eErr.Error()
	case errors.As(err, &pErr):
		return "Error: " + pErr.Error()
	default:
		return "Error: " + err.Error()
	}
}
