// Package openai implements llm.Client using the OpenAI Chat Completions
// API in streaming mode.
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/termchat/termchat/llm"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	doneSentinel   = "[DONE]"
)

// Client implements llm.Client over the chat/completions endpoint.
// No timeout is set on the HTTP client: a streaming response stays open for
// as long as the provider keeps generating, and cancellation happens
// through the request context.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// New creates a client authenticated with the given bearer credential.
func New(apiKey string, logger zerolog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{},
		logger:  logger,
	}
}

// WithBaseURL points the client at an alternate endpoint, e.g. a test
// server or an OpenAI-compatible proxy.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// StreamChat opens one streaming completion request. The returned stream
// must be drained or closed by the caller.
func (c *Client) StreamChat(ctx context.Context, req llm.Request) (llm.Stream, error) {
	body, err := json.Marshal(chatRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      true,
	})
	if err != nil {
		return nil, &llm.Error{Kind: llm.KindMalformed, Op: "openai: encode request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, &llm.Error{Kind: llm.KindNetwork, Op: "openai: build request", Err: err}
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("X-Request-Id", requestID)

	c.logger.Debug().
		Str("request_id", requestID).
		Str("model", req.Model).
		Int("messages", len(req.Messages)).
		Msg("opening completion stream")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &llm.Error{Kind: llm.KindNetwork, Op: "openai: send request", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		kind := llm.KindNetwork
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = llm.KindAuthentication
		case http.StatusTooManyRequests:
			kind = llm.KindRateLimited
		}
		return nil, &llm.Error{
			Kind: kind,
			Op:   "openai: completion",
			Err:  fmt.Errorf("status %d (request %s): %s", resp.StatusCode, requestID, bytes.TrimSpace(detail)),
		}
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &stream{body: resp.Body, scanner: scanner, logger: c.logger}, nil
}

// stream decodes server-sent events into text fragments. It is forward-only
// and not restartable once exhausted.
type stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	logger  zerolog.Logger
	text    string
	err     error
	done    bool
}

func (s *stream) Next() bool {
	if s.done {
		return false
	}
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == doneSentinel {
			s.done = true
			return false
		}
		s.text = s.extractDelta(payload)
		return true
	}
	s.done = true
	if err := s.scanner.Err(); err != nil {
		s.err = &llm.Error{Kind: llm.KindNetwork, Op: "openai: read stream", Err: err}
	}
	return false
}

// extractDelta pulls choices[0].delta.content out of one event. A chunk
// that fails to decode, or that carries no delta, degrades to an empty
// fragment: one bad chunk must not abort the whole turn.
func (s *stream) extractDelta(payload string) string {
	var chunk chatChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		s.logger.Debug().Err(err).Msg("skipping undecodable stream chunk")
		return ""
	}
	if len(chunk.Choices) == 0 {
		return ""
	}
	return chunk.Choices[0].Delta.Content
}

func (s *stream) Text() string { return s.text }

func (s *stream) Err() error { return s.err }

func (s *stream) Close() error { return s.body.Close() }
