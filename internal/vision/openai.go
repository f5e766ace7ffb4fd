package vision

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/thriftshopper/thriftshopper-server/internal/domain"
	"github.com/thriftshopper/thriftshopper-server/internal/ratelimit"
)

const (
	openAIProvider = "openai"
	openAIBaseURL  = "https://api.openai.com"
	openAIModel    = "gpt-4o-mini"

	// The model is asked for a flat term list, so a small completion
	// budget is plenty.
	openAIMaxTokens = 200

	defaultTimeout = 20 * time.Second
	defaultBurst   = 3
)

// openAIPrompt asks for terms only. Anything conversational in the
// reply survives ParseStringList as a junk term and simply never
// matches a listing.
const openAIPrompt = "Describe this secondhand marketplace item photo as a comma-separated " +
	"list of short terms covering its decorative style, mood, and who it would " +
	"suit as a gift. Reply with the terms only, no other text."

// OpenAIClient extracts image terms using the OpenAI chat completions API.
type OpenAIClient struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
	apiKey  string
	baseURL string
}

// NewOpenAI creates an OpenAI vision client. requestsPerMinute bounds
// outbound traffic to the provider.
func NewOpenAI(apiKey string, requestsPerMinute int, logger *slog.Logger) *OpenAIClient {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	return &OpenAIClient{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: ratelimit.New(float64(requestsPerMinute)/60.0, defaultBurst),
		logger:  logger,
		apiKey:  apiKey,
		baseURL: openAIBaseURL,
	}
}

// Name implements Analyzer.
func (c *OpenAIClient) Name() string {
	return openAIProvider
}

// Close releases resources held by the client.
func (c *OpenAIClient) Close() {
	c.limiter.Stop()
}

// SetTimeout overrides the per-request HTTP timeout.
func (c *OpenAIClient) SetTimeout(d time.Duration) {
	if d > 0 {
		c.http.Timeout = d
	}
}

type openAIRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []openAIMessage `json:"messages"`
}

type openAIMessage struct {
	Role    string          `json:"role"`
	Content []openAIContent `json:"content"`
}

type openAIContent struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Analyze implements Analyzer.
func (c *OpenAIClient) Analyze(ctx context.Context, imageURL string) (*Analysis, error) {
	if err := c.limiter.Wait(ctx, openAIProvider); err != nil {
		return nil, wrapError("analyze", openAIProvider, fmt.Errorf("rate limit wait: %w", err))
	}

	payload := openAIRequest{
		Model:     openAIModel,
		MaxTokens: openAIMaxTokens,
		Messages: []openAIMessage{
			{
				Role: "user",
				Content: []openAIContent{
					{Type: "text", Text: openAIPrompt},
					{Type: "image_url", ImageURL: &openAIImageURL{URL: imageURL}},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, wrapError("analyze", openAIProvider, fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, wrapError("analyze", openAIProvider, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("openai vision request", "image_url", imageURL)

	respBody, err := c.execute(req)
	if err != nil {
		return nil, wrapError("analyze", openAIProvider, err)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, wrapError("analyze", openAIProvider, fmt.Errorf("parse response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return nil, wrapError("analyze", openAIProvider, fmt.Errorf("empty response"))
	}

	return &Analysis{
		Provider: openAIProvider,
		Terms:    domain.ParseStringList(parsed.Choices[0].Message.Content),
	}, nil
}

// execute runs the request and maps status codes to sentinel errors.
func (c *OpenAIClient) execute(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusBadRequest:
		return nil, ErrBadRequest
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
