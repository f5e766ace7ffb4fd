package vision

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/thriftshopper/thriftshopper-server/internal/domain"
	"github.com/thriftshopper/thriftshopper-server/internal/ratelimit"
)

const (
	googleProvider = "google"
	googleBaseURL  = "https://vision.googleapis.com"

	googleMaxLabels = 15

	// Labels below this confidence tend to be generic filler
	// ("product", "rectangle") and only dilute the term set.
	googleMinScore = 0.6
)

// GoogleClient extracts image labels using the Google Cloud Vision API.
type GoogleClient struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
	apiKey  string
	baseURL string
}

// NewGoogle creates a Google Cloud Vision client.
func NewGoogle(apiKey string, requestsPerMinute int, logger *slog.Logger) *GoogleClient {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	return &GoogleClient{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: ratelimit.New(float64(requestsPerMinute)/60.0, defaultBurst),
		logger:  logger,
		apiKey:  apiKey,
		baseURL: googleBaseURL,
	}
}

// Name implements Analyzer.
func (c *GoogleClient) Name() string {
	return googleProvider
}

// Close releases resources held by the client.
func (c *GoogleClient) Close() {
	c.limiter.Stop()
}

// SetTimeout overrides the per-request HTTP timeout.
func (c *GoogleClient) SetTimeout(d time.Duration) {
	if d > 0 {
		c.http.Timeout = d
	}
}

type googleRequest struct {
	Requests []googleAnnotateRequest `json:"requests"`
}

type googleAnnotateRequest struct {
	Image    googleImage     `json:"image"`
	Features []googleFeature `json:"features"`
}

type googleImage struct {
	Source googleImageSource `json:"source"`
}

type googleImageSource struct {
	ImageURI string `json:"imageUri"`
}

type googleFeature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

type googleResponse struct {
	Responses []struct {
		LabelAnnotations []struct {
			Description string  `json:"description"`
			Score       float64 `json:"score"`
		} `json:"labelAnnotations"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// Analyze implements Analyzer.
func (c *GoogleClient) Analyze(ctx context.Context, imageURL string) (*Analysis, error) {
	if err := c.limiter.Wait(ctx, googleProvider); err != nil {
		return nil, wrapError("analyze", googleProvider, fmt.Errorf("rate limit wait: %w", err))
	}

	payload := googleRequest{
		Requests: []googleAnnotateRequest{
			{
				Image: googleImage{Source: googleImageSource{ImageURI: imageURL}},
				Features: []googleFeature{
					{Type: "LABEL_DETECTION", MaxResults: googleMaxLabels},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, wrapError("analyze", googleProvider, fmt.Errorf("encode request: %w", err))
	}

	endpoint := c.baseURL + "/v1/images:annotate?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, wrapError("analyze", googleProvider, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("google vision request", "image_url", imageURL)

	respBody, err := c.execute(req)
	if err != nil {
		return nil, wrapError("analyze", googleProvider, err)
	}

	var parsed googleResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, wrapError("analyze", googleProvider, fmt.Errorf("parse response: %w", err))
	}
	if len(parsed.Responses) == 0 {
		return nil, wrapError("analyze", googleProvider, fmt.Errorf("empty response"))
	}
	first := parsed.Responses[0]
	if first.Error != nil {
		return nil, wrapError("analyze", googleProvider,
			fmt.Errorf("annotate error %d: %s", first.Error.Code, first.Error.Message))
	}

	terms := make(domain.StringList, 0, len(first.LabelAnnotations))
	for _, label := range first.LabelAnnotations {
		if label.Score < googleMinScore || label.Description == "" {
			continue
		}
		terms = append(terms, label.Description)
	}

	return &Analysis{
		Provider: googleProvider,
		Terms:    terms,
	}, nil
}

func (c *GoogleClient) execute(req *http.Request) ([]byte, error) {
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
