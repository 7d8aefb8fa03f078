// Package ark talks to the Volcengine Ark content generation API: synchronous
// image generation and the asynchronous video task endpoints.
package ark

import (
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime"
)

const defaultTimeout = 60 * time.Second

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client is cheap to build; the tool handlers create one per call.
type Client struct {
	baseURL string
	http    *resty.Client
	images  *arkruntime.Client
}

// NewClient fails with ErrMissingCredential before any request is made when
// the API key is empty.
func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "doubao-mcp").
		SetTimeout(timeout)

	images := arkruntime.NewClientWithApiKey(
		apiKey,
		arkruntime.WithBaseUrl(baseURL),
		arkruntime.WithTimeout(timeout),
		arkruntime.WithRetryTimes(0),
	)

	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		images:  images,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}
